package shared

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.Spanish)

// FormatMoney renders an amount the way the storefront shows prices, with a
// dollar sign and two decimals.
func FormatMoney(amount float64) string {
	return moneyPrinter.Sprintf("$%.2f", amount)
}
