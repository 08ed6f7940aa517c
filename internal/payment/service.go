// Package payment exposes the manual bank-transfer instructions the
// storefront shows after checkout.
package payment

// BankAccount describes one account a shopper can transfer to.
type BankAccount struct {
	Bank        string `json:"bank"`
	AccountType string `json:"account_type"`
	Number      string `json:"number"`
	Holder      string `json:"holder"`
	HolderID    string `json:"holder_id"`
}

// Info is the full payment instruction block.
type Info struct {
	Accounts       []BankAccount `json:"accounts"`
	ContactChannel string        `json:"contact_channel"`
	Instructions   string        `json:"instructions"`
}

// Service serves configured payment instructions. Payment itself is manual:
// the shopper transfers and sends the receipt over the contact channel.
type Service struct {
	info Info
}

// NewService constructs the payment service from configuration.
func NewService(info Info) *Service {
	if info.Instructions == "" {
		info.Instructions = "Realice la transferencia y envie el comprobante por el canal de contacto junto con su numero de pedido"
	}
	return &Service{info: info}
}

// Info returns the payment instruction block.
func (s *Service) Info() Info {
	return s.info
}
