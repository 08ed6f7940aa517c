// Package pricing resolves the unit price of a product from its quantity tiers.
package pricing

import "math"

// Tiers holds the three optional price points of a product. A tier is offered
// when its value is greater than zero; zero or absent means "not offered".
type Tiers struct {
	Unit      float64
	Wholesale float64
	Bulk      float64
}

// Quantity breakpoints: 1-2 unit, 3-11 wholesale, 12+ bulk.
const (
	unitMaxQty      = 2
	wholesaleMaxQty = 11
)

// Active reports how many tiers are offered.
func (t Tiers) Active() int {
	t = t.sanitized()
	n := 0
	if t.Unit > 0 {
		n++
	}
	if t.Wholesale > 0 {
		n++
	}
	if t.Bulk > 0 {
		n++
	}
	return n
}

// sanitized coerces malformed tier values (NaN, Inf, negative) to zero so the
// ladder below only ever sees 0 or a positive price.
func (t Tiers) sanitized() Tiers {
	return Tiers{Unit: sanitize(t.Unit), Wholesale: sanitize(t.Wholesale), Bulk: sanitize(t.Bulk)}
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ResolveUnitPrice returns the unit price for the given purchase quantity.
//
// With all three tiers (or any two except unit+bulk): 1-2 unit, 3-11 wholesale,
// 12+ bulk, each falling back to the next offered tier. With only unit and bulk
// offered (no wholesale) the unit price holds through quantity 11 and bulk
// applies from 12. A single offered tier applies to every quantity, and zero
// offered tiers yield 0 ("price on request"). Never fails.
func ResolveUnitPrice(t Tiers, quantity int) float64 {
	t = t.sanitized()
	hasUnit := t.Unit > 0
	hasWholesale := t.Wholesale > 0
	hasBulk := t.Bulk > 0

	count := t.Active()
	if count == 0 {
		return 0
	}
	if count == 1 {
		return firstNonZero(t.Unit, t.Wholesale, t.Bulk)
	}

	skipWholesale := count == 2 && hasUnit && hasBulk && !hasWholesale

	if quantity <= unitMaxQty {
		if hasUnit {
			return t.Unit
		}
		return firstNonZero(t.Wholesale, t.Bulk)
	}
	if skipWholesale && quantity <= wholesaleMaxQty {
		return t.Unit
	}
	if quantity <= wholesaleMaxQty {
		return firstNonZero(t.Wholesale, t.Bulk, t.Unit)
	}
	if skipWholesale {
		return firstNonZero(t.Bulk, t.Unit)
	}
	return firstNonZero(t.Bulk, t.Wholesale, t.Unit)
}

func firstNonZero(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
