package cart

import (
	"math"

	"github.com/Cristian668/VentaX/internal/catalog"
	"github.com/Cristian668/VentaX/internal/pricing"
)

// Reconcile joins stored cart lines with the given catalog products. Lines
// whose product is missing are not dropped: a stub product is synthesised
// from the line's own stored name and price so the cart always renders every
// line the shopper added.
func Reconcile(lines []Line, products []catalog.Product) []ResolvedLine {
	resolved := make([]ResolvedLine, 0, len(lines))
	for _, line := range lines {
		idx := catalog.FindByIDOrCode(products, line.ProductID)
		if idx < 0 {
			resolved = append(resolved, stubLine(line))
			continue
		}
		p := products[idx]
		unit := pricing.ResolveUnitPrice(p.Tiers(), line.Quantity)
		resolved = append(resolved, ResolvedLine{
			Line:      line,
			Product:   p,
			Source:    SourceCatalog,
			UnitPrice: unit,
			LineTotal: round2(unit * float64(line.Quantity)),
		})
	}
	return resolved
}

// stubLine builds a renderable line from the stored fields alone. The price
// snapshot taken at add time stands in for the whole tier ladder.
func stubLine(line Line) ResolvedLine {
	stub := catalog.Product{
		ID:    catalog.ID(line.ProductID),
		Name:  line.Name,
		Price: line.Price,
	}
	unit := pricing.ResolveUnitPrice(stub.Tiers(), line.Quantity)
	return ResolvedLine{
		Line:      line,
		Product:   stub,
		Source:    SourceStub,
		UnitPrice: unit,
		LineTotal: round2(unit * float64(line.Quantity)),
	}
}

// Summarize totals the resolved lines and applies the flat shipping cost.
// Shipping is charged only when the cart has at least one line.
func Summarize(lines []ResolvedLine, shipping float64) Summary {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}
	if len(lines) == 0 {
		shipping = 0
	}
	subtotal = round2(subtotal)
	return Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    round2(subtotal + shipping),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
