// Package cart holds the server-side session cart and reconciles it with the
// product catalog for rendering and checkout.
package cart

import (
	"errors"

	"github.com/Cristian668/VentaX/internal/catalog"
)

// Quantity bounds for a single cart line.
const (
	MinQuantity = 1
	MaxQuantity = 999
)

var (
	// ErrInvalidQuantity indicates a quantity outside 1-999.
	ErrInvalidQuantity = errors.New("cart: quantity must be between 1 and 999")
	// ErrInvalidProduct indicates a missing product id.
	ErrInvalidProduct = errors.New("cart: product id required")
	// ErrEmpty indicates an operation that needs a non-empty cart.
	ErrEmpty = errors.New("cart: cart is empty")
)

// Line is one cart entry as stored server-side. Price is an optional snapshot
// of the tier price at add time, persisted verbatim; Name survives so the
// line can still render when the product vanishes from the catalog.
type Line struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price,omitempty"`
	Name      string  `json:"name,omitempty"`
}

// LineSource tags where a resolved line's product data came from.
type LineSource int

const (
	// SourceCatalog means the product was found in the catalog cache.
	SourceCatalog LineSource = iota
	// SourceStub means the product was synthesised from the line's own
	// stored fields because no catalog record was available.
	SourceStub
)

// ResolvedLine is a cart line joined with its product and tier price,
// ready to render.
type ResolvedLine struct {
	Line
	Product   catalog.Product `json:"product"`
	Source    LineSource      `json:"-"`
	UnitPrice float64         `json:"unit_price"`
	LineTotal float64         `json:"line_total"`
}

// DisplayName resolves the line's name regardless of source variant.
func (l ResolvedLine) DisplayName() string {
	if l.Product.Name != "" {
		return l.Product.Name
	}
	if l.Name != "" {
		return l.Name
	}
	return "Producto desconocido"
}

// Summary is the order total block shown in the cart and sent to checkout.
type Summary struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// View is the full renderable cart state.
type View struct {
	Items   []ResolvedLine `json:"items"`
	Summary Summary        `json:"summary"`
	Count   int            `json:"count"`
}
