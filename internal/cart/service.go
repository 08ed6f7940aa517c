package cart

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Cristian668/VentaX/internal/catalog"
)

// CatalogPort is the slice of the catalog the cart needs: the cached product
// list plus on-demand resolution of products the cache does not hold.
type CatalogPort interface {
	Products() []catalog.Product
	Ensure(ctx context.Context, token string) (catalog.Product, error)
}

// Service implements cart operations on top of the Redis repository and the
// catalog.
type Service struct {
	repo     *Repository
	catalog  CatalogPort
	shipping float64
	logger   *slog.Logger
}

// NewService constructs the cart service. shipping is the flat shipping cost
// applied to every non-empty cart.
func NewService(repo *Repository, cat CatalogPort, shipping float64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, catalog: cat, shipping: shipping, logger: logger}
}

// AddItem is one add/update request. Price and Name are optional snapshots
// stored with the line.
type AddItem struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1,max=999"`
	Price     float64 `json:"price,omitempty"`
	Name      string  `json:"name,omitempty"`
}

// Add merges the item into the session cart. An existing line for the same
// product accumulates quantity, capped at the maximum.
func (s *Service) Add(ctx context.Context, sessionID string, item AddItem) (View, error) {
	if strings.TrimSpace(item.ProductID) == "" {
		return View{}, ErrInvalidProduct
	}
	if item.Quantity < MinQuantity || item.Quantity > MaxQuantity {
		return View{}, ErrInvalidQuantity
	}
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}

	merged := false
	for i := range lines {
		if lines[i].ProductID == item.ProductID {
			lines[i].Quantity = clampQuantity(lines[i].Quantity + item.Quantity)
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, Line{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Name:      item.Name,
		})
	}
	if err := s.repo.Save(ctx, sessionID, lines); err != nil {
		return View{}, err
	}
	return s.render(lines), nil
}

// Update sets the quantity of an existing line. Quantity zero removes it.
func (s *Service) Update(ctx context.Context, sessionID, productID string, quantity int) (View, error) {
	if quantity == 0 {
		return s.Remove(ctx, sessionID, productID)
	}
	if quantity < MinQuantity || quantity > MaxQuantity {
		return View{}, ErrInvalidQuantity
	}
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return View{}, fmt.Errorf("cart: product %s not in cart", productID)
	}
	if err := s.repo.Save(ctx, sessionID, lines); err != nil {
		return View{}, err
	}
	return s.render(lines), nil
}

// Remove deletes a line from the session cart.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) (View, error) {
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	kept := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	if err := s.repo.Save(ctx, sessionID, kept); err != nil {
		return View{}, err
	}
	return s.render(kept), nil
}

// Clear empties the session cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.repo.Clear(ctx, sessionID)
}

// Get returns the renderable cart for a session, pulling missing products
// from the catalog first.
func (s *Service) Get(ctx context.Context, sessionID string) (View, error) {
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	s.ensureCoverage(ctx, lines)
	return s.render(lines), nil
}

// Lines returns the raw stored lines, for checkout.
func (s *Service) Lines(ctx context.Context, sessionID string) ([]Line, error) {
	return s.repo.Load(ctx, sessionID)
}

// Shipping exposes the configured flat shipping cost.
func (s *Service) Shipping() float64 {
	return s.shipping
}

// ensureCoverage resolves each cart product the catalog cache is missing or
// holds only with a placeholder image. A failed fetch downgrades just that
// one line (to a stub, or to the stale record); the rest of the cart is
// unaffected.
func (s *Service) ensureCoverage(ctx context.Context, lines []Line) {
	products := s.catalog.Products()
	for _, line := range lines {
		if idx := catalog.FindByIDOrCode(products, line.ProductID); idx >= 0 && products[idx].HasUsableImage() {
			continue
		}
		if _, err := s.catalog.Ensure(ctx, line.ProductID); err != nil {
			s.logger.Warn("cart product not resolvable",
				slog.String("product_id", line.ProductID), slog.Any("error", err))
		}
	}
}

func (s *Service) render(lines []Line) View {
	resolved := Reconcile(lines, s.catalog.Products())
	count := 0
	for _, line := range resolved {
		count += line.Quantity
	}
	return View{
		Items:   resolved,
		Summary: Summarize(resolved, s.shipping),
		Count:   count,
	}
}

func clampQuantity(q int) int {
	if q > MaxQuantity {
		return MaxQuantity
	}
	if q < MinQuantity {
		return MinQuantity
	}
	return q
}
