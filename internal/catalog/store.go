package catalog

import (
	"errors"
	"sync"
)

// ErrEmptyCatalog flags a view whose last load failed before any data arrived.
var ErrEmptyCatalog = errors.New("catalog: no products loaded")

// Store holds the product list for the currently active supplier view.
//
// The original storefront ran this state on a single UI thread; here every
// mutation goes through one mutex so renders always observe a completed
// replace. The stale-response guard lives in Replace: a load result is applied
// only when its view still matches the active view at completion time, which
// makes "last matching filter wins" hold regardless of response arrival order.
type Store struct {
	mu       sync.Mutex
	active   Supplier
	products []Product
	loadedBy Supplier
	loaded   bool
	visible  int
	pageSize int
	lastErr  error
}

// NewStore builds a Store starting on the first-party view.
func NewStore(pageSize int) *Store {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Store{active: SupplierFirstParty, pageSize: pageSize, visible: pageSize}
}

// DefaultPageSize matches the storefront's render batch size.
const DefaultPageSize = 50

// ActivateView switches the active supplier view. When the cached list was
// loaded for a different view the list is reported stale so the caller can
// trigger a load.
func (s *Store) ActivateView(view Supplier) (cached bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = view
	return s.loaded && s.loadedBy == view && len(s.products) > 0
}

// ActiveView returns the currently active supplier view.
func (s *Store) ActiveView() Supplier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Replace installs a freshly loaded, already deduplicated product list for
// view. The list is discarded when the view no longer matches the active one,
// except on the very first first-party load: racing an empty cache, that data
// is always better than nothing. Reports whether the list was applied.
func (s *Store) Replace(view Supplier, products []Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	firstLoad := !s.loaded && view == SupplierFirstParty && len(products) > 0
	if view != s.active && !firstLoad {
		return false
	}
	s.products = products
	s.loaded = true
	s.loadedBy = view
	s.visible = s.pageSize
	s.lastErr = nil
	return true
}

// Fail records a load failure for view. Previously loaded data survives; the
// error is only surfaced while the matching view is active.
func (s *Store) Fail(view Supplier, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if view != s.active {
		return
	}
	s.lastErr = err
}

// Err returns the last load error for the active view, joined with
// ErrEmptyCatalog when the failure left the view without any data.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil {
		return nil
	}
	if len(s.products) == 0 {
		return errors.Join(ErrEmptyCatalog, s.lastErr)
	}
	return s.lastErr
}

// Products returns a copy of the current product list.
func (s *Store) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Page returns the visible slice for rendering plus whether more remain.
func (s *Store) Page() ([]Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	visible, hasMore := Paginate(s.products, s.visible)
	out := make([]Product, len(visible))
	copy(out, visible)
	return out, hasMore
}

// LoadMore grows the visible window by one page and returns the new count.
func (s *Store) LoadMore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible += s.pageSize
	return s.visible
}

// EnsureVisible force-extends the visible window to include the deep-linked
// product, so a fresh render cannot push it out of the page. Returns the
// product's index, or -1 when it is not in the list.
func (s *Store) EnsureVisible(token string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := FindByIDOrCode(s.products, token)
	if idx >= 0 && idx >= s.visible {
		s.visible = idx + 1
	}
	return idx
}

// Merge installs a single product fetched out of band (deep link or cart
// coverage). A record with the same id is replaced in place so a refetch can
// upgrade it; otherwise the product is appended. Never duplicates.
func (s *Store) Merge(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.products {
		if existing.ID == p.ID {
			s.products[i] = p
			return
		}
	}
	s.products = append(s.products, p)
}

// Find looks the token up in the cached list without touching visibility.
func (s *Store) Find(token string) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := FindByIDOrCode(s.products, token); idx >= 0 {
		return s.products[idx], true
	}
	return Product{}, false
}
