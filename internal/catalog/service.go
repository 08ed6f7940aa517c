package catalog

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"
)

// UpstreamPort abstracts the product API collaborator.
type UpstreamPort interface {
	ListProducts(ctx context.Context, view Supplier, limit int) ([]Product, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]Product, error)
	GetProduct(ctx context.Context, token string) (Product, error)
}

// DefaultListLimit matches the storefront's upstream listing limit.
const DefaultListLimit = 500

// Service coordinates catalog loads, deep-link resolution and search.
type Service struct {
	upstream UpstreamPort
	store    *Store
	snapshot *Snapshot
	logger   *slog.Logger
	limit    int
	single   singleflight.Group
}

// NewService builds the catalog Service.
func NewService(upstream UpstreamPort, store *Store, snapshot *Snapshot, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{upstream: upstream, store: store, snapshot: snapshot, logger: logger, limit: DefaultListLimit}
}

// Store exposes the underlying view state for handlers.
func (s *Service) Store() *Store { return s.store }

// SwitchView activates a supplier view, loading it when nothing usable is
// cached. A cached list is rendered as-is; the caller may refresh later.
func (s *Service) SwitchView(ctx context.Context, view Supplier) error {
	if cached := s.store.ActivateView(view); cached {
		return nil
	}
	return s.Load(ctx, view)
}

// Load fetches the listing for view, dedupes it and installs it through the
// stale-response guard. Failures keep previous data and mark the error flag.
func (s *Service) Load(ctx context.Context, view Supplier) error {
	products, err := s.snapshot.Fetch(ctx, view, func(ctx context.Context) ([]Product, error) {
		return s.upstream.ListProducts(ctx, view, s.limit)
	})
	if err != nil {
		s.logger.Warn("catalog load failed",
			slog.String("view", view.String()),
			slog.Any("error", err))
		s.store.Fail(view, err)
		return err
	}
	deduped := Dedupe(products)
	if len(deduped) != len(products) {
		s.logger.Info("catalog dedupe collapsed variants",
			slog.Int("before", len(products)),
			slog.Int("after", len(deduped)))
	}
	if !s.store.Replace(view, deduped) {
		s.logger.Info("catalog load discarded, view changed mid-flight",
			slog.String("loaded", view.String()),
			slog.String("active", s.store.ActiveView().String()))
	}
	return nil
}

// Products returns the full cached list for the active view.
func (s *Service) Products() []Product { return s.store.Products() }

// Resolve finds a product for a deep-link token: cached list first, then one
// singleflighted upstream fetch merged into the cache, then a normalized
// substring match against what is already local.
func (s *Service) Resolve(ctx context.Context, token string) (Product, error) {
	token = strings.TrimSpace(token)
	if idx := s.store.EnsureVisible(token); idx >= 0 {
		p, _ := s.store.Find(token)
		return p, nil
	}

	fetched, err, _ := s.single.Do(NormalizeKey(token), func() (any, error) {
		return s.upstream.GetProduct(ctx, token)
	})
	if err == nil {
		product := fetched.(Product)
		s.store.Merge(product)
		s.store.EnsureVisible(token)
		return product, nil
	}
	s.logger.Warn("deep link fetch failed",
		slog.String("token", token),
		slog.Any("error", err))

	if p, ok := s.substringMatch(token); ok {
		return p, nil
	}
	return Product{}, err
}

// Ensure guarantees the cache holds a usable record for token, for cart
// coverage: a cached product with a real image is returned as-is, anything
// missing or carrying only a placeholder image is refetched upstream and the
// result replaces the cached record.
func (s *Service) Ensure(ctx context.Context, token string) (Product, error) {
	token = strings.TrimSpace(token)
	if p, ok := s.store.Find(token); ok && p.HasUsableImage() {
		return p, nil
	}

	fetched, err, _ := s.single.Do(NormalizeKey(token), func() (any, error) {
		return s.upstream.GetProduct(ctx, token)
	})
	if err != nil {
		// a stale local record still renders; the caller decides what a
		// failed upgrade means
		return Product{}, err
	}
	product := fetched.(Product)
	s.store.Merge(product)
	return product, nil
}

// Warm refreshes the Redis snapshot for view from upstream without touching
// the in-memory view state, so a background refresh can never clobber what a
// shopper is looking at.
func (s *Service) Warm(ctx context.Context, view Supplier) error {
	products, err := s.upstream.ListProducts(ctx, view, s.limit)
	if err != nil {
		return err
	}
	return s.snapshot.Refresh(ctx, view, Dedupe(products))
}

// Search queries both supplier views upstream. Results are deduplicated and
// never installed into the view store, so a slow search cannot clobber the
// rendered listing.
func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	products, err := s.upstream.SearchProducts(ctx, query, s.limit)
	if err != nil {
		return nil, err
	}
	return Dedupe(products), nil
}

func (s *Service) substringMatch(token string) (Product, bool) {
	norm := NormalizeKey(token)
	if norm == "" {
		return Product{}, false
	}
	for _, p := range s.store.Products() {
		if strings.Contains(NormalizeKey(p.ProductCode), norm) || strings.Contains(NormalizeKey(string(p.ID)), norm) {
			return p, true
		}
	}
	return Product{}, false
}
