package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Cristian668/VentaX/internal/cart"
	"github.com/Cristian668/VentaX/internal/shared"
)

// CartPort is the slice of the cart the checkout needs.
type CartPort interface {
	Get(ctx context.Context, sessionID string) (cart.View, error)
	Clear(ctx context.Context, sessionID string) error
}

// Store abstracts order persistence so the service can be tested without a
// database.
type Store interface {
	Create(ctx context.Context, order Order) error
	ListBySession(ctx context.Context, sessionID string) ([]Order, error)
	GetBySessionAndID(ctx context.Context, sessionID, id string) (Order, error)
}

// Enqueuer schedules background work after a checkout. A nil enqueuer
// disables background sync.
type Enqueuer interface {
	EnqueueOrderSync(ctx context.Context, orderID string) error
}

// IdempotencyGuard deduplicates checkout submissions. A nil guard disables
// the check.
type IdempotencyGuard interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

const idempotencyModule = "checkout"

// Service implements checkout and order history.
type Service struct {
	store    Store
	carts    CartPort
	enqueuer Enqueuer
	idem     IdempotencyGuard
	logger   *slog.Logger
}

// NewService constructs the orders service.
func NewService(store Store, carts CartPort, enqueuer Enqueuer, idem IdempotencyGuard, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, carts: carts, enqueuer: enqueuer, idem: idem, logger: logger}
}

// Checkout turns the session cart into a recorded order. The client-computed
// subtotal and total from the request are persisted verbatim; the server does
// not recompute them at this boundary.
func (s *Service) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (Order, error) {
	if s.idem != nil && req.RequestID != "" {
		if err := s.idem.CheckAndInsert(ctx, req.RequestID, idempotencyModule); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				return Order{}, ErrDuplicateCheckout
			}
			return Order{}, fmt.Errorf("idempotency check: %w", err)
		}
	}

	view, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return Order{}, fmt.Errorf("load cart: %w", err)
	}
	if len(view.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	lines := make([]OrderLine, 0, len(view.Items))
	for _, item := range view.Items {
		lines = append(lines, OrderLine{
			ProductID: item.ProductID,
			Name:      item.DisplayName(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}

	id := uuid.New()
	order := Order{
		ID:        id,
		Code:      orderCode(id),
		SessionID: sessionID,
		Customer:  req.Customer,
		Lines:     lines,
		Subtotal:  req.Subtotal,
		Shipping:  view.Summary.Shipping,
		Total:     req.Total,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Create(ctx, order); err != nil {
		if s.idem != nil && req.RequestID != "" {
			_ = s.idem.Delete(ctx, req.RequestID)
		}
		return Order{}, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// the order is already recorded; a lingering cart is recoverable
		s.logger.Warn("clear cart after checkout", slog.String("order", order.Code), slog.Any("error", err))
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueOrderSync(ctx, order.ID.String()); err != nil {
			s.logger.Warn("enqueue order sync", slog.String("order", order.Code), slog.Any("error", err))
		}
	}

	s.logger.Info("order recorded",
		slog.String("order", order.Code),
		slog.Int("lines", len(order.Lines)),
		slog.Float64("total", order.Total))
	return order, nil
}

// List returns the session's order history.
func (s *Service) List(ctx context.Context, sessionID string) ([]Order, error) {
	return s.store.ListBySession(ctx, sessionID)
}

// Get fetches one order by id or code, scoped to the session.
func (s *Service) Get(ctx context.Context, sessionID, id string) (Order, error) {
	return s.store.GetBySessionAndID(ctx, sessionID, id)
}

func orderCode(id uuid.UUID) string {
	short := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))[:8]
	return "ORD-" + short
}
