package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Cristian668/VentaX/internal/orders"
	"github.com/Cristian668/VentaX/internal/platform/httpx"
	"github.com/Cristian668/VentaX/internal/shared"
)

const (
	pendingSweepLimit = 100
	idemRetention     = 72 * time.Hour
)

// OrderStore is the slice of order persistence the sync job needs.
type OrderStore interface {
	GetByID(ctx context.Context, id string) (orders.Order, error)
	ListPending(ctx context.Context, limit int) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, id string, status orders.OrderStatus) error
}

// OrderStatusSource reports the status an order carries on the upstream
// store, where operators confirm or reject manual payments.
type OrderStatusSource interface {
	GetOrderStatus(ctx context.Context, code string) (string, error)
}

// OrderSyncer reconciles locally stored orders against the upstream mirror:
// a pending order whose payment an operator settled upstream is advanced
// here, so the shopper's history reflects it without a manual update.
type OrderSyncer struct {
	store  OrderStore
	source OrderStatusSource
	idem   *shared.IdempotencyStore
	logger *slog.Logger
}

// NewOrderSyncer constructs the order sync handler.
func NewOrderSyncer(store OrderStore, logger *slog.Logger) *OrderSyncer {
	return &OrderSyncer{store: store, logger: logger}
}

// WithStatusSource enables status reconciliation against the upstream store.
func (o *OrderSyncer) WithStatusSource(source OrderStatusSource) *OrderSyncer {
	o.source = source
	return o
}

// WithIdempotencyStore enables expired-key cleanup during sweeps.
func (o *OrderSyncer) WithIdempotencyStore(idem *shared.IdempotencyStore) *OrderSyncer {
	o.idem = idem
	return o
}

// Handle processes TaskOrderSync tasks.
func (o *OrderSyncer) Handle(ctx context.Context, t *asynq.Task) error {
	var payload OrderSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	if payload.OrderID != "" {
		order, err := o.store.GetByID(ctx, payload.OrderID)
		if err != nil {
			return err
		}
		return o.syncOrder(ctx, order)
	}

	pending, err := o.store.ListPending(ctx, pendingSweepLimit)
	if err != nil {
		return err
	}
	synced := 0
	for _, order := range pending {
		// one unreachable order must not starve the rest of the sweep
		if err := o.syncOrder(ctx, order); err != nil {
			o.logger.Warn("order sync",
				slog.String("order", order.Code), slog.Any("error", err))
			continue
		}
		synced++
	}
	o.logger.Info("pending order sweep",
		slog.Int("pending", len(pending)), slog.Int("synced", synced))

	if o.idem != nil {
		if err := o.idem.Cleanup(ctx, idemRetention); err != nil {
			o.logger.Warn("idempotency cleanup", slog.Any("error", err))
		}
	}
	return nil
}

// syncOrder pulls the upstream status for one order and advances the local
// record when an operator settled it. An order the upstream does not know
// yet stays pending for the next sweep.
func (o *OrderSyncer) syncOrder(ctx context.Context, order orders.Order) error {
	if o.source == nil || order.Status != orders.StatusPending {
		return nil
	}
	remote, err := o.source.GetOrderStatus(ctx, order.Code)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil
		}
		return err
	}

	status := orders.OrderStatus(strings.ToUpper(strings.TrimSpace(remote)))
	switch status {
	case orders.StatusConfirmed, orders.StatusCancelled:
		if err := o.store.UpdateStatus(ctx, order.ID.String(), status); err != nil {
			return err
		}
		o.logger.Info("order status advanced",
			slog.String("order", order.Code),
			slog.String("status", string(status)))
	}
	return nil
}
