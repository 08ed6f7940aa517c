// Package jobs wires background work: catalog warmup and order sync.
package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogWarmup refreshes the cached product listings.
	TaskCatalogWarmup = "catalog:warmup"
	// TaskOrderSync reconciles pending orders after checkout.
	TaskOrderSync = "orders:sync"
)

// CatalogWarmupPayload carries scheduling metadata.
type CatalogWarmupPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewCatalogWarmupTask constructs an Asynq task for catalog warmup.
func NewCatalogWarmupTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(CatalogWarmupPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogWarmup, body, asynq.Queue(QueueDefault)), nil
}

// OrderSyncPayload identifies the order to reconcile. An empty OrderID means
// a sweep over all pending orders.
type OrderSyncPayload struct {
	OrderID string `json:"order_id,omitempty"`
}

// NewOrderSyncTask constructs an Asynq task for order sync.
func NewOrderSyncTask(payload OrderSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderSync, body, asynq.Queue(QueueDefault)), nil
}

// EnqueueOrderSync submits an order-sync task right after checkout.
func (c *Client) EnqueueOrderSync(ctx context.Context, orderID string) error {
	task, err := NewOrderSyncTask(OrderSyncPayload{OrderID: orderID})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// EnqueueCatalogWarmup submits a warmup task.
func (c *Client) EnqueueCatalogWarmup(ctx context.Context) error {
	task, err := NewCatalogWarmupTask(time.Now().UTC())
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}
