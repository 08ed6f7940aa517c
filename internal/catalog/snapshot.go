package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Snapshot keeps the last successful listing per supplier view in Redis so
// restarts and the background warmup share one upstream fetch. A nil client
// degrades to calling the loader directly.
type Snapshot struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshot instantiates the snapshot helper.
func NewSnapshot(client *redis.Client, ttl time.Duration) *Snapshot {
	return &Snapshot{client: client, ttl: ttl}
}

func snapshotKey(view Supplier) string {
	return "catalog:products:" + view.FilterParam()
}

// Fetch returns the cached listing for view, populating it through loader on
// a miss.
func (s *Snapshot) Fetch(ctx context.Context, view Supplier, loader func(context.Context) ([]Product, error)) ([]Product, error) {
	if loader == nil {
		return nil, errors.New("catalog: snapshot loader required")
	}
	if s == nil || s.client == nil {
		return loader(ctx)
	}
	payload, err := s.client.Get(ctx, snapshotKey(view)).Bytes()
	if err == nil {
		var products []Product
		if err := json.Unmarshal(payload, &products); err == nil {
			return products, nil
		}
		// corrupt snapshot: fall through to the loader
	} else if !errors.Is(err, redis.Nil) {
		return loader(ctx)
	}
	products, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, view, products)
	return products, nil
}

// Refresh overwrites the snapshot for view, used by the warmup job.
func (s *Snapshot) Refresh(ctx context.Context, view Supplier, products []Product) error {
	if s == nil || s.client == nil {
		return nil
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, snapshotKey(view), raw, s.ttl).Err()
}

// Invalidate drops the snapshot for view.
func (s *Snapshot) Invalidate(ctx context.Context, view Supplier) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, snapshotKey(view)).Err()
}

func (s *Snapshot) store(ctx context.Context, view Supplier, products []Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	_ = s.client.Set(ctx, snapshotKey(view), raw, s.ttl).Err()
}
