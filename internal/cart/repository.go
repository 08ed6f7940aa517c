package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// Repository persists session carts in Redis. Each session's cart is one
// JSON blob under cart:<session-id>, refreshed on every write so an active
// cart never expires mid-session.
type Repository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRepository constructs the cart repository.
func NewRepository(client *redis.Client, ttl time.Duration) *Repository {
	return &Repository{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}

// Load fetches the cart lines for a session. A missing key is an empty cart,
// not an error.
func (r *Repository) Load(ctx context.Context, sessionID string) ([]Line, error) {
	raw, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cart load: %w", err)
	}
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("cart decode: %w", err)
	}
	return lines, nil
}

// Save replaces the session's cart. An empty cart deletes the key.
func (r *Repository) Save(ctx context.Context, sessionID string, lines []Line) error {
	if len(lines) == 0 {
		return r.Clear(ctx, sessionID)
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("cart encode: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(sessionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("cart save: %w", err)
	}
	return nil
}

// Clear removes the session's cart.
func (r *Repository) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("cart clear: %w", err)
	}
	return nil
}
