package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	cart "github.com/fooddel/client-gateway/internal/cart/domain"
)

// ErrNoSnapshot means the user has no persisted cart.
var ErrNoSnapshot = errors.New("no cart snapshot")

// SnapshotStore persists carts across sessions, the way a browser
// would keep the cart in local storage.
type SnapshotStore interface {
	Save(ctx context.Context, userID string, c cart.Cart) error
	Load(ctx context.Context, userID string) (cart.Cart, error)
	Delete(ctx context.Context, userID string) error
}

// RedisSnapshots stores one JSON cart per user with a TTL, so
// abandoned carts age out on their own.
type RedisSnapshots struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshots(client *redis.Client, ttl time.Duration) *RedisSnapshots {
	return &RedisSnapshots{client: client, ttl: ttl}
}

func snapshotKey(userID string) string {
	return "cart:snapshot:" + userID
}

func (s *RedisSnapshots) Save(ctx context.Context, userID string, c cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey(userID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

func (s *RedisSnapshots) Load(ctx context.Context, userID string) (cart.Cart, error) {
	raw, err := s.client.Get(ctx, snapshotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.Empty(), ErrNoSnapshot
	}
	if err != nil {
		return cart.Empty(), fmt.Errorf("load cart snapshot: %w", err)
	}
	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		// A corrupt snapshot is worth less than an empty cart.
		return cart.Empty(), ErrNoSnapshot
	}
	return c, nil
}

func (s *RedisSnapshots) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, snapshotKey(userID)).Err()
}
