package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin JSON read-through helper for catalog endpoints.
// A nil *Cache is a no-op, so handlers work without Redis in tests.
type Cache struct {
	RDB *redis.Client
}

func (c *Cache) GetJSON(ctx context.Context, key string, out any) bool {
	if c == nil || c.RDB == nil {
		return false
	}
	b, err := c.RDB.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil || c.RDB == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.RDB.Set(ctx, key, b, ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.RDB == nil {
		return
	}
	_ = c.RDB.Del(ctx, keys...).Err()
}
