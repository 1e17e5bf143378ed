package infra

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// URLCache keeps the signed photo URLs of one valuation for a fixed TTL.
// Entries are dropped explicitly whenever the valuation's photos change.
type URLCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewURLCache(rdb *redis.Client, ttl time.Duration) *URLCache {
	return &URLCache{rdb: rdb, ttl: ttl}
}

func urlKey(valoracionID string) string { return "fotos:urls:" + valoracionID }

// Get returns the cached foto id → URL map; ok is false on a miss.
func (c *URLCache) Get(ctx context.Context, valoracionID string) (map[string]string, bool, error) {
	raw, err := c.rdb.Get(ctx, urlKey(valoracionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var urls map[string]string
	if err := json.Unmarshal(raw, &urls); err != nil {
		return nil, false, nil
	}
	return urls, true, nil
}

func (c *URLCache) Set(ctx context.Context, valoracionID string, urls map[string]string) error {
	raw, err := json.Marshal(urls)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, urlKey(valoracionID), raw, c.ttl).Err()
}

func (c *URLCache) Invalidar(ctx context.Context, valoracionID string) error {
	return c.rdb.Del(ctx, urlKey(valoracionID)).Err()
}
