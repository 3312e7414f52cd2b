package logic

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const generationKey = "scrimstats:winrate:generation"

// ResultCache stores computed reports in Redis. Entries are keyed by a
// generation counter; bumping the counter after an ingest orphans every
// cached report at once and lets the TTL clean them up.
type ResultCache struct {
	client RedisClient
	ttl    time.Duration
}

// NewResultCache returns nil when client is nil, which disables caching.
func NewResultCache(client RedisClient, ttl time.Duration) *ResultCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResultCache{client: client, ttl: ttl}
}

func (c *ResultCache) generation(ctx context.Context) (int64, error) {
	val, err := c.client.Get(ctx, generationKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// Key names a report under the current generation. Callers read and write
// with the same key so a report computed before an invalidation never lands
// under the newer generation.
func (c *ResultCache) Key(ctx context.Context, kind, team string, width time.Duration) (string, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return "", fmt.Errorf("read cache generation: %w", err)
	}
	return fmt.Sprintf("scrimstats:winrate:%d:%s:%s:%d", gen, kind, team, int64(width/time.Second)), nil
}

// Load decodes the value cached under key into dest. It reports false on a miss.
func (c *ResultCache) Load(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// Store caches value under key.
func (c *ResultCache) Store(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate bumps the generation so all cached reports are ignored.
func (c *ResultCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, generationKey).Err()
}
