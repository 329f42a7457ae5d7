// Package cache is a JSON read-through cache for catalog reads backed by Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "hotelmart:"

// Cache wraps a redis client. A nil *Cache is valid and never caches.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger logrus.FieldLogger
}

// Dial connects to the Redis instance at url ("redis://host:port/db").
func Dial(ctx context.Context, url string, ttl time.Duration, logger logrus.FieldLogger) (*Cache, error) {
	if url == "" {
		return nil, errors.New("cache: url is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache: parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return New(client, ttl, logger), nil
}

func New(client redis.UniversalClient, ttl time.Duration, logger logrus.FieldLogger) *Cache {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Cache{client: client, ttl: ttl, logger: logger}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// Fetch returns the cached value under key, or calls load, stores its result and returns it.
// Redis failures are logged and bypassed; errors from load are returned as-is and not cached.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	full := keyPrefix + key
	raw, err := c.client.Get(ctx, full).Bytes()
	switch {
	case err == nil:
		var v T
		if uerr := json.Unmarshal(raw, &v); uerr == nil {
			return v, nil
		}
		c.logger.WithField("key", full).Warn("cache: dropping undecodable entry")
	case !errors.Is(err, redis.Nil):
		c.logger.WithError(err).WithField("key", full).Warn("cache: get failed")
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return v, nil
	}
	if err := c.client.Set(ctx, full, encoded, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", full).Warn("cache: set failed")
	}
	return v, nil
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		c.logger.WithError(err).Warn("cache: invalidate failed")
	}
}
