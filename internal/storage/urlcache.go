package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// URLCache keeps freshly minted signed URLs keyed by (ttl, container,
// path) so repeated resolution of the same asset does not re-sign on
// every render. The TTL is part of the key: a URL signed for an hour is
// never served to a caller asking for a week. Entries expire ahead of
// the signature itself so a cached URL is never handed out with less
// than the safety margin of validity.
type URLCache struct {
	client *redis.Client
}

const urlCacheMargin = 5 * time.Minute

func NewURLCache(addr, password string, db int) *URLCache {
	return &URLCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *URLCache) key(container, path string, ttl time.Duration) string {
	return fmt.Sprintf("signed_url:%d:%s:%s", int64(ttl.Seconds()), container, path)
}

// Get returns a cached signed URL minted for this exact TTL, or ""
// when missing. A Redis outage reads as a miss: the caller re-signs, it
// never fails.
func (c *URLCache) Get(ctx context.Context, container, path string, ttl time.Duration) string {
	if c == nil || c.client == nil {
		return ""
	}
	val, err := c.client.Get(ctx, c.key(container, path, ttl)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("signed url cache read failed", "error", err)
		}
		return ""
	}
	return val
}

func (c *URLCache) Set(ctx context.Context, container, path, url string, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	expiry := ttl - urlCacheMargin
	if expiry <= 0 {
		return
	}
	if err := c.client.Set(ctx, c.key(container, path, ttl), url, expiry).Err(); err != nil {
		slog.Warn("signed url cache write failed", "error", err)
	}
}

func (c *URLCache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
