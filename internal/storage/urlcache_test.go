package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestURLCacheKeyVariesByTTL(t *testing.T) {
	c := &URLCache{}

	hour := c.key("preview-images", "uid/shot.png", time.Hour)
	week := c.key("preview-images", "uid/shot.png", 7*24*time.Hour)

	// A URL signed for an hour must never answer a week-long request.
	assert.NotEqual(t, hour, week)
	assert.Equal(t, "signed_url:3600:preview-images:uid/shot.png", hour)
}

func TestURLCacheKeyVariesByObject(t *testing.T) {
	c := &URLCache{}

	assert.NotEqual(t,
		c.key("preview-images", "a.png", time.Hour),
		c.key("preview-images", "b.png", time.Hour),
	)
	assert.NotEqual(t,
		c.key("preview-images", "a.png", time.Hour),
		c.key("source-files", "a.png", time.Hour),
	)
}

func TestURLCacheNilSafe(t *testing.T) {
	var c *URLCache
	ctx := context.Background()

	// A missing cache reads as a permanent miss and swallows writes.
	assert.Equal(t, "", c.Get(ctx, "preview-images", "a.png", time.Hour))
	c.Set(ctx, "preview-images", "a.png", "http://example/u", time.Hour)
	assert.NoError(t, c.Ping(ctx))
}
