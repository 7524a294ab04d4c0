package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WindowCounter provides fixed-window request counting backed by Redis.
// Key format: ratelimit:<client>:<window_start_unix>
type WindowCounter struct {
	client *redis.Client
}

// NewWindowCounter creates a WindowCounter wrapping the given Redis client.
func NewWindowCounter(client *redis.Client) *WindowCounter {
	return &WindowCounter{client: client}
}

// Incr increments the window counter for the client and returns the new
// count. The key expires with the window so stale counters clean themselves
// up.
func (c *WindowCounter) Incr(ctx context.Context, client string, window time.Duration) (int64, error) {
	key := c.key(client, window)
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val(), nil
}

func (c *WindowCounter) key(client string, window time.Duration) string {
	windowStart := time.Now().Unix() / int64(window.Seconds()) * int64(window.Seconds())
	return fmt.Sprintf("ratelimit:%s:%d", client, windowStart)
}
