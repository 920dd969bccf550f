package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitRepository keeps fixed-window request counters in Redis.
type RateLimitRepository struct {
	client *redis.Client
	prefix string
}

// NewRateLimitRepository constructs the repository. A nil client disables counting.
func NewRateLimitRepository(client *redis.Client) *RateLimitRepository {
	return &RateLimitRepository{client: client, prefix: "ratelimit:"}
}

// Hit counts one request for key in the window containing now and returns the running total.
// Without Redis it always reports zero.
func (r *RateLimitRepository) Hit(ctx context.Context, key string, window time.Duration, now time.Time) (int64, error) {
	if r.client == nil {
		return 0, nil
	}
	bucket := r.bucketKey(key, window, now)
	count, err := r.client.Incr(ctx, bucket).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", bucket, err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, bucket, window).Err(); err != nil {
			return count, fmt.Errorf("redis expire %s: %w", bucket, err)
		}
	}
	return count, nil
}

func (r *RateLimitRepository) bucketKey(key string, window time.Duration, now time.Time) string {
	return fmt.Sprintf("%s%s:%d", r.prefix, key, now.Truncate(window).Unix())
}
