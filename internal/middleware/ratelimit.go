package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sudoeste-fight/academy-api/internal/service"
	appErrors "github.com/sudoeste-fight/academy-api/pkg/errors"
	"github.com/sudoeste-fight/academy-api/pkg/response"
)

// HitCounter counts requests per key in fixed windows.
type HitCounter interface {
	Hit(ctx context.Context, key string, window time.Duration, now time.Time) (int64, error)
}

// RateLimitConfig configures one limited route group.
type RateLimitConfig struct {
	Scope  string
	Limit  int
	Window time.Duration
}

// RateLimit rejects callers exceeding Limit requests per Window with 429. Authenticated
// callers are keyed by student id, anonymous ones by client IP. Counter failures let the
// request through and are attached to the context for the request logger.
func RateLimit(counter HitCounter, metrics *service.MetricsService, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return func(c *gin.Context) {
		if counter == nil || cfg.Limit <= 0 {
			c.Next()
			return
		}
		key := cfg.Scope + ":ip:" + c.ClientIP()
		if claims, ok := Claims(c); ok {
			key = cfg.Scope + ":aluno:" + strconv.FormatInt(claims.StudentID, 10)
		}

		count, err := counter.Hit(c.Request.Context(), key, cfg.Window, time.Now())
		if err != nil {
			_ = c.Error(err)
			c.Next()
			return
		}
		if count > int64(cfg.Limit) {
			metrics.RecordRateLimited(cfg.Scope)
			c.Header("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
			response.Error(c, appErrors.Clone(appErrors.ErrRateLimited, ""))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LocalCounter is an in-process HitCounter used when Redis is disabled. Limits are then
// enforced per instance only.
type LocalCounter struct {
	mu      sync.Mutex
	buckets map[string]*localBucket
}

type localBucket struct {
	start time.Time
	count int64
}

// NewLocalCounter creates an empty counter.
func NewLocalCounter() *LocalCounter {
	return &LocalCounter{buckets: make(map[string]*localBucket)}
}

// Hit implements HitCounter.
func (l *LocalCounter) Hit(_ context.Context, key string, window time.Duration, now time.Time) (int64, error) {
	start := now.Truncate(window)
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok || !b.start.Equal(start) {
		if len(l.buckets) > 10000 {
			l.evict(start)
		}
		b = &localBucket{start: start}
		l.buckets[key] = b
	}
	b.count++
	return b.count, nil
}

func (l *LocalCounter) evict(current time.Time) {
	for key, b := range l.buckets {
		if b.start.Before(current) {
			delete(l.buckets, key)
		}
	}
}
