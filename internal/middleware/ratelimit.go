package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pasinduisuranga/traveler-app/internal/respond"
	"github.com/pasinduisuranga/traveler-app/pkg/clientip"
)

// Counter is the windowed-counter backend behind the rate limiter. Incr
// atomically bumps the counter for key and reports the new count plus time
// until the window resets. Forgive undoes one increment (used when
// successful auth requests are excluded from the count).
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int, retryAfter time.Duration, err error)
	Forgive(ctx context.Context, key string)
}

// Policy describes one route class's limit.
type Policy struct {
	Window         time.Duration
	Max            int
	SkipSuccessful bool // don't count requests that end < 400
	Message        string
}

// RateLimit limits requests per client IP under the given policy. The class
// string namespaces counters so auth and API traffic are tracked apart. On a
// counter failure the request is allowed through rather than rejected.
func RateLimit(counter Counter, p Policy, class string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := class + ":" + clientip.FromRequest(r)

			count, retryAfter, err := counter.Incr(r.Context(), key, p.Window)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if count > p.Max {
				respond.RateLimited(w, p.Message, ceilSeconds(retryAfter))
				return
			}

			remaining := p.Max - count
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(p.Max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(retryAfter).Unix(), 10))

			if !p.SkipSuccessful {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			if rec.status < http.StatusBadRequest {
				counter.Forgive(r.Context(), key)
			}
		})
	}
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// --- in-process counter ---

type windowEntry struct {
	count   int
	resetAt time.Time
}

// MemoryCounter is the in-process fixed-window counter. Increment and
// compare happen under one lock so concurrent bursts from the same address
// are never undercounted.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	once    sync.Once
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{entries: make(map[string]*windowEntry)}
}

func (c *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.once.Do(c.startCleanup)

	now := time.Now()
	e, ok := c.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &windowEntry{resetAt: now.Add(window)}
		c.entries[key] = e
	}
	e.count++
	return e.count, e.resetAt.Sub(now), nil
}

func (c *MemoryCounter) Forgive(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.count > 0 {
		e.count--
	}
}

// startCleanup drops expired windows so the map does not grow without bound.
// Caller holds the lock.
func (c *MemoryCounter) startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			c.mu.Lock()
			now := time.Now()
			for key, e := range c.entries {
				if now.After(e.resetAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}()
}

// --- Redis-backed counter ---

const rateLimitKeyPrefix = "ratelimit:"

// RedisCounter keeps windows in Redis so limits hold across processes.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	redisKey := rateLimitKeyPrefix + key

	count, err := c.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		// First request in this window; start the clock.
		if err := c.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return 0, 0, err
		}
		return 1, window, nil
	}

	ttl, err := c.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return int(count), ttl, nil
}

func (c *RedisCounter) Forgive(ctx context.Context, key string) {
	c.client.Decr(ctx, rateLimitKeyPrefix+key)
}
