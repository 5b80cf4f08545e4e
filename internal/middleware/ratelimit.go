package middleware

import (
	"context"
	"strings"
	"sync"
	"time"

	"chronoflow-backend/internal/pkg/httpx"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// CounterStore increments a fixed-window counter and reports the count plus
// time until the window resets. Implementations must be safe for concurrent
// use.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

// RedisStore is a CounterStore on Redis (INCR + EXPIRE), shared across
// server instances.
type RedisStore struct {
	Client *redis.Client
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := s.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := s.Client.Expire(ctx, key, window).Err(); err != nil {
			return count, window, err
		}
		return count, window, nil
	}
	ttl, err := s.Client.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return count, ttl, nil
}

type memoryEntry struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is a single-process CounterStore. Counters reset on restart
// and are not shared across instances; it sweeps expired entries once the
// map grows past sweepThreshold.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

const sweepThreshold = 5000

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry), now: time.Now}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.entries) > sweepThreshold {
		for k, e := range s.entries {
			if !e.resetAt.After(now) {
				delete(s.entries, k)
			}
		}
	}

	e, ok := s.entries[key]
	if !ok || !e.resetAt.After(now) {
		s.entries[key] = &memoryEntry{count: 1, resetAt: now.Add(window)}
		return 1, window, nil
	}
	e.count++
	return e.count, e.resetAt.Sub(now), nil
}

// RateLimit returns a fixed-window limiter keyed by (scope, client IP,
// user agent). Store failures fail open: throttling here is best effort.
func RateLimit(store CounterStore, scope string, limit int64, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ua := c.Get(fiber.HeaderUserAgent)
		if ua == "" {
			ua = "unknown"
		}
		if len(ua) > 120 {
			ua = ua[:120]
		}
		key := "ratelimit:" + scope + ":" + clientIP(c) + ":" + ua

		count, ttl, err := store.Incr(c.Context(), key, window)
		if err != nil {
			return c.Next()
		}
		if count > limit {
			retryAfter := int(ttl / time.Second)
			if retryAfter < 1 {
				retryAfter = 1
			}
			return httpx.Err(c, fiber.StatusTooManyRequests, "Too many requests", fiber.Map{
				"retryAfter": retryAfter,
			})
		}
		return c.Next()
	}
}

func clientIP(c *fiber.Ctx) string {
	if cf := strings.TrimSpace(c.Get("CF-Connecting-IP")); cf != "" {
		return cf
	}
	if xff := c.Get(fiber.HeaderXForwardedFor); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(c.Get("X-Real-Ip")); real != "" {
		return real
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}
