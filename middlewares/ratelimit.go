package middlewares

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/strata/internal"
)

// RateLimitResult describes the state of a key's current window.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimitStore counts hits per key in fixed windows.
type RateLimitStore interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error)
}

// RateLimitConfig configures the rate limit middleware.
type RateLimitConfig struct {
	Store    RateLimitStore
	Key      internal.Extractor
	Limit    int
	Window   time.Duration
	FailOpen bool
	keySet   bool
}

// RateLimitOption configures RateLimitConfig.
type RateLimitOption func(*RateLimitConfig)

// WithRateLimitStore sets the counter store. Defaults to an in-process MemoryStore.
func WithRateLimitStore(store RateLimitStore) RateLimitOption {
	return func(cfg *RateLimitConfig) {
		cfg.Store = store
	}
}

// WithRateLimitKey sets the extractor used to build the limiting key.
// Defaults to the client IP.
func WithRateLimitKey(ext internal.Extractor) RateLimitOption {
	return func(cfg *RateLimitConfig) {
		cfg.Key = ext
		cfg.keySet = true
	}
}

// WithRateLimitFailOpen lets requests through when the store fails.
func WithRateLimitFailOpen() RateLimitOption {
	return func(cfg *RateLimitConfig) {
		cfg.FailOpen = true
	}
}

// RateLimit returns middleware that allows limit requests per window and key.
// Rejected requests end the chain with 429 and a Retry-After header.
// Accepted requests get X-RateLimit-* headers.
func RateLimit(limit int, window time.Duration, opts ...RateLimitOption) internal.Middleware {
	cfg := &RateLimitConfig{
		Limit:  max(limit, 1),
		Window: window,
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}

	return func(c internal.Context, next internal.Next) error {
		key := c.IP()
		if cfg.keySet {
			if v, ok := cfg.Key.Extract(c); ok {
				key = v
			}
		}

		res, err := cfg.Store.Hit(c, key, cfg.Limit, cfg.Window)
		if err != nil {
			if cfg.FailOpen {
				c.LogWarn("rate limit store failed", "error", err)
				return next()
			}
			return err
		}

		reset := strconv.FormatInt(res.ResetAt.Unix(), 10)
		if !res.Allowed {
			retry := max(int(time.Until(res.ResetAt).Seconds()+0.5), 1)
			return internal.ErrTooManyRequests("",
				internal.WithHeader("Retry-After", strconv.Itoa(retry)),
				internal.WithHeader("X-RateLimit-Limit", strconv.Itoa(res.Limit)),
				internal.WithHeader("X-RateLimit-Remaining", "0"),
				internal.WithHeader("X-RateLimit-Reset", reset),
			)
		}

		c.SetHeader("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.SetHeader("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.SetHeader("X-RateLimit-Reset", reset)
		return next()
	}
}

// MemoryStore is an in-process RateLimitStore. Expired windows are dropped
// lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	now     func() time.Time
}

type memoryWindow struct {
	count   int
	resetAt time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*memoryWindow),
		now:     time.Now,
	}
}

// Hit implements RateLimitStore.
func (s *MemoryStore) Hit(_ context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		if len(s.windows) > 0 && !ok {
			s.sweep(now)
		}
		w = &memoryWindow{resetAt: now.Add(window)}
		s.windows[key] = w
	}
	w.count++

	return RateLimitResult{
		Allowed:   w.count <= limit,
		Limit:     limit,
		Remaining: max(limit-w.count, 0),
		ResetAt:   w.resetAt,
	}, nil
}

func (s *MemoryStore) sweep(now time.Time) {
	for k, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, k)
		}
	}
}

// RedisStore is a RateLimitStore shared between instances through Redis.
// Each window is a counter key that expires with the window.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a RedisStore. Keys are prefixed with prefix
// (default "ratelimit:").
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Hit implements RateLimitStore.
func (s *RedisStore) Hit(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error) {
	key = s.prefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return RateLimitResult{}, err
	}

	count := int(incr.Val())
	remaining := ttl.Val()
	if remaining <= 0 {
		remaining = window
	}

	return RateLimitResult{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		ResetAt:   time.Now().Add(remaining),
	}, nil
}
