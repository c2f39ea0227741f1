package middlewares

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/strata/internal"
)

// AccessLogConfig configures the access log middleware.
type AccessLogConfig struct {
	Skip  func(c internal.Context) bool
	Level slog.Level
}

// AccessLogOption configures AccessLogConfig.
type AccessLogOption func(*AccessLogConfig)

// WithAccessLogSkip skips logging for requests where fn returns true.
func WithAccessLogSkip(fn func(c internal.Context) bool) AccessLogOption {
	return func(cfg *AccessLogConfig) {
		cfg.Skip = fn
	}
}

// WithAccessLogLevel sets the level for successful requests.
// Requests that end with a 5xx status are always logged at Error.
func WithAccessLogLevel(level slog.Level) AccessLogOption {
	return func(cfg *AccessLogConfig) {
		cfg.Level = level
	}
}

// AccessLog returns middleware that logs one line per request through the
// context logger once everything downstream has finished.
func AccessLog(opts ...AccessLogOption) internal.Middleware {
	cfg := &AccessLogConfig{Level: slog.LevelInfo}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c internal.Context, next internal.Next) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return next()
		}

		start := time.Now()
		method, url := c.Method(), c.OriginalURL()

		err := next()

		status := statusOf(c, err)
		attrs := []slog.Attr{
			slog.String("method", method),
			slog.String("url", url),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("ip", c.IP()),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		level := cfg.Level
		if status >= 500 {
			level = slog.LevelError
		}
		c.Logger().LogAttrs(c, level, "request", attrs...)
		return err
	}
}
