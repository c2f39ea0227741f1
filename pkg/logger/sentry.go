package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string
	Environment string
	// MinLevel is the lowest level stored as a Sentry log. Errors always
	// become Sentry issues.
	MinLevel slog.Level
}

// NewWithSentry creates a logger writing to cfg's output and to Sentry.
// With an empty DSN, or when the SDK fails to start, only the local output
// is used.
func NewWithSentry(sc SentryConfig, cfg Config, extractors ...ContextExtractor) *slog.Logger {
	local := newHandler(cfg)
	if sc.DSN == "" {
		return slog.New(Decorate(local, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         sc.DSN,
		Environment: sc.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(local).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(Decorate(local, extractors...))
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if sc.MinLevel >= slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	remote := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return slog.New(Decorate(fanout{local, remote}, extractors...))
}
