// Package logger builds *slog.Logger values with context extraction and
// optional Sentry forwarding.
//
// # Basic Usage
//
//	log := logger.New(logger.Config{Level: "debug", Format: "text"},
//		logger.FromContext(requestIDKey{}, "request_id"),
//	)
//	log.InfoContext(ctx, "request processed", slog.Int("status", 200))
//
// Output goes to stderr unless Config.Output is set. Format "json" (the
// default) is meant for production, "text" for local development.
//
// # Context Extractors
//
// A ContextExtractor pulls one attribute out of a context.Context:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// Extractors run on every log call, so request-scoped values are always
// current. [Decorate] adds extraction to any slog.Handler.
//
// # Sentry
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//		MinLevel:    slog.LevelWarn,
//	}, logger.Config{})
//
// Errors become Sentry issues, warnings are stored as Sentry logs. Without a
// DSN the logger falls back to local output only.
//
// [NewNope] returns a logger that discards everything, for tests.
package logger
