package internal

import (
	"log/slog"

	"github.com/dmitrymomot/strata/pkg/cookie"
	"github.com/dmitrymomot/strata/pkg/logger"
)

// Option configures the application.
type Option func(*App)

// WithEnv sets the environment label. The default error logger stays quiet
// in "test". Defaults to $STRATA_ENV, or "development".
func WithEnv(env string) Option {
	return func(a *App) {
		if env != "" {
			a.env = env
		}
	}
}

// WithSilent disables the default error logger.
func WithSilent(silent bool) Option {
	return func(a *App) {
		a.silent = silent
	}
}

// WithProxy makes the application trust X-Forwarded-For, X-Forwarded-Proto
// and X-Forwarded-Host.
func WithProxy(trust bool) Option {
	return func(a *App) {
		a.proxy = trust
	}
}

// WithSubdomainOffset sets how many trailing host labels Subdomains ignores.
// Defaults to 2, so "a.b.example.com" yields ["b", "a"].
func WithSubdomainOffset(offset int) Option {
	return func(a *App) {
		if offset >= 0 {
			a.subdomainOffset = offset
		}
	}
}

// WithKeys sets the cookie signing keys. The first key signs, any key verifies.
func WithKeys(keys ...string) Option {
	return func(a *App) {
		a.keys = append(a.keys[:0], keys...)
	}
}

// WithMiddleware appends middleware to the chain, in order.
// It panics on nil middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		for _, m := range mw {
			a.Use(m)
		}
	}
}

// WithObserver registers error observers. When at least one observer is
// registered before the handler is built, the default error logger is not attached.
//
// Example:
//
//	strata.New(
//	    strata.WithObserver(observers.Sentry(hub)),
//	)
func WithObserver(obs ...Observer) Option {
	return func(a *App) {
		a.Observe(obs...)
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id).
//
// Example:
//
//	strata.New(
//	    strata.WithLogger("api", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(logger.Config{}, extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions configures cookie attributes. Signing keys come from WithKeys.
//
// Example:
//
//	strata.New(
//	    strata.WithKeys(os.Getenv("COOKIE_KEY")),
//	    strata.WithCookieOptions(cookie.WithSameSite(http.SameSiteStrictMode)),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) {
		a.cookieOpts = append(a.cookieOpts, opts...)
	}
}
