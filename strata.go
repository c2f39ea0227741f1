package strata

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/strata/internal"
	"github.com/dmitrymomot/strata/pkg/cookie"
	"github.com/dmitrymomot/strata/pkg/logger"
)

// Type aliases - public API
type (
	// App holds the application configuration and the middleware list.
	App = internal.App

	// Context is the per-request object handed to every middleware.
	// It is also a context.Context bound to the request.
	Context = internal.Context

	// Middleware is one step of the onion. Call next to run the rest of the
	// chain; code after next runs once everything downstream has settled.
	Middleware = internal.Middleware

	// Next runs the downstream part of the chain.
	Next = internal.Next

	// Observer is notified of every error that reaches the error funnel.
	Observer = internal.Observer

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HTTPError is the normalized error record rendered by the error funnel.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// Extractor pulls a value from the request, trying sources in order.
	Extractor = internal.Extractor

	// ExtractorSource is one place an Extractor looks at.
	ExtractorSource = internal.ExtractorSource

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures cookie attributes.
	CookieOption = cookie.Option
)

// EnvVar is read by New when WithEnv is not given.
const EnvVar = internal.EnvVar

// CodeNotExist marks errors caused by a missing file or resource.
const CodeNotExist = internal.CodeNotExist

// Errors reported by the core.
var (
	ErrNextCalledMultipleTimes = internal.ErrNextCalledMultipleTimes
	ErrNilMiddleware           = internal.ErrNilMiddleware
	ErrClientClosed            = internal.ErrClientClosed
)

// Constructors

// New creates a new application with the given options.
//
// Example:
//
//	app := strata.New(
//	    strata.WithEnv("production"),
//	    strata.WithMiddleware(middlewares.Recover()),
//	)
//	app.Use(func(c strata.Context, next strata.Next) error {
//	    c.SetBody("hello")
//	    return nil
//	})
//
//	err := app.Run(":8080", strata.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// Compose flattens mw into a single middleware. Nesting composed chains is
// equivalent to listing their steps in order.
func Compose(mw ...Middleware) Middleware {
	return internal.Compose(mw...)
}

// App options

// WithEnv sets the environment label. Defaults to $STRATA_ENV, then "development".
func WithEnv(env string) Option {
	return internal.WithEnv(env)
}

// WithSilent disables the default error logger.
func WithSilent(silent bool) Option {
	return internal.WithSilent(silent)
}

// WithProxy trusts X-Forwarded-* headers.
func WithProxy(trust bool) Option {
	return internal.WithProxy(trust)
}

// WithSubdomainOffset sets how many trailing host labels Subdomains drops.
// Defaults to 2.
func WithSubdomainOffset(offset int) Option {
	return internal.WithSubdomainOffset(offset)
}

// WithKeys sets the cookie signing keys. The first key signs, any key verifies.
func WithKeys(keys ...string) Option {
	return internal.WithKeys(keys...)
}

// WithMiddleware appends middleware to the application.
// Middleware runs in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithObserver registers error observers. When no observer is registered by
// the time the handler is built, a default logging observer is attached.
func WithObserver(obs ...Observer) Option {
	return internal.WithObserver(obs...)
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id, user_id).
//
// Example:
//
//	app := strata.New(
//	    strata.WithLogger("api", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully configured logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures cookie attributes. Signing keys come from WithKeys.
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// Cookie options

// WithCookieDomain sets the cookie domain.
func WithCookieDomain(domain string) CookieOption {
	return cookie.WithDomain(domain)
}

// WithCookiePath sets the cookie path.
func WithCookiePath(path string) CookieOption {
	return cookie.WithPath(path)
}

// WithCookieSecure sets the Secure flag.
func WithCookieSecure(secure bool) CookieOption {
	return cookie.WithSecure(secure)
}

// WithCookieHTTPOnly sets the HttpOnly flag.
func WithCookieHTTPOnly(httpOnly bool) CookieOption {
	return cookie.WithHTTPOnly(httpOnly)
}

// WithCookieSameSite sets the SameSite attribute.
func WithCookieSameSite(ss http.SameSite) CookieOption {
	return cookie.WithSameSite(ss)
}

// Cookie errors for checking return values.
var (
	ErrCookieNotFound = cookie.ErrNotFound
	ErrCookieNoKeys   = cookie.ErrNoKeys
	ErrCookieBadSig   = cookie.ErrBadSig
)

// Run options

// Address sets the listen address used when Run gets an empty addr.
// Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the logger for server lifecycle events. Defaults to the
// application logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the graceful shutdown timeout. Defaults to 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers fn to run before the listener opens.
// A failing hook aborts Run.
//
// Example:
//
//	app.Run(":8080", strata.StartupHook(func(ctx context.Context) error {
//	    return rdb.Ping(ctx).Err()
//	}))
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers fn to run after the server stopped accepting
// connections. Hooks run in registration order; errors are joined.
//
// Example:
//
//	app.Run(":8080", strata.ShutdownHook(func(ctx context.Context) error {
//	    return rdb.Close()
//	}))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context. Cancelling it shuts the server down.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// HTTP errors

// NewHTTPError creates an HTTPError. Client errors are exposed by default.
func NewHTTPError(status int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(status, message, opts...)
}

// IsHTTPError reports whether err is or wraps an *HTTPError.
func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

// AsHTTPError returns the *HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// HTTP error options
var (
	WithExpose  = internal.WithExpose
	WithHeaders = internal.WithHeaders
	WithHeader  = internal.WithHeader
	WithError   = internal.WithError
	WithCode    = internal.WithCode
)

// HTTP error constructors
var (
	ErrBadRequest         = internal.ErrBadRequest
	ErrUnauthorized       = internal.ErrUnauthorized
	ErrForbidden          = internal.ErrForbidden
	ErrNotFound           = internal.ErrNotFound
	ErrConflict           = internal.ErrConflict
	ErrTooManyRequests    = internal.ErrTooManyRequests
	ErrInternal           = internal.ErrInternal
	ErrServiceUnavailable = internal.ErrServiceUnavailable
)

// Extractors

// NewExtractor tries sources in order and returns the first non-empty value.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// Extractor sources
var (
	FromHeader       = internal.FromHeader
	FromQuery        = internal.FromQuery
	FromCookie       = internal.FromCookie
	FromCookieSigned = internal.FromCookieSigned
	FromState        = internal.FromState
	FromBearerToken  = internal.FromBearerToken
)

// Generic helpers

// ContextValue returns the request context value stored under key, or the
// zero value when it is missing or of another type.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// StateValue returns c.State()[key] as T, or the zero value.
func StateValue[T any](c Context, key string) T {
	return internal.StateValue[T](c, key)
}

// Query parses the query parameter name as T, returning the zero value when
// it is missing or malformed.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault is Query with a fallback value.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string, defaultValue T) T {
	return internal.QueryDefault(c, name, defaultValue)
}
