package internal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrymomot/strata/pkg/cookie"
	"github.com/dmitrymomot/strata/pkg/logger"
)

// EnvVar is read by New for the default environment label.
const EnvVar = "STRATA_ENV"

// Default application settings.
const (
	defaultEnv             = "development"
	defaultSubdomainOffset = 2
)

// App holds the application settings, the middleware list and the error
// observers. Settings are fixed by New; middleware and observers can be
// added until Handler is called.
type App struct {
	logger          *slog.Logger
	cookies         *cookie.Manager
	handler         http.Handler
	env             string
	keys            []string
	cookieOpts      []cookie.Option
	middleware      []Middleware
	observers       []Observer
	subdomainOffset int
	mu              sync.RWMutex
	handlerOnce     sync.Once
	proxy           bool
	silent          bool
}

// New creates a new application with the given options.
//
// Example:
//
//	app := strata.New(
//	    strata.WithEnv("production"),
//	    strata.WithProxy(true),
//	    strata.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	)
func New(opts ...Option) *App {
	a := &App{
		env:             defaultEnv,
		subdomainOffset: defaultSubdomainOffset,
		logger:          logger.New(logger.Config{Format: "text"}),
	}
	if env := os.Getenv(EnvVar); env != "" {
		a.env = env
	}

	for _, opt := range opts {
		opt(a)
	}

	a.cookies = cookie.New(append([]cookie.Option{cookie.WithKeys(a.keys...)}, a.cookieOpts...)...)
	return a
}

// Use appends middleware to the chain. It panics on nil.
func (a *App) Use(mw Middleware) *App {
	if mw == nil {
		panic(ErrNilMiddleware)
	}
	a.mu.Lock()
	a.middleware = append(a.middleware, mw)
	a.mu.Unlock()
	return a
}

// Observe registers error observers. They are called in registration order
// for every error that reaches the error funnel.
func (a *App) Observe(obs ...Observer) *App {
	a.mu.Lock()
	for _, o := range obs {
		if o != nil {
			a.observers = append(a.observers, o)
		}
	}
	a.mu.Unlock()
	return a
}

// ObserverCount returns the number of registered error observers.
func (a *App) ObserverCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.observers)
}

// Middleware returns a copy of the middleware list.
func (a *App) Middleware() []Middleware {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.middleware)
}

// Env returns the environment label.
func (a *App) Env() string { return a.env }

// Silent reports whether the default error logging is disabled.
func (a *App) Silent() bool { return a.silent }

// Proxy reports whether proxy headers are trusted.
func (a *App) Proxy() bool { return a.proxy }

// SubdomainOffset returns the number of trailing host labels ignored by
// Request.Subdomains.
func (a *App) SubdomainOffset() int { return a.subdomainOffset }

// Keys returns a copy of the cookie signing keys.
func (a *App) Keys() []string { return slices.Clone(a.keys) }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Handler composes the middleware registered so far and returns the request
// handler. When no observer is registered at this point the default error
// logger is attached; observers added later do not remove it.
func (a *App) Handler() http.Handler {
	a.mu.Lock()
	fn := Compose(a.middleware...)
	if len(a.observers) == 0 {
		a.observers = append(a.observers, a.logError)
	}
	a.mu.Unlock()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.handle(fn, w, r)
	})
}

// ServeHTTP implements http.Handler. The handler is built on first use.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handlerOnce.Do(func() {
		a.handler = a.Handler()
	})
	a.handler.ServeHTTP(w, r)
}

// Run starts an HTTP server on addr and blocks until shutdown.
//
// Example:
//
//	err := app.Run(":8080", strata.Logger(log), strata.ShutdownTimeout(10*time.Second))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if addr != "" {
		cfg.address = addr
	}
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	return serve(a.Handler(), cfg)
}

// MarshalJSON implements json.Marshaler.
func (a *App) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Env             string `json:"env"`
		SubdomainOffset int    `json:"subdomainOffset"`
		Proxy           bool   `json:"proxy"`
	}{
		SubdomainOffset: a.subdomainOffset,
		Proxy:           a.proxy,
		Env:             a.env,
	})
}

// handle serves one exchange.
func (a *App) handle(fn Middleware, w http.ResponseWriter, r *http.Request) {
	c := a.createContext(NewResponseWriter(w), r)
	c.response.status = http.StatusNotFound

	// Completion hook: the client left before the exchange was ended.
	defer func() {
		if !c.response.Ended() && r.Context().Err() != nil {
			c.OnError(ErrClientClosed)
		}
	}()

	if err := run(fn, c); err != nil {
		c.OnError(err)
		return
	}
	respond(c)
}

// run invokes the chain, turning a panic into an error.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func run(fn Middleware, c *requestContext) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel compared as panic value
				panic(rec)
			}
			err = &recoveredError{value: rec, stack: debug.Stack()}
		}
	}()
	return fn(c, nil)
}

// recoveredError wraps a value recovered from a panic in the chain.
type recoveredError struct {
	value any
	stack []byte
}

func (e *recoveredError) Error() string {
	if err, ok := e.value.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("non-error thrown: %v", e.value)
}

func (e *recoveredError) Unwrap() error {
	err, _ := e.value.(error)
	return err
}

func (e *recoveredError) StackTrace() []byte {
	return e.stack
}

// emit reports err to every observer. A panicking observer is logged and
// does not stop the others.
func (a *App) emit(err *HTTPError, c Context) {
	a.mu.RLock()
	observers := slices.Clone(a.observers)
	a.mu.RUnlock()

	for _, obs := range observers {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					a.logger.ErrorContext(c, "error observer panicked", slog.Any("panic", rec))
				}
			}()
			obs(err, c)
		}()
	}
}

// logError is the default observer. It stays quiet for 404s, for errors
// meant for the client, when the app is silent, and in the test environment.
func (a *App) logError(err *HTTPError, c Context) {
	status := err.ResponseStatus()
	if status == http.StatusNotFound || err.Expose {
		return
	}
	if a.silent || a.env == "test" {
		return
	}

	attrs := []any{
		slog.String("error", err.Error()),
		slog.Int("status", status),
	}
	if err.Code != "" {
		attrs = append(attrs, slog.String("code", err.Code))
	}
	if len(err.Stack) > 0 {
		stack := strings.TrimRight(string(err.Stack), "\n")
		attrs = append(attrs, slog.String("stack", "  "+strings.ReplaceAll(stack, "\n", "\n  ")))
	}
	a.logger.ErrorContext(c, "unhandled error", attrs...)
}
