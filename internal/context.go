package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrymomot/strata/pkg/cookie"
)

// Context is the per-exchange aggregate handed to every middleware.
// It pairs a Request and a Response facade, carries shared state and
// implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	// App returns the application serving the exchange.
	App() *App

	// Request returns the request facade.
	Request() *Request

	// Response returns the response facade.
	Response() *Response

	// Req returns the underlying *http.Request.
	Req() *http.Request

	// Res returns the underlying http.ResponseWriter. Writing to it
	// commits the response and disables the finalizer.
	Res() http.ResponseWriter

	// SetReq replaces the underlying request, e.g. after wrapping its context.
	SetReq(r *http.Request)

	// SetContext replaces the request context.
	SetContext(ctx context.Context)

	// OriginalURL returns the URL as received, before any rewrite.
	OriginalURL() string

	// State is a free-form map for passing data between middleware.
	State() map[string]any

	// Set stores a value in the request context.
	// The value can be retrieved using Get or from c.Value(key).
	Set(key any, value any)

	// Get retrieves a value from the request context.
	// Returns nil if the key is not found.
	Get(key any) any

	// Cookies returns the cookie jar of this exchange, signed with the
	// application keys.
	Cookies() *cookie.Jar

	// Throw builds an error for the given status. Return it to abort the chain.
	Throw(status int, msg ...string) *HTTPError

	// Assert returns nil when ok is true, otherwise the same error as Throw.
	Assert(ok bool, status int, msg ...string) error

	// OnError runs the error funnel. A nil error is a no-op.
	OnError(err error)

	// Respond reports whether the finalizer will handle the response.
	Respond() bool

	// SetRespond disables (false) or re-enables the finalizer, for
	// middleware that write to Res() on their own.
	SetRespond(respond bool)

	// Logger returns the logger for advanced usage.
	Logger() *slog.Logger

	// LogDebug logs a debug message with optional attributes.
	LogDebug(msg string, attrs ...any)

	// LogInfo logs an info message with optional attributes.
	LogInfo(msg string, attrs ...any)

	// LogWarn logs a warning message with optional attributes.
	LogWarn(msg string, attrs ...any)

	// LogError logs an error message with optional attributes.
	LogError(msg string, attrs ...any)

	// MarshalJSON returns an inspection view of the exchange.
	MarshalJSON() ([]byte, error)

	// Response delegation.

	Attachment(filename string)
	Redirect(target string, alt ...string)
	RemoveHeader(name string)
	Vary(field string)
	SetHeader(name, value string)
	SetHeaders(headers map[string]string)
	AppendHeader(name string, values ...string)
	Status() int
	SetStatus(code int)
	Message() string
	SetMessage(msg string)
	Body() any
	SetBody(v any)
	Length() int64
	SetLength(n int64)
	Type() string
	SetType(t string)
	LastModified() time.Time
	SetLastModified(t time.Time)
	ETag() string
	SetETag(tag string)
	HeaderSent() bool
	Writable() bool

	// Request delegation.

	Header(name string) string
	Headers() http.Header
	Method() string
	SetMethod(method string)
	URL() string
	SetURL(rawURL string) error
	Path() string
	SetPath(path string)
	Query() url.Values
	SetQuery(values url.Values)
	QueryString() string
	SetQueryString(qs string)
	Search() string
	SetSearch(search string)
	Idempotent() bool
	Origin() string
	Href() string
	Subdomains() []string
	Protocol() string
	Host() string
	Hostname() string
	Secure() bool
	Fresh() bool
	Stale() bool
	IPs() []string
	IP() string
}

// requestContext implements the Context interface.
type requestContext struct {
	app      *App
	request  *Request
	response *Response
	state    map[string]any
	logger   *slog.Logger
	jar      *cookie.Jar
	bypass   bool
}

// createContext wires a fresh context with its facades.
// The three values reference each other for lookup only; the context owns them.
func (a *App) createContext(w *ResponseWriter, r *http.Request) *requestContext {
	c := &requestContext{
		app:    a,
		state:  make(map[string]any),
		logger: a.logger,
	}
	c.request = &Request{
		req:         r,
		app:         a,
		ctx:         c,
		originalURL: r.URL.RequestURI(),
	}
	c.response = &Response{
		w:       w,
		conn:    r.Context(),
		ctx:     c,
		request: c.request,
	}
	c.request.response = c.response
	return c
}

func (c *requestContext) App() *App {
	return c.app
}

func (c *requestContext) Request() *Request {
	return c.request
}

func (c *requestContext) Response() *Response {
	return c.response
}

func (c *requestContext) Req() *http.Request {
	return c.request.req
}

func (c *requestContext) Res() http.ResponseWriter {
	return c.response.w
}

func (c *requestContext) SetReq(r *http.Request) {
	c.request.req = r
}

func (c *requestContext) SetContext(ctx context.Context) {
	c.request.req = c.request.req.WithContext(ctx)
}

func (c *requestContext) OriginalURL() string {
	return c.request.originalURL
}

func (c *requestContext) State() map[string]any {
	return c.state
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.req.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.req.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.req.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.req.Context().Value(key)
}

func (c *requestContext) Set(key, value any) {
	c.SetContext(context.WithValue(c.request.req.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.request.req.Context().Value(key)
}

func (c *requestContext) Cookies() *cookie.Jar {
	if c.jar == nil {
		c.jar = c.app.cookies.Jar(c.response.w, c.request.req, c.request.Secure())
	}
	return c.jar
}

func (c *requestContext) Throw(status int, msg ...string) *HTTPError {
	var message string
	if len(msg) > 0 {
		message = msg[0]
	}
	return NewHTTPError(status, message)
}

func (c *requestContext) Assert(ok bool, status int, msg ...string) error {
	if ok {
		return nil
	}
	return c.Throw(status, msg...)
}

func (c *requestContext) Respond() bool {
	return !c.bypass
}

func (c *requestContext) SetRespond(respond bool) {
	c.bypass = !respond
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.req.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.req.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.req.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.req.Context(), msg, attrs...)
}

func (c *requestContext) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Request     *Request  `json:"request"`
		Response    *Response `json:"response"`
		App         *App      `json:"app"`
		OriginalURL string    `json:"originalUrl"`
		Req         string    `json:"req"`
		Res         string    `json:"res"`
		Socket      string    `json:"socket"`
	}{
		Request:     c.request,
		Response:    c.response,
		App:         c.app,
		OriginalURL: c.request.originalURL,
		Req:         "<original req>",
		Res:         "<original res>",
		Socket:      "<original socket>",
	})
}
