package middlewares_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dmitrymomot/strata/internal"
)

// handler is the innermost step used by most tests.
func handler(fn func(c internal.Context) error) internal.Middleware {
	return func(c internal.Context, next internal.Next) error {
		return fn(c)
	}
}

// okHandler answers with "ok".
var okHandler = handler(func(c internal.Context) error {
	c.SetBody("ok")
	return nil
})

// run sends req through a test App built from mw.
func run(t *testing.T, req *http.Request, mw ...internal.Middleware) *httptest.ResponseRecorder {
	t.Helper()
	return runApp(t, internal.New(internal.WithEnv("test")), req, mw...)
}

func runApp(t *testing.T, app *internal.App, req *http.Request, mw ...internal.Middleware) *httptest.ResponseRecorder {
	t.Helper()

	for _, m := range mw {
		app.Use(m)
	}
	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, req)
	return w
}

// syncBuffer is a bytes.Buffer safe for concurrent log writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// bufferedApp returns an App logging JSON lines to the returned buffer.
func bufferedApp(opts ...internal.Option) (*internal.App, *syncBuffer) {
	buf := &syncBuffer{}
	base := []internal.Option{
		internal.WithEnv("test"),
		internal.WithCustomLogger(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	}
	return internal.New(append(base, opts...)...), buf
}

// observed collects the errors reported to the app's observers.
type observed struct {
	mu   sync.Mutex
	errs []*internal.HTTPError
}

func (o *observed) observe(err *internal.HTTPError, _ internal.Context) {
	o.mu.Lock()
	o.errs = append(o.errs, err)
	o.mu.Unlock()
}

func (o *observed) last() *internal.HTTPError {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.errs) == 0 {
		return nil
	}
	return o.errs[len(o.errs)-1]
}
