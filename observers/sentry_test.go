package observers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/strata/internal"
	"github.com/dmitrymomot/strata/middlewares"
	"github.com/dmitrymomot/strata/observers"
	"github.com/dmitrymomot/strata/pkg/logger"
)

type capture struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (c *capture) beforeSend(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()
	return nil
}

func (c *capture) all() []*sentry.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*sentry.Event(nil), c.events...)
}

func newHub(t *testing.T) (*sentry.Hub, *capture) {
	t.Helper()

	rec := &capture{}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:        "https://public@sentry.example.com/1",
		BeforeSend: rec.beforeSend,
	})
	require.NoError(t, err)
	return sentry.NewHub(client, sentry.NewScope()), rec
}

func serve(t *testing.T, obs internal.Observer, req *http.Request, mw ...internal.Middleware) *httptest.ResponseRecorder {
	t.Helper()

	app := internal.New(internal.WithEnv("test"), internal.WithCustomLogger(logger.NewNope()), internal.WithObserver(obs))
	for _, m := range mw {
		app.Use(m)
	}
	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, req)
	return w
}

func TestSentry(t *testing.T) {
	t.Parallel()

	t.Run("captures server errors with request data", func(t *testing.T) {
		t.Parallel()

		hub, rec := newHub(t)
		req := httptest.NewRequest(http.MethodPost, "/orders?draft=1", nil)
		req.Header.Set("X-Request-ID", "req-42")

		w := serve(t, observers.Sentry(observers.WithSentryHub(hub), observers.WithSentryTags(map[string]string{"service": "api"})), req,
			middlewares.RequestID(),
			func(c internal.Context, next internal.Next) error {
				return errors.New("database unreachable")
			},
		)
		require.Equal(t, http.StatusInternalServerError, w.Code)

		events := rec.all()
		require.Len(t, events, 1)
		ev := events[0]
		require.Equal(t, sentry.LevelError, ev.Level)
		require.Equal(t, "500", ev.Tags["status"])
		require.Equal(t, "api", ev.Tags["service"])
		require.Equal(t, "req-42", ev.Tags["request_id"])
		require.NotNil(t, ev.Request)
		require.Equal(t, http.MethodPost, ev.Request.Method)
		require.Equal(t, "/orders?draft=1", ev.Contexts["strata"]["original_url"])
		require.NotEmpty(t, ev.Exception)
		require.Equal(t, "database unreachable", ev.Exception[len(ev.Exception)-1].Value)
	})

	t.Run("skips statuses below the minimum", func(t *testing.T) {
		t.Parallel()

		hub, rec := newHub(t)
		serve(t, observers.Sentry(observers.WithSentryHub(hub)), httptest.NewRequest(http.MethodGet, "/", nil),
			func(c internal.Context, next internal.Next) error {
				return internal.ErrNotFound("")
			},
		)
		require.Empty(t, rec.all())
	})

	t.Run("client errors as warnings when enabled", func(t *testing.T) {
		t.Parallel()

		hub, rec := newHub(t)
		serve(t, observers.Sentry(observers.WithSentryHub(hub), observers.WithSentryMinStatus(400)), httptest.NewRequest(http.MethodGet, "/", nil),
			func(c internal.Context, next internal.Next) error {
				return internal.ErrBadRequest("bad input", internal.WithCode("EINPUT"))
			},
		)

		events := rec.all()
		require.Len(t, events, 1)
		require.Equal(t, sentry.LevelWarning, events[0].Level)
		require.Equal(t, "EINPUT", events[0].Tags["code"])
		require.Equal(t, "bad input", events[0].Exception[len(events[0].Exception)-1].Value)
	})

	t.Run("panic stack is attached", func(t *testing.T) {
		t.Parallel()

		hub, rec := newHub(t)
		serve(t, observers.Sentry(observers.WithSentryHub(hub)), httptest.NewRequest(http.MethodGet, "/", nil),
			middlewares.Recover(),
			func(c internal.Context, next internal.Next) error {
				panic("kaboom")
			},
		)

		events := rec.all()
		require.Len(t, events, 1)
		require.NotEmpty(t, events[0].Contexts["strata"]["stack"])
	})

	t.Run("hub from request context wins", func(t *testing.T) {
		t.Parallel()

		fallback, fallbackCap := newHub(t)
		reqHub, reqCap := newHub(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(sentry.SetHubOnContext(req.Context(), reqHub))
		serve(t, observers.Sentry(observers.WithSentryHub(fallback)), req,
			func(c internal.Context, next internal.Next) error {
				return errors.New("boom")
			},
		)

		require.Empty(t, fallbackCap.all())
		require.Len(t, reqCap.all(), 1)
	})
}
