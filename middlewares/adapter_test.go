package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/strata/internal"
	"github.com/dmitrymomot/strata/middlewares"
)

func TestFromHTTP(t *testing.T) {
	t.Parallel()

	t.Run("replaced request reaches downstream", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Real-IP", "203.0.113.7")

		var ip string
		run(t, req,
			middlewares.FromHTTP(middleware.RealIP),
			handler(func(c internal.Context) error {
				ip = c.IP()
				return nil
			}),
		)
		require.Equal(t, "203.0.113.7", ip)
	})

	t.Run("headers set by the wrapped middleware are kept", func(t *testing.T) {
		t.Parallel()

		w := run(t, httptest.NewRequest(http.MethodGet, "/", nil),
			middlewares.FromHTTP(middleware.SetHeader("X-Frame-Options", "DENY")),
			middlewares.FromHTTP(middleware.NoCache),
			okHandler,
		)
		require.Equal(t, "ok", w.Body.String())
		require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		require.Equal(t, "no-cache", w.Header().Get("Pragma"))
	})

	t.Run("middleware answering itself stops the chain", func(t *testing.T) {
		t.Parallel()

		called := false
		w := run(t, httptest.NewRequest(http.MethodGet, "/ping", nil),
			middlewares.FromHTTP(middleware.Heartbeat("/ping")),
			handler(func(c internal.Context) error {
				called = true
				return nil
			}),
		)
		require.False(t, called)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, ".", w.Body.String())
	})

	t.Run("downstream errors propagate", func(t *testing.T) {
		t.Parallel()

		w := run(t, httptest.NewRequest(http.MethodGet, "/", nil),
			middlewares.FromHTTP(middleware.NoCache),
			handler(func(c internal.Context) error {
				return internal.ErrConflict("taken")
			}),
		)
		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, "taken", w.Body.String())
	})

	t.Run("nil panics", func(t *testing.T) {
		t.Parallel()

		require.PanicsWithValue(t, internal.ErrNilMiddleware, func() {
			middlewares.FromHTTP(nil)
		})
	})
}
