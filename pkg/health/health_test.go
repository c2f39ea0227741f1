package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/strata/internal"
	"github.com/dmitrymomot/strata/pkg/health"
)

func serve(t *testing.T, mw internal.Middleware, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	app := internal.New(internal.WithEnv("test"))
	app.Use(mw)
	app.Use(func(c internal.Context, next internal.Next) error {
		c.SetBody("downstream")
		return nil
	})

	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, req)
	return w
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	t.Run("answers probe", func(t *testing.T) {
		t.Parallel()

		w := serve(t, health.Liveness("/live"), httptest.NewRequest(http.MethodGet, "/live", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "OK", w.Body.String())
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/live?format=json", nil)
		w := serve(t, health.Liveness("/live"), req)
		require.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	})

	t.Run("passes other paths", func(t *testing.T) {
		t.Parallel()

		w := serve(t, health.Liveness("/live"), httptest.NewRequest(http.MethodGet, "/orders", nil))
		require.Equal(t, "downstream", w.Body.String())
	})

	t.Run("passes other methods", func(t *testing.T) {
		t.Parallel()

		w := serve(t, health.Liveness("/live"), httptest.NewRequest(http.MethodPost, "/live", nil))
		require.Equal(t, "downstream", w.Body.String())
	})
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all healthy", func(t *testing.T) {
		t.Parallel()

		mw := health.Readiness("/ready", health.Checks{"db": ok, "cache": ok})
		w := serve(t, mw, httptest.NewRequest(http.MethodGet, "/ready", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "OK", w.Body.String())
		require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("one failing", func(t *testing.T) {
		t.Parallel()

		mw := health.Readiness("/ready", health.Checks{"db": ok, "cache": fail})
		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		req.Header.Set("Accept", "application/json")
		w := serve(t, mw, req)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.JSONEq(t, `{
			"status": "unhealthy",
			"checks": {
				"db": {"status": "healthy"},
				"cache": {"status": "unhealthy", "error": "connection refused"}
			}
		}`, w.Body.String())
	})

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()

		w := serve(t, health.Readiness("/ready", nil), httptest.NewRequest(http.MethodGet, "/ready", nil))
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRunTimeout(t *testing.T) {
	t.Parallel()

	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}

	report := health.Run(context.Background(), health.Checks{"slow": slow}, health.WithTimeout(10*time.Millisecond))
	require.False(t, report.Healthy())
	require.Equal(t, health.StatusUnhealthy, report.Checks["slow"].Status)
	require.Contains(t, report.Checks["slow"].Error, health.ErrCheckTimeout.Error())
}
