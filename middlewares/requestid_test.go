package middlewares_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/strata/internal"
	"github.com/dmitrymomot/strata/middlewares"
	"github.com/dmitrymomot/strata/pkg/logger"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates UUIDv7 when not present", func(t *testing.T) {
		t.Parallel()

		var captured string
		w := run(t, httptest.NewRequest(http.MethodGet, "/", nil),
			middlewares.RequestID(),
			handler(func(c internal.Context) error {
				captured = middlewares.GetRequestID(c)
				return nil
			}),
		)

		id, err := uuid.Parse(captured)
		require.NoError(t, err)
		require.Equal(t, uuid.Version(7), id.Version())
		require.Equal(t, captured, w.Header().Get("X-Request-ID"))
	})

	t.Run("uses first matching header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr-1")
		w := run(t, req, middlewares.RequestID(), okHandler)

		require.Equal(t, "corr-1", w.Header().Get("X-Request-ID"))

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr-1")
		req.Header.Set("X-Request-ID", "req-1")
		w = run(t, req, middlewares.RequestID(), okHandler)

		require.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	})

	t.Run("custom options", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Trace", "ignored-by-default")
		w := run(t, req,
			middlewares.RequestID(
				middlewares.WithRequestIDHeaders("X-Other"),
				middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
				middlewares.WithRequestIDResponseHeader("X-Trace-ID"),
			),
			okHandler,
		)

		require.Equal(t, "fixed", w.Header().Get("X-Trace-ID"))
		require.Empty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("GetRequestID without middleware", func(t *testing.T) {
		t.Parallel()

		var captured = "unset"
		run(t, httptest.NewRequest(http.MethodGet, "/", nil), handler(func(c internal.Context) error {
			captured = middlewares.GetRequestID(c)
			return nil
		}))
		require.Empty(t, captured)
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}
	log := slog.New(logger.Decorate(slog.NewJSONHandler(buf, nil), middlewares.RequestIDExtractor()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	runApp(t, internal.New(internal.WithEnv("test"), internal.WithCustomLogger(log)), req,
		middlewares.RequestID(),
		handler(func(c internal.Context) error {
			c.LogInfo("handled")
			return nil
		}),
	)

	require.Contains(t, buf.String(), `"request_id":"abc-123"`)
}
