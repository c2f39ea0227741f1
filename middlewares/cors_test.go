package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/strata/internal"
	"github.com/dmitrymomot/strata/middlewares"
)

func corsRequest(method, origin string) *http.Request {
	req := httptest.NewRequest(method, "/", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func preflight(origin string) *http.Request {
	req := corsRequest(http.MethodOptions, origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	return req
}

func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("default configuration allows all origins", func(t *testing.T) {
		t.Parallel()

		w := run(t, corsRequest(http.MethodGet, "http://example.com"), middlewares.CORS(), okHandler)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		require.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("no CORS headers when Origin header is missing", func(t *testing.T) {
		t.Parallel()

		w := run(t, corsRequest(http.MethodGet, ""), middlewares.CORS(), okHandler)
		require.Equal(t, "ok", w.Body.String())
		require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "Origin", w.Header().Get("Vary"))
	})

	t.Run("specific origins list", func(t *testing.T) {
		t.Parallel()

		opts := middlewares.WithAllowOrigins("http://allowed.com", "http://also-allowed.com")

		w := run(t, corsRequest(http.MethodGet, "http://also-allowed.com"), middlewares.CORS(opts), okHandler)
		require.Equal(t, "http://also-allowed.com", w.Header().Get("Access-Control-Allow-Origin"))

		w = run(t, corsRequest(http.MethodGet, "http://blocked.com"), middlewares.CORS(opts), okHandler)
		require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "ok", w.Body.String())
	})

	t.Run("AllowOriginFunc overrides AllowOrigins", func(t *testing.T) {
		t.Parallel()

		mw := func() internal.Middleware {
			return middlewares.CORS(
				middlewares.WithAllowOrigins("http://static.com"),
				middlewares.WithAllowOriginFunc(func(origin string) bool {
					return origin == "http://dynamic.com"
				}),
			)
		}

		w := run(t, corsRequest(http.MethodGet, "http://dynamic.com"), mw(), okHandler)
		require.Equal(t, "http://dynamic.com", w.Header().Get("Access-Control-Allow-Origin"))

		w = run(t, corsRequest(http.MethodGet, "http://static.com"), mw(), okHandler)
		require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight ends the chain with 204", func(t *testing.T) {
		t.Parallel()

		called := false
		w := run(t, preflight("http://example.com"),
			middlewares.CORS(middlewares.WithMaxAge(time.Hour)),
			handler(func(c internal.Context) error {
				called = true
				return nil
			}),
		)

		require.False(t, called)
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Empty(t, w.Body.String())
		require.Equal(t, "GET, HEAD, POST, PUT, PATCH, DELETE", w.Header().Get("Access-Control-Allow-Methods"))
		require.Equal(t, "Origin, Content-Type, Accept, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
		require.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("preflight echoes requested headers without a configured list", func(t *testing.T) {
		t.Parallel()

		req := preflight("http://example.com")
		req.Header.Set("Access-Control-Request-Headers", "X-Custom")
		w := run(t, req, middlewares.CORS(middlewares.WithAllowHeaders(), middlewares.WithMaxAge(0)), okHandler)

		require.Equal(t, "X-Custom", w.Header().Get("Access-Control-Allow-Headers"))
		require.Empty(t, w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("plain OPTIONS goes downstream", func(t *testing.T) {
		t.Parallel()

		w := run(t, corsRequest(http.MethodOptions, "http://example.com"), middlewares.CORS(), okHandler)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "ok", w.Body.String())
		require.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("credentials mode echoes origin instead of wildcard", func(t *testing.T) {
		t.Parallel()

		w := run(t, corsRequest(http.MethodGet, "http://example.com"),
			middlewares.CORS(middlewares.WithAllowCredentials()),
			okHandler,
		)
		require.Equal(t, "http://example.com", w.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("expose headers on actual requests only", func(t *testing.T) {
		t.Parallel()

		mw := func() internal.Middleware {
			return middlewares.CORS(middlewares.WithExposeHeaders("X-Total", "X-Page"))
		}

		w := run(t, corsRequest(http.MethodGet, "http://example.com"), mw(), okHandler)
		require.Equal(t, "X-Total, X-Page", w.Header().Get("Access-Control-Expose-Headers"))

		w = run(t, preflight("http://example.com"), mw(), okHandler)
		require.Empty(t, w.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("custom methods", func(t *testing.T) {
		t.Parallel()

		w := run(t, preflight("http://example.com"),
			middlewares.CORS(middlewares.WithAllowMethods(http.MethodGet, http.MethodPost)),
		)
		require.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("downstream errors clear CORS headers", func(t *testing.T) {
		t.Parallel()

		w := run(t, corsRequest(http.MethodGet, "http://example.com"),
			middlewares.CORS(),
			handler(func(c internal.Context) error {
				return internal.ErrBadRequest("bad input")
			}),
		)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "bad input", w.Body.String())
		require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
