package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/strata/internal"
	"github.com/dmitrymomot/strata/middlewares"
)

type timeoutKey struct{}

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("passes through when downstream finishes in time", func(t *testing.T) {
		t.Parallel()

		w := run(t, httptest.NewRequest(http.MethodGet, "/", nil),
			middlewares.Timeout(time.Second),
			okHandler,
		)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "ok", w.Body.String())
	})

	t.Run("downstream sees the deadline", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool
		run(t, httptest.NewRequest(http.MethodGet, "/", nil),
			middlewares.Timeout(time.Second),
			handler(func(c internal.Context) error {
				_, hasDeadline = c.Deadline()
				return nil
			}),
		)
		require.True(t, hasDeadline)
	})

	t.Run("slow downstream becomes 503", func(t *testing.T) {
		t.Parallel()

		var caught error
		w := run(t, httptest.NewRequest(http.MethodGet, "/", nil),
			func(c internal.Context, next internal.Next) error {
				caught = next()
				return caught
			},
			middlewares.Timeout(10*time.Millisecond),
			handler(func(c internal.Context) error {
				<-c.Done()
				c.SetBody("too late")
				return c.Err()
			}),
		)

		require.True(t, middlewares.IsTimeoutError(caught))
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.Equal(t, "Service Unavailable", w.Body.String())
	})

	t.Run("other downstream errors win", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		var caught error
		run(t, httptest.NewRequest(http.MethodGet, "/", nil),
			func(c internal.Context, next internal.Next) error {
				caught = next()
				return nil
			},
			middlewares.Timeout(5*time.Millisecond),
			handler(func(c internal.Context) error {
				time.Sleep(20 * time.Millisecond)
				return boom
			}),
		)
		require.ErrorIs(t, caught, boom)
	})

	t.Run("deadline lifted on the way out", func(t *testing.T) {
		t.Parallel()

		var (
			hasDeadline bool
			upstreamErr error
			value       any
		)
		run(t, httptest.NewRequest(http.MethodGet, "/", nil),
			func(c internal.Context, next internal.Next) error {
				err := next()
				_, hasDeadline = c.Deadline()
				upstreamErr = c.Err()
				value = c.Get(timeoutKey{})
				return err
			},
			middlewares.Timeout(time.Second),
			handler(func(c internal.Context) error {
				c.Set(timeoutKey{}, "kept")
				return nil
			}),
		)

		require.False(t, hasDeadline)
		require.NoError(t, upstreamErr)
		require.Equal(t, "kept", value)
	})

	t.Run("non-positive timeout uses default", func(t *testing.T) {
		t.Parallel()

		var deadline time.Time
		run(t, httptest.NewRequest(http.MethodGet, "/", nil),
			middlewares.Timeout(0),
			handler(func(c internal.Context) error {
				deadline, _ = c.Deadline()
				return nil
			}),
		)
		require.WithinDuration(t, time.Now().Add(middlewares.DefaultTimeout), deadline, 5*time.Second)
	})

	t.Run("response stays writable after deadline", func(t *testing.T) {
		t.Parallel()

		w := run(t, httptest.NewRequest(http.MethodGet, "/", nil),
			func(c internal.Context, next internal.Next) error {
				_ = next()
				c.SetStatus(http.StatusGatewayTimeout)
				c.SetBody("handled upstream")
				return nil
			},
			middlewares.Timeout(time.Millisecond),
			handler(func(c internal.Context) error {
				<-c.Done()
				return context.Cause(c)
			}),
		)
		require.Equal(t, http.StatusGatewayTimeout, w.Code)
		require.Equal(t, "handled upstream", w.Body.String())
	})
}
