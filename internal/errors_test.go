package internal_test

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/strata/internal"
)

func TestNewHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("client errors are exposed", func(t *testing.T) {
		t.Parallel()
		err := internal.NewHTTPError(http.StatusBadRequest, "bad input")
		require.Equal(t, http.StatusBadRequest, err.StatusCode())
		require.Equal(t, "bad input", err.Error())
		require.True(t, err.Expose)
		require.False(t, err.Raw)
	})

	t.Run("server errors are hidden", func(t *testing.T) {
		t.Parallel()
		err := internal.ErrInternal("db down")
		require.False(t, err.Expose)
		require.Equal(t, "Internal Server Error", err.StatusText())
	})

	t.Run("empty message defaults to reason phrase", func(t *testing.T) {
		t.Parallel()
		err := internal.ErrNotFound("")
		require.Equal(t, "Not Found", err.Message)
	})

	t.Run("options", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("cause")
		err := internal.ErrTooManyRequests("slow down",
			internal.WithHeader("Retry-After", "10"),
			internal.WithError(cause),
			internal.WithCode("RATE"),
			internal.WithExpose(false),
		)
		require.Equal(t, map[string]string{"Retry-After": "10"}, err.Headers)
		require.ErrorIs(t, err, cause)
		require.Equal(t, "RATE", err.Code)
		require.False(t, err.Expose)
	})

	t.Run("error falls back to cause", func(t *testing.T) {
		t.Parallel()
		err := &internal.HTTPError{Err: errors.New("boom")}
		require.Equal(t, "boom", err.Error())
	})
}

func TestIsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("direct HTTPError", func(t *testing.T) {
		t.Parallel()
		err := internal.NewHTTPError(http.StatusNotFound, "not found")
		require.True(t, internal.IsHTTPError(err))
	})

	t.Run("wrapped HTTPError", func(t *testing.T) {
		t.Parallel()
		httpErr := internal.NewHTTPError(http.StatusBadRequest, "bad request")
		err := fmt.Errorf("handler failed: %w", httpErr)
		require.True(t, internal.IsHTTPError(err))
	})

	t.Run("double-wrapped HTTPError", func(t *testing.T) {
		t.Parallel()
		httpErr := internal.ErrConflict("conflict")
		err := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", httpErr))
		require.True(t, internal.IsHTTPError(err))
	})

	t.Run("unrelated error", func(t *testing.T) {
		t.Parallel()
		require.False(t, internal.IsHTTPError(errors.New("something went wrong")))
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		require.False(t, internal.IsHTTPError(nil))
	})
}

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("wrapped HTTPError preserves fields", func(t *testing.T) {
		t.Parallel()
		httpErr := internal.ErrForbidden("forbidden", internal.WithCode("AUTH_001"))
		err := fmt.Errorf("middleware: %w", httpErr)

		got := internal.AsHTTPError(err)
		require.NotNil(t, got)
		require.Equal(t, http.StatusForbidden, got.Status)
		require.Equal(t, "forbidden", got.Message)
		require.Equal(t, "AUTH_001", got.Code)
	})

	t.Run("unrelated error returns nil", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, internal.AsHTTPError(errors.New("plain error")))
	})

	t.Run("nil returns nil", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, internal.AsHTTPError(nil))
	})
}

func TestHTTPErrorResponseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *internal.HTTPError
		want int
	}{
		{"known status", internal.ErrConflict("taken"), http.StatusConflict},
		{"zero status", &internal.HTTPError{Message: "raw"}, http.StatusInternalServerError},
		{"unknown status", &internal.HTTPError{Status: 42}, http.StatusInternalServerError},
		{"not exist code wins", internal.ErrForbidden("x", internal.WithCode(internal.CodeNotExist)), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.err.ResponseStatus())
		})
	}
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped HTTPError", fmt.Errorf("auth: %w", internal.ErrUnauthorized("no token")), http.StatusUnauthorized},
		{"missing file", fmt.Errorf("open: %w", fs.ErrNotExist), http.StatusNotFound},
		{"status from error chain", fmt.Errorf("x: %w", statusErr(http.StatusBadGateway)), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, internal.ErrorStatus(tt.err))
		})
	}
}
