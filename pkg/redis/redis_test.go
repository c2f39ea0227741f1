package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name string
		url  string
		want error
	}{
		{"empty", "", ErrEmptyConnectionURL},
		{"http scheme", "http://localhost:6379", ErrFailedToParseURL},
		{"no scheme", "localhost:6379", ErrFailedToParseURL},
		{"invalid port", "redis://localhost:notaport", ErrFailedToParseURL},
		{"invalid database", "redis://localhost:6379/notanumber", ErrFailedToParseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := Open(ctx, tt.url)
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, client)
		})
	}
}

func TestOpen_Unreachable(t *testing.T) {
	t.Parallel()

	client, err := Open(context.Background(), "redis://127.0.0.1:1/0",
		WithRetry(2, time.Millisecond),
		WithTimeout(200*time.Millisecond),
	)
	require.ErrorIs(t, err, ErrConnectionFailed)
	require.Nil(t, client)
}

func TestOpen_CanceledDuringRetry(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Open(ctx, "redis://127.0.0.1:1/0", WithRetry(3, time.Hour))
	require.ErrorIs(t, err, ErrConnectionFailed)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	err := Healthcheck(nil)(context.Background())
	require.ErrorIs(t, err, ErrHealthcheckFailed)
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	closeErr := errors.New("close error")
	c := &closer{err: closeErr}

	require.ErrorIs(t, Shutdown(c)(context.Background()), closeErr)
	require.True(t, c.closed)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	o := defaultOptions()
	WithPoolSize(25)(o)
	WithPoolSize(0)(o)
	WithMinIdleConns(-1)(o)
	WithRetry(0, 2*time.Second)(o)
	WithTimeout(7 * time.Second)(o)

	require.Equal(t, 25, o.poolSize)
	require.Zero(t, o.minIdleConns)
	require.Equal(t, 1, o.retryAttempts)
	require.Equal(t, 2*time.Second, o.retryInterval)
	require.Equal(t, 7*time.Second, o.timeout)
}

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}
