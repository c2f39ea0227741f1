package middlewares

import (
	"net/http"
	"runtime"

	"github.com/dmitrymomot/strata/internal"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Disable stack trace in logs
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack disables including stack trace in logs.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover returns middleware that recovers from panics downstream.
// The panic is logged and returned as a *PanicError, so upstream middleware
// see it on the way out like any other error. http.ErrAbortHandler is
// re-raised.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{
		StackSize: DefaultStackSize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(c internal.Context, next internal.Next) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler { //nolint:errorlint // sentinel compared as panic value
				panic(r)
			}

			var stack []byte
			if !cfg.DisablePrintStack && cfg.StackSize > 0 {
				stack = make([]byte, cfg.StackSize)
				stack = stack[:runtime.Stack(stack, false)]
			}

			if stack == nil {
				c.LogError("panic recovered", "panic", r)
			} else {
				c.LogError("panic recovered", "panic", r, "stack", string(stack))
			}

			err = &PanicError{
				Value: r,
				Stack: stack,
			}
		}()

		return next()
	}
}
