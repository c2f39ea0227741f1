package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/strata/internal"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout returns middleware that puts a deadline on the request context.
//
// Downstream middleware observe the deadline through c.Done() and c.Err().
// The chain stays sequential: once next returns, a deadline that has passed
// turns the result into a *TimeoutError (503), unless downstream already
// returned a different error. On the way out the deadline is lifted again;
// values stored downstream with c.Set stay visible.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(c internal.Context, next internal.Next) error {
		parent := c.Req().Context()
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()

		c.SetContext(ctx)
		err := next()
		c.SetContext(liftedContext{Context: parent, values: c.Req().Context()})

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			if err == nil || errors.Is(err, context.DeadlineExceeded) {
				c.LogWarn("request timeout", "timeout", timeout.String())
				return &TimeoutError{Duration: timeout}
			}
		}
		return err
	}
}

// liftedContext keeps the cancellation of the outer context and the values
// of the inner one.
type liftedContext struct {
	context.Context
	values context.Context
}

func (l liftedContext) Value(key any) any {
	return l.values.Value(key)
}
