package internal

import (
	"errors"
	"slices"
)

// Contract violations raised by the composer.
var (
	ErrNextCalledMultipleTimes = errors.New("strata: next() called multiple times")
	ErrNilMiddleware           = errors.New("strata: middleware must not be nil")
)

// Compose turns an ordered list of middleware into a single middleware.
//
// The composed step runs mw[0] first; each step reaches the following one
// through its next argument. After the last step, the next passed to the
// composed step is invoked, or nothing at all when it is nil, so composed
// chains can be nested inside each other.
//
// Compose panics if any middleware is nil. The returned middleware keeps its
// own copy of the list.
func Compose(mw ...Middleware) Middleware {
	for _, m := range mw {
		if m == nil {
			panic(ErrNilMiddleware)
		}
	}
	steps := slices.Clone(mw)

	return func(c Context, next Next) error {
		// cursor is the highest index dispatched so far in this run.
		cursor := -1

		var dispatch func(i int) error
		dispatch = func(i int) error {
			if i <= cursor {
				return ErrNextCalledMultipleTimes
			}
			cursor = i

			if i == len(steps) {
				if next == nil {
					return nil
				}
				return next()
			}

			return steps[i](c, func() error {
				return dispatch(i + 1)
			})
		}

		return dispatch(0)
	}
}
