package internal

// Next runs the rest of the chain and returns once every downstream step
// has settled. It must be called at most once per middleware invocation.
type Next func() error

// Middleware is a single step of the request chain.
// Code before next() runs on the way in, code after it runs on the way out,
// once everything downstream has finished. Not calling next short-circuits
// the rest of the chain; returning an error rejects the whole chain.
//
// Example:
//
//	func Timing(c strata.Context, next strata.Next) error {
//	    start := time.Now()
//	    err := next()
//	    c.SetHeader("X-Response-Time", time.Since(start).String())
//	    return err
//	}
type Middleware func(c Context, next Next) error

// Observer receives every error that reaches the error funnel, together with
// the request context it happened in. Observers are called even when the
// response has already been committed.
type Observer func(err *HTTPError, c Context)
