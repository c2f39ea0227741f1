package middlewares

import (
	"net/http"

	"github.com/dmitrymomot/strata/internal"
)

// FromHTTP adapts a standard net/http middleware, such as the ones in
// github.com/go-chi/chi/v5/middleware, to the chain.
//
// The wrapped middleware sees the raw request and writer. When it calls its
// next handler, the (possibly replaced) request is installed on the context
// and the rest of the chain runs. When it answers the request itself, the
// chain stops there.
//
// The response is written after the chain settles, so middleware that wrap
// the ResponseWriter to transform the body (compression, buffering) have no
// effect on it.
//
// Example:
//
//	app.Use(middlewares.FromHTTP(middleware.RealIP))
//	app.Use(middlewares.FromHTTP(middleware.Heartbeat("/ping")))
func FromHTTP(mw func(http.Handler) http.Handler) internal.Middleware {
	if mw == nil {
		panic(internal.ErrNilMiddleware)
	}

	return func(c internal.Context, next internal.Next) error {
		var err error
		h := mw(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			c.SetReq(r)
			err = next()
		}))
		h.ServeHTTP(c.Res(), c.Req())
		return err
	}
}
