// Package strata is a minimal HTTP application core built around a single
// idea: a request flows through an ordered list of middleware and every
// middleware can act both before and after the rest of the chain.
//
// # Quick Start
//
// Create an application with strata.New, add middleware with Use or
// WithMiddleware, and call Run:
//
//	app := strata.New(
//	    strata.WithLogger("api", middlewares.RequestIDExtractor()),
//	    strata.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	    ),
//	)
//
//	app.Use(func(c strata.Context, next strata.Next) error {
//	    c.SetBody(map[string]string{"hello": "world"})
//	    return nil
//	})
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// App also implements http.Handler, so it can be mounted in any server or
// passed to httptest.
//
// # The Onion
//
// A middleware receives the request Context and a Next function. Code before
// next runs on the way in, code after it runs once every downstream step has
// settled:
//
//	func timing(c strata.Context, next strata.Next) error {
//	    start := time.Now()
//	    err := next()
//	    c.SetHeader("X-Response-Time", time.Since(start).String())
//	    return err
//	}
//
// Not calling next short-circuits the chain. Calling it twice is an error.
// Compose flattens a list of middleware into one, so chains nest freely.
//
// # Responses
//
// Middleware build the response through the Context: SetBody, SetStatus,
// SetType, SetHeader, Redirect, Attachment. Nothing is written until the
// chain settles; the finalizer then infers the status and content type from
// the body (string, []byte, io.Reader or a JSON-encoded value) and writes it.
// A request nobody answered gets 404. Set c.SetRespond(false) to write to
// c.Res() directly.
//
// # Errors
//
// A returned error (or a panic) ends up in the error funnel. It is normalized
// to an *HTTPError, every header set so far is dropped and the error is
// rendered: the message for exposed client errors, the status text otherwise.
//
//	return strata.ErrNotFound("user not found")
//	return strata.NewHTTPError(http.StatusPaymentRequired, "upgrade your plan")
//
// Observers registered with WithObserver see every funnelled error. When none
// are registered, a default observer logs unexpected server errors, except in
// the "test" environment or when WithSilent is set.
//
// # Context
//
// Context is a context.Context for the request: pass it to database calls
// and it carries the request deadline and values. Set and Get store values
// in the request context; State is a plain map shared by the chain.
//
// # Sub-packages
//
// middlewares holds ready-made middleware (request ID, recover, timeout,
// CORS, JWT, rate limiting, metrics, access log, net/http adapter).
// observers holds the Sentry observer. pkg/config, pkg/logger, pkg/health,
// pkg/redis and pkg/cookie provide the supporting pieces.
package strata
