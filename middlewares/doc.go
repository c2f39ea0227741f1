// Package middlewares provides ready-made middleware for Strata applications.
//
// Every middleware here is an onion step: it runs code, calls next to hand
// control downstream and may run more code once next returns. Install them
// with app.Use or strata.WithMiddleware; order matters, the first one added
// is the outermost.
//
//	app := strata.New(
//	    strata.WithLogger("api", middlewares.RequestIDExtractor()),
//	    strata.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.AccessLog(),
//	        middlewares.Recover(),
//	        middlewares.Timeout(10*time.Second),
//	    ),
//	)
//
// # Request ID
//
// RequestID reuses an incoming X-Request-ID or X-Correlation-ID header or
// generates a UUIDv7, stores it in the request context and echoes it in the
// response. GetRequestID reads it back; RequestIDExtractor adds it to every
// log record.
//
// # Recover
//
// Recover turns a panic in downstream middleware into a *PanicError that
// carries the stack trace. The error funnel answers with 500 and hands the
// stack to observers. http.ErrAbortHandler is re-raised.
//
// # Timeout
//
// Timeout puts a deadline on the request context. Downstream code watches
// c.Done(); when the deadline passes, the result becomes a *TimeoutError
// answered with 503.
//
// # CORS
//
// CORS sets the Access-Control-* headers for allowed origins and answers
// preflight requests with 204 without running the rest of the chain.
//
//	app.Use(middlewares.CORS(
//	    middlewares.WithAllowOrigins("https://app.example.com"),
//	    middlewares.WithAllowCredentials(),
//	))
//
// # JWT
//
// JWT validates an HMAC-signed bearer token and stores the claims in
// c.State(). Missing or invalid tokens end the chain with 401.
//
//	app.Use(middlewares.JWT[jwt.RegisteredClaims](secret))
//	// downstream
//	claims := middlewares.GetJWTClaims[jwt.RegisteredClaims](c)
//
// # Rate limiting
//
// RateLimit counts requests per key in fixed windows. MemoryStore keeps the
// counters in-process; RedisStore shares them between instances.
//
// # Metrics and access log
//
// Metrics records Prometheus request counters and durations; its Endpoint
// serves the registry. AccessLog writes one record per request once the
// downstream chain has settled.
//
// # net/http middleware
//
// FromHTTP adapts func(http.Handler) http.Handler middleware, for example
// the ones in github.com/go-chi/chi/v5/middleware.
package middlewares
