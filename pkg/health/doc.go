// Package health provides liveness and readiness probes as Strata middleware.
//
// [Liveness] always answers "OK". [Readiness] runs a set of named [Checks]
// in parallel and answers 200 or 503. Both only handle GET and HEAD requests
// to their path and pass everything else downstream, so they are usually
// installed near the top of the chain:
//
//	app.Use(health.Liveness("/health/live"))
//	app.Use(health.Readiness("/health/ready", health.Checks{
//	    "redis": redis.Healthcheck(client),
//	}, health.WithTimeout(3*time.Second)))
//
// Responses are plain text by default. Send Accept: application/json or
// ?format=json for the detailed report:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "redis": {"status": "unhealthy", "error": "connection refused"}
//	  }
//	}
//
// [Run] executes checks outside of a request, e.g. in a startup hook.
package health
