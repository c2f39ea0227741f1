package health

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/strata/internal"
)

// Liveness returns middleware that answers GET and HEAD requests to path
// with "OK" and passes everything else downstream.
func Liveness(path string) internal.Middleware {
	return func(c internal.Context, next internal.Next) error {
		if !matches(c, path) {
			return next()
		}
		c.SetStatus(http.StatusOK)
		if wantsJSON(c) {
			c.SetBody(&Report{Status: StatusHealthy})
			return nil
		}
		c.SetBody("OK")
		return nil
	}
}

// Readiness returns middleware that answers GET and HEAD requests to path
// with the result of checks: 200 when all pass, 503 otherwise.
// Other requests pass downstream.
func Readiness(path string, checks Checks, opts ...Option) internal.Middleware {
	cfg := newConfig(opts...)

	return func(c internal.Context, next internal.Next) error {
		if !matches(c, path) {
			return next()
		}

		report := run(c, checks, cfg)

		status := http.StatusOK
		if !report.Healthy() {
			status = http.StatusServiceUnavailable
		}
		c.SetStatus(status)
		c.SetHeader("Cache-Control", "no-store")

		if wantsJSON(c) {
			c.SetBody(report)
			return nil
		}
		c.SetBody(http.StatusText(status))
		return nil
	}
}

func matches(c internal.Context, path string) bool {
	return c.Path() == path && (c.Method() == http.MethodGet || c.Method() == http.MethodHead)
}

// wantsJSON checks ?format=json first, then the Accept header.
func wantsJSON(c internal.Context) bool {
	if c.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(c.Header("Accept"), "application/json")
}
