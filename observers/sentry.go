package observers

import (
	"maps"
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"

	"github.com/dmitrymomot/strata/internal"
	"github.com/dmitrymomot/strata/middlewares"
)

// SentryConfig configures the Sentry observer.
type SentryConfig struct {
	// Hub receives the events when the request carries no hub of its own.
	// Defaults to sentry.CurrentHub().
	Hub *sentry.Hub

	// MinStatus is the lowest status reported. Defaults to 500.
	MinStatus int

	// Tags are added to every event.
	Tags map[string]string
}

// SentryOption configures SentryConfig.
type SentryOption func(*SentryConfig)

// WithSentryHub sets the fallback hub.
func WithSentryHub(hub *sentry.Hub) SentryOption {
	return func(cfg *SentryConfig) {
		cfg.Hub = hub
	}
}

// WithSentryMinStatus reports errors with status >= status.
func WithSentryMinStatus(status int) SentryOption {
	return func(cfg *SentryConfig) {
		cfg.MinStatus = status
	}
}

// WithSentryTags adds static tags to every event.
func WithSentryTags(tags map[string]string) SentryOption {
	return func(cfg *SentryConfig) {
		cfg.Tags = tags
	}
}

// Sentry returns an Observer that captures funnelled errors as Sentry
// exceptions. Each event is sent from a clone of the hub so request data
// never leaks into other events.
//
//	app := strata.New(strata.WithObserver(observers.Sentry()))
func Sentry(opts ...SentryOption) internal.Observer {
	cfg := &SentryConfig{MinStatus: http.StatusInternalServerError}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(err *internal.HTTPError, c internal.Context) {
		status := err.ResponseStatus()
		if status < cfg.MinStatus {
			return
		}

		hub := sentry.GetHubFromContext(c)
		if hub == nil {
			hub = cfg.Hub
		}
		if hub == nil {
			hub = sentry.CurrentHub()
		}
		hub = hub.Clone()

		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetRequest(c.Req())
			scope.SetLevel(levelFor(status))
			scope.SetTags(cfg.Tags)
			scope.SetTag("status", strconv.Itoa(status))
			if err.Code != "" {
				scope.SetTag("code", err.Code)
			}
			if id := middlewares.GetRequestID(c); id != "" {
				scope.SetTag("request_id", id)
			}

			details := sentry.Context{
				"method":       c.Method(),
				"original_url": c.OriginalURL(),
				"ip":           c.IP(),
				"header_sent":  err.HeaderSent,
			}
			if len(err.Stack) > 0 {
				details["stack"] = string(err.Stack)
			}
			if len(err.Headers) > 0 {
				details["headers"] = maps.Clone(err.Headers)
			}
			scope.SetContext("strata", details)

			cause := error(err)
			if err.Err != nil {
				cause = err.Err
			}
			hub.CaptureException(cause)
		})
	}
}

func levelFor(status int) sentry.Level {
	if status >= http.StatusInternalServerError {
		return sentry.LevelError
	}
	return sentry.LevelWarning
}
