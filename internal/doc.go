// Package internal provides the core types and implementation for the Strata framework.
//
// This package is internal and should not be used directly. Import "github.com/dmitrymomot/strata"
// instead, which re-exports the public API.
//
// # Core Types
//
//   - App: holds settings, the middleware list and the error observers
//   - Context: one per exchange; owns the Request and Response pair
//   - Middleware: a chain step with the signature func(c Context, next Next) error
//   - HTTPError: the normalized error record handled by the error funnel
//   - Observer: receives every error that reaches the funnel
//
// # Request Lifecycle
//
// For each incoming request the handler built by App.Handler:
//
//  1. creates a Context wired to a fresh Request and Response (status 404)
//  2. runs the composed chain; panics are recovered into errors
//  3. on error, calls Context.OnError, which notifies observers and renders
//     a plain text error response when the header is not sent yet
//  4. on success, serializes the response body according to its kind
//
// # Context as context.Context
//
// Context embeds context.Context. Deadline, Done, Err and Value delegate to
// the current request context, so middleware that calls SetContext (for
// example to add a deadline) affects everything downstream:
//
//	func(c strata.Context, next strata.Next) error {
//	    user, err := repo.GetUser(c, c.Query().Get("id"))
//	    if err != nil {
//	        return err
//	    }
//	    c.SetBody(user)
//	    return next()
//	}
//
// # Delegation
//
// Most Response and Request accessors are reachable from the Context
// directly. The set is fixed and listed in delegate.go: c.SetBody forwards to
// c.Response().SetBody, c.Path to c.Request().Path, and so on.
package internal
