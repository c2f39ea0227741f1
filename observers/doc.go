// Package observers provides error observers for Strata applications.
//
// An observer is called by the error funnel for every error that reaches
// the outermost layer, after the error response has been decided. Sentry
// forwards those errors to Sentry with the request attached.
package observers
