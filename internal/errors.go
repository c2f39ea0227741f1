package internal

import (
	"errors"
	"io/fs"
	"net/http"
)

// CodeNotExist is the system error code set on errors caused by a missing
// file or resource. The error funnel answers such errors with 404.
const CodeNotExist = "ENOENT"

// ErrClientClosed is reported when the client goes away before the
// response has been completed.
var ErrClientClosed = errors.New("strata: client closed connection before response was completed")

// HTTPError is the normalized error record handled by the error funnel.
// Any error returned by a middleware is converted to an HTTPError before it
// is reported to observers and rendered.
type HTTPError struct {
	// Err is the underlying error (for logging, never shown to clients).
	Err error

	// Headers are applied to the error response after all headers set by
	// upstream middleware have been cleared.
	Headers map[string]string

	// Message is the human readable message. It is written to the client
	// only when Expose is true.
	Message string

	// Code is a system error code such as CodeNotExist.
	Code string

	// Stack is an optional stack trace for diagnostics.
	Stack []byte

	// Status is the HTTP status code. Zero or unknown codes render as 500.
	Status int

	// Expose marks Message as safe to show to the client.
	Expose bool

	// Raw is set when the record was built around an error that was not an
	// HTTPError in the first place.
	Raw bool

	// HeaderSent is set by the funnel when the response had already been
	// committed at the time the error was handled.
	HeaderSent bool
}

func (e *HTTPError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int {
	return e.Status
}

// StatusText returns the canonical reason phrase of the status code.
func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Status)
}

// ResponseStatus returns the status the error funnel answers with:
// 404 for CodeNotExist, 500 for a zero or unknown Status.
func (e *HTTPError) ResponseStatus() int {
	if e.Code == CodeNotExist {
		return http.StatusNotFound
	}
	if !validStatus(e.Status) {
		return http.StatusInternalServerError
	}
	return e.Status
}

// ErrorStatus returns the status an error returned by the chain is
// rendered with.
func ErrorStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return normalizeError(err).ResponseStatus()
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates an HTTPError with the given status code and message.
// Client errors (status < 500) are exposed by default.
// An empty message defaults to the status reason phrase.
func NewHTTPError(status int, message string, opts ...HTTPErrorOption) *HTTPError {
	if message == "" {
		message = http.StatusText(status)
	}
	e := &HTTPError{
		Status:  status,
		Message: message,
		Expose:  status < http.StatusInternalServerError,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithExpose overrides whether the message is shown to the client.
func WithExpose(expose bool) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Expose = expose
	}
}

// WithHeaders sets headers to apply to the error response.
func WithHeaders(headers map[string]string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Headers = headers
	}
}

// WithHeader sets a single header to apply to the error response.
func WithHeader(name, value string) HTTPErrorOption {
	return func(e *HTTPError) {
		if e.Headers == nil {
			e.Headers = make(map[string]string, 1)
		}
		e.Headers[name] = value
	}
}

// WithError attaches the underlying cause.
func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// WithCode sets the system error code.
func WithCode(code string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Code = code
	}
}

// Convenience constructors for common HTTP errors.

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusConflict, message, opts...)
}

func ErrTooManyRequests(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusTooManyRequests, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message, opts...)
}

// IsHTTPError reports whether err is, or wraps, an HTTPError.
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// AsHTTPError extracts the HTTPError from an error chain.
// Returns nil if there is none.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// normalizeError returns err as an HTTPError, wrapping it when needed.
// Wrapped errors are never exposed; their status is taken from a
// StatusCode() method anywhere in the chain.
func normalizeError(err error) *HTTPError {
	if httpErr := AsHTTPError(err); httpErr != nil {
		// Copied so the funnel can flag it without touching shared values.
		cp := *httpErr
		return &cp
	}

	httpErr := &HTTPError{
		Err:     err,
		Message: err.Error(),
		Raw:     true,
	}

	var coded interface{ StatusCode() int }
	if errors.As(err, &coded) {
		httpErr.Status = coded.StatusCode()
	}

	var traced interface{ StackTrace() []byte }
	if errors.As(err, &traced) {
		httpErr.Stack = traced.StackTrace()
	}

	if errors.Is(err, fs.ErrNotExist) {
		httpErr.Code = CodeNotExist
	}

	return httpErr
}
