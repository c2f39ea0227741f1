package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Content type shorthands accepted by Response.SetType.
var typeShorthands = map[string]string{
	"text": "text/plain; charset=utf-8",
	"html": "text/html; charset=utf-8",
	"json": "application/json; charset=utf-8",
	"bin":  "application/octet-stream",
	"form": "application/x-www-form-urlencoded",
}

// Response is the response side of an exchange. Nothing is written to the
// client until the finalizer or the error funnel ends the exchange, unless
// a middleware writes to the raw writer itself.
type Response struct {
	w        *ResponseWriter
	conn     context.Context
	ctx      *requestContext
	request  *Request
	body     any
	message  string
	status   int
	explicit bool
	ended    atomic.Bool
}

// Writer returns the wrapped response writer.
func (r *Response) Writer() *ResponseWriter {
	return r.w
}

// Ctx returns the context this response belongs to.
func (r *Response) Ctx() Context {
	return r.ctx
}

// Request returns the paired request.
func (r *Response) Request() *Request {
	return r.request
}

// Status returns the response status code.
func (r *Response) Status() int {
	return r.status
}

// SetStatus sets the response status code.
// Panics when code is outside 100..999. Setting a status that forbids a
// body drops the current body.
func (r *Response) SetStatus(code int) {
	r.setStatus(code)
	r.explicit = true
}

func (r *Response) setStatus(code int) {
	if code < 100 || code > 999 {
		panic(fmt.Sprintf("strata: invalid status code: %d", code))
	}
	if r.HeaderSent() {
		return
	}
	r.status = code
	r.message = ""
	if emptyStatus(code) {
		r.body = nil
	}
}

// Message returns the status message, defaulting to the reason phrase.
func (r *Response) Message() string {
	if r.message != "" {
		return r.message
	}
	return http.StatusText(r.status)
}

// SetMessage overrides the status message.
func (r *Response) SetMessage(msg string) {
	r.message = msg
}

// Body returns the current body value.
func (r *Response) Body() any {
	return r.body
}

// SetBody sets the response body and infers status and content headers.
//
// A nil body turns the response into 204 unless a status was set explicitly
// and drops content headers. Any other value switches the status to 200
// unless it was set explicitly. Strings are served as HTML when they start
// with "<" and as plain text otherwise; []byte and io.Reader as binary;
// everything else as JSON.
func (r *Response) SetBody(v any) {
	r.body = v
	if r.HeaderSent() {
		return
	}

	h := r.w.Header()
	if v == nil {
		if !r.explicit && !emptyStatus(r.status) {
			r.setStatus(http.StatusNoContent)
		}
		h.Del("Content-Type")
		h.Del("Content-Length")
		h.Del("Transfer-Encoding")
		return
	}

	if !r.explicit {
		r.setStatus(http.StatusOK)
	}
	setType := h.Get("Content-Type") == ""

	switch b := v.(type) {
	case string:
		if setType {
			if strings.HasPrefix(strings.TrimSpace(b), "<") {
				r.SetType("html")
			} else {
				r.SetType("text")
			}
		}
		r.SetLength(int64(len(b)))
	case []byte:
		if setType {
			r.SetType("bin")
		}
		r.SetLength(int64(len(b)))
	case io.Reader:
		h.Del("Content-Length")
		if setType {
			r.SetType("bin")
		}
	default:
		h.Del("Content-Length")
		r.SetType("json")
	}
}

// Length returns the declared Content-Length, or the size of a string or
// []byte body. Returns -1 when unknown.
func (r *Response) Length() int64 {
	if v := r.w.Header().Get("Content-Length"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return -1
		}
		return n
	}
	switch b := r.body.(type) {
	case string:
		return int64(len(b))
	case []byte:
		return int64(len(b))
	}
	return -1
}

// SetLength sets the Content-Length header.
func (r *Response) SetLength(n int64) {
	r.w.Header().Set("Content-Length", strconv.FormatInt(n, 10))
}

// Type returns the media type without parameters.
func (r *Response) Type() string {
	t, _, _ := strings.Cut(r.w.Header().Get("Content-Type"), ";")
	return strings.TrimSpace(t)
}

// SetType sets the Content-Type header. It accepts a full media type, a
// shorthand ("text", "html", "json", "bin", "form") or a file extension.
// Unknown values and "" remove the header.
func (r *Response) SetType(t string) {
	h := r.w.Header()
	switch {
	case t == "":
		h.Del("Content-Type")
	case typeShorthands[t] != "":
		h.Set("Content-Type", typeShorthands[t])
	case strings.Contains(t, "/"):
		h.Set("Content-Type", t)
	default:
		mt := mime.TypeByExtension("." + strings.TrimPrefix(t, "."))
		if mt == "" {
			h.Del("Content-Type")
			return
		}
		h.Set("Content-Type", mt)
	}
}

// LastModified returns the parsed Last-Modified header, or zero time.
func (r *Response) LastModified() time.Time {
	t, err := http.ParseTime(r.w.Header().Get("Last-Modified"))
	if err != nil {
		return time.Time{}
	}
	return t
}

// SetLastModified sets the Last-Modified header.
func (r *Response) SetLastModified(t time.Time) {
	r.w.Header().Set("Last-Modified", t.UTC().Format(http.TimeFormat))
}

// ETag returns the ETag header.
func (r *Response) ETag() string {
	return r.w.Header().Get("ETag")
}

// SetETag sets the ETag header, quoting the value when needed.
func (r *Response) SetETag(tag string) {
	if !strings.HasPrefix(tag, `"`) && !strings.HasPrefix(tag, `W/"`) {
		tag = `"` + tag + `"`
	}
	r.w.Header().Set("ETag", tag)
}

// Header returns the response header map.
func (r *Response) Header() http.Header {
	return r.w.Header()
}

// Get returns a response header value.
func (r *Response) Get(name string) string {
	return r.w.Header().Get(name)
}

// SetHeader sets a response header.
func (r *Response) SetHeader(name, value string) {
	r.w.Header().Set(name, value)
}

// SetHeaders sets several response headers at once.
func (r *Response) SetHeaders(headers map[string]string) {
	for name, value := range headers {
		r.w.Header().Set(name, value)
	}
}

// AppendHeader adds values to a response header.
func (r *Response) AppendHeader(name string, values ...string) {
	for _, v := range values {
		r.w.Header().Add(name, v)
	}
}

// RemoveHeader deletes a response header.
func (r *Response) RemoveHeader(name string) {
	r.w.Header().Del(name)
}

// ClearHeaders deletes every response header.
func (r *Response) ClearHeaders() {
	clear(r.w.Header())
}

// Vary adds field to the Vary header unless it is already listed.
func (r *Response) Vary(field string) {
	current := r.w.Header().Get("Vary")
	if current == "*" {
		return
	}
	if field == "*" {
		r.w.Header().Set("Vary", "*")
		return
	}
	for f := range strings.SplitSeq(current, ",") {
		if strings.EqualFold(strings.TrimSpace(f), field) {
			return
		}
	}
	if current == "" {
		r.w.Header().Set("Vary", field)
		return
	}
	r.w.Header().Set("Vary", current+", "+field)
}

// Redirect points the client to target. The special target "back" uses the
// Referer header, then alt, then "/". The status becomes 302 unless a
// redirect status was already set.
func (r *Response) Redirect(target string, alt ...string) {
	if target == "back" {
		target = r.request.Get("Referrer")
		if target == "" && len(alt) > 0 {
			target = alt[0]
		}
		if target == "" {
			target = "/"
		}
	}
	r.SetHeader("Location", target)
	if !redirectStatus(r.status) {
		r.SetStatus(http.StatusFound)
	}
	r.SetType("text")
	r.SetBody("Redirecting to " + target + ".")
}

// Attachment sets Content-Disposition to "attachment" and, when filename is
// given, the content type from its extension.
func (r *Response) Attachment(filename string) {
	if filename == "" {
		r.SetHeader("Content-Disposition", "attachment")
		return
	}
	base := filepath.Base(filename)
	r.SetType(filepath.Ext(base))
	r.SetHeader("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": base}))
}

// HeaderSent reports whether the header has been written to the client.
func (r *Response) HeaderSent() bool {
	return r.w.Written()
}

// Writable reports whether the exchange can still be written to: it has
// not been ended, the client is still connected and the connection was not
// hijacked.
func (r *Response) Writable() bool {
	if r.ended.Load() || r.w.Hijacked() {
		return false
	}
	return r.conn.Err() == nil
}

// Ended reports whether the exchange has been ended.
func (r *Response) Ended() bool {
	return r.ended.Load()
}

// End writes the status line, the header and payload, and closes the
// exchange. Calls after the first are no-ops. The payload is dropped when
// the status forbids a body. A 1xx status other than 101 is sent as 204.
func (r *Response) End(payload []byte) error {
	if !r.ended.CompareAndSwap(false, true) {
		return nil
	}
	r.status = wireStatus(r.status)
	r.w.WriteHeader(r.status)
	if len(payload) == 0 || emptyStatus(r.status) {
		return nil
	}
	_, err := r.w.Write(payload)
	return err
}

// Pipe streams src to the client and ends the exchange.
// src is closed afterwards when it implements io.Closer.
func (r *Response) Pipe(src io.Reader) error {
	if closer, ok := src.(io.Closer); ok {
		defer closer.Close()
	}
	if !r.ended.CompareAndSwap(false, true) {
		return nil
	}
	r.status = wireStatus(r.status)
	r.w.WriteHeader(r.status)
	if emptyStatus(r.status) {
		return nil
	}
	_, err := io.Copy(r.w, src)
	return err
}

// MarshalJSON implements json.Marshaler.
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Header  http.Header `json:"header"`
		Message string      `json:"message"`
		Status  int         `json:"status"`
	}{
		Status:  r.status,
		Message: r.Message(),
		Header:  r.w.Header(),
	})
}
