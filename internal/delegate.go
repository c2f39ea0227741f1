package internal

import (
	"net/http"
	"net/url"
	"time"
)

// Response delegation.

func (c *requestContext) Attachment(filename string) { c.response.Attachment(filename) }

func (c *requestContext) Redirect(target string, alt ...string) { c.response.Redirect(target, alt...) }

func (c *requestContext) RemoveHeader(name string) { c.response.RemoveHeader(name) }

func (c *requestContext) Vary(field string) { c.response.Vary(field) }

func (c *requestContext) SetHeader(name, value string) { c.response.SetHeader(name, value) }

func (c *requestContext) SetHeaders(headers map[string]string) { c.response.SetHeaders(headers) }

func (c *requestContext) AppendHeader(name string, values ...string) {
	c.response.AppendHeader(name, values...)
}

func (c *requestContext) Status() int { return c.response.Status() }

func (c *requestContext) SetStatus(code int) { c.response.SetStatus(code) }

func (c *requestContext) Message() string { return c.response.Message() }

func (c *requestContext) SetMessage(msg string) { c.response.SetMessage(msg) }

func (c *requestContext) Body() any { return c.response.Body() }

func (c *requestContext) SetBody(v any) { c.response.SetBody(v) }

func (c *requestContext) Length() int64 { return c.response.Length() }

func (c *requestContext) SetLength(n int64) { c.response.SetLength(n) }

func (c *requestContext) Type() string { return c.response.Type() }

func (c *requestContext) SetType(t string) { c.response.SetType(t) }

func (c *requestContext) LastModified() time.Time { return c.response.LastModified() }

func (c *requestContext) SetLastModified(t time.Time) { c.response.SetLastModified(t) }

func (c *requestContext) ETag() string { return c.response.ETag() }

func (c *requestContext) SetETag(tag string) { c.response.SetETag(tag) }

func (c *requestContext) HeaderSent() bool { return c.response.HeaderSent() }

func (c *requestContext) Writable() bool { return c.response.Writable() }

// Request delegation.

func (c *requestContext) Header(name string) string { return c.request.Get(name) }

func (c *requestContext) Headers() http.Header { return c.request.Headers() }

func (c *requestContext) Method() string { return c.request.Method() }

func (c *requestContext) SetMethod(method string) { c.request.SetMethod(method) }

func (c *requestContext) URL() string { return c.request.URL() }

func (c *requestContext) SetURL(rawURL string) error { return c.request.SetURL(rawURL) }

func (c *requestContext) Path() string { return c.request.Path() }

func (c *requestContext) SetPath(path string) { c.request.SetPath(path) }

func (c *requestContext) Query() url.Values { return c.request.Query() }

func (c *requestContext) SetQuery(values url.Values) { c.request.SetQuery(values) }

func (c *requestContext) QueryString() string { return c.request.QueryString() }

func (c *requestContext) SetQueryString(qs string) { c.request.SetQueryString(qs) }

func (c *requestContext) Search() string { return c.request.Search() }

func (c *requestContext) SetSearch(search string) { c.request.SetSearch(search) }

func (c *requestContext) Idempotent() bool { return c.request.Idempotent() }

func (c *requestContext) Origin() string { return c.request.Origin() }

func (c *requestContext) Href() string { return c.request.Href() }

func (c *requestContext) Subdomains() []string { return c.request.Subdomains() }

func (c *requestContext) Protocol() string { return c.request.Protocol() }

func (c *requestContext) Host() string { return c.request.Host() }

func (c *requestContext) Hostname() string { return c.request.Hostname() }

func (c *requestContext) Secure() bool { return c.request.Secure() }

func (c *requestContext) Fresh() bool { return c.request.Fresh() }

func (c *requestContext) Stale() bool { return c.request.Stale() }

func (c *requestContext) IPs() []string { return c.request.IPs() }

func (c *requestContext) IP() string { return c.request.IP() }
