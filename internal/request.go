package internal

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// Request is the request side of an exchange. It wraps *http.Request and
// resolves proxy-aware values using the application settings.
type Request struct {
	req         *http.Request
	app         *App
	ctx         *requestContext
	response    *Response
	originalURL string
}

// Raw returns the underlying *http.Request.
func (r *Request) Raw() *http.Request {
	return r.req
}

// Ctx returns the context this request belongs to.
func (r *Request) Ctx() Context {
	return r.ctx
}

// Response returns the paired response.
func (r *Request) Response() *Response {
	return r.response
}

// App returns the application serving the request.
func (r *Request) App() *App {
	return r.app
}

// OriginalURL returns the request URL as it was received, before any
// middleware rewrote it.
func (r *Request) OriginalURL() string {
	return r.originalURL
}

// Headers returns the request header map.
func (r *Request) Headers() http.Header {
	return r.req.Header
}

// Get returns a request header value. Referer and Referrer are
// interchangeable, and Host reads the request host.
func (r *Request) Get(field string) string {
	switch strings.ToLower(field) {
	case "referer", "referrer":
		if v := r.req.Header.Get("Referer"); v != "" {
			return v
		}
		return r.req.Header.Get("Referrer")
	case "host":
		return r.req.Host
	}
	return r.req.Header.Get(field)
}

// Method returns the request method.
func (r *Request) Method() string {
	return r.req.Method
}

// SetMethod overrides the request method.
func (r *Request) SetMethod(method string) {
	r.req.Method = method
}

// URL returns the request path and query string.
func (r *Request) URL() string {
	return r.req.URL.RequestURI()
}

// SetURL rewrites the request path and query string.
func (r *Request) SetURL(rawURL string) error {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return err
	}
	r.req.URL.Path = u.Path
	r.req.URL.RawPath = u.RawPath
	r.req.URL.RawQuery = u.RawQuery
	r.req.RequestURI = rawURL
	return nil
}

// Path returns the request path.
func (r *Request) Path() string {
	return r.req.URL.Path
}

// SetPath rewrites the request path, keeping the query string.
func (r *Request) SetPath(path string) {
	r.req.URL.Path = path
	r.req.URL.RawPath = ""
}

// Query returns the parsed query string.
func (r *Request) Query() url.Values {
	return r.req.URL.Query()
}

// SetQuery replaces the query string with the encoded values.
func (r *Request) SetQuery(values url.Values) {
	r.req.URL.RawQuery = values.Encode()
}

// QueryString returns the raw query string without the leading "?".
func (r *Request) QueryString() string {
	return r.req.URL.RawQuery
}

// SetQueryString replaces the raw query string.
func (r *Request) SetQueryString(qs string) {
	r.req.URL.RawQuery = strings.TrimPrefix(qs, "?")
}

// Search returns the query string with a leading "?", or "" when empty.
func (r *Request) Search() string {
	if r.req.URL.RawQuery == "" {
		return ""
	}
	return "?" + r.req.URL.RawQuery
}

// SetSearch replaces the query string; a leading "?" is optional.
func (r *Request) SetSearch(search string) {
	r.SetQueryString(search)
}

// Idempotent reports whether the request method is idempotent.
func (r *Request) Idempotent() bool {
	return slices.Contains([]string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPut,
		http.MethodDelete,
		http.MethodOptions,
		http.MethodTrace,
	}, r.req.Method)
}

// Protocol returns "https" or "http". X-Forwarded-Proto is trusted only
// when the application trusts its proxy.
func (r *Request) Protocol() string {
	if r.req.TLS != nil {
		return "https"
	}
	if !r.app.proxy {
		return "http"
	}
	proto := r.req.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		return "http"
	}
	proto, _, _ = strings.Cut(proto, ",")
	return strings.ToLower(strings.TrimSpace(proto))
}

// Secure reports whether the request was made over TLS.
func (r *Request) Secure() bool {
	return r.Protocol() == "https"
}

// Host returns the host with port. X-Forwarded-Host is trusted only when
// the application trusts its proxy.
func (r *Request) Host() string {
	if r.app.proxy {
		if fwd := r.req.Header.Get("X-Forwarded-Host"); fwd != "" {
			host, _, _ := strings.Cut(fwd, ",")
			return strings.TrimSpace(host)
		}
	}
	return r.req.Host
}

// Hostname returns the host without port.
func (r *Request) Hostname() string {
	host := r.Host()
	if host == "" {
		return ""
	}
	if strings.HasPrefix(host, "[") {
		if end := strings.Index(host, "]"); end > 0 {
			return host[1:end]
		}
		return host
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// Origin returns protocol and host, e.g. "https://example.com:8080".
func (r *Request) Origin() string {
	return r.Protocol() + "://" + r.Host()
}

// Href returns the full original URL including protocol and host.
func (r *Request) Href() string {
	if strings.HasPrefix(r.originalURL, "http://") || strings.HasPrefix(r.originalURL, "https://") {
		return r.originalURL
	}
	return r.Origin() + r.originalURL
}

// IPs returns the X-Forwarded-For chain when the proxy is trusted,
// otherwise an empty list.
func (r *Request) IPs() []string {
	ips := []string{}
	if !r.app.proxy {
		return ips
	}
	for ip := range strings.SplitSeq(r.req.Header.Get("X-Forwarded-For"), ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

// IP returns the client address: the first forwarded address when the
// proxy is trusted, otherwise the remote address of the connection.
func (r *Request) IP() string {
	if ips := r.IPs(); len(ips) > 0 {
		return ips[0]
	}
	host, _, err := net.SplitHostPort(r.req.RemoteAddr)
	if err != nil {
		return r.req.RemoteAddr
	}
	return host
}

// Subdomains returns the subdomains of the hostname, most significant
// first, after dropping the application's subdomain offset.
// For "tobi.ferrets.example.com" and offset 2 it returns ["ferrets", "tobi"].
func (r *Request) Subdomains() []string {
	hostname := r.Hostname()
	if hostname == "" || net.ParseIP(hostname) != nil {
		return []string{}
	}
	labels := strings.Split(hostname, ".")
	slices.Reverse(labels)
	if r.app.subdomainOffset >= len(labels) {
		return []string{}
	}
	return labels[r.app.subdomainOffset:]
}

// Fresh reports whether the client cache is still valid for the response
// being built, based on ETag and Last-Modified.
func (r *Request) Fresh() bool {
	if r.req.Method != http.MethodGet && r.req.Method != http.MethodHead {
		return false
	}
	status := r.response.Status()
	if (status >= 200 && status < 300) || status == http.StatusNotModified {
		return isFresh(r.req.Header, r.response.Header())
	}
	return false
}

// Stale is the inverse of Fresh.
func (r *Request) Stale() bool {
	return !r.Fresh()
}

// MarshalJSON implements json.Marshaler.
func (r *Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Header http.Header `json:"header"`
		Method string      `json:"method"`
		URL    string      `json:"url"`
	}{
		Method: r.Method(),
		URL:    r.URL(),
		Header: r.req.Header,
	})
}

// isFresh performs the conditional GET check.
func isFresh(reqHeader, resHeader http.Header) bool {
	modifiedSince := reqHeader.Get("If-Modified-Since")
	noneMatch := reqHeader.Get("If-None-Match")
	if modifiedSince == "" && noneMatch == "" {
		return false
	}

	if strings.Contains(strings.ToLower(reqHeader.Get("Cache-Control")), "no-cache") {
		return false
	}

	if noneMatch != "" && noneMatch != "*" {
		etag := resHeader.Get("ETag")
		if etag == "" {
			return false
		}
		matched := false
		for tag := range strings.SplitSeq(noneMatch, ",") {
			tag = strings.TrimSpace(tag)
			if tag == etag || tag == "W/"+etag || "W/"+tag == etag {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if modifiedSince != "" {
		lastModified, err := http.ParseTime(resHeader.Get("Last-Modified"))
		if err != nil {
			return false
		}
		since, err := http.ParseTime(modifiedSince)
		if err != nil || lastModified.After(since) {
			return false
		}
	}

	return true
}
