package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// Errors.
var (
	ErrNotFound = errors.New("cookie: not found")
	ErrNoKeys   = errors.New("cookie: signing keys required")
	ErrBadSig   = errors.New("cookie: invalid signature")
)

// Manager holds cookie defaults and the signing key ring.
// It is safe for concurrent use; per-request access goes through a Jar.
type Manager struct {
	keys     [][]byte
	domain   string
	path     string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a cookie Manager with the given options.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithKeys sets the signing key ring. New cookies are signed with the
// first key; any key in the ring verifies. Empty keys are ignored.
func WithKeys(keys ...string) Option {
	return func(m *Manager) {
		m.keys = m.keys[:0]
		for _, k := range keys {
			if k != "" {
				m.keys = append(m.keys, []byte(k))
			}
		}
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(m *Manager) {
		m.path = path
	}
}

// WithSecure forces the Secure flag on every cookie.
// Without it the flag follows the request protocol.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.httpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = ss
	}
}

// HasKeys reports whether signing keys are configured.
func (m *Manager) HasKeys() bool {
	return len(m.keys) > 0
}

// Jar binds the manager to one exchange. secure marks the request as
// served over TLS, which sets the Secure flag on outgoing cookies.
func (m *Manager) Jar(w http.ResponseWriter, r *http.Request, secure bool) *Jar {
	return &Jar{m: m, w: w, r: r, secure: secure || m.secure}
}

// Sign returns value in signed form: base64(value).base64(hmac).
func (m *Manager) Sign(value string) (string, error) {
	if len(m.keys) == 0 {
		return "", ErrNoKeys
	}
	sig := m.mac(m.keys[0], []byte(value))
	return base64.RawURLEncoding.EncodeToString([]byte(value)) +
		"." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// Verify checks a signed value against every key and returns the payload.
func (m *Manager) Verify(signed string) (string, error) {
	if len(m.keys) == 0 {
		return "", ErrNoKeys
	}

	encValue, encSig, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrBadSig
	}
	value, err := base64.RawURLEncoding.DecodeString(encValue)
	if err != nil {
		return "", ErrBadSig
	}
	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil {
		return "", ErrBadSig
	}

	for _, key := range m.keys {
		if hmac.Equal(sig, m.mac(key, value)) {
			return string(value), nil
		}
	}
	return "", ErrBadSig
}

func (m *Manager) mac(key, value []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(value)
	return h.Sum(nil)
}

func (m *Manager) cookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}

// Jar reads cookies from one request and writes them to its response.
type Jar struct {
	m      *Manager
	w      http.ResponseWriter
	r      *http.Request
	secure bool
}

// Get returns a plain cookie value.
func (j *Jar) Get(name string) (string, error) {
	c, err := j.r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Set sets a plain cookie. maxAge follows http.Cookie semantics.
func (j *Jar) Set(name, value string, maxAge int) {
	http.SetCookie(j.w, j.m.cookie(name, value, maxAge, j.secure))
}

// Delete expires a cookie.
func (j *Jar) Delete(name string) {
	http.SetCookie(j.w, j.m.cookie(name, "", -1, j.secure))
}

// GetSigned returns the payload of a signed cookie.
// Returns ErrBadSig when no key verifies it.
func (j *Jar) GetSigned(name string) (string, error) {
	raw, err := j.Get(name)
	if err != nil {
		return "", err
	}
	return j.m.Verify(raw)
}

// SetSigned sets a cookie signed with the first key.
func (j *Jar) SetSigned(name, value string, maxAge int) error {
	signed, err := j.m.Sign(value)
	if err != nil {
		return err
	}
	j.Set(name, signed, maxAge)
	return nil
}
