// Package cookie provides HTTP cookie access with HMAC-SHA256 signing and
// key rotation.
//
// A Manager holds cookie defaults and an ordered key ring. Values are signed
// with the first key and accepted when any key verifies them, so keys can be
// rotated by prepending a new one and dropping the oldest later.
//
// # Basic Usage
//
//	m := cookie.New(
//		cookie.WithKeys("new-key", "old-key"),
//		cookie.WithHTTPOnly(true),
//	)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		jar := m.Jar(w, r, r.TLS != nil)
//		jar.Set("theme", "dark", 86400)
//		if err := jar.SetSigned("uid", "42", 86400); err != nil {
//			// no keys configured
//		}
//		uid, err := jar.GetSigned("uid")
//	}
//
// Signed values are stored as base64(value).base64(signature).
//
// # Configuration
//
//   - [WithKeys]: signing key ring (first key signs)
//   - [WithDomain]: cookie domain
//   - [WithPath]: cookie path (default: "/")
//   - [WithSecure]: force the Secure flag (otherwise it follows the request protocol)
//   - [WithHTTPOnly]: HttpOnly flag (default: true)
//   - [WithSameSite]: SameSite attribute (default: Lax)
//
// # Errors
//
//   - [ErrNotFound]: cookie does not exist
//   - [ErrNoKeys]: signed operation without keys
//   - [ErrBadSig]: no key verifies the signature
package cookie
