package internal

import "net/http"

// validStatus reports whether code is a status with a known reason phrase.
func validStatus(code int) bool {
	return http.StatusText(code) != ""
}

// emptyStatus reports whether a response with this status must not carry a body.
func emptyStatus(code int) bool {
	switch {
	case code >= 100 && code < 200:
		return true
	case code == http.StatusNoContent, code == http.StatusResetContent, code == http.StatusNotModified:
		return true
	}
	return false
}

// redirectStatus reports whether code is a redirect status.
func redirectStatus(code int) bool {
	switch code {
	case http.StatusMultipleChoices,
		http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusUseProxy,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	}
	return false
}

// wireStatus maps code to the status written as the final response.
// net/http sends 1xx codes other than 101 as informational headers and
// follows them with an implicit 200, so those end as 204 instead.
func wireStatus(code int) int {
	if code >= 100 && code < 200 && code != http.StatusSwitchingProtocols {
		return http.StatusNoContent
	}
	return code
}
