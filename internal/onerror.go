package internal

import "net/http"

// OnError is the error funnel. Every failure of the chain ends up here:
// it is normalized, reported to the application's observers and, unless the
// response is already committed, rendered as a plain text error response.
func (c *requestContext) OnError(err error) {
	if err == nil {
		return
	}

	httpErr := normalizeError(err)

	res := c.response
	headerSent := res.HeaderSent() || !res.Writable()
	if headerSent {
		httpErr.HeaderSent = true
	}

	c.app.emit(httpErr, c)

	if headerSent {
		return
	}

	res.ClearHeaders()
	res.SetHeaders(httpErr.Headers)
	res.SetType("text")

	status := httpErr.ResponseStatus()

	msg := http.StatusText(status)
	if httpErr.Expose && httpErr.Message != "" {
		msg = httpErr.Message
	}

	res.SetStatus(status)
	if emptyStatus(status) {
		msg = ""
	} else {
		res.body = msg
		res.SetLength(int64(len(msg)))
	}
	if endErr := res.End([]byte(msg)); endErr != nil {
		c.LogDebug("error response write failed",
			"error", endErr,
			"status", status,
		)
	}
}
