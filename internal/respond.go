package internal

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

// respond writes the final representation of a successful exchange.
// The order of the checks matters: statuses without a body short-circuit
// before the body is inspected, and a missing body is handled before any
// type-based branch.
func respond(c *requestContext) {
	if !c.Respond() {
		return
	}

	res := c.response
	if res.HeaderSent() || !res.Writable() {
		return
	}

	status := res.status
	body := res.body

	if emptyStatus(status) {
		res.SetBody(nil)
		c.finish(res.End(nil))
		return
	}

	if c.request.req.Method == http.MethodHead {
		if isStructured(body) {
			if data, err := json.Marshal(body); err == nil {
				res.SetLength(int64(len(data)))
			}
		}
		c.finish(res.End(nil))
		return
	}

	if body == nil {
		msg := res.Message()
		if msg == "" {
			msg = strconv.Itoa(status)
		}
		res.SetType("text")
		res.SetLength(int64(len(msg)))
		c.finish(res.End([]byte(msg)))
		return
	}

	switch b := body.(type) {
	case []byte:
		c.finish(res.End(b))
	case string:
		c.finish(res.End([]byte(b)))
	case io.Reader:
		// A failing stream is reported to the observers; the header is
		// already out by then, so nothing else is written.
		if err := res.Pipe(b); err != nil {
			c.OnError(err)
		}
	default:
		data, err := json.Marshal(b)
		if err != nil {
			c.OnError(err)
			return
		}
		res.SetLength(int64(len(data)))
		c.finish(res.End(data))
	}
}

// isStructured reports whether body is serialized as JSON.
func isStructured(body any) bool {
	switch body.(type) {
	case nil, string, []byte, io.Reader:
		return false
	}
	return true
}

// finish reports a failed write. The exchange has already been ended, so
// the error only goes to the debug log; the client is most likely gone.
func (c *requestContext) finish(err error) {
	if err != nil {
		c.LogDebug("response write failed", "error", err)
	}
}
