package health

import "errors"

// ErrCheckTimeout is reported for a check that ran out of time.
var ErrCheckTimeout = errors.New("health: check timeout")
