package sink

import "errors"

// ErrClosed reports a write against a sink that has been shut down.
var ErrClosed = errors.New("sink closed")
