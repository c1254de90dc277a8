package async

import "errors"

// ErrClosed is delivered for work submitted after [Pool.Close].
var ErrClosed = errors.New("async: pool is closed")
