package internal

import "errors"

// ErrSilence is returned by commands that already reported the failure to the
// user. The root command exits non-zero without logging it again.
var ErrSilence = errors.New("silent error")

// ErrUnsupported is returned by operations that only exist on Windows.
var ErrUnsupported = errors.New("operation not supported on this platform")
