package pipeline

import "errors"

// Error kinds for the four fault classes. None are retried; each ends the run
// in the Failed state. Callers classify with errors.Is.
var (
	// ErrSourceUnavailable marks a missing or unopenable input; raised
	// before the loop starts, so no encoder is ever opened.
	ErrSourceUnavailable = errors.New("video source unavailable")

	// ErrDecode marks a mid-stream decode failure.
	ErrDecode = errors.New("decode fault")

	// ErrEncode marks an output sink failure, at open or write time.
	ErrEncode = errors.New("encode fault")

	// ErrDisplay marks a viewer rendering failure. There is no headless
	// fallback once a display sink is attached.
	ErrDisplay = errors.New("display fault")
)
