package streams

import "errors"

var (
	ErrNoSource        = errors.New("topology has no source")
	ErrMultipleSources = errors.New("topology supports a single source topic")
	ErrEmptyTopic      = errors.New("topic name is required")
	ErrNilSupplier     = errors.New("processor supplier is nil")
	ErrNilMapper       = errors.New("mapper is nil")
	ErrInvalidWindow   = errors.New("window size and retention must be positive")
	ErrTaskClosed      = errors.New("task closed")
)
