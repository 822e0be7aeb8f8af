package publisher

import "errors"

var (
	ErrClosed         = errors.New("publisher closed")
	ErrInvalidWorkers = errors.New("invalid worker count")
)
