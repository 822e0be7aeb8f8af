package sink

import "errors"

var (
	ErrClosed      = errors.New("sink closed")
	ErrEmptyTopic  = errors.New("empty topic")
	ErrAsyncFailed = errors.New("async produce failed")
)
