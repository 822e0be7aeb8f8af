package flusher

import "errors"

var (
	ErrAlreadyInitialized = errors.New("flusher already initialized")
	ErrScheduling         = errors.New("flush punctuation scheduling failed")
	ErrNilReporter        = errors.New("reporter not found")
	ErrNotInitialized     = errors.New("flusher not initialized")
)
