package punctuator

import "errors"

var (
	ErrInvalidInterval = errors.New("punctuation interval must be positive")
	ErrUnsupportedType = errors.New("unsupported punctuation type")
	ErrNilPunctuator   = errors.New("punctuator is nil")
	ErrStopped         = errors.New("scheduler stopped")
)
