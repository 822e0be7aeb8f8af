package generator

import "errors"

var (
	ErrInvalidMode  = errors.New("invalid mode")
	ErrInvalidCount = errors.New("invalid count")
)
