package serde

import "errors"

const int64Size = 8

var (
	ErrNotInteger    = errors.New("value is not an integer")
	ErrInvalidLength = errors.New("invalid int64 length")
)
