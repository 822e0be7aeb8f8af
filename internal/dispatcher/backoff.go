package dispatcher

import (
	"errors"
	"time"
)

const (
	defaultBackoffMultiply     = 1.2
	defaultStartBackoffTimeout = 1 * time.Second
	defaultBackoffAttemptCount = 5
)

var (
	ErrBackoffTimeout = errors.New("backoff timeout")
)
