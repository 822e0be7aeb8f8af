package config

import "errors"

var (
	ErrNoBrokers          = errors.New("bootstrap servers are required")
	ErrNoApplicationID    = errors.New("application id is required")
	ErrInvalidThreadCount = errors.New("stream thread count must be positive")
	ErrInvalidInterval    = errors.New("interval must be positive")
	ErrInvalidOffsetReset = errors.New("auto offset reset must be earliest or latest")
	ErrInvalidTopic       = errors.New("topic name is required")
	ErrInvalidPartitions  = errors.New("partition and replication counts must be positive")
	ErrInvalidPublisher   = errors.New("publisher workers and buffer must be positive")
	ErrInvalidRetry       = errors.New("retry backoff and attempts must be positive")
)
