package sink

import "time"

const (
	defaultWorkers      = 8
	defaultBufferSize   = 4096
	defaultBatchTimeout = 10 * time.Millisecond
)
