package flusher

import "time"

const (
	DefaultFlushInterval = 10 * time.Second

	bufferSize = 1024
)
