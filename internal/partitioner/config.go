package partitioner

// config неизменяем и заменяется целиком через atomic.Value.
type config[T any] struct {
	mode  Mode
	count int
	keyFn func(T) string
	rr    *RRCircle
}
