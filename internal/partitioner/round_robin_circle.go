package partitioner

import "sync/atomic"

// RRCircle выдаёт 0, 1, ..., count-1, 0, ... без блокировок.
type RRCircle struct {
	next  atomic.Uint64
	count uint64
}

func NewRRCircle(count int) *RRCircle {
	return &RRCircle{count: uint64(count)}
}

func (c *RRCircle) Load() int {
	return int((c.next.Add(1) - 1) % c.count)
}
