package partitioner

type Mode string

const (
	roundRobinMode Mode = "round_robin"
	keyMode        Mode = "key"

	defaultMode = roundRobinMode
)
