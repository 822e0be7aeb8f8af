package streams

import "time"

type nodeKind string

const (
	sourceNode    nodeKind = "Source"
	processorNode nodeKind = "Processor"
	sinkNode      nodeKind = "Sink"
)

const (
	prefixSource    = "KSTREAM-SOURCE"
	prefixMapValues = "KSTREAM-MAPVALUES"
	prefixMap       = "KSTREAM-MAP"
	prefixAggregate = "KSTREAM-AGGREGATE"
	prefixStore     = "KSTREAM-AGGREGATE-STATE-STORE"
	prefixProcessor = "KSTREAM-PROCESSOR"
	prefixSink      = "KSTREAM-SINK"
)

const (
	defaultWindowRetention = 24 * time.Hour

	// время на flush и коммит при остановке потока
	shutdownCommitTimeout = 10 * time.Second
)
