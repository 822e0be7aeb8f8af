package streams

import (
	"fmt"
	"strings"
	"time"

	"simple-stream/internal/serde"
)

type node struct {
	name       string
	kind       nodeKind
	supplier   ProcessorSupplier
	topic      string
	serializer serde.Serializer
	stores     []string
	parent     *node
	children   []*node
}

// Topology — неизменяемое описание графа обработки.
// Экземпляры процессоров создаются заново для каждой задачи.
type Topology struct {
	source *node
	nodes  []*node
}

// SourceTopic возвращает входной топик топологии.
func (t *Topology) SourceTopic() string {
	return t.source.topic
}

// SinkTopics возвращает все выходные топики в порядке объявления.
func (t *Topology) SinkTopics() []string {
	var topics []string
	for _, n := range t.nodes {
		if n.kind == sinkNode {
			topics = append(topics, n.topic)
		}
	}
	return topics
}

// Describe печатает топологию в формате, привычном по Kafka Streams.
func (t *Topology) Describe() string {
	var sb strings.Builder

	sb.WriteString("Topologies:\n")
	sb.WriteString("   Sub-topology: 0\n")

	for _, n := range t.nodes {
		switch n.kind {
		case sourceNode:
			fmt.Fprintf(&sb, "    Source: %s (topics: [%s])\n", n.name, n.topic)
		case sinkNode:
			fmt.Fprintf(&sb, "    Sink: %s (topic: %s)\n", n.name, n.topic)
		default:
			fmt.Fprintf(&sb, "    Processor: %s (stores: [%s])\n", n.name, strings.Join(n.stores, ", "))
		}

		if n.kind != sinkNode {
			fmt.Fprintf(&sb, "      --> %s\n", childNames(n))
		}
		if n.parent != nil {
			fmt.Fprintf(&sb, "      <-- %s\n", n.parent.name)
		}
	}

	return sb.String()
}

func childNames(n *node) string {
	if len(n.children) == 0 {
		return "none"
	}

	names := make([]string, len(n.children))
	for i, c := range n.children {
		names[i] = c.name
	}
	return strings.Join(names, ", ")
}

// Builder собирает Topology через цепочку вызовов Stream.
// Ошибки построения копятся и возвращаются из Build.
type Builder struct {
	topology *Topology
	index    int
	err      error
}

func NewBuilder() *Builder {
	return &Builder{
		topology: &Topology{},
	}
}

// Stream объявляет входной топик.
func (b *Builder) Stream(topic string) *Stream {
	if topic == "" {
		b.fail(ErrEmptyTopic)
	}
	if b.topology.source != nil {
		b.fail(ErrMultipleSources)
		return &Stream{builder: b, node: b.topology.source}
	}

	n := b.add(nil, &node{
		name:  b.nextName(prefixSource),
		kind:  sourceNode,
		topic: topic,
	})
	b.topology.source = n

	return &Stream{builder: b, node: n}
}

// Build возвращает собранную топологию или первую ошибку построения.
func (b *Builder) Build() (*Topology, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.topology.source == nil {
		return nil, ErrNoSource
	}
	return b.topology, nil
}

func (b *Builder) nextName(prefix string) string {
	name := fmt.Sprintf("%s-%010d", prefix, b.index)
	b.index++
	return name
}

func (b *Builder) add(parent *node, n *node) *node {
	n.parent = parent
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	b.topology.nodes = append(b.topology.nodes, n)
	return n
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Stream — поток записей, выходящий из узла топологии.
type Stream struct {
	builder *Builder
	node    *node
}

// MapValues меняет значение записи, не трогая ключ.
func (s *Stream) MapValues(fn ValueMapper) *Stream {
	if fn == nil {
		s.builder.fail(ErrNilMapper)
	}
	return s.processor(prefixMapValues, func() Processor {
		return &mapValuesProcessor{mapper: fn}
	})
}

// Map меняет и ключ, и значение записи.
func (s *Stream) Map(fn KeyValueMapper) *Stream {
	if fn == nil {
		s.builder.fail(ErrNilMapper)
	}
	return s.processor(prefixMap, func() Processor {
		return &mapProcessor{mapper: fn}
	})
}

// Count ведёт счётчик записей по ключу и пересылает каждое обновление.
// На выходе значение содержит счётчик в десятичной записи.
func (s *Stream) Count(store string) *Stream {
	name := s.builder.nextName(prefixAggregate)
	if store == "" {
		store = s.builder.nextName(prefixStore)
	}
	return s.named(name, func() Processor {
		return newCountProcessor()
	}, store)
}

// WindowedCount считает записи по ключу в tumbling-окнах размера size.
// Окна старше retention удаляются из хранилища.
func (s *Stream) WindowedCount(store string, size, retention time.Duration) *Stream {
	if size < time.Millisecond || retention < 0 {
		s.builder.fail(ErrInvalidWindow)
	}
	if retention == 0 {
		retention = defaultWindowRetention
	}
	name := s.builder.nextName(prefixAggregate)
	if store == "" {
		store = s.builder.nextName(prefixStore)
	}
	return s.named(name, func() Processor {
		return newWindowedCountProcessor(size, retention)
	}, store)
}

// Process подключает произвольный процессор.
func (s *Stream) Process(supplier ProcessorSupplier, stores ...string) *Stream {
	if supplier == nil {
		s.builder.fail(ErrNilSupplier)
	}
	return s.processor(prefixProcessor, supplier, stores...)
}

// To отправляет записи потока в топик.
func (s *Stream) To(topic string, serializer serde.Serializer) {
	if topic == "" {
		s.builder.fail(ErrEmptyTopic)
	}
	if serializer == nil {
		serializer = serde.String
	}

	s.builder.add(s.node, &node{
		name:       s.builder.nextName(prefixSink),
		kind:       sinkNode,
		topic:      topic,
		serializer: serializer,
	})
}

func (s *Stream) processor(prefix string, supplier ProcessorSupplier, stores ...string) *Stream {
	return s.named(s.builder.nextName(prefix), supplier, stores...)
}

func (s *Stream) named(name string, supplier ProcessorSupplier, stores ...string) *Stream {
	n := s.builder.add(s.node, &node{
		name:     name,
		kind:     processorNode,
		supplier: supplier,
		stores:   stores,
	})
	return &Stream{builder: s.builder, node: n}
}
