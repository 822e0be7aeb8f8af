package streams

import (
	"context"
	"fmt"
	"time"

	"simple-stream/internal/metrics"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	ApplicationID  string
	Brokers        []string
	Threads        int
	CommitInterval time.Duration
	// StartOffset: kafka.FirstOffset или kafka.LastOffset для группы без коммитов.
	StartOffset int64
}

// Streams запускает потоки обработки одной топологии в рамках consumer group ApplicationID.
type Streams struct {
	topology  *Topology
	cfg       Config
	producer  Producer
	clock     clockz.Clock
	metrics   *metrics.Metrics
	newReader ReaderFactory
	clientID  string
}

func New(topology *Topology, cfg Config, producer Producer) *Streams {
	return &Streams{
		topology:  topology,
		cfg:       cfg,
		producer:  producer,
		clock:     clockz.RealClock,
		newReader: newKafkaReader,
		clientID:  cfg.ApplicationID + "-" + uuid.NewString(),
	}
}

func (s *Streams) SetClock(clock clockz.Clock) {
	s.clock = clock
}

func (s *Streams) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// SetReaderFactory подменяет создание kafka.Reader.
func (s *Streams) SetReaderFactory(fn ReaderFactory) {
	s.newReader = fn
}

func (s *Streams) ClientID() string {
	return s.clientID
}

// ThreadName возвращает имя i-го потока, начиная с 1.
func (s *Streams) ThreadName(i int) string {
	return fmt.Sprintf("%s-StreamThread-%d", s.clientID, i)
}

// Run блокируется, пока работают потоки. Фатальная ошибка одного потока
// останавливает остальные и возвращается вызывающему.
func (s *Streams) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for i := 1; i <= s.cfg.Threads; i++ {
		name := s.ThreadName(i)

		reader := s.newReader(kafka.ReaderConfig{
			Brokers:        s.cfg.Brokers,
			GroupID:     s.cfg.ApplicationID,
			Topic:       s.topology.SourceTopic(),
			StartOffset: s.cfg.StartOffset,
			ErrorLogger: kafka.LoggerFunc(zap.S().With("thread", name).Errorf),
		})

		// коммиты синхронные: поток сам выдерживает CommitInterval
		// и коммитит только после Flush продьюсера
		thread := NewStreamThread(name, reader, s.topology, s.producer)
		thread.SetCommitInterval(s.cfg.CommitInterval)
		thread.SetClock(s.clock)
		thread.SetMetrics(s.metrics)

		g.Go(func() error {
			return thread.Run(ctx)
		})
	}

	return g.Wait()
}

func newKafkaReader(cfg kafka.ReaderConfig) KafkaReader {
	return kafka.NewReader(cfg)
}
