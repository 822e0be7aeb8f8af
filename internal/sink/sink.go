package sink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"simple-stream/internal/dispatcher"
	"simple-stream/internal/metrics"
	"simple-stream/internal/publisher"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaSink пишет записи топологии в Kafka.
// Send не ждёт записи: сообщение уходит в очередь Publisher, воркер пишет
// его через Dispatcher с повторными попытками. Сообщения одного
// (topic, key) обрабатывает один воркер, их порядок сохраняется.
// Первая неуспешная асинхронная запись возвращается из следующего Send
// и из Flush.
type KafkaSink struct {
	writer     KafkaWriter
	dispatcher *dispatcher.Dispatcher
	publisher  *publisher.Publisher[kafka.Message]
	metrics    *metrics.Metrics

	// base используется для записи; он не отменяется вместе с потоками,
	// чтобы Close мог дописать очереди.
	base context.Context

	errMu    sync.Mutex
	asyncErr error
	closed   atomic.Bool
}

// NewKafkaWriter создаёт kafka.Writer без фиксированного топика:
// топик задаётся в каждом сообщении.
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Murmur2Balancer{},
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           defaultBatchTimeout,
		AllowAutoTopicCreation: false,
		ErrorLogger:            kafka.LoggerFunc(zap.S().Named("kafka-writer").Errorf),
	}
}

// NewKafkaSink создаёт KafkaSink поверх writer.
// workers и bufferSize <= 0 заменяются значениями по умолчанию.
func NewKafkaSink(ctx context.Context, writer KafkaWriter, workers, bufferSize int) (*KafkaSink, error) {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	s := &KafkaSink{
		writer:     writer,
		dispatcher: dispatcher.NewDispatcher(),
		base:       context.WithoutCancel(ctx),
	}

	p, err := publisher.NewPublisher[kafka.Message](s.write, workers, bufferSize)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}
	if err = p.SetKeyFn(messageKey); err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}
	s.publisher = p

	return s, nil
}

func (s *KafkaSink) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// SetBackoff задаёт таймаут первой попытки записи и число попыток.
func (s *KafkaSink) SetBackoff(startTimeout time.Duration, attempts int) {
	s.dispatcher.SetBackoff(startTimeout, attempts)
}

// Send ставит запись в очередь отправки. Пустой ключ отправляется как null.
func (s *KafkaSink) Send(ctx context.Context, topic string, key, value []byte) error {
	if topic == "" {
		return ErrEmptyTopic
	}
	if s.closed.Load() {
		return ErrClosed
	}
	if err := s.err(); err != nil {
		return err
	}

	msg := kafka.Message{Topic: topic, Key: key, Value: value}

	err := s.publisher.SendAsync(ctx, msg, s.onWritten)
	if errors.Is(err, publisher.ErrClosed) {
		return ErrClosed
	}
	return err
}

// SendSync пишет запись и ждёт подтверждения брокера.
func (s *KafkaSink) SendSync(ctx context.Context, topic string, key, value []byte) error {
	if topic == "" {
		return ErrEmptyTopic
	}

	msg := kafka.Message{Topic: topic, Key: key, Value: value}

	err := s.publisher.SendSync(ctx, msg)
	s.metrics.RecordProduced(topic, err == nil)
	if errors.Is(err, publisher.ErrClosed) {
		return ErrClosed
	}
	return err
}

// Flush ждёт записи всего, что принято Send до вызова, и возвращает
// первую ошибку асинхронной записи. Поток вызывает Flush перед коммитом
// смещений, поэтому смещение записи, которую не удалось отправить,
// не коммитится.
func (s *KafkaSink) Flush(ctx context.Context) error {
	if err := s.publisher.Flush(ctx); err != nil {
		if errors.Is(err, publisher.ErrClosed) {
			return ErrClosed
		}
		return err
	}

	return s.err()
}

// Close дописывает очереди и закрывает writer.
func (s *KafkaSink) Close() error {
	if s.closed.Swap(true) {
		return ErrClosed
	}

	return errors.Join(s.publisher.Close(), s.writer.Close())
}

func (s *KafkaSink) write(ctx context.Context, msg kafka.Message) error {
	if ctx.Err() != nil {
		ctx = s.base
	}

	return s.dispatcher.Write(ctx, func(ctx context.Context) error {
		return s.writer.WriteMessages(ctx, msg)
	})
}

func (s *KafkaSink) onWritten(_ context.Context, msg kafka.Message, err error) {
	s.metrics.RecordProduced(msg.Topic, err == nil)
	if err == nil {
		return
	}

	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.asyncErr == nil {
		s.asyncErr = fmt.Errorf("%w: topic %s: %w", ErrAsyncFailed, msg.Topic, err)
	}
}

func (s *KafkaSink) err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.asyncErr
}

func messageKey(msg kafka.Message) string {
	return msg.Topic + "/" + string(msg.Key)
}
