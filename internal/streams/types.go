package streams

import (
	"context"
	"time"

	"simple-stream/internal/punctuator"
	"simple-stream/internal/record"

	"github.com/segmentio/kafka-go"
)

// Processor: узел топологии, обрабатывающий записи одной задачи.
type Processor interface {
	Init(ctx ProcessorContext) error
	Process(rec record.Record) error
	Close() error
}

// ProcessorSupplier создаёт новый экземпляр процессора для каждой задачи.
type ProcessorSupplier = func() Processor

// ProcessorContext связывает процессор с задачей, которая им владеет.
type ProcessorContext interface {
	Context() context.Context
	Forward(rec record.Record) error
	Schedule(interval time.Duration, typ punctuator.PunctuationType, fn punctuator.Punctuator) (punctuator.Cancellable, error)
	ThreadName() string
	TaskID() TaskID
	NodeName() string
	Now() time.Time
}

// Producer отправляет сериализованную запись в топик.
// Send может вернуться до записи; Flush ждёт записи всего отправленного
// и возвращает ошибку, если что-то записать не удалось.
type Producer interface {
	Send(ctx context.Context, topic string, key, value []byte) error
	Flush(ctx context.Context) error
}

type ValueMapper = func(ctx ProcessorContext, value string) string

type KeyValueMapper = func(ctx ProcessorContext, key, value string) (string, string)

type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, messages ...kafka.Message) error
	Close() error
}

// ReaderFactory создаёт reader для одного потока обработки.
type ReaderFactory = func(cfg kafka.ReaderConfig) KafkaReader
