package streams

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"simple-stream/internal/metrics"
	"simple-stream/internal/record"

	"github.com/segmentio/kafka-go"
	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// StreamThread читает свою долю партиций из consumer group
// и держит по одной задаче на каждую увиденную партицию.
type StreamThread struct {
	name     string
	reader   KafkaReader
	topology *Topology
	producer Producer
	clock    clockz.Clock
	metrics  *metrics.Metrics

	commitInterval time.Duration
	lastCommit     time.Time
	// pending хранит последнее обработанное, но не закоммиченное сообщение каждой партиции.
	pending map[int]kafka.Message

	tasks map[int]*Task
}

func NewStreamThread(name string, reader KafkaReader, topology *Topology, producer Producer) *StreamThread {
	return &StreamThread{
		name:     name,
		reader:   reader,
		topology: topology,
		producer: producer,
		clock:    clockz.RealClock,
		pending:  make(map[int]kafka.Message),
		tasks:    make(map[int]*Task),
	}
}

// SetCommitInterval задаёт период коммита смещений.
// При 0 коммит идёт после каждой записи.
func (t *StreamThread) SetCommitInterval(interval time.Duration) {
	t.commitInterval = interval
}

// SetClock задаёт часы для wall-clock времени записей и пунктуаций.
func (t *StreamThread) SetClock(clock clockz.Clock) {
	t.clock = clock
}

func (t *StreamThread) SetMetrics(m *metrics.Metrics) {
	t.metrics = m
}

func (t *StreamThread) Name() string {
	return t.name
}

// Run обрабатывает записи, пока не отменён ctx или не случилась фатальная ошибка.
// Отмена ctx означает штатное завершение, и Run возвращает nil.
func (t *StreamThread) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	defer t.close()

	zap.L().Info("stream thread started", zap.String("thread", t.name))
	t.lastCommit = t.clock.Now()

	for {
		msg, err := t.reader.FetchMessage(ctx)
		if err != nil {
			return t.exitErr(ctx, fmt.Errorf("fetch: %w", err))
		}

		task, err := t.task(ctx, msg.Partition, cancel)
		if err != nil {
			zap.L().Error(err.Error(), zap.String("thread", t.name))
			return err
		}

		if err := task.Process(t.record(msg)); err != nil {
			return t.exitErr(ctx, fmt.Errorf("task %s: %w", task.ID(), err))
		}
		t.metrics.RecordProcessed(t.name)
		t.pending[msg.Partition] = msg

		if t.clock.Now().Sub(t.lastCommit) >= t.commitInterval {
			if err := t.commit(ctx); err != nil {
				return t.exitErr(ctx, err)
			}
		}
	}
}

// commit сначала дожидается записи всего, что отправили задачи,
// и только потом коммитит смещения. Если запись не удалась,
// смещения остаются незакоммиченными и записи будут прочитаны снова.
func (t *StreamThread) commit(ctx context.Context) error {
	if len(t.pending) == 0 {
		t.lastCommit = t.clock.Now()
		return nil
	}

	if err := t.producer.Flush(ctx); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	messages := slices.Collect(maps.Values(t.pending))
	if err := t.reader.CommitMessages(ctx, messages...); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	clear(t.pending)
	t.lastCommit = t.clock.Now()

	return nil
}

// exitErr отличает штатную остановку от фатальной ошибки задачи.
func (t *StreamThread) exitErr(ctx context.Context, err error) error {
	if ctx.Err() == nil {
		zap.L().Error(err.Error(), zap.String("thread", t.name))
		return err
	}

	cause := context.Cause(ctx)
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		zap.L().Info("stream thread stopping", zap.String("thread", t.name))

		commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownCommitTimeout)
		defer cancel()
		if err := t.commit(commitCtx); err != nil {
			zap.L().Error(err.Error(), zap.String("thread", t.name))
			return err
		}
		return nil
	}

	zap.L().Error(cause.Error(), zap.String("thread", t.name))
	return cause
}

func (t *StreamThread) task(ctx context.Context, partition int, onFatal context.CancelCauseFunc) (*Task, error) {
	if task, ok := t.tasks[partition]; ok {
		return task, nil
	}

	id := TaskID{Partition: partition}
	task, err := NewTask(ctx, id, t.name, t.topology, t.producer, t.clock, func(err error) {
		onFatal(fmt.Errorf("task %s: %w", id, err))
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("task created", zap.String("thread", t.name), zap.Stringer("task", id))
	t.tasks[partition] = task

	return task, nil
}

// record строит запись с wall-clock временем вместо времени из сообщения.
func (t *StreamThread) record(msg kafka.Message) record.Record {
	return record.Record{
		Key:       string(msg.Key),
		Value:     string(msg.Value),
		Timestamp: t.clock.Now(),
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
	}
}

func (t *StreamThread) close() {
	for partition, task := range t.tasks {
		if err := task.Close(); err != nil {
			zap.L().Error(err.Error(), zap.String("thread", t.name))
		}
		delete(t.tasks, partition)
	}

	if err := t.reader.Close(); err != nil {
		zap.L().Error(err.Error(), zap.String("thread", t.name))
	}
}
