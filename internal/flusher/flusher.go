package flusher

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"simple-stream/internal/punctuator"
	"simple-stream/internal/record"
	"simple-stream/internal/streams"

	"go.uber.org/zap"
)

// Flusher копит значения записей, сразу пересылает записи дальше
// и раз в interval сообщает Reporter, сколько значений накопилось.
// Один экземпляр принадлежит одной задаче.
type Flusher struct {
	interval time.Duration
	reporter Reporter

	ctx         streams.ProcessorContext
	punctuation punctuator.Cancellable
	initialized atomic.Bool

	// All further fields are protected by mu
	mu     sync.Mutex
	buffer []string
}

// NewFlusher создаёт Flusher с периодом DefaultFlushInterval.
func NewFlusher(reporter Reporter) (*Flusher, error) {
	if reporter == nil {
		return nil, ErrNilReporter
	}

	return newFlusher(reporter, DefaultFlushInterval), nil
}

func newFlusher(reporter Reporter, interval time.Duration) *Flusher {
	f := &Flusher{
		interval: DefaultFlushInterval,
		reporter: reporter,
		buffer:   make([]string, 0, bufferSize),
	}
	f.SetFlushInterval(interval)
	return f
}

// Supplier возвращает фабрику процессоров для топологии:
// каждая задача получает собственный Flusher.
func Supplier(reporter Reporter, interval time.Duration) (streams.ProcessorSupplier, error) {
	if reporter == nil {
		return nil, ErrNilReporter
	}

	return func() streams.Processor {
		return newFlusher(reporter, interval)
	}, nil
}

// SetFlushInterval меняет период flush. Действует только до Init.
func (f *Flusher) SetFlushInterval(interval time.Duration) {
	if interval > 0 {
		f.interval = interval
	}
}

// Init регистрирует wall-clock пунктуацию. Повторный вызов считается ошибкой вызывающего.
func (f *Flusher) Init(ctx streams.ProcessorContext) error {
	if f.initialized.Swap(true) {
		zap.L().Error(ErrAlreadyInitialized.Error(), zap.String("node", ctx.NodeName()))
		return ErrAlreadyInitialized
	}

	f.ctx = ctx

	punctuation, err := ctx.Schedule(f.interval, punctuator.PunctuateByWallClockTime, f.Punctuate)
	if err != nil {
		zap.L().Error(err.Error(), zap.String("thread", ctx.ThreadName()))
		return fmt.Errorf("%w: %w", ErrScheduling, err)
	}
	f.punctuation = punctuation

	return nil
}

// Process добавляет значение в буфер и пересылает запись без изменений.
// Оба шага выполняются под mu, поэтому flush не может вклиниться между ними.
// До Init запись отклоняется с ErrNotInitialized.
func (f *Flusher) Process(rec record.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ctx == nil {
		return ErrNotInitialized
	}

	f.buffer = append(f.buffer, rec.Value)

	return f.ctx.Forward(rec)
}

// Punctuate сообщает размер непустого буфера и очищает его.
// Для пустого буфера отчёта нет. Ошибка Reporter не возвращается.
func (f *Flusher) Punctuate(ctx context.Context, timestamp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.buffer) == 0 {
		return nil
	}

	report := Report{
		Timestamp: timestamp,
		Count:     len(f.buffer),
	}
	if f.ctx != nil {
		report.ThreadName = f.ctx.ThreadName()
		report.TaskID = f.ctx.TaskID().String()
	}

	if err := f.reporter.Report(ctx, report); err != nil {
		zap.L().Error(err.Error(),
			zap.Int("count", report.Count),
			zap.String("thread", report.ThreadName),
		)
	}

	clear(f.buffer)
	f.buffer = f.buffer[:0]

	return nil
}

// Len возвращает текущее количество значений в буфере.
func (f *Flusher) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.buffer)
}

func (f *Flusher) State() State {
	if f.Len() == 0 {
		return Idle
	}
	return Accumulating
}

// Close отменяет пунктуацию. Накопленный буфер не сообщается.
func (f *Flusher) Close() error {
	if f.punctuation != nil {
		f.punctuation.Cancel()
	}
	return nil
}
