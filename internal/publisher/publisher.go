package publisher

import (
	"context"
	"sync"
	"sync/atomic"

	"simple-stream/internal/partitioner"

	"go.uber.org/zap"
)

// Publisher держит пул воркеров для асинхронной записи.
// У каждого воркера своя очередь, очередь выбирается через Partitioner,
// поэтому в режиме ключа сообщения одного ключа пишутся строго по порядку.
type Publisher[T any] struct {
	write       WriteFn[T]
	partitioner *partitioner.Partitioner[T]
	queues      []chan asyncMessage[T]

	// mu защищает queues от закрытия во время SendAsync.
	mu     sync.RWMutex
	closed atomic.Bool
	wg     sync.WaitGroup
}

// NewPublisher создаёт Publisher и запускает workerCount воркеров.
// bufferSize задаёт суммарную ёмкость очередей.
func NewPublisher[T any](write WriteFn[T], workerCount int, bufferSize int) (*Publisher[T], error) {
	if workerCount <= 0 {
		return nil, ErrInvalidWorkers
	}

	p := &Publisher[T]{
		write:  write,
		queues: make([]chan asyncMessage[T], workerCount),
	}

	p.partitioner = partitioner.NewPartitioner[T](p.enqueue)
	if err := p.partitioner.SetRoundRobinMode(workerCount); err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}

	perWorker := max(bufferSize/workerCount, 1)
	for i := range p.queues {
		p.queues[i] = make(chan asyncMessage[T], perWorker)
		p.wg.Add(1)
		go p.worker(p.queues[i])
	}

	return p, nil
}

// SetKeyFn включает распределение по ключу: сообщения с одинаковым
// ключом обрабатывает один и тот же воркер.
func (p *Publisher[T]) SetKeyFn(keyFn func(T) string) error {
	return p.partitioner.SetKeyMode(keyFn, len(p.queues))
}

// SendSync пишет сообщение в текущей горутине.
func (p *Publisher[T]) SendSync(ctx context.Context, message T) error {
	if p.closed.Load() {
		return ErrClosed
	}

	if err := p.write(ctx, message); err != nil {
		zap.L().Error(err.Error())
		return err
	}

	return nil
}

// SendAsync ставит сообщение в очередь воркера. Блокируется, пока очередь
// полна, до отмены ctx. Callback вызывается после записи, в том числе успешной.
func (p *Publisher[T]) SendAsync(ctx context.Context, message T, callback Callback[T]) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed.Load() {
		return ErrClosed
	}

	return p.partitioner.WriteFn(ctx, message, callback)
}

// Flush ждёт, пока будут записаны все сообщения, принятые SendAsync
// до вызова, включая вызов их callback. В каждую очередь ставится метка,
// и Flush возвращается, когда воркеры дошли до всех меток.
// Сообщения, пришедшие после Flush, его не задерживают.
func (p *Publisher[T]) Flush(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed.Load() {
		return ErrClosed
	}

	markers := make([]chan struct{}, len(p.queues))
	for i, q := range p.queues {
		markers[i] = make(chan struct{})
		select {
		case q <- asyncMessage[T]{flushed: markers[i]}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for _, m := range markers {
		select {
		case <-m:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// Close перестаёт принимать сообщения, дожидается записи всего,
// что уже в очередях, и останавливает воркеры.
// Повторный вызов возвращает ErrClosed.
func (p *Publisher[T]) Close() error {
	p.mu.Lock()
	if p.closed.Swap(true) {
		p.mu.Unlock()
		return ErrClosed
	}
	for _, q := range p.queues {
		close(q)
	}
	p.mu.Unlock()

	p.wg.Wait()

	return nil
}

func (p *Publisher[T]) enqueue(ctx context.Context, partition int, message T, callback Callback[T]) error {
	select {
	case p.queues[partition] <- asyncMessage[T]{ctx: ctx, message: message, callback: callback}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher[T]) worker(queue <-chan asyncMessage[T]) {
	defer p.wg.Done()

	for m := range queue {
		if m.flushed != nil {
			close(m.flushed)
			continue
		}

		err := p.write(m.ctx, m.message)
		if err != nil {
			zap.L().Error(err.Error())
		}

		if m.callback != nil {
			m.callback(m.ctx, m.message, err)
		}
	}
}
