package partitioner

import (
	"context"
	"hash/fnv"
	"sync/atomic"

	"go.uber.org/zap"
)

// Partitioner выбирает слот (партицию, воркера) для сообщения
// по текущей стратегии: round-robin или по ключу.
// Стратегию можно менять на лету, смена атомарна.
type Partitioner[T any] struct {
	writePartitionFn WritePartitionFn[T]
	config           atomic.Value
}

// NewPartitioner создаёт Partitioner с одним слотом и режимом round-robin.
func NewPartitioner[T any](writeFn WritePartitionFn[T]) *Partitioner[T] {
	p := &Partitioner[T]{
		writePartitionFn: writeFn,
	}

	p.config.Store(&config[T]{
		mode:  defaultMode,
		count: 1,
		rr:    NewRRCircle(1),
	})

	return p
}

// WriteFn выбирает слот и передаёт в него сообщение.
func (p *Partitioner[T]) WriteFn(ctx context.Context, message T, callback Callback[T]) error {
	index, err := p.Partition(message)
	if err != nil {
		return err
	}

	return p.writePartitionFn(ctx, index, message, callback)
}

// Partition возвращает номер слота для сообщения без записи.
func (p *Partitioner[T]) Partition(message T) (int, error) {
	cfg := p.config.Load().(*config[T])

	switch cfg.mode {
	case roundRobinMode:
		return cfg.rr.Load(), nil
	case keyMode:
		return hashToRange(cfg.keyFn(message), cfg.count), nil
	}

	zap.L().Error(ErrInvalidMode.Error(), zap.String("mode", string(cfg.mode)))
	return 0, ErrInvalidMode
}

// SetRoundRobinMode: слоты выбираются последовательно по кругу.
func (p *Partitioner[T]) SetRoundRobinMode(count int) error {
	if count <= 0 {
		return ErrInvalidCount
	}

	p.config.Store(&config[T]{
		mode:  roundRobinMode,
		count: count,
		rr:    NewRRCircle(count),
	})

	return nil
}

// SetKeyMode: сообщения с одинаковым ключом всегда попадают в один слот.
// На этом держится порядок обновлений одного ключа при параллельной отправке.
func (p *Partitioner[T]) SetKeyMode(keyFn func(m T) string, count int) error {
	if count <= 0 {
		return ErrInvalidCount
	}
	if keyFn == nil {
		return ErrInvalidKey
	}

	p.config.Store(&config[T]{
		mode:  keyMode,
		count: count,
		keyFn: keyFn,
	})

	return nil
}

// hashToRange отображает FNV-1a строки в [0, n).
func hashToRange(s string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % uint32(n))
}
