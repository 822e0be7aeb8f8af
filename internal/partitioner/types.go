package partitioner

import "context"

type Callback[T any] = func(ctx context.Context, message T, err error)

// WritePartitionFn получает номер выбранной партиции в диапазоне [0, count).
type WritePartitionFn[T any] = func(ctx context.Context, partition int, message T, callback Callback[T]) error
