package publisher

import "context"

type Callback[T any] = func(ctx context.Context, message T, err error)

// WriteFn пишет одно сообщение. Вызывается из воркера.
type WriteFn[T any] = func(ctx context.Context, message T) error

type asyncMessage[T any] struct {
	ctx      context.Context
	message  T
	callback Callback[T]

	// flushed отмечает метку Flush: воркер закрывает канал и ничего не пишет.
	flushed chan struct{}
}
