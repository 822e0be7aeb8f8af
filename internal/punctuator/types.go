package punctuator

import (
	"context"
	"time"
)

// Punctuator — колбэк, вызываемый по расписанию с текущим временем.
type Punctuator = func(ctx context.Context, timestamp time.Time) error

// ErrorHandler получает ошибки, которые вернул Punctuator.
type ErrorHandler = func(err error)

// Cancellable позволяет отменить запланированную пунктуацию.
type Cancellable interface {
	Cancel()
}

type PunctuationType string

const (
	// PunctuateByWallClockTime срабатывает по системным часам, независимо от времени записей.
	PunctuateByWallClockTime PunctuationType = "wall_clock_time"
	// PunctuateByStreamTime: по максимальному времени записей. Не поддерживается.
	PunctuateByStreamTime PunctuationType = "stream_time"
)
