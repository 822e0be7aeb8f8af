package dispatcher

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Dispatcher struct {
	multiply     float64
	startTimeout time.Duration
	attempts     int
}

// NewDispatcher создает и возвращает новый экземпляр Dispatcher
// с параметрами повторных попыток по умолчанию.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		multiply:     defaultBackoffMultiply,
		startTimeout: defaultStartBackoffTimeout,
		attempts:     defaultBackoffAttemptCount,
	}
}

// SetBackoff задает стартовый таймаут попытки и количество попыток.
func (d *Dispatcher) SetBackoff(startTimeout time.Duration, attempts int) {
	if startTimeout > 0 {
		d.startTimeout = startTimeout
	}
	if attempts > 0 {
		d.attempts = attempts
	}
}

// Write выполняет запись с использованием механизма повторных попыток (backoff).
// Принимает контекст для управления отменой и функцию записи writeFn.
func (d *Dispatcher) Write(ctx context.Context, writeFn WriteFn) error {
	return d.writeWithBackoff(ctx, writeFn)
}

// writeWithBackoff повторяет запись, увеличивая таймаут каждой попытки в multiply раз.
// При отмене контекста возвращается ошибка контекста.
// Когда попытки кончились, возвращается ErrBackoffTimeout.
func (d *Dispatcher) writeWithBackoff(ctx context.Context, writeFn WriteFn) error {
	timeout := d.startTimeout

	for range d.attempts {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := d.singleWrite(ctx, timeout, writeFn); err != nil {
			timeout = time.Duration(float64(timeout) * d.multiply)
			continue
		}

		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrBackoffTimeout
}

// singleWrite выполняет одну попытку записи с ограничением по времени.
func (d *Dispatcher) singleWrite(ctx context.Context, timeout time.Duration, writeFn WriteFn) error {
	ctxT, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := writeFn(ctxT); err != nil {
		zap.L().Error(err.Error(), zap.Duration("timeout", timeout))
		return err
	}

	return nil
}
