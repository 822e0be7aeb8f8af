package punctuator

import (
	"context"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// Scheduler вызывает зарегистрированные пунктуации по wall-clock времени.
// Каждая регистрация обслуживается своей горутиной, поэтому вызовы одной
// пунктуации никогда не пересекаются между собой.
type Scheduler struct {
	clock   clockz.Clock
	onError ErrorHandler

	stopCh chan struct{}
	wg     sync.WaitGroup

	// mu связывает проверку stopped с wg.Add: после Close новых горутин нет.
	mu      sync.Mutex
	stopped bool
}

// NewScheduler создаёт планировщик поверх clock.
// onError вызывается, если пунктуация вернула ошибку; может быть nil.
func NewScheduler(clock clockz.Clock, onError ErrorHandler) *Scheduler {
	return &Scheduler{
		clock:   clock,
		onError: onError,
		stopCh:  make(chan struct{}),
	}
}

// Schedule регистрирует fn с периодом interval.
// Тикер создаётся синхронно, до возврата из метода.
func (s *Scheduler) Schedule(ctx context.Context, interval time.Duration, typ PunctuationType, fn Punctuator) (Cancellable, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if typ != PunctuateByWallClockTime {
		return nil, ErrUnsupportedType
	}
	if fn == nil {
		return nil, ErrNilPunctuator
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, ErrStopped
	}

	p := &punctuation{cancelCh: make(chan struct{})}
	ticker := s.clock.NewTicker(interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-p.cancelCh:
				return
			case ts := <-ticker.C():
				if err := fn(ctx, ts); err != nil {
					zap.L().Error(err.Error())
					if s.onError != nil {
						s.onError(err)
					}
					return
				}
			}
		}
	}()

	return p, nil
}

// Close останавливает все пунктуации и дожидается завершения их горутин.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

type punctuation struct {
	once     sync.Once
	cancelCh chan struct{}
}

func (p *punctuation) Cancel() {
	p.once.Do(func() {
		close(p.cancelCh)
	})
}
