package streams

import (
	"sync"
	"time"
)

// KeyValueStore: in-memory хранилище счётчиков одной задачи.
type KeyValueStore struct {
	mu     sync.Mutex
	values map[string]int64
}

func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{
		values: make(map[string]int64),
	}
}

// Increment увеличивает счётчик ключа на единицу и возвращает новое значение.
func (s *KeyValueStore) Increment(key string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key]++
	return s.values[key]
}

// Window — полуинтервал [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowStore хранит счётчики, сгруппированные по началу окна (в миллисекундах),
// чтобы удаление старых окон не обходило все ключи.
type WindowStore struct {
	mu      sync.Mutex
	windows map[int64]map[string]int64
}

func NewWindowStore() *WindowStore {
	return &WindowStore{
		windows: make(map[int64]map[string]int64),
	}
}

func (s *WindowStore) Increment(key string, w Window) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := w.Start.UnixMilli()
	counts, ok := s.windows[start]
	if !ok {
		counts = make(map[string]int64)
		s.windows[start] = counts
	}
	counts[key]++
	return counts[key]
}

// EvictBefore удаляет окна, начавшиеся раньше cutoff. Возвращает число удалённых окон.
func (s *WindowStore) EvictBefore(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for start := range s.windows {
		if start < cutoff.UnixMilli() {
			delete(s.windows, start)
			evicted++
		}
	}
	return evicted
}
