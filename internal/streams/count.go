package streams

import (
	"fmt"
	"strconv"
	"time"

	"simple-stream/internal/record"
)

// countProcessor повторяет groupByKey().count() без кеширования:
// каждое обновление счётчика сразу уходит дальше.
type countProcessor struct {
	baseProcessor
	store *KeyValueStore
}

func newCountProcessor() *countProcessor {
	return &countProcessor{store: NewKeyValueStore()}
}

func (p *countProcessor) Process(rec record.Record) error {
	count := p.store.Increment(rec.Key)
	return p.ctx.Forward(rec.WithValue(strconv.FormatInt(count, 10)))
}

// windowedCountProcessor считает записи в tumbling-окнах по времени записи.
type windowedCountProcessor struct {
	baseProcessor
	store     *WindowStore
	size      time.Duration
	retention time.Duration

	// latestStart: начало самого позднего окна, после которого уже была очистка.
	latestStart time.Time
	started     bool
}

func newWindowedCountProcessor(size, retention time.Duration) *windowedCountProcessor {
	return &windowedCountProcessor{
		store:     NewWindowStore(),
		size:      size,
		retention: retention,
	}
}

func (p *windowedCountProcessor) Process(rec record.Record) error {
	w := WindowFor(rec.Timestamp, p.size)
	count := p.store.Increment(rec.Key, w)

	// Очистка только при открытии нового окна.
	if !p.started || w.Start.After(p.latestStart) {
		p.started = true
		p.latestStart = w.Start
		p.store.EvictBefore(rec.Timestamp.Add(-p.retention))
	}

	return p.ctx.Forward(rec.WithKeyValue(WindowedKey(rec.Key, w), strconv.FormatInt(count, 10)))
}

// WindowFor возвращает tumbling-окно размера size, выровненное по эпохе, в которое попадает ts.
func WindowFor(ts time.Time, size time.Duration) Window {
	sizeMs := size.Milliseconds()
	ms := ts.UnixMilli()
	start := ms - ms%sizeMs
	if ms < 0 && ms%sizeMs != 0 {
		start -= sizeMs
	}

	return Window{
		Start: time.UnixMilli(start),
		End:   time.UnixMilli(start + sizeMs),
	}
}

// WindowedKey форматирует ключ окна как [key@start/end] в миллисекундах.
func WindowedKey(key string, w Window) string {
	return fmt.Sprintf("[%s@%d/%d]", key, w.Start.UnixMilli(), w.End.UnixMilli())
}
