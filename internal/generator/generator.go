package generator

import (
	"context"
	"fmt"
	mrand "math/rand/v2"
	"strconv"
	"sync"
	"time"
)

var (
	measurements = [...]string{
		"cpu",
		"mem",
		"disk",
		"net",
		"swap",
		"system",
	}
	hosts = [...]string{
		"web-1",
		"web-2",
		"db-1",
		"cache-1",
	}
	regions = [...]string{
		"EU",
		"US",
		"APAC",
		"LATAM",
	}
)

// LineGenerator создаёт входные строки для топика telegraf.
type LineGenerator struct {
	mode  Mode
	count int

	mu        sync.Mutex
	listeners []func(count int)
}

func NewLineGenerator() *LineGenerator {
	return &LineGenerator{
		mode:  defaultMode,
		count: defaultCount,
	}
}

func (g *LineGenerator) SetMode(mode Mode) error {
	switch mode {
	case SequenceMode, TelegrafMode:
		g.mode = mode
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
}

// SetCount задаёт количество строк. При 0 строки идут до отмены контекста.
func (g *LineGenerator) SetCount(n int) error {
	if n < 0 {
		return ErrInvalidCount
	}
	g.count = n
	return nil
}

// AddPostCreateLinesListener регистрирует функцию, вызываемую
// после создания каждой строки.
func (g *LineGenerator) AddPostCreateLinesListener(fn func(count int)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// Line возвращает i-ю строку (нумерация с 1).
func (g *LineGenerator) Line(i int) string {
	if g.mode == TelegrafMode {
		return g.telegrafLine()
	}
	return strconv.Itoa(i)
}

// Lines отдаёт строки в канал, пока не будет достигнут count
// или не отменён ctx. Канал закрывается по завершении.
func (g *LineGenerator) Lines(ctx context.Context) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		for i := 1; g.count == 0 || i <= g.count; i++ {
			select {
			case <-ctx.Done():
				return
			case out <- g.Line(i):
				g.notify(1)
			}
		}
	}()

	return out
}

func (g *LineGenerator) notify(count int) {
	g.mu.Lock()
	listeners := g.listeners
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(count)
	}
}

// telegrafLine: "<measurement>,host=<h>,region=<r> value=<v> <unix ns>"
func (g *LineGenerator) telegrafLine() string {
	return fmt.Sprintf(
		"%s,host=%s,region=%s value=%s %d",
		measurements[mrand.IntN(len(measurements))],
		hosts[mrand.IntN(len(hosts))],
		regions[mrand.IntN(len(regions))],
		strconv.FormatFloat(mrand.Float64()*100, 'f', 2, 64),
		time.Now().UnixNano(),
	)
}
