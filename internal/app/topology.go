package app

import (
	"strings"

	"simple-stream/internal/config"
	"simple-stream/internal/flusher"
	"simple-stream/internal/serde"
	"simple-stream/internal/streams"

	"go.uber.org/zap"
)

// FirstWord возвращает текст до первой запятой или пробела.
// Для строки telegraf это имя измерения: "cpu,host=a ..." -> "cpu".
func FirstWord(value string) string {
	if i := strings.IndexAny(value, ", "); i >= 0 {
		return value[:i]
	}
	return value
}

// TagThread дописывает перед значением имя потока, который его обработал.
func TagThread(ctx streams.ProcessorContext, value string) string {
	return ctx.ThreadName() + " " + value
}

func keyByFirstWord(value string) streams.KeyValueMapper {
	return func(_ streams.ProcessorContext, _, v string) (string, string) {
		return FirstWord(v), value
	}
}

// BuildTopology собирает четыре ветки над входным топиком:
// пометку потоком, общий счётчик, счётчик по окнам и батчинг с периодическим flush.
func BuildTopology(cfg *config.Config, reporter flusher.Reporter) (*streams.Topology, error) {
	supplier, err := flusher.Supplier(reporter, cfg.FlushInterval)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}

	b := streams.NewBuilder()
	input := b.Stream(cfg.InputTopic)

	input.
		MapValues(TagThread).
		To(cfg.ByThreadTopic, serde.String)

	input.
		Map(keyByFirstWord("0")).
		Count("").
		To(cfg.GlobalCountTopic, serde.Int64)

	input.
		Map(keyByFirstWord("1")).
		WindowedCount("", cfg.WindowSize, 0).
		To(cfg.WindowCountTopic, serde.Int64)

	input.Process(supplier)

	topology, err := b.Build()
	if err != nil {
		zap.L().Error(err.Error())
		return nil, err
	}

	return topology, nil
}
