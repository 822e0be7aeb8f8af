package streams

import (
	"fmt"

	"simple-stream/internal/record"
	"simple-stream/internal/serde"

	"go.uber.org/zap"
)

// baseProcessor хранит контекст и реализует пустой Close.
type baseProcessor struct {
	ctx ProcessorContext
}

func (p *baseProcessor) Init(ctx ProcessorContext) error {
	p.ctx = ctx
	return nil
}

func (p *baseProcessor) Close() error {
	return nil
}

type mapValuesProcessor struct {
	baseProcessor
	mapper ValueMapper
}

func (p *mapValuesProcessor) Process(rec record.Record) error {
	return p.ctx.Forward(rec.WithValue(p.mapper(p.ctx, rec.Value)))
}

type mapProcessor struct {
	baseProcessor
	mapper KeyValueMapper
}

func (p *mapProcessor) Process(rec record.Record) error {
	key, value := p.mapper(p.ctx, rec.Key, rec.Value)
	return p.ctx.Forward(rec.WithKeyValue(key, value))
}

// sinkProcessor сериализует запись и передаёт её Producer.
// Пустой ключ отправляется как null.
type sinkProcessor struct {
	baseProcessor
	producer   Producer
	topic      string
	serializer serde.Serializer
}

func (p *sinkProcessor) Process(rec record.Record) error {
	value, err := p.serializer(rec.Value)
	if err != nil {
		zap.L().Error(err.Error(), zap.String("topic", p.topic))
		return fmt.Errorf("serialize for %s: %w", p.topic, err)
	}

	var key []byte
	if rec.Key != "" {
		key = []byte(rec.Key)
	}

	return p.producer.Send(p.ctx.Context(), p.topic, key, value)
}
