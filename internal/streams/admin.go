package streams

import (
	"context"
	"errors"
	"net"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EnsureTopics создаёт недостающие топики через контроллер кластера.
// Уже существующие топики пропускаются.
func EnsureTopics(ctx context.Context, broker string, topics ...kafka.TopicConfig) error {
	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		zap.L().Error(err.Error())
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}()

	controller, err := conn.Controller()
	if err != nil {
		zap.L().Error(err.Error())
		return err
	}

	controllerConn, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		zap.L().Error(err.Error())
		return err
	}
	defer func() {
		if err := controllerConn.Close(); err != nil {
			zap.L().Error(err.Error())
		}
	}()

	for _, topic := range topics {
		err := controllerConn.CreateTopics(topic)
		if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
			zap.L().Error(err.Error(), zap.String("topic", topic.Topic))
			return err
		}
		zap.L().Info("topic ready", zap.String("topic", topic.Topic))
	}

	return nil
}
