package app

import (
	"simple-stream/internal/config"
	"simple-stream/internal/streams"

	"github.com/segmentio/kafka-go"
)

// TopicConfigs описывает топики топологии для EnsureTopics.
// Входной топик создаётся с InputPartitions партиций, выходные с одной.
func TopicConfigs(cfg *config.Config, topology *streams.Topology) []kafka.TopicConfig {
	topics := []kafka.TopicConfig{{
		Topic:             topology.SourceTopic(),
		NumPartitions:     cfg.InputPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}}

	seen := map[string]bool{topology.SourceTopic(): true}
	for _, topic := range topology.SinkTopics() {
		if seen[topic] {
			continue
		}
		seen[topic] = true
		topics = append(topics, kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: cfg.ReplicationFactor,
		})
	}
	return topics
}

// StartOffset переводит auto.offset.reset в смещение kafka-go.
func StartOffset(reset config.OffsetReset) int64 {
	if reset == config.OffsetLatest {
		return kafka.LastOffset
	}
	return kafka.FirstOffset
}

// StreamsConfig собирает настройки движка из конфигурации приложения.
func StreamsConfig(cfg *config.Config) streams.Config {
	return streams.Config{
		ApplicationID:  cfg.ApplicationID,
		Brokers:        cfg.Brokers,
		Threads:        cfg.StreamThreads,
		CommitInterval: cfg.CommitInterval,
		StartOffset:    StartOffset(cfg.AutoOffsetReset),
	}
}
