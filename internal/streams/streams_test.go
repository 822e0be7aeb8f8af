package streams

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreams_RunsConfiguredThreads(t *testing.T) {
	var (
		mu      sync.Mutex
		configs []kafka.ReaderConfig
		readers []*fakeReader
	)

	s := New(byThreadTopology(t), Config{
		ApplicationID:  "simple-stream",
		Brokers:        []string{"localhost:9092"},
		Threads:        3,
		CommitInterval: 5 * time.Second,
		StartOffset:    kafka.FirstOffset,
	}, &recordingProducer{})

	s.SetReaderFactory(func(cfg kafka.ReaderConfig) KafkaReader {
		mu.Lock()
		defer mu.Unlock()

		r := newFakeReader()
		configs = append(configs, cfg)
		readers = append(readers, r)
		return r
	})

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, s.Run(ctx))

	require.Len(t, configs, 3)
	for _, cfg := range configs {
		assert.Equal(t, "simple-stream", cfg.GroupID)
		assert.Equal(t, "telegraf", cfg.Topic)
		assert.Zero(t, cfg.CommitInterval, "коммитами управляет поток")
		assert.Equal(t, kafka.FirstOffset, cfg.StartOffset)
	}
	for _, r := range readers {
		assert.True(t, r.isClosed())
	}
}

func TestStreams_ThreadNames(t *testing.T) {
	s := New(byThreadTopology(t), Config{ApplicationID: "simple-stream"}, &recordingProducer{})

	assert.True(t, strings.HasPrefix(s.ClientID(), "simple-stream-"))
	assert.Equal(t, s.ClientID()+"-StreamThread-2", s.ThreadName(2))

	other := New(byThreadTopology(t), Config{ApplicationID: "simple-stream"}, &recordingProducer{})
	assert.NotEqual(t, s.ClientID(), other.ClientID())
}
