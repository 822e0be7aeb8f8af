package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"simple-stream/internal/config"
	"simple-stream/internal/flusher"
	"simple-stream/internal/record"
	"simple-stream/internal/serde"
	"simple-stream/internal/streams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
)

type sent struct {
	key   string
	value []byte
}

type recordingProducer struct {
	mu      sync.Mutex
	byTopic map[string][]sent
}

func (p *recordingProducer) Send(_ context.Context, topic string, key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.byTopic == nil {
		p.byTopic = map[string][]sent{}
	}
	p.byTopic[topic] = append(p.byTopic[topic], sent{key: string(key), value: value})
	return nil
}

func (p *recordingProducer) Flush(context.Context) error { return nil }

func (p *recordingProducer) topic(name string) []sent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sent(nil), p.byTopic[name]...)
}

type recordingReporter struct {
	mu      sync.Mutex
	reports []flusher.Report
}

func (r *recordingReporter) Report(_ context.Context, report flusher.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return nil
}

func (r *recordingReporter) snapshot() []flusher.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]flusher.Report(nil), r.reports...)
}

func TestFirstWord(t *testing.T) {
	cases := map[string]string{
		"cpu,host=a usage=1 1": "cpu",
		"mem used=3":           "mem",
		"42":                   "42",
		"":                     "",
		",leading":             "",
		" leading":             "",
	}

	for in, want := range cases {
		assert.Equal(t, want, FirstWord(in), in)
	}
}

func TestBuildTopology_Describe(t *testing.T) {
	cfg := config.Default()

	topology, err := BuildTopology(cfg, &recordingReporter{})
	require.NoError(t, err)

	desc := topology.Describe()
	assert.Contains(t, desc, "Source: KSTREAM-SOURCE-0000000000 (topics: [telegraf])")
	for _, topic := range cfg.Topics()[1:] {
		assert.Contains(t, desc, "(topic: "+topic+")")
	}
	assert.Contains(t, desc, "KSTREAM-PROCESSOR-")
	assert.Equal(t, cfg.InputTopic, topology.SourceTopic())
}

func TestBuildTopology_NilReporter(t *testing.T) {
	_, err := BuildTopology(config.Default(), nil)
	assert.ErrorIs(t, err, flusher.ErrNilReporter)
}

func TestBuildTopology_AllBranches(t *testing.T) {
	cfg := config.Default()
	clock := clockz.NewFakeClock()
	producer := &recordingProducer{}
	reporter := &recordingReporter{}

	topology, err := BuildTopology(cfg, reporter)
	require.NoError(t, err)

	task, err := streams.NewTask(t.Context(), streams.TaskID{Partition: 2}, "simple-stream-1-StreamThread-2", topology, producer, clock, nil)
	require.NoError(t, err)
	defer task.Close()

	lines := []string{
		"cpu,host=a value=1 1",
		"mem,host=a value=2 1",
		"cpu,host=b value=3 1",
	}
	for _, l := range lines {
		require.NoError(t, task.Process(record.Record{Value: l, Timestamp: clock.Now()}))
	}

	byThread := producer.topic(cfg.ByThreadTopic)
	require.Len(t, byThread, 3)
	assert.Equal(t, "simple-stream-1-StreamThread-2 "+lines[0], string(byThread[0].value))
	assert.Empty(t, byThread[0].key)

	global := producer.topic(cfg.GlobalCountTopic)
	require.Len(t, global, 3)
	assert.Equal(t, "cpu", global[2].key)
	assert.Equal(t, int64(2), decode(t, global[2].value))
	assert.Equal(t, "mem", global[1].key)
	assert.Equal(t, int64(1), decode(t, global[1].value))

	window := producer.topic(cfg.WindowCountTopic)
	require.Len(t, window, 3)
	w := streams.WindowFor(clock.Now(), cfg.WindowSize)
	assert.Equal(t, streams.WindowedKey("cpu", w), window[2].key)
	assert.True(t, strings.HasPrefix(window[2].key, "[cpu@"))
	assert.Equal(t, int64(2), decode(t, window[2].value))

	clock.Advance(cfg.FlushInterval)
	require.Eventually(t, func() bool {
		return len(reporter.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	report := reporter.snapshot()[0]
	assert.Equal(t, 3, report.Count)
	assert.Equal(t, "simple-stream-1-StreamThread-2", report.ThreadName)
	assert.Equal(t, "0_2", report.TaskID)
}

func decode(t *testing.T, b []byte) int64 {
	t.Helper()

	v, err := serde.DecodeInt64(b)
	require.NoError(t, err)
	return v
}
