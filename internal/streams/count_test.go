package streams

import (
	"testing"
	"time"

	"simple-stream/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forwardingContext собирает всё, что процессор передал в Forward.
type forwardingContext struct {
	processorContext
	forwarded []record.Record
}

func (c *forwardingContext) Forward(rec record.Record) error {
	c.forwarded = append(c.forwarded, rec)
	return nil
}

func TestCountProcessor_RunningCount(t *testing.T) {
	ctx := &forwardingContext{}
	p := newCountProcessor()
	require.NoError(t, p.Init(ctx))

	for _, key := range []string{"cpu", "mem", "cpu", "cpu"} {
		require.NoError(t, p.Process(record.Record{Key: key, Value: "ignored"}))
	}

	got := make([]string, len(ctx.forwarded))
	for i, r := range ctx.forwarded {
		got[i] = r.Key + "=" + r.Value
	}
	assert.Equal(t, []string{"cpu=1", "mem=1", "cpu=2", "cpu=3"}, got)

	assert.Equal(t, map[string]int64{"cpu": 3, "mem": 1}, p.store.values)
}

func TestWindowFor(t *testing.T) {
	w := WindowFor(time.UnixMilli(12_345), 10*time.Second)

	assert.Equal(t, int64(10_000), w.Start.UnixMilli())
	assert.Equal(t, int64(20_000), w.End.UnixMilli())

	w = WindowFor(time.UnixMilli(20_000), 10*time.Second)
	assert.Equal(t, int64(20_000), w.Start.UnixMilli(), "граница окна принадлежит следующему окну")
}

func TestWindowedKey(t *testing.T) {
	w := Window{Start: time.UnixMilli(10_000), End: time.UnixMilli(20_000)}

	assert.Equal(t, "[cpu@10000/20000]", WindowedKey("cpu", w))
}

func TestWindowedCountProcessor(t *testing.T) {
	ctx := &forwardingContext{}
	p := newWindowedCountProcessor(10*time.Second, time.Minute)
	require.NoError(t, p.Init(ctx))

	records := []record.Record{
		{Key: "cpu", Timestamp: time.UnixMilli(1_000)},
		{Key: "cpu", Timestamp: time.UnixMilli(9_999)},
		{Key: "cpu", Timestamp: time.UnixMilli(10_000)},
		{Key: "mem", Timestamp: time.UnixMilli(10_500)},
	}
	for _, r := range records {
		require.NoError(t, p.Process(r))
	}

	got := make([]string, len(ctx.forwarded))
	for i, r := range ctx.forwarded {
		got[i] = r.Key + "=" + r.Value
	}
	assert.Equal(t, []string{
		"[cpu@0/10000]=1",
		"[cpu@0/10000]=2",
		"[cpu@10000/20000]=1",
		"[mem@10000/20000]=1",
	}, got)
}

func TestWindowedCountProcessor_Retention(t *testing.T) {
	ctx := &forwardingContext{}
	p := newWindowedCountProcessor(10*time.Second, 30*time.Second)
	require.NoError(t, p.Init(ctx))

	require.NoError(t, p.Process(record.Record{Key: "cpu", Timestamp: time.UnixMilli(0)}))
	require.NoError(t, p.Process(record.Record{Key: "cpu", Timestamp: time.UnixMilli(20_000)}))
	assert.Len(t, p.store.windows, 2)

	// окно [0, 10000) начинается раньше 45000-30000 и удаляется
	require.NoError(t, p.Process(record.Record{Key: "cpu", Timestamp: time.UnixMilli(45_000)}))
	assert.Len(t, p.store.windows, 2)
	assert.NotContains(t, p.store.windows, int64(0))
}

func TestWindowedCountProcessor_EvictsOnlyOnNewWindow(t *testing.T) {
	ctx := &forwardingContext{}
	p := newWindowedCountProcessor(10*time.Second, 30*time.Second)
	require.NoError(t, p.Init(ctx))

	require.NoError(t, p.Process(record.Record{Key: "cpu", Timestamp: time.UnixMilli(0)}))
	require.NoError(t, p.Process(record.Record{Key: "cpu", Timestamp: time.UnixMilli(30_000)}))
	assert.Contains(t, p.store.windows, int64(0))

	// запись того же окна [30000, 40000) не запускает очистку
	require.NoError(t, p.Process(record.Record{Key: "mem", Timestamp: time.UnixMilli(35_000)}))
	assert.Contains(t, p.store.windows, int64(0))

	// запоздавшая запись старого окна тоже
	require.NoError(t, p.Process(record.Record{Key: "cpu", Timestamp: time.UnixMilli(25_000)}))
	assert.Len(t, p.store.windows, 3)

	require.NoError(t, p.Process(record.Record{Key: "cpu", Timestamp: time.UnixMilli(40_000)}))
	assert.NotContains(t, p.store.windows, int64(0))
	assert.Equal(t, map[string]int64{"cpu": 1, "mem": 1}, p.store.windows[30_000])
	assert.Equal(t, int64(1), p.store.windows[40_000]["cpu"])
}
