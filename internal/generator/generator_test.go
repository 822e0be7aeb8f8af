package generator

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan string) []string {
	t.Helper()

	var lines []string
	timeout := time.After(time.Second)
	for {
		select {
		case l, ok := <-ch:
			if !ok {
				return lines
			}
			lines = append(lines, l)
		case <-timeout:
			require.Fail(t, "канал не был закрыт")
			return lines
		}
	}
}

func TestSequenceMode(t *testing.T) {
	g := NewLineGenerator()
	require.NoError(t, g.SetCount(5))

	lines := collect(t, g.Lines(t.Context()))

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, lines)
}

func TestTelegrafMode_LineFormat(t *testing.T) {
	g := NewLineGenerator()
	require.NoError(t, g.SetMode(TelegrafMode))
	require.NoError(t, g.SetCount(20))

	before := time.Now().UnixNano()
	lines := collect(t, g.Lines(t.Context()))
	after := time.Now().UnixNano()

	require.Len(t, lines, 20)
	for _, l := range lines {
		parts := strings.Split(l, " ")
		require.Len(t, parts, 3, l)

		tags := strings.Split(parts[0], ",")
		require.Len(t, tags, 3, l)
		assert.Contains(t, measurements[:], tags[0])
		assert.True(t, strings.HasPrefix(tags[1], "host="))
		assert.True(t, strings.HasPrefix(tags[2], "region="))
		assert.True(t, strings.HasPrefix(parts[1], "value="))
		ts := mustParseInt(t, parts[2])
		assert.GreaterOrEqual(t, ts, before)
		assert.LessOrEqual(t, ts, after)
	}
}

func TestListenersCalledPerLine(t *testing.T) {
	g := NewLineGenerator()
	require.NoError(t, g.SetCount(7))

	total := 0
	g.AddPostCreateLinesListener(func(count int) {
		total += count
	})

	collect(t, g.Lines(t.Context()))

	assert.Equal(t, 7, total)
}

func TestUnboundedStopsOnCancel(t *testing.T) {
	g := NewLineGenerator()
	require.NoError(t, g.SetCount(0))

	ctx, cancel := context.WithCancel(t.Context())
	ch := g.Lines(ctx)

	for range 100 {
		<-ch
	}
	cancel()

	collect(t, ch)
}

func TestInvalidSettings(t *testing.T) {
	g := NewLineGenerator()

	assert.ErrorIs(t, g.SetMode("burst"), ErrInvalidMode)
	assert.ErrorIs(t, g.SetCount(-1), ErrInvalidCount)
}

func mustParseInt(t *testing.T, s string) int64 {
	t.Helper()

	v, err := strconv.ParseInt(s, 10, 64)
	require.NoError(t, err)
	return v
}
