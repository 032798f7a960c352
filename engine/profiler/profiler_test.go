package profiler

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTickPublishesOncePerInterval(t *testing.T) {
	now := time.Unix(0, 0)
	core, logs := observer.New(zap.InfoLevel)
	reg := prometheus.NewRegistry()
	p := NewProfiler(
		WithRegisterer(reg),
		WithLogger(zap.New(core)),
		WithInterval(time.Second),
		WithClock(func() time.Time { return now }),
	)

	for i := 0; i < 29; i++ {
		now = now.Add(10 * time.Millisecond)
		assert.False(t, p.Tick(67))
	}
	now = now.Add(710 * time.Millisecond)
	require.True(t, p.Tick(67))

	assert.InDelta(t, 30, p.FPS(), 1e-9)
	assert.InDelta(t, 30, testutil.ToFloat64(p.fps), 1e-9)
	assert.Equal(t, float64(30*67), testutil.ToFloat64(p.drawCalls))
	assert.Greater(t, testutil.ToFloat64(p.heapBytes), float64(0))

	entries := logs.FilterMessage("frame stats").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "profiler", entries[0].LoggerName)

	now = now.Add(10 * time.Millisecond)
	assert.False(t, p.Tick(0))
}

func TestMetricsAreRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewProfiler(WithRegisterer(reg))
	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["framework_fps"])
	assert.True(t, names["framework_heap_bytes"])
	assert.True(t, names["framework_draw_calls_total"])
}
