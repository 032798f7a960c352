package profiler

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Profiler tracks frame rate, draw calls and memory statistics.
// Stats are logged and published as Prometheus metrics once per update interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now        func() time.Time
	logger     *zap.Logger
	registerer prometheus.Registerer

	fps       prometheus.Gauge
	heapBytes prometheus.Gauge
	drawCalls prometheus.Counter

	lastFPS float64
}

// ProfilerOption configures a Profiler in NewProfiler.
type ProfilerOption func(*Profiler)

// WithLogger sets the logger stats are written to, named "profiler".
func WithLogger(logger *zap.Logger) ProfilerOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger.Named("profiler")
		}
	}
}

// WithInterval sets how often stats are published.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = d
	}
}

// WithRegisterer sets the Prometheus registerer; prometheus.DefaultRegisterer is used otherwise.
func WithRegisterer(r prometheus.Registerer) ProfilerOption {
	return func(p *Profiler) {
		p.registerer = r
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a new Profiler and registers its metrics:
// framework_fps, framework_heap_bytes and framework_draw_calls_total.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logger:         zap.NewNop(),
		registerer:     prometheus.DefaultRegisterer,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()

	factory := promauto.With(p.registerer)
	p.fps = factory.NewGauge(prometheus.GaugeOpts{
		Name: "framework_fps",
		Help: "Frames drawn per second over the last profiler interval",
	})
	p.heapBytes = factory.NewGauge(prometheus.GaugeOpts{
		Name: "framework_heap_bytes",
		Help: "Bytes of allocated heap objects",
	})
	p.drawCalls = factory.NewCounter(prometheus.CounterOpts{
		Name: "framework_draw_calls_total",
		Help: "Number of draw calls issued since start",
	})
	return p
}

// Tick should be called once per drawn frame.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Parameters:
//   - draws: the number of draw calls in the frame
//
// Returns:
//   - bool: true if stats were published this tick, false otherwise
func (p *Profiler) Tick(draws int) bool {
	p.frameCount++
	if draws > 0 {
		p.drawCalls.Add(float64(draws))
	}
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.fps.Set(fps)
	p.heapBytes.Set(float64(p.memStats.Alloc))
	p.logger.Info("frame stats",
		zap.Float64("fps", fps),
		zap.Float64("heap_mb", float64(p.memStats.Alloc)/1024/1024),
		zap.Float64("alloc_rate_mb_s", allocRateMB),
		zap.Uint32("gc", gcCount),
		zap.Uint64("gc_last_us", lastPauseUs),
		zap.Uint64("gc_max_us", maxPauseUs),
		zap.Float64("sys_mb", float64(p.memStats.Sys)/1024/1024),
	)

	p.lastFPS = fps
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// FPS returns the frame rate measured over the last completed interval.
func (p *Profiler) FPS() float64 {
	return p.lastFPS
}
