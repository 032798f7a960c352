package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-framework/common"
	"github.com/Carmen-Shannon/oxy-framework/engine/profiler"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-framework/engine/scene"
	"github.com/Carmen-Shannon/oxy-framework/engine/window"
	"github.com/Carmen-Shannon/oxy-framework/internal/control"
	"github.com/Carmen-Shannon/oxy-framework/internal/prefs"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockClock struct {
	now time.Time
}

func (c *mockClock) Now() time.Time {
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// fakeWindow runs the update callback from ProcessMessages, calling step before each
// iteration, until RequestClose or maxIterations.
type fakeWindow struct {
	closed        bool
	maxIterations int
	step          func(i int)

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(dy float64)
	onKeyDown     func(keyCode uint32)
	onMouseButton func(button common.MouseButton, pressed, shift bool, x, y float64)
	onMouseMove   func(x, y float64)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(cb func())                  { w.onUpdate = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetScrollCallback(cb func(dy float64))        { w.onScroll = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))   { w.onKeyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32))        {}
func (w *fakeWindow) SetMouseButtonCallback(cb func(button common.MouseButton, pressed, shift bool, x, y float64)) {
	w.onMouseButton = cb
}
func (w *fakeWindow) SetMouseMoveCallback(cb func(x, y float64)) { w.onMouseMove = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) SwapBuffers()                               {}
func (w *fakeWindow) ClientAPI() window.ClientAPI                { return window.ClientAPIOpenGL }
func (w *fakeWindow) IsRunning() bool                            { return !w.closed }
func (w *fakeWindow) RequestClose()                              { w.closed = true }
func (w *fakeWindow) Close() error                               { w.closed = true; return nil }
func (w *fakeWindow) Width() int                                 { return 750 }
func (w *fakeWindow) Height() int                                { return 750 }

func (w *fakeWindow) ProcessMessages() {
	for i := 0; w.IsRunning() && i < w.maxIterations; i++ {
		if w.step != nil {
			w.step(i)
		}
		w.onUpdate()
	}
}

type fakeStore struct {
	saved []prefs.Prefs
}

func (s *fakeStore) Save(p prefs.Prefs) error {
	s.saved = append(s.saved, p)
	return nil
}

type fakeWatcher struct {
	changes chan string
	closed  bool
}

func (w *fakeWatcher) Changes() <-chan string { return w.changes }

func (w *fakeWatcher) Close() error {
	w.closed = true
	return nil
}

type fixture struct {
	rec   *renderertest.Recorder
	win   *fakeWindow
	clock *mockClock
	scene scene.Scene
	e     *engine
}

func newFixture(t *testing.T, options ...EngineBuilderOption) *fixture {
	t.Helper()
	rec := renderertest.New()
	s, err := scene.NewScene(rec)
	require.NoError(t, err)
	t.Cleanup(s.Release)

	f := &fixture{
		rec:   rec,
		win:   &fakeWindow{maxIterations: 100},
		clock: &mockClock{now: time.Unix(1000, 0)},
		scene: s,
	}
	options = append([]EngineBuilderOption{WithClock(f.clock)}, options...)
	f.e = NewEngine(f.win, rec, s, options...).(*engine)
	return f
}

func TestFirstUpdateDrawsFrame(t *testing.T) {
	f := newFixture(t)
	f.e.update()

	assert.Equal(t, 1, f.rec.Frames())
	assert.Len(t, f.rec.Draws(), 67)

	// Nothing changed and the animation tick is not due.
	f.e.update()
	assert.Equal(t, 1, f.rec.Frames())
}

func TestAnimationTicksEveryTenMilliseconds(t *testing.T) {
	f := newFixture(t)
	f.e.update()

	f.clock.Advance(5 * time.Millisecond)
	f.e.update()
	assert.Equal(t, 1, f.rec.Frames())
	assert.Zero(t, f.scene.ATime())

	f.clock.Advance(5 * time.Millisecond)
	f.e.update()
	assert.Equal(t, 2, f.rec.Frames())
	assert.InDelta(t, 360*10.0/120000.0, f.scene.ATime(), 1e-6)

	// The next tick is armed from the previous one.
	f.clock.Advance(9 * time.Millisecond)
	f.e.update()
	assert.Equal(t, 2, f.rec.Frames())
	f.clock.Advance(time.Millisecond)
	f.e.update()
	assert.Equal(t, 3, f.rec.Frames())
	assert.InDelta(t, 360*20.0/120000.0, f.scene.ATime(), 1e-6)
}

func TestDigitKeysSetMode(t *testing.T) {
	f := newFixture(t)
	f.e.update()

	f.win.onKeyDown(common.Key7)
	assert.Equal(t, 7, f.scene.Mode())
	f.e.update()
	require.Equal(t, 2, f.rec.Frames())

	draws := f.rec.Draws()
	assert.Equal(t, int32(7), draws[len(draws)-1].Ints["mode"])

	f.win.onKeyDown(common.Key0)
	assert.Equal(t, 0, f.scene.Mode())
}

func TestEscapeAndQQuit(t *testing.T) {
	for _, key := range []uint32{common.KeyEsc, common.KeyQ} {
		f := newFixture(t)
		f.win.onKeyDown(key)
		assert.True(t, f.win.closed)

		_, err := f.e.Do(context.Background(), func(scene.Scene) error { return nil })
		assert.ErrorIs(t, err, control.ErrUnavailable)
	}
}

func TestMouseDragOrbitsCamera(t *testing.T) {
	f := newFixture(t)
	f.e.update()
	cam := f.scene.Camera()
	require.NotNil(t, cam.Controller())
	spin, tilt := cam.Spin(), cam.Tilt()

	f.win.onMouseButton(common.MouseButtonLeft, true, false, 100, 100)
	f.win.onMouseMove(110, 104)
	f.win.onMouseButton(common.MouseButtonLeft, false, false, 110, 104)
	assert.InDelta(t, spin+5, cam.Spin(), 1e-4)
	assert.InDelta(t, tilt+2, cam.Tilt(), 1e-4)

	f.e.update()
	assert.Equal(t, 2, f.rec.Frames())

	zoom := cam.Zoom()
	f.win.onScroll(1)
	assert.Less(t, cam.Zoom(), zoom)
}

func TestResizeUpdatesRendererAndScene(t *testing.T) {
	f := newFixture(t)
	f.win.onResize(1000, 500)

	w, h := f.rec.Size()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 500, h)
	st := f.scene.State()
	assert.Equal(t, 1000, st.Width)
	assert.Equal(t, 500, st.Height)
	assert.InDelta(t, 2, f.scene.Camera().Aspect(), 1e-6)
}

func TestMinimizedWindowSkipsFrames(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	f := newFixture(t, WithLogger(zap.New(core)))
	f.win.onResize(0, 0)
	f.e.update()

	assert.Zero(t, f.rec.Frames())
	assert.Zero(t, logs.Len())
	assert.Equal(t, 750, f.scene.State().Width)

	f.win.onResize(750, 750)
	f.e.update()
	assert.Equal(t, 1, f.rec.Frames())
}

func TestDoRunsOnLoop(t *testing.T) {
	f := newFixture(t)
	f.e.update()

	type result struct {
		st  scene.State
		err error
	}
	done := make(chan result, 1)
	go func() {
		st, err := f.e.Do(context.Background(), func(s scene.Scene) error {
			return s.SetMode(4)
		})
		done <- result{st, err}
	}()

	deadline := time.After(5 * time.Second)
	for {
		f.e.update()
		select {
		case r := <-done:
			require.NoError(t, r.err)
			assert.Equal(t, 4, r.st.Mode)
			f.e.update()
			assert.Equal(t, 2, f.rec.Frames())
			return
		case <-deadline:
			t.Fatal("command did not run")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestDoHonorsContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.e.Do(ctx, func(scene.Scene) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunSavesPrefsOnQuit(t *testing.T) {
	store := &fakeStore{}
	watcher := &fakeWatcher{changes: make(chan string)}
	f := newFixture(t, WithPrefs(store), WithShaderReload(watcher, func() (shader.Shader, shader.Shader, error) {
		return nil, nil, errors.New("unused")
	}))
	f.win.step = func(i int) {
		switch i {
		case 1:
			f.win.onKeyDown(common.Key3)
		case 2:
			f.win.onKeyDown(common.KeyQ)
		}
	}
	f.e.Run()

	assert.True(t, f.win.closed)
	assert.True(t, watcher.closed)
	require.Len(t, store.saved, 1)
	assert.Equal(t, 3, store.saved[0].Mode)
	assert.True(t, store.saved[0].DrawGround)

	// A second stop does not save again.
	f.e.stop()
	assert.Len(t, store.saved, 1)
}

func TestQuitFromAnotherGoroutineClosesWindow(t *testing.T) {
	f := newFixture(t)
	f.e.Quit()
	f.e.Quit()
	f.e.update()
	assert.True(t, f.win.closed)
	assert.Zero(t, f.rec.Frames())
}

func TestShaderChangesReloadOnce(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	watcher := &fakeWatcher{changes: make(chan string, 4)}
	loads := 0
	source := func() (shader.Shader, shader.Shader, error) {
		loads++
		return scene.LightingShaders(renderer.BackendTypeOpenGL, "")
	}
	f := newFixture(t, WithLogger(zap.New(core)), WithShaderReload(watcher, source))
	f.e.update()

	watcher.changes <- "shaders/lighting.vert"
	watcher.changes <- "shaders/lighting.frag"
	f.e.update()
	assert.Equal(t, 1, loads)
	assert.Equal(t, 2, f.rec.Frames())
	programs, _, _ := f.rec.Live()
	assert.Equal(t, 1, programs)
	assert.Equal(t, 1, logs.FilterMessage("shader sources changed").Len())

	// A failing compile keeps the current program.
	f.rec.ProgramErr = &renderer.ShaderError{Key: "lighting.frag", Stage: shader.ShaderTypeFragment, Log: "0:1: syntax error"}
	watcher.changes <- "shaders/lighting.frag"
	f.e.update()
	assert.Equal(t, 2, loads)
	assert.Equal(t, 1, logs.FilterMessage("shader reload failed, keeping current program").Len())
	programs, _, _ = f.rec.Live()
	assert.Equal(t, 1, programs)

	f.rec.Reset()
	f.clock.Advance(10 * time.Millisecond)
	f.e.update()
	assert.Equal(t, 3, f.rec.Frames())
	assert.Len(t, f.rec.Draws(), 67)
}

func TestProfilerCountsDraws(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := profiler.NewProfiler(profiler.WithRegisterer(reg))
	f := newFixture(t, WithProfiler(p), WithProfiling(true))
	f.e.update()
	f.clock.Advance(10 * time.Millisecond)
	f.e.update()

	families, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, fam := range families {
		if fam.GetName() == "framework_draw_calls_total" {
			total = fam.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(2*67), total)

	f.e.DisableProfiler()
	f.clock.Advance(10 * time.Millisecond)
	f.e.update()
	families, _ = reg.Gather()
	for _, fam := range families {
		if fam.GetName() == "framework_draw_calls_total" {
			assert.Equal(t, float64(2*67), fam.GetMetric()[0].GetCounter().GetValue())
		}
	}
}

func TestNewEnginePanicsOnMissingParts(t *testing.T) {
	assert.Panics(t, func() { NewEngine(nil, renderertest.New(), nil) })
}
