package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-framework/engine"
	"github.com/Carmen-Shannon/oxy-framework/engine/camera"
	"github.com/Carmen-Shannon/oxy-framework/engine/loader"
	"github.com/Carmen-Shannon/oxy-framework/engine/profiler"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer"
	"github.com/Carmen-Shannon/oxy-framework/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-framework/engine/scene"
	"github.com/Carmen-Shannon/oxy-framework/engine/window"
	"github.com/Carmen-Shannon/oxy-framework/internal/config"
	"github.com/Carmen-Shannon/oxy-framework/internal/control"
	"github.com/Carmen-Shannon/oxy-framework/internal/logging"
	"github.com/Carmen-Shannon/oxy-framework/internal/prefs"
	"go.uber.org/zap"
)

func run(ctx context.Context, cfg *config.Config) error {
	logger, flush, err := logging.Init(logging.Options{
		Dev:   cfg.Log.Dev,
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	if err != nil {
		return err
	}
	defer flush()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.Context(ctx, logger)

	if err := runScene(ctx, cfg); err != nil {
		logger.Error("framework stopped", zap.Error(err))
		return err
	}
	return nil
}

func runScene(ctx context.Context, cfg *config.Config) error {
	logger := logging.From(ctx)
	backend, err := renderer.ParseBackendType(cfg.Renderer.Backend)
	if err != nil {
		return err
	}

	// ── Preferences ─────────────────────────────────────────────────────
	state := cfg.State()
	var store *prefs.Store
	if cfg.Prefs.Path != "" {
		store, err = prefs.Open(cfg.Prefs.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		state = restorePrefs(logger, store, state)
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	api := window.ClientAPIOpenGL
	if backend == renderer.BackendTypeWGPU {
		api = window.ClientAPINone
	}
	w, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithClientAPI(api),
		window.WithPollInterval(cfg.PollInterval()),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	present := renderer.PresentModeVSync
	if !cfg.Renderer.VSync {
		present = renderer.PresentModeUncapped
	}
	cc := cfg.Renderer.ClearColor
	r, err := renderer.NewRenderer(backend, w,
		renderer.WithLogger(logger),
		renderer.WithDebug(cfg.Renderer.Debug),
		renderer.WithPresentMode(present),
		renderer.WithClearColor(cc[0], cc[1], cc[2], cc[3]),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.Software),
	)
	if err != nil {
		return err
	}
	defer r.Release()

	// The framebuffer can differ from the requested size on high-DPI displays.
	state.Width, state.Height = w.Width(), w.Height()

	// ── Camera ──────────────────────────────────────────────────────────
	cam := camera.NewCamera(
		camera.WithSpin(cfg.Camera.Spin),
		camera.WithTilt(cfg.Camera.Tilt),
		camera.WithZoom(cfg.Camera.Zoom),
		camera.WithPan(cfg.Camera.Pan[0], cfg.Camera.Pan[1]),
		camera.WithFrustum(cfg.Camera.Ry, cfg.Camera.Front, cfg.Camera.Back),
		camera.WithViewport(state.Width, state.Height),
	)
	camera.NewCameraController(cam,
		camera.WithOrbitSpeed(cfg.Camera.OrbitSpeed),
		camera.WithPanSpeed(cfg.Camera.PanSpeed),
		camera.WithZoomSpeed(cfg.Camera.ZoomSpeed),
	)

	// ── Models + Shaders ────────────────────────────────────────────────
	ld := loader.NewLoader(loader.WithLogger(logger), loader.WithWorkers(cfg.Models.Workers))
	if cfg.Models.Preload {
		if err := ld.Preload(cfg.Models.Bunny, cfg.Models.Dragon); err != nil {
			logger.Warn("preload incomplete", zap.Error(err))
		}
	}
	vs, fs, err := scene.LightingShaders(backend, cfg.Shaders.Dir)
	if err != nil {
		return err
	}

	// ── Scene ───────────────────────────────────────────────────────────
	sc, err := scene.NewScene(r,
		scene.WithState(state),
		scene.WithCamera(cam),
		scene.WithLoader(ld),
		scene.WithShaders(vs, fs),
		scene.WithMeshPaths(cfg.Models.Bunny, cfg.Models.Dragon),
		scene.WithGroundTexture(cfg.Scene.GroundTexture),
		scene.WithGround(cfg.Scene.GroundRange, cfg.Scene.GroundDivisions, cfg.Scene.GroundHeight),
		scene.WithSphereDivisions(cfg.Scene.SphereDivisions),
		scene.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to build scene: %w", err)
	}
	defer sc.Release()

	// ── Engine ──────────────────────────────────────────────────────────
	opts := []engine.EngineBuilderOption{
		engine.WithLogger(logger),
		engine.WithProfiling(cfg.Log.Profile),
		engine.WithProfiler(profiler.NewProfiler(
			profiler.WithLogger(logger),
			profiler.WithInterval(cfg.ProfileInterval()),
		)),
	}
	if store != nil {
		opts = append(opts, engine.WithPrefs(store))
	}
	if cfg.Shaders.HotReload && cfg.Shaders.Dir != "" {
		watcher, err := shader.NewWatcher(scene.LightingShaderPaths(backend, cfg.Shaders.Dir), logger)
		if err != nil {
			logger.Warn("shader hot reload disabled", zap.Error(err))
		} else {
			dir := cfg.Shaders.Dir
			opts = append(opts, engine.WithShaderReload(watcher, func() (shader.Shader, shader.Shader, error) {
				return scene.LightingShaders(backend, dir)
			}))
		}
	}
	eng := engine.NewEngine(w, r, sc, opts...)

	// ── Control server ──────────────────────────────────────────────────
	if cfg.Control.Addr != "" {
		srv := control.NewServer(eng, control.WithLogger(logger))
		go func() {
			if err := srv.ListenAndServe(cfg.Control.Addr); err != nil {
				logger.Error("control server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("control server shutdown", zap.Error(err))
			}
		}()
	}

	logger.Info("framework running",
		zap.Stringer("backend", backend),
		zap.Int("mode", state.Mode),
		zap.String("model", scene.ModelName(state.CentralModel)),
	)
	eng.Run()
	return nil
}

// restorePrefs overlays saved selections onto state. Unreadable or invalid preferences are
// logged and ignored.
func restorePrefs(logger *zap.Logger, store *prefs.Store, state scene.State) scene.State {
	p, found, err := store.Load()
	if err != nil {
		logger.Warn("ignoring saved preferences", zap.Error(err))
		return state
	}
	if !found {
		return state
	}
	restored := p.Apply(state)
	if err := restored.Validate(); err != nil {
		logger.Warn("ignoring saved preferences", zap.Error(err))
		return state
	}
	logger.Info("preferences restored", zap.Int("mode", restored.Mode), zap.String("model", scene.ModelName(restored.CentralModel)))
	return restored
}
