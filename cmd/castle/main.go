// Command castle renders the castle scene with an orbit camera.
//
// Left drag orbits, right drag zooms. In the shapes variant, holding the wireframe key (default "1")
// draws the scene as lines. Edits to the config file apply while running where possible.
package main

import (
	"errors"
	"flag"
	"io/fs"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/config"
	"github.com/Carmen-Shannon/oxy-castle/engine"
	"github.com/Carmen-Shannon/oxy-castle/engine/camera"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer"
	"github.com/Carmen-Shannon/oxy-castle/engine/scene"
	"github.com/Carmen-Shannon/oxy-castle/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// The smallest window the castle is still legible in.
const (
	minWindowWidth  = 320
	minWindowHeight = 240
)

func main() {
	configPath := flag.String("config", "castle.toml", "path to the TOML config file")
	variant := flag.String("variant", "", "scene variant override: columns or shapes")
	flag.Parse()

	cfg, watch := loadConfig(*configPath)
	if *variant != "" {
		cfg.Scene.Variant = *variant
		if err := cfg.Validate(); err != nil {
			common.LogFatal("%v", err)
		}
	}
	if err := common.SetLogLevel(cfg.Log.Level); err != nil {
		common.LogWarn("unknown log level %q: %v", cfg.Log.Level, err)
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	w := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithSizeLimits(minWindowWidth, minWindowHeight, 0, 0),
	)

	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		w,
		renderer.WithPresentMode(renderer.ParsePresentMode(cfg.Renderer.PresentMode)),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Renderer.MSAA)),
		renderer.WithClearColor(cfg.Renderer.ClearColor),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
	)

	// ── Scene ───────────────────────────────────────────────────────────
	wireframeKey, _ := common.KeyCodeFromName(cfg.Scene.WireframeKey)
	options := []scene.SceneBuilderOption{
		scene.WithVariant(cfg.Scene.Variant),
		scene.WithRingSize(cfg.Frame.RingSize),
		scene.WithTextureDir(cfg.Scene.TextureDir),
		scene.WithInput(w.Input()),
		scene.WithCamera(newCamera(cfg.Camera, w.Width(), w.Height())),
		scene.WithWireframeKey(wireframeKey),
	}
	if cfg.Scene.File != "" {
		placements, err := scene.LoadPlacements(cfg.Scene.File, scene.MaterialNames())
		if err != nil {
			common.LogFatal("%v", err)
		}
		options = append(options, scene.WithPlacements(placements))
	}

	sc, err := scene.NewScene(r, options...)
	if err != nil {
		r.Release()
		common.LogFatal("%v", err)
	}

	// ── Engine ──────────────────────────────────────────────────────────
	engineOptions := []engine.EngineBuilderOption{
		engine.WithWindow(w),
		engine.WithRenderer(r),
		engine.WithScene(sc),
		engine.WithTickRate(cfg.Engine.TickRate),
		engine.WithRenderFrameLimit(cfg.Engine.FrameLimit),
		engine.WithProfiling(cfg.Engine.Profiling),
	}
	if watch {
		engineOptions = append(engineOptions, engine.WithConfigWatch(*configPath))
	}
	eng := engine.NewEngine(engineOptions...)

	common.LogInfo("starting castle: variant=%s ring=%d %dx%d", cfg.Scene.Variant, cfg.Frame.RingSize, cfg.Window.Width, cfg.Window.Height)
	eng.Run()
}

// loadConfig reads the config file, or falls back to the defaults when it does not exist.
// The returned flag reports whether the file exists and can be watched.
func loadConfig(path string) (config.Config, bool) {
	cfg, err := config.Load(path)
	switch {
	case err == nil:
		return cfg, true
	case errors.Is(err, fs.ErrNotExist):
		common.LogInfo("no config at %s, using defaults", path)
		return config.Default(), false
	default:
		common.LogFatal("%v", err)
	}
	return config.Config{}, false
}

// newCamera builds the orbit camera from its configured start state, limits and sensitivity.
//
// Parameters:
//   - c: the camera section of the config
//   - width, height: the initial surface size
//
// Returns:
//   - camera.Camera: the camera with an orbit controller around the origin
func newCamera(c config.CameraConfig, width, height int) camera.Camera {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return camera.NewCamera(
		camera.WithLens(mgl32.DegToRad(c.FovYDegrees), aspect, c.Near, c.Far),
		camera.WithController(camera.NewCameraController(
			camera.WithTheta(mgl32.DegToRad(c.ThetaDegrees)),
			camera.WithPhi(mgl32.DegToRad(c.PhiDegrees)),
			camera.WithRadius(c.Radius),
			camera.WithTarget(0, 0, 0),
			camera.WithRadiusBounds(c.MinRadius, c.MaxRadius),
			camera.WithPhiMargin(c.PhiMargin),
			camera.WithRotateSpeed(c.RotateDegreesPerPixel),
			camera.WithZoomSpeed(c.ZoomUnitsPerPixel),
		)),
	)
}
