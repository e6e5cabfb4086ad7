// Package config loads the application settings from a TOML file layered over built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is wrapped by every validation failure returned from Validate and Load.
var ErrInvalidConfig = errors.New("invalid config")

// Scene variants understood by the scene builder.
const (
	VariantColumns = "columns"
	VariantShapes  = "shapes"
)

// Config is the root of the TOML document.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Frame    FrameConfig    `toml:"frame"`
	Camera   CameraConfig   `toml:"camera"`
	Scene    SceneConfig    `toml:"scene"`
	Engine   EngineConfig   `toml:"engine"`
	Log      LogConfig      `toml:"log"`
}

// WindowConfig controls the platform window.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// RendererConfig controls surface presentation and the render pass clear colour.
type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode string `toml:"present_mode"`
	// MSAA is the sample count, 1 or 4.
	MSAA          int        `toml:"msaa"`
	ForceSoftware bool       `toml:"force_software"`
	ClearColor    [4]float64 `toml:"clear_color"`
}

// FrameConfig controls the frame resource ring.
type FrameConfig struct {
	RingSize int `toml:"ring_size"`
}

// CameraConfig holds the orbit camera start state, limits and input sensitivity.
type CameraConfig struct {
	ThetaDegrees          float32 `toml:"theta_degrees"`
	PhiDegrees            float32 `toml:"phi_degrees"`
	Radius                float32 `toml:"radius"`
	MinRadius             float32 `toml:"min_radius"`
	MaxRadius             float32 `toml:"max_radius"`
	PhiMargin             float32 `toml:"phi_margin"`
	RotateDegreesPerPixel float32 `toml:"rotate_degrees_per_pixel"`
	ZoomUnitsPerPixel     float32 `toml:"zoom_units_per_pixel"`
	FovYDegrees           float32 `toml:"fov_y_degrees"`
	Near                  float32 `toml:"near"`
	Far                   float32 `toml:"far"`
}

// SceneConfig selects the scene variant and where its assets come from.
type SceneConfig struct {
	// Variant is "columns" (textured, lit) or "shapes" (flat, wireframe toggle).
	Variant string `toml:"variant"`
	// File optionally points at a TOML placement table replacing the built-in castle.
	File string `toml:"file"`
	// TextureDir is searched for brick, marble and tile images before falling back to generated ones.
	TextureDir string `toml:"texture_dir"`
	// WireframeKey names the key held to draw the shapes variant in wireframe.
	WireframeKey string `toml:"wireframe_key"`
}

// EngineConfig controls the engine loops.
type EngineConfig struct {
	TickRate   float64 `toml:"tick_rate"`
	FrameLimit float64 `toml:"frame_limit"`
	Profiling  bool    `toml:"profiling"`
}

// LogConfig controls the shared logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration matching the stock castle demo.
//
// Returns:
//   - Config: a fully populated default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Castle",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			PresentMode: "vsync",
			MSAA:        4,
			ClearColor:  [4]float64{0.690196, 0.768627, 0.870588, 1},
		},
		Frame: FrameConfig{
			RingSize: 3,
		},
		Camera: CameraConfig{
			ThetaDegrees:          270,
			PhiDegrees:            36,
			Radius:                100,
			MinRadius:             5,
			MaxRadius:             150,
			PhiMargin:             0.1,
			RotateDegreesPerPixel: 0.25,
			ZoomUnitsPerPixel:     0.05,
			FovYDegrees:           45,
			Near:                  1,
			Far:                   1000,
		},
		Scene: SceneConfig{
			Variant:      VariantColumns,
			TextureDir:   "textures",
			WireframeKey: "1",
		},
		Engine: EngineConfig{
			TickRate: 60,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a TOML file and decodes it over Default. Keys absent from the file keep their default values;
// unknown keys are rejected.
//
// Parameters:
//   - path: the TOML file to read
//
// Returns:
//   - Config: the merged and validated configuration
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML bytes over Default and validates the result.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Config: the merged and validated configuration
//   - error: error if the document cannot be decoded or validated
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
//
// Returns:
//   - error: an error wrapping ErrInvalidConfig, or nil
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Renderer.PresentMode != "vsync" && c.Renderer.PresentMode != "uncapped":
		return fmt.Errorf("%w: present_mode %q", ErrInvalidConfig, c.Renderer.PresentMode)
	case c.Renderer.MSAA != 1 && c.Renderer.MSAA != 4:
		return fmt.Errorf("%w: msaa %d", ErrInvalidConfig, c.Renderer.MSAA)
	case c.Frame.RingSize < 1:
		return fmt.Errorf("%w: ring_size %d", ErrInvalidConfig, c.Frame.RingSize)
	case c.Camera.MinRadius <= 0 || c.Camera.MaxRadius < c.Camera.MinRadius:
		return fmt.Errorf("%w: radius bounds [%g, %g]", ErrInvalidConfig, c.Camera.MinRadius, c.Camera.MaxRadius)
	case c.Camera.PhiMargin <= 0 || c.Camera.PhiMargin >= 1.5:
		return fmt.Errorf("%w: phi_margin %g", ErrInvalidConfig, c.Camera.PhiMargin)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: clip planes near=%g far=%g", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	case c.Camera.FovYDegrees <= 0 || c.Camera.FovYDegrees >= 180:
		return fmt.Errorf("%w: fov_y_degrees %g", ErrInvalidConfig, c.Camera.FovYDegrees)
	case c.Scene.Variant != VariantColumns && c.Scene.Variant != VariantShapes:
		return fmt.Errorf("%w: scene variant %q", ErrInvalidConfig, c.Scene.Variant)
	}
	if _, ok := common.KeyCodeFromName(c.Scene.WireframeKey); !ok {
		return fmt.Errorf("%w: wireframe_key %q", ErrInvalidConfig, c.Scene.WireframeKey)
	}
	return nil
}
