package scene

import (
	"github.com/Carmen-Shannon/oxy-castle/engine/camera"
	"github.com/Carmen-Shannon/oxy-castle/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the label used for logs and GPU resource labels.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithVariant selects config.VariantColumns or config.VariantShapes. Defaults to columns.
//
// Parameters:
//   - variant: the variant name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithVariant(variant string) SceneBuilderOption {
	return func(s *scene) {
		s.variant = variant
	}
}

// WithRingSize sets the number of frame slots. Every dirty counter is reset to this value.
//
// Parameters:
//   - n: the slot count, at least 1
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRingSize(n int) SceneBuilderOption {
	return func(s *scene) {
		s.ringSize = n
	}
}

// WithWorkers sets the worker pool size used to generate meshes and load textures.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.workers = max(n, 1)
	}
}

// WithPlacements replaces the built-in placement table of the variant, e.g. with one read by LoadPlacements.
//
// Parameters:
//   - placements: the instances to build, in object index order
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPlacements(placements []Placement) SceneBuilderOption {
	return func(s *scene) {
		s.placements = placements
	}
}

// WithTextureDir sets the directory searched for texture images. Missing images are generated.
func WithTextureDir(dir string) SceneBuilderOption {
	return func(s *scene) {
		s.textureDir = dir
	}
}

// WithAmbientLight overrides DefaultAmbientLight.
func WithAmbientLight(ambient mgl32.Vec4) SceneBuilderOption {
	return func(s *scene) {
		s.ambient = ambient
	}
}

// WithLights replaces the castle lights. At most light.MaxLights may be enabled.
//
// Parameters:
//   - lights: the lights packed into the pass constants
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lights = lights
	}
}

// WithInput sets the source polled for camera drags and held keys each frame.
// A scene without input never moves its camera.
func WithInput(in InputSource) SceneBuilderOption {
	return func(s *scene) {
		s.in = in
	}
}

// WithCamera replaces the default orbit camera.
//
// Parameters:
//   - cam: the camera, normally with an orbit controller
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithWireframeKey sets the key that selects the wireframe pipeline in the shapes variant.
// Defaults to common.Key1.
func WithWireframeKey(key uint32) SceneBuilderOption {
	return func(s *scene) {
		s.wireframeKey = key
	}
}
