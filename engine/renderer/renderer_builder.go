package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// settings collects the builder options. msaa and software are fixed once the device exists;
// presentMode and clearColor can change later through the Renderer.
type settings struct {
	presentMode PresentMode
	msaa        MSAASampleCount
	clearColor  wgpu.Color
	software    bool
}

var defaultSettings = settings{
	presentMode: PresentModeVSync,
	msaa:        MSAA4x,
	clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1},
}

// RendererBuilderOption is a functional option applied by NewRenderer before the device is created.
type RendererBuilderOption func(*renderer)

// WithPresentMode picks vsync or uncapped presentation.
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.settings.presentMode = mode
	}
}

// WithMSAA sets the sample count of the colour and depth targets. The default is MSAA4x.
//
// Parameters:
//   - count: MSAAOff or MSAA4x
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.settings.msaa = count
	}
}

// WithClearColor sets the linear RGBA colour each frame starts from.
func WithClearColor(color [4]float64) RendererBuilderOption {
	return func(r *renderer) {
		r.settings.clearColor = wgpu.Color{R: color[0], G: color[1], B: color[2], A: color[3]}
	}
}

// WithForceSoftwareRenderer requests the fallback adapter, which needs a software Vulkan
// driver such as lavapipe or SwiftShader.
//
// Parameters:
//   - force: true to skip hardware adapters
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.settings.software = force
	}
}
