package pipeline

import (
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithShaders sets the vertex and fragment stage.
//
// Parameters:
//   - vs: the vertex shader
//   - fs: the fragment shader
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithShaders(vs, fs shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = vs
		p.fragmentShader = fs
	}
}

// WithState replaces the whole fixed-function state.
func WithState(s State) PipelineBuilderOption {
	return func(p *pipeline) {
		p.state = s
	}
}

// WithDepth sets depth testing and depth writes.
//
// Parameters:
//   - test: compare against the depth buffer; when false every fragment passes
//   - write: store fragment depth
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithDepth(test, write bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.state.DepthTest = test
		p.state.DepthWrite = write
	}
}

// WithCullMode sets which faces are discarded.
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.state.CullMode = mode
	}
}

// WithFrontFace sets the winding order of front faces.
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.state.FrontFace = frontFace
	}
}

// WithWireframe draws line lists without culling. Draws through the pipeline read the mesh's
// edge-index buffer.
func WithWireframe() PipelineBuilderOption {
	return func(p *pipeline) {
		p.state.Topology = wgpu.PrimitiveTopologyLineList
		p.state.CullMode = wgpu.CullModeNone
	}
}
