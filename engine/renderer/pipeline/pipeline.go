package pipeline

import (
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Well-known pipeline keys used by the castle scene.
const (
	// KeyOpaque is the filled, back-face culled pipeline.
	KeyOpaque = "opaque"

	// KeyOpaqueWireframe draws the derived edge-index buffer as a line list.
	KeyOpaqueWireframe = "opaque_wireframe"
)

// State is the fixed-function configuration a render pipeline is created with.
// Colour output is always opaque: every channel is written and nothing is blended.
type State struct {
	DepthTest  bool
	DepthWrite bool
	CullMode   wgpu.CullMode
	Topology   wgpu.PrimitiveTopology
	FrontFace  wgpu.FrontFace
}

// DefaultState matches the castle geometry: depth tested and written triangle lists with
// clockwise front faces and back faces culled.
var DefaultState = State{
	DepthTest:  true,
	DepthWrite: true,
	CullMode:   wgpu.CullModeBack,
	Topology:   wgpu.PrimitiveTopologyTriangleList,
	FrontFace:  wgpu.FrontFaceCW,
}

// DepthCompare returns the depth comparison implied by DepthTest.
func (s State) DepthCompare() wgpu.CompareFunction {
	if s.DepthTest {
		return wgpu.CompareFunctionLess
	}
	return wgpu.CompareFunctionAlways
}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	pipelineKey string

	// both shaders are required before the renderer can register the pipeline
	vertexShader, fragmentShader shader.Shader

	state State

	renderPipeline *wgpu.RenderPipeline
}

// Pipeline is a render pipeline built from a vertex and a fragment shader plus a fixed-function State.
// The renderer creates the GPU object when the pipeline is registered.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader associated with the specified type if it exists, nil otherwise.
	//
	// Parameters:
	//   - shaderType: the type of shader to retrieve (vertex or fragment)
	//
	// Returns:
	//   - shader.Shader: the shader associated with the specified type, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// State returns the fixed-function configuration.
	State() State

	// LineIndexed reports whether draws through this pipeline read the edge-index buffer
	// instead of the triangle index buffer. True for line list topologies.
	//
	// Returns:
	//   - bool: true for wireframe pipelines
	LineIndexed() bool

	// RenderPipeline returns the underlying GPU pipeline, nil until the renderer registers it.
	RenderPipeline() *wgpu.RenderPipeline

	// SetRenderPipeline stores the GPU pipeline created at registration.
	SetRenderPipeline(p *wgpu.RenderPipeline)
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description starting from DefaultState.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey: pipelineKey,
		state:       DefaultState,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewOpaquePipelines builds the filled pipeline and its wireframe twin from one shader pair.
//
// Parameters:
//   - vs: the vertex shader
//   - fs: the fragment shader
//
// Returns:
//   - []Pipeline: the opaque and opaque_wireframe pipelines, in that order
func NewOpaquePipelines(vs, fs shader.Shader) []Pipeline {
	return []Pipeline{
		NewPipeline(KeyOpaque, WithShaders(vs, fs)),
		NewPipeline(KeyOpaqueWireframe, WithShaders(vs, fs), WithWireframe()),
	}
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) State() State {
	return p.state
}

func (p *pipeline) LineIndexed() bool {
	return p.state.Topology == wgpu.PrimitiveTopologyLineList
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}
