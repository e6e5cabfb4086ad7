package shader

import (
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType is the pipeline stage a shader feeds.
type ShaderType int

const (
	ShaderTypeVertex ShaderType = iota
	ShaderTypeFragment
)

// stageVisibility is the layout entry visibility for bindings a stage declares.
var stageVisibility = map[ShaderType]wgpu.ShaderStage{
	ShaderTypeVertex:   wgpu.ShaderStageVertex,
	ShaderTypeFragment: wgpu.ShaderStageFragment,
}

// Shader is a pre-processed WGSL stage together with what the renderer reflects from it:
// the entry point, vertex buffer layouts and bind group layouts.
type Shader interface {
	// Key returns the unique name of the shader, also used as the module label.
	Key() string

	// ShaderType returns the stage.
	ShaderType() ShaderType

	// Source returns the WGSL after directive expansion.
	Source() string

	// EntryPoint returns the first entry point declared for the stage.
	EntryPoint() string

	// Module returns the descriptor the renderer creates the GPU module from.
	Module() *wgpu.ShaderModuleDescriptor

	// VertexBuffers returns one layout per vertex input struct, in buffer slot order.
	// Fragment shaders return nil.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: layouts indexed by vertex buffer slot
	VertexBuffers() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor returns the layout of one group, empty when the stage binds
	// nothing there.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the entries this stage declares in group
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every group layout keyed by group index.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindingName returns the WGSL variable bound at group and binding, or "".
	BindingName(group, binding int) string

	// Declarations returns the group and provider directives found while pre-processing.
	// The scene uses them to find which group carries pass, object, material and texture data.
	Declarations() []Annotation
}

type shader struct {
	key        string
	shaderType ShaderType
	source     string
	entryPoint string
	module     *wgpu.ShaderModuleDescriptor

	vertexBuffers []wgpu.VertexBufferLayout
	groups        map[int]wgpu.BindGroupLayoutDescriptor
	names         map[int]map[int]string
	declarations  []Annotation
}

var _ Shader = &shader{}

// NewShader reads and parses the WGSL file at sourcePath. Unusable input panics, the same way
// the renderer treats a pipeline it cannot build.
//
// Parameters:
//   - key: unique shader name
//   - shaderType: the stage
//   - sourcePath: path of the annotated WGSL file
//
// Returns:
//   - Shader: the parsed shader
func NewShader(key string, shaderType ShaderType, sourcePath string) Shader {
	if sourcePath == "" {
		panic(fmt.Sprintf("shader: %s has no source path", key))
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		panic(fmt.Sprintf("shader: read %q: %v", sourcePath, err))
	}
	s, err := NewShaderFromSource(key, shaderType, string(data))
	if err != nil {
		panic(fmt.Sprintf("shader: %q: %v", sourcePath, err))
	}
	return s
}

// NewShaderFromSource expands directives in source and reflects the result.
//
// Parameters:
//   - key: unique shader name
//   - shaderType: the stage
//   - source: annotated WGSL, typically an embedded asset
//
// Returns:
//   - Shader: the parsed shader
//   - error: a malformed directive, or no entry point for the stage
func NewShaderFromSource(key string, shaderType ShaderType, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader: pre-process %s: %w", key, err)
	}

	mod := scanModule(processed)
	s := &shader{
		key:          key,
		shaderType:   shaderType,
		source:       processed,
		entryPoint:   mod.entries[shaderType],
		declarations: pp.Declarations(),
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: processed},
		},
	}
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader: %s has no entry point for its stage", key)
	}
	if shaderType == ShaderTypeVertex {
		s.vertexBuffers = mod.vertexLayouts()
	}

	dynamic := make(map[[2]int]bool)
	for _, d := range s.declarations {
		if IsDynamic(d) {
			dynamic[[2]int{*d.Group, *d.Binding}] = true
		}
	}
	s.groups, s.names = mod.bindGroupLayouts(stageVisibility[shaderType], dynamic)
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) VertexBuffers() []wgpu.VertexBufferLayout {
	return s.vertexBuffers
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.groups[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.groups
}

func (s *shader) BindingName(group, binding int) string {
	return s.names[group][binding]
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}
