package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `//@oxy:include light
//@oxy:include pass
//@oxy:include object
//@oxy:include vertex

//@oxy:group 0 0 storage_uniform pass_cb pass
//@oxy:group 1 0 storage_uniform_dynamic object_cb object

struct VertexOutput {
    @builtin(position) position_h: vec4<f32>,
    @location(0) normal_w: vec3<f32>,
};

@vertex
fn vs_main(vin: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    let pos_w = object_cb.world * vec4<f32>(vin.position, 1.0);
    out.position_h = pass_cb.view_proj * pos_w;
    out.normal_w = (object_cb.world * vec4<f32>(vin.normal, 0.0)).xyz;
    return out;
}
`

const testFragmentSource = `//@oxy:include light
//@oxy:include pass
//@oxy:include material

//@oxy:group 0 0 storage_uniform pass_cb pass
//@oxy:group 2 0 storage_uniform_dynamic material_cb material

//@oxy:provider 3 0 texture diffuse_texture
@group(3) @binding(0) var diffuse_map: texture_2d<f32>;
//@oxy:provider 3 1 texture diffuse_sampler
@group(3) @binding(1) var diffuse_sampler: sampler;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(diffuse_map, diffuse_sampler, uv) * material_cb.diffuse_albedo;
}
`

func TestPreProcessorExpandsAnnotations(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process(testVertexSource)
	require.NoError(t, err)

	assert.Contains(t, out, "struct PassConstants {")
	assert.Contains(t, out, "struct ObjectConstants {")
	assert.Contains(t, out, "struct VertexInput {")
	assert.Contains(t, out, "@group(0) @binding(0) var<uniform> pass_cb: PassConstants;")
	assert.Contains(t, out, "@group(1) @binding(0) var<uniform> object_cb: ObjectConstants;")
	assert.NotContains(t, out, "@oxy:")

	decls := pp.Declarations()
	require.Len(t, decls, 2)
	assert.False(t, IsDynamic(decls[0]))
	assert.True(t, IsDynamic(decls[1]))
	assert.Equal(t, 1, *decls[1].Group)
	assert.Equal(t, AnnotationArg("object_cb"), decls[1].Args[1])
}

func TestPreProcessorRejectsMalformedAnnotations(t *testing.T) {
	cases := map[string]string{
		"unknown include":       "//@oxy:include skeleton",
		"unknown address space": "//@oxy:group 0 0 storage_push pass_cb pass",
		"short group":           "//@oxy:group 0 0 storage_uniform pass_cb",
		"bad group number":      "//@oxy:group x 0 storage_uniform pass_cb pass",
		"unknown provider":      "//@oxy:provider 3 0 shadow_map",
		"unknown role":          "//@oxy:provider 3 0 texture normal_texture",
		"unknown annotation":    "//@oxy:instance 0",
		"empty":                 "//@oxy:",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewPreProcessor().Process("\n" + src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestPreProcessorKeepsPlainLines(t *testing.T) {
	src := "// plain comment\nfn helper() -> f32 { return 1.0; }"
	out, err := NewPreProcessor().Process(src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestProviderAnnotationCarriesRole(t *testing.T) {
	a, err := parseAnnotation("//@oxy:provider 3 1 texture diffuse_sampler", 7, NewPreProcessor().(*preProcessor).structs)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, AnnotationTypeProvider, a.Type)
	assert.Equal(t, []AnnotationArg{AnnotationArgTexture, AnnotationArgDiffuseSampler}, a.Args)
	assert.Equal(t, 3, *a.Group)
	assert.Equal(t, 1, *a.Binding)
	assert.Equal(t, 7, a.Line)

	kind, role := a.Resource()
	assert.Equal(t, AnnotationArgTexture, kind)
	assert.Equal(t, AnnotationArgDiffuseSampler, role)
}

func TestGroupAnnotationExpandsArrays(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:group 4 2 storage_read lights_sb array<light>")
	require.NoError(t, err)
	assert.Equal(t, "@group(4) @binding(2) var<storage, read> lights_sb: array<Light>;", out)

	decls := pp.Declarations()
	require.Len(t, decls, 1)
	assert.False(t, IsDynamic(decls[0]))
	kind, role := decls[0].Resource()
	assert.Equal(t, AnnotationArgLight, kind)
	assert.Empty(t, role)
}

func TestVertexShaderLayouts(t *testing.T) {
	s, err := NewShaderFromSource("lit_vs", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	require.NotNil(t, s.Module())
	assert.Equal(t, "lit_vs", s.Module().Label)

	vl := s.VertexBuffers()
	require.Len(t, vl, 1)
	assert.Equal(t, uint64(32), vl[0].ArrayStride)
	require.Len(t, vl[0].Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, vl[0].Attributes[1].Format)
	assert.Equal(t, uint64(12), vl[0].Attributes[1].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, vl[0].Attributes[2].Format)
	assert.Equal(t, uint32(2), vl[0].Attributes[2].ShaderLocation)

	passGroup := s.BindGroupLayoutDescriptor(0)
	require.Len(t, passGroup.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, passGroup.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(640), passGroup.Entries[0].Buffer.MinBindingSize)
	assert.False(t, passGroup.Entries[0].Buffer.HasDynamicOffset)
	assert.Equal(t, wgpu.ShaderStageVertex, passGroup.Entries[0].Visibility)

	objectGroup := s.BindGroupLayoutDescriptor(1)
	require.Len(t, objectGroup.Entries, 1)
	assert.Equal(t, uint64(128), objectGroup.Entries[0].Buffer.MinBindingSize)
	assert.True(t, objectGroup.Entries[0].Buffer.HasDynamicOffset)

	assert.Equal(t, "object_cb", s.BindingName(1, 0))
	assert.Equal(t, "pass_cb", s.BindingName(0, 0))
	assert.Empty(t, s.BindingName(5, 0))
	assert.Len(t, s.Declarations(), 2)
}

func TestFragmentShaderTextureBindings(t *testing.T) {
	s, err := NewShaderFromSource("lit_fs", ShaderTypeFragment, testFragmentSource)
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.VertexBuffers())
	assert.Equal(t, "diffuse_sampler", s.BindingName(3, 1))

	materialGroup := s.BindGroupLayoutDescriptor(2)
	require.Len(t, materialGroup.Entries, 1)
	assert.Equal(t, uint64(96), materialGroup.Entries[0].Buffer.MinBindingSize)
	assert.True(t, materialGroup.Entries[0].Buffer.HasDynamicOffset)

	textureGroup := s.BindGroupLayoutDescriptor(3)
	require.Len(t, textureGroup.Entries, 2)
	assert.Equal(t, wgpu.TextureViewDimension2D, textureGroup.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, textureGroup.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, textureGroup.Entries[1].Sampler.Type)
	assert.Equal(t, wgpu.ShaderStageFragment, textureGroup.Entries[1].Visibility)

	var providers int
	for _, d := range s.Declarations() {
		if d.Type == AnnotationTypeProvider {
			providers++
		}
	}
	assert.Equal(t, 2, providers)
}

func TestNewShaderFromSourceErrors(t *testing.T) {
	_, err := NewShaderFromSource("bad", ShaderTypeVertex, "//@oxy:include nothing")
	assert.Error(t, err)

	_, err = NewShaderFromSource("no_entry", ShaderTypeFragment, testVertexSource)
	assert.Error(t, err)
}

func TestNewShaderFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lit_vs.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(testVertexSource), 0o644))

	s := NewShader("lit_vs", ShaderTypeVertex, path)
	assert.Equal(t, "vs_main", s.EntryPoint())

	assert.Panics(t, func() { NewShader("missing", ShaderTypeVertex, filepath.Join(t.TempDir(), "nope.wgsl")) })
	assert.Panics(t, func() { NewShader("empty", ShaderTypeVertex, "") })
}

func TestStructLayoutRules(t *testing.T) {
	m := scanModule(`
struct Light {
    strength: vec3<f32>,
    falloff_start: f32,
    direction: vec3<f32>,
    falloff_end: f32,
    position: vec3<f32>,
    spot_power: f32,
};
struct Holder {
    a: f32,
    lights: array<Light, 2>,
    tail: vec2f,
};`)
	l, ok := m.layoutOf("Light")
	require.True(t, ok)
	assert.Equal(t, typeLayout{48, 16}, l)
	// a at 0, lights at 16..112, tail at 112..120, rounded to 128
	l, ok = m.layoutOf("Holder")
	require.True(t, ok)
	assert.Equal(t, typeLayout{128, 16}, l)

	_, ok = m.layoutOf("Missing")
	assert.False(t, ok)
}

func TestBuiltinTypeLayouts(t *testing.T) {
	m := scanModule("")
	cases := map[string]typeLayout{
		"f16":              {2, 2},
		"vec3<f32>":        {12, 16},
		"vec2h":            {4, 4},
		"mat4x4<f32>":      {64, 16},
		"mat3x2f":          {24, 8},
		"mat2x3<f32>":      {32, 16},
		"array<vec3f, 3>":  {48, 16},
		"array<vec2<f32>>": {8, 8},
	}
	for typ, want := range cases {
		got, ok := m.layoutOf(typ)
		require.True(t, ok, typ)
		assert.Equal(t, want, got, typ)
	}
}

func TestRecursiveStructDoesNotResolve(t *testing.T) {
	m := scanModule("struct Node { value: f32, next: array<Node, 2>, };")
	_, ok := m.layoutOf("Node")
	assert.False(t, ok)
}

func TestStripComments(t *testing.T) {
	src := "a // line\nb /* outer /* inner */ still */ c"
	assert.Equal(t, "a \nb  c", stripComments(src))
}

func TestScanModuleEntryPointsAndMembers(t *testing.T) {
	m := scanModule(`
// @vertex fn commented_out() {}
struct VertexOutput {
    @builtin(position) pos: vec4<f32>,
    @location(0) @interpolate(flat) id: u32,
};
@vertex fn vs_main() -> VertexOutput { var out: VertexOutput; return out; }
@fragment
fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }
`)
	assert.Equal(t, "vs_main", m.entries[ShaderTypeVertex])
	assert.Equal(t, "fs_main", m.entries[ShaderTypeFragment])

	require.Len(t, m.structs, 1)
	members := m.structs[0].members
	require.Len(t, members, 2)
	assert.True(t, members[0].builtin)
	assert.Equal(t, -1, members[0].location)
	assert.Equal(t, 0, members[1].location)
	assert.Equal(t, "u32", members[1].typ)
	assert.False(t, m.structs[0].isVertexInput())
	assert.Empty(t, m.vertexLayouts())
}

func TestVertexFormats(t *testing.T) {
	f, size, ok := vertexFormat("vec4<u32>")
	require.True(t, ok)
	assert.Equal(t, wgpu.VertexFormatUint32x4, f)
	assert.Equal(t, uint64(16), size)

	f, size, ok = vertexFormat("vec2h")
	require.True(t, ok)
	assert.Equal(t, wgpu.VertexFormatFloat16x2, f)
	assert.Equal(t, uint64(4), size)

	for _, typ := range []string{"vec3h", "bool", "mat4x4<f32>", "Light"} {
		_, _, ok = vertexFormat(typ)
		assert.False(t, ok, typ)
	}
}

func TestClassifyTextureBindings(t *testing.T) {
	depth := classifyBinding(wgslBinding{binding: 4, typ: "texture_depth_2d_array"}, wgpu.ShaderStageFragment)
	assert.Equal(t, wgpu.TextureSampleTypeDepth, depth.Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2DArray, depth.Texture.ViewDimension)
	assert.Equal(t, uint32(4), depth.Binding)

	ms := classifyBinding(wgslBinding{typ: "texture_multisampled_2d<u32>"}, wgpu.ShaderStageFragment)
	assert.True(t, ms.Texture.Multisampled)
	assert.Equal(t, wgpu.TextureSampleTypeUint, ms.Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, ms.Texture.ViewDimension)

	storage := classifyBinding(wgslBinding{space: "storage, read_write", typ: "array<f32>"}, wgpu.ShaderStageVertex)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, storage.Buffer.Type)

	cmp := classifyBinding(wgslBinding{typ: "sampler_comparison"}, wgpu.ShaderStageFragment)
	assert.Equal(t, wgpu.SamplerBindingTypeComparison, cmp.Sampler.Type)
}
