package shader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// typeLayout is the host-shareable size and alignment of a WGSL type.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
type typeLayout struct {
	size  uint64
	align uint64
}

var (
	vectorRegex = regexp.MustCompile(`^vec([234])(?:<(\w+)>|([fiuh]))$`)
	matrixRegex = regexp.MustCompile(`^mat([234])x([234])(?:<(\w+)>|([fh]))$`)
	arrayRegex  = regexp.MustCompile(`^array<\s*(.+?)\s*(?:,\s*(\d+)\s*)?>$`)
)

// shorthand suffixes of vecNf, vecNi, vecNu, vecNh and matCxRf, matCxRh
var shorthandScalars = map[string]string{"f": "f32", "i": "i32", "u": "u32", "h": "f16"}

func alignUp(v, align uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) / align * align
}

func scalarLayout(name string) (typeLayout, bool) {
	switch name {
	case "f32", "i32", "u32", "bool":
		return typeLayout{4, 4}, true
	case "f16":
		return typeLayout{2, 2}, true
	}
	return typeLayout{}, false
}

// vectorLayout: vec2 aligns to twice its scalar, vec3 and vec4 to four times.
func vectorLayout(n int, scalar typeLayout) typeLayout {
	if n == 2 {
		return typeLayout{2 * scalar.size, 2 * scalar.size}
	}
	return typeLayout{uint64(n) * scalar.size, 4 * scalar.size}
}

// parseVector splits vecN<T> and its shorthand into N and the scalar name.
func parseVector(typ string) (int, string, bool) {
	m := vectorRegex.FindStringSubmatch(typ)
	if m == nil {
		return 0, "", false
	}
	n, _ := strconv.Atoi(m[1])
	if m[2] != "" {
		return n, m[2], true
	}
	return n, shorthandScalars[m[3]], true
}

// layoutOf resolves scalars, vectors, matrices, arrays and structs declared in the module.
// A runtime-sized array counts as one element, the smallest binding that can hold it.
func (m *wgslModule) layoutOf(typ string) (typeLayout, bool) {
	typ = strings.TrimSpace(typ)
	if l, ok := scalarLayout(typ); ok {
		return l, true
	}
	if n, scalar, ok := parseVector(typ); ok {
		sl, ok := scalarLayout(scalar)
		if !ok {
			return typeLayout{}, false
		}
		return vectorLayout(n, sl), true
	}
	if mm := matrixRegex.FindStringSubmatch(typ); mm != nil {
		cols, _ := strconv.Atoi(mm[1])
		rows, _ := strconv.Atoi(mm[2])
		scalar := mm[3]
		if scalar == "" {
			scalar = shorthandScalars[mm[4]]
		}
		sl, ok := scalarLayout(scalar)
		if !ok {
			return typeLayout{}, false
		}
		col := vectorLayout(rows, sl)
		return typeLayout{uint64(cols) * alignUp(col.size, col.align), col.align}, true
	}
	if am := arrayRegex.FindStringSubmatch(typ); am != nil {
		elem, ok := m.layoutOf(am[1])
		if !ok {
			return typeLayout{}, false
		}
		count := uint64(1)
		if am[2] != "" {
			count, _ = strconv.ParseUint(am[2], 10, 64)
		}
		return typeLayout{count * alignUp(elem.size, elem.align), elem.align}, true
	}
	return m.structLayout(typ)
}

// structLayout places each member at the next offset its alignment allows and rounds the total
// up to the largest member alignment. Results are memoised per module.
func (m *wgslModule) structLayout(name string) (typeLayout, bool) {
	if l, ok := m.layouts[name]; ok {
		return l, l.align != 0
	}
	st, ok := m.byName[name]
	if !ok {
		return typeLayout{}, false
	}
	// a zero entry marks the struct as in progress so recursive members fail instead of looping
	m.layouts[name] = typeLayout{}

	var offset uint64
	align := uint64(1)
	for _, mem := range st.members {
		if mem.builtin {
			continue
		}
		l, ok := m.layoutOf(mem.typ)
		if !ok {
			return typeLayout{}, false
		}
		offset = alignUp(offset, l.align) + l.size
		align = max(align, l.align)
	}
	l := typeLayout{alignUp(offset, align), align}
	m.layouts[name] = l
	return l, true
}

// vertexFormat maps a scalar or vector member type to its attribute format and packed size.
func vertexFormat(typ string) (wgpu.VertexFormat, uint64, bool) {
	n, scalar := 1, typ
	if vn, vs, ok := parseVector(typ); ok {
		n, scalar = vn, vs
	}
	sl, ok := scalarLayout(scalar)
	if !ok || scalar == "bool" {
		return 0, 0, false
	}
	formats, ok := vertexFormats[scalar]
	if !ok || formats[n] == 0 {
		return 0, 0, false
	}
	return formats[n], uint64(n) * sl.size, true
}

// vertexFormats is indexed by component count; zero marks combinations WebGPU has no format for.
var vertexFormats = map[string][5]wgpu.VertexFormat{
	"f32": {1: wgpu.VertexFormatFloat32, 2: wgpu.VertexFormatFloat32x2, 3: wgpu.VertexFormatFloat32x3, 4: wgpu.VertexFormatFloat32x4},
	"i32": {1: wgpu.VertexFormatSint32, 2: wgpu.VertexFormatSint32x2, 3: wgpu.VertexFormatSint32x3, 4: wgpu.VertexFormatSint32x4},
	"u32": {1: wgpu.VertexFormatUint32, 2: wgpu.VertexFormatUint32x2, 3: wgpu.VertexFormatUint32x3, 4: wgpu.VertexFormatUint32x4},
	"f16": {2: wgpu.VertexFormatFloat16x2, 4: wgpu.VertexFormatFloat16x4},
}

var textureDimensions = map[string]wgpu.TextureViewDimension{
	"1d":         wgpu.TextureViewDimension1D,
	"2d":         wgpu.TextureViewDimension2D,
	"2d_array":   wgpu.TextureViewDimension2DArray,
	"3d":         wgpu.TextureViewDimension3D,
	"cube":       wgpu.TextureViewDimensionCube,
	"cube_array": wgpu.TextureViewDimensionCubeArray,
}

// classifyBinding fills the buffer, sampler or texture half of a layout entry from the declared
// address space and type.
func classifyBinding(b wgslBinding, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    uint32(b.binding),
		Visibility: visibility,
	}

	switch {
	case b.space == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(b.space, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(b.space, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case b.typ == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case b.typ == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(b.typ, "texture_"):
		classifyTexture(b.typ, &entry)
	}
	return entry
}

// classifyTexture handles texture_<dim><T>, texture_multisampled_2d<T> and texture_depth_<dim>.
func classifyTexture(typ string, entry *wgpu.BindGroupLayoutEntry) {
	base, param, _ := strings.Cut(strings.TrimPrefix(typ, "texture_"), "<")
	param = strings.TrimSpace(strings.TrimSuffix(param, ">"))

	if rest, ok := strings.CutPrefix(base, "depth_"); ok {
		entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		base = rest
	} else {
		switch param {
		case "f32":
			entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
		case "i32":
			entry.Texture.SampleType = wgpu.TextureSampleTypeSint
		case "u32":
			entry.Texture.SampleType = wgpu.TextureSampleTypeUint
		}
	}
	if rest, ok := strings.CutPrefix(base, "multisampled_"); ok {
		entry.Texture.Multisampled = true
		base = rest
	}
	entry.Texture.ViewDimension = textureDimensions[base]
}
