package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	structRegex  = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	bindingRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
	entryRegex   = regexp.MustCompile(`(?s)@(vertex|fragment)\b[^{]*?\bfn\s+(\w+)`)
	attrRegex    = regexp.MustCompile(`^@(\w+)(?:\(([^)]*)\))?\s*`)
)

// wgslMember is one struct member with the attributes the reflection cares about.
// location is -1 when the member has no @location.
type wgslMember struct {
	name     string
	typ      string
	location int
	builtin  bool
}

type wgslStruct struct {
	name    string
	members []wgslMember
}

// wgslBinding is a module-scope resource declared with @group and @binding.
type wgslBinding struct {
	group, binding int
	space          string
	name           string
	typ            string
}

// wgslModule holds the declarations of one WGSL source: structs in declaration order, resource
// bindings and the first entry point of each stage.
type wgslModule struct {
	structs  []wgslStruct
	bindings []wgslBinding
	entries  map[ShaderType]string

	byName  map[string]*wgslStruct
	layouts map[string]typeLayout
}

// scanModule strips comments once and collects every declaration the renderer reflects on.
//
// Parameters:
//   - source: WGSL source after pre-processing
//
// Returns:
//   - *wgslModule: the scanned declarations
func scanModule(source string) *wgslModule {
	clean := stripComments(source)
	m := &wgslModule{
		entries: make(map[ShaderType]string),
		byName:  make(map[string]*wgslStruct),
		layouts: make(map[string]typeLayout),
	}

	for _, match := range structRegex.FindAllStringSubmatch(clean, -1) {
		m.structs = append(m.structs, wgslStruct{name: match[1], members: parseMembers(match[2])})
	}
	for i := range m.structs {
		m.byName[m.structs[i].name] = &m.structs[i]
	}

	for _, match := range bindingRegex.FindAllStringSubmatch(clean, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		m.bindings = append(m.bindings, wgslBinding{
			group:   group,
			binding: binding,
			space:   strings.TrimSpace(match[3]),
			name:    match[4],
			typ:     strings.TrimSpace(match[5]),
		})
	}

	for _, match := range entryRegex.FindAllStringSubmatch(clean, -1) {
		stage := ShaderTypeVertex
		if match[1] == "fragment" {
			stage = ShaderTypeFragment
		}
		if _, seen := m.entries[stage]; !seen {
			m.entries[stage] = match[2]
		}
	}
	return m
}

// parseMembers splits a struct body into members. Commas inside angle brackets belong to the type.
func parseMembers(body string) []wgslMember {
	var members []wgslMember
	for _, part := range splitTopLevel(body) {
		s := strings.TrimSpace(part)
		if s == "" {
			continue
		}
		mem := wgslMember{location: -1}
		for {
			attr := attrRegex.FindStringSubmatch(s)
			if attr == nil {
				break
			}
			switch attr[1] {
			case "builtin":
				mem.builtin = true
			case "location":
				if loc, err := strconv.Atoi(strings.TrimSpace(attr[2])); err == nil {
					mem.location = loc
				}
			}
			s = s[len(attr[0]):]
		}
		name, typ, ok := strings.Cut(s, ":")
		if !ok {
			continue
		}
		mem.name = strings.TrimSpace(name)
		mem.typ = strings.TrimSpace(typ)
		members = append(members, mem)
	}
	return members
}

func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// stripComments removes line comments and block comments. Block comments nest.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch source[i : i+2] {
			case "/*":
				depth++
				i++
				continue
			case "*/":
				if depth > 0 {
					depth--
					i++
					continue
				}
			case "//":
				if depth == 0 {
					for i < len(source) && source[i] != '\n' {
						i++
					}
					if i < len(source) {
						sb.WriteByte('\n')
					}
					continue
				}
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

// vertexLayouts turns every pure vertex input struct (at least one @location and no @builtin)
// into a tightly packed buffer layout, one buffer slot each in declaration order. Structs with a
// member that has no vertex format are skipped.
func (m *wgslModule) vertexLayouts() []wgpu.VertexBufferLayout {
	var result []wgpu.VertexBufferLayout
	for _, st := range m.structs {
		if !st.isVertexInput() {
			continue
		}
		layout, ok := st.vertexBufferLayout()
		if !ok {
			continue
		}
		result = append(result, layout)
	}
	return result
}

func (st wgslStruct) isVertexInput() bool {
	located := false
	for _, mem := range st.members {
		if mem.builtin {
			return false
		}
		located = located || mem.location >= 0
	}
	return located
}

func (st wgslStruct) vertexBufferLayout() (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(st.members))
	var offset uint64
	for _, mem := range st.members {
		format, size, ok := vertexFormat(mem.typ)
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         format,
			Offset:         offset,
			ShaderLocation: uint32(mem.location),
		})
		offset += size
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, true
}

// bindGroupLayouts builds one layout descriptor per group, entries sorted by binding.
// Buffer bindings get MinBindingSize from the bound type. Uniform bindings listed in dynamic
// take a dynamic offset.
func (m *wgslModule) bindGroupLayouts(visibility wgpu.ShaderStage, dynamic map[[2]int]bool) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	names := make(map[int]map[int]string)

	for _, b := range m.bindings {
		entry := classifyBinding(b, visibility)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := m.layoutOf(b.typ); ok {
				entry.Buffer.MinBindingSize = l.size
			}
			entry.Buffer.HasDynamicOffset = entry.Buffer.Type == wgpu.BufferBindingTypeUniform && dynamic[[2]int{b.group, b.binding}]
		}
		groups[b.group] = append(groups[b.group], entry)

		if names[b.group] == nil {
			names[b.group] = make(map[int]string)
		}
		names[b.group][b.binding] = b.name
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result, names
}
