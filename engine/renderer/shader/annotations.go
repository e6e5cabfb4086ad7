package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix marks a WGSL line comment as a pre-processor directive: //@oxy:<type> <args...>
const annotationPrefix = "@oxy:"

// AnnotationType is the directive named right after the prefix.
type AnnotationType string

const (
	// annotationTypeInclude pastes a registered struct definition in place of the line.
	//
	//	//@oxy:include <struct>
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup emits a @group/@binding variable of a registered struct type
	// (or array<struct>) and records the declaration.
	//
	//	//@oxy:group <group> <binding> <address_space> <var_name> <struct>
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider emits nothing. It records which scene resource feeds the
	// hand-written binding below it, with an optional role inside that resource.
	//
	//	//@oxy:provider <group> <binding> <provider> [role]
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation is one parsed directive.
type Annotation struct {
	Type AnnotationType

	// Args by type:
	//   - include:  struct
	//   - group:    address space, var name, struct
	//   - provider: provider, optional role
	Args []AnnotationArg

	// Line is 1-based.
	Line int

	// Group and Binding are nil for include directives.
	Group   *int
	Binding *int
}

// Resource reports the scene resource a declaration binds and its role. Group declarations
// are named by their struct, with any array<> wrapper removed. Include directives return "".
func (a Annotation) Resource() (kind, role AnnotationArg) {
	switch a.Type {
	case AnnotationTypeBindingGroup:
		return elementKey(a.Args[2]), ""
	case AnnotationTypeProvider:
		if len(a.Args) > 1 {
			return a.Args[0], a.Args[1]
		}
		return a.Args[0], ""
	}
	return "", ""
}

// AnnotationArg is a single directive argument from one of the vocabularies below.
type AnnotationArg string

// Struct keys. Each names a WGSL struct embedded from a .wgsl asset next to the Go type that
// mirrors it. pass, object and material also name the provider that feeds them.
const (
	AnnotationArgPass     AnnotationArg = "pass"
	AnnotationArgObject   AnnotationArg = "object"
	AnnotationArgMaterial AnnotationArg = "material"

	// AnnotationArgLight must be included before pass, which embeds an array of lights.
	AnnotationArgLight AnnotationArg = "light"

	annotationArgVertex         AnnotationArg = "vertex"
	annotationArgVertexPosition AnnotationArg = "vertex_position"
)

// Address spaces for group directives.
const (
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"

	// annotationArgStorageTypeUniformDynamic is a uniform whose layout entry takes a dynamic
	// offset, so one buffer serves every draw.
	annotationArgStorageTypeUniformDynamic AnnotationArg = "storage_uniform_dynamic"

	annotationArgStorageTypeRead      AnnotationArg = "storage_read"
	annotationArgStorageTypeReadWrite AnnotationArg = "storage_read_write"
)

// AnnotationArgTexture is the provider of the diffuse texture and its sampler.
const AnnotationArgTexture AnnotationArg = "texture"

// Roles inside the texture provider.
const (
	AnnotationArgDiffuseTexture AnnotationArg = "diffuse_texture"
	AnnotationArgDiffuseSampler AnnotationArg = "diffuse_sampler"
)

// addressSpaces maps each address space argument to the var<> it expands to.
var addressSpaces = map[AnnotationArg]string{
	annotationArgStorageTypeUniform:        "var<uniform>",
	annotationArgStorageTypeUniformDynamic: "var<uniform>",
	annotationArgStorageTypeRead:           "var<storage, read>",
	annotationArgStorageTypeReadWrite:      "var<storage, read_write>",
}

var providers = set(AnnotationArgPass, AnnotationArgObject, AnnotationArgMaterial, AnnotationArgTexture)

var roles = set(AnnotationArgDiffuseTexture, AnnotationArgDiffuseSampler)

func set(args ...AnnotationArg) map[AnnotationArg]bool {
	m := make(map[AnnotationArg]bool, len(args))
	for _, a := range args {
		m[a] = true
	}
	return m
}

// elementKey strips an array<> wrapper from a struct argument.
func elementKey(arg AnnotationArg) AnnotationArg {
	if inner, ok := strings.CutPrefix(string(arg), "array<"); ok {
		return AnnotationArg(strings.TrimSuffix(inner, ">"))
	}
	return arg
}

// parseAnnotation parses one source line. Lines without the prefix return nil, nil.
// Struct keys are checked against structs.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: 1-based line number used in errors
//   - structs: the registered struct keys
//
// Returns:
//   - *Annotation: the directive, or nil for ordinary lines
//   - error: a malformed directive or an unknown argument
func parseAnnotation(line string, lineNum int, structs map[AnnotationArg]registryEntry) (*Annotation, error) {
	_, directive, ok := strings.Cut(strings.TrimSpace(line), annotationPrefix)
	if !ok {
		return nil, nil
	}
	fail := func(format string, args ...any) (*Annotation, error) {
		return nil, fmt.Errorf("line %d: "+format, append([]any{lineNum}, args...)...)
	}

	fields := strings.Fields(directive)
	if len(fields) == 0 {
		return fail("empty @oxy annotation")
	}
	a := &Annotation{Type: AnnotationType(fields[0]), Line: lineNum}
	args := fields[1:]

	switch a.Type {
	case annotationTypeInclude:
		if len(args) != 1 {
			return fail("include takes one struct, got %d arguments", len(args))
		}
		if _, ok := structs[AnnotationArg(args[0])]; !ok {
			return fail("unknown struct %q", args[0])
		}
		a.Args = []AnnotationArg{AnnotationArg(args[0])}
		return a, nil

	case AnnotationTypeBindingGroup:
		if len(args) != 5 {
			return fail("group takes <group> <binding> <address_space> <var_name> <struct>, got %d arguments", len(args))
		}
		if err := a.parseSlot(args); err != nil {
			return fail("%v", err)
		}
		if _, ok := addressSpaces[AnnotationArg(args[2])]; !ok {
			return fail("unknown address space %q", args[2])
		}
		if _, ok := structs[elementKey(AnnotationArg(args[4]))]; !ok {
			return fail("unknown struct %q", args[4])
		}
		a.Args = []AnnotationArg{AnnotationArg(args[2]), AnnotationArg(args[3]), AnnotationArg(args[4])}
		return a, nil

	case AnnotationTypeProvider:
		if len(args) != 3 && len(args) != 4 {
			return fail("provider takes <group> <binding> <provider> [role], got %d arguments", len(args))
		}
		if err := a.parseSlot(args); err != nil {
			return fail("%v", err)
		}
		if !providers[AnnotationArg(args[2])] {
			return fail("unknown provider %q", args[2])
		}
		a.Args = []AnnotationArg{AnnotationArg(args[2])}
		if len(args) == 4 {
			if !roles[AnnotationArg(args[3])] {
				return fail("unknown binding role %q", args[3])
			}
			a.Args = append(a.Args, AnnotationArg(args[3]))
		}
		return a, nil
	}
	return fail("unknown @oxy annotation type %q", fields[0])
}

// parseSlot reads the group and binding numbers from the first two arguments.
func (a *Annotation) parseSlot(args []string) error {
	group, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid group number %q", args[0])
	}
	binding, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid binding number %q", args[1])
	}
	a.Group, a.Binding = &group, &binding
	return nil
}
