package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-castle/engine/camera"
	"github.com/Carmen-Shannon/oxy-castle/engine/frame"
	"github.com/Carmen-Shannon/oxy-castle/engine/geometry"
	"github.com/Carmen-Shannon/oxy-castle/engine/light"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/material"
)

// registryEntry is an embedded struct definition and the WGSL name it declares.
type registryEntry struct {
	Source string
	Type   string
}

// PreProcessor expands //@oxy: directives in WGSL source and records the binding declarations
// so the scene can match bind groups to its resources without looking at variable names.
type PreProcessor interface {
	// Process expands every directive in source. Include lines become the struct source, group
	// lines become @group/@binding declarations and provider lines are dropped. Declarations
	// are reset first.
	//
	// Parameters:
	//   - source: WGSL source with directives
	//
	// Returns:
	//   - string: plain WGSL
	//   - error: the first malformed directive, with its line number
	Process(source string) (string, error)

	// Declarations returns the group and provider directives of the last Process call in
	// source order.
	Declarations() []Annotation
}

type preProcessor struct {
	structs      map[AnnotationArg]registryEntry
	declarations []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor registers the GPU constant structs of the camera, frame, material, light
// and geometry packages.
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structs: map[AnnotationArg]registryEntry{
			AnnotationArgPass:           {camera.GPUPassConstantsSource, "PassConstants"},
			AnnotationArgObject:         {frame.GPUObjectConstantsSource, "ObjectConstants"},
			AnnotationArgMaterial:       {material.GPUMaterialConstantsSource, "MaterialConstants"},
			AnnotationArgLight:          {light.GPULightSource, "Light"},
			annotationArgVertex:         {geometry.GPUVertexSource, "VertexInput"},
			annotationArgVertexPosition: {geometry.GPUVertexPositionSource, "VertexInput"},
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil

	lines := strings.Split(source, "\n")
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1, p.structs)
		if err != nil {
			return "", err
		}
		if a == nil {
			continue
		}
		switch a.Type {
		case annotationTypeInclude:
			lines[i] = p.structs[a.Args[0]].Source
		case AnnotationTypeBindingGroup:
			lines[i] = p.bindingDecl(a)
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			lines[i] = ""
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// bindingDecl renders a group directive, e.g. "@group(1) @binding(0) var<uniform> object_cb: ObjectConstants;".
func (p *preProcessor) bindingDecl(a *Annotation) string {
	typ := p.structs[elementKey(a.Args[2])].Type
	if elementKey(a.Args[2]) != a.Args[2] {
		typ = "array<" + typ + ">"
	}
	return fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addressSpaces[a.Args[0]], a.Args[1], typ)
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

// IsDynamic reports whether a group declaration takes a dynamic offset.
func IsDynamic(a Annotation) bool {
	return a.Type == AnnotationTypeBindingGroup && a.Args[0] == annotationArgStorageTypeUniformDynamic
}
