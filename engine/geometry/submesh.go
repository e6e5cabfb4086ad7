package geometry

import "fmt"

// Submesh identifies one shape inside a concatenated MeshGeometry.
type Submesh int

const (
	SubmeshBox Submesh = iota
	SubmeshGrid
	SubmeshSphere
	SubmeshCylinder
	SubmeshCone
	submeshCount
)

var submeshNames = [submeshCount]string{
	SubmeshBox:      "box",
	SubmeshGrid:     "grid",
	SubmeshSphere:   "sphere",
	SubmeshCylinder: "cylinder",
	SubmeshCone:     "cone",
}

func (s Submesh) String() string {
	if s < 0 || s >= submeshCount {
		return fmt.Sprintf("Submesh(%d)", int(s))
	}
	return submeshNames[s]
}

// ParseSubmesh resolves a shape name ("box", "grid", "sphere", "cylinder", "cone") to its Submesh handle.
//
// Parameters:
//   - name: the shape name
//
// Returns:
//   - Submesh: the matching handle
//   - error: error if the name is unknown
func ParseSubmesh(name string) (Submesh, error) {
	for i, n := range submeshNames {
		if n == name {
			return Submesh(i), nil
		}
	}
	return 0, fmt.Errorf("unknown submesh %q", name)
}

// UnmarshalText lets Submesh values be decoded from TOML strings.
func (s *Submesh) UnmarshalText(text []byte) error {
	v, err := ParseSubmesh(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalText encodes a Submesh as its shape name.
func (s Submesh) MarshalText() ([]byte, error) {
	if s < 0 || s >= submeshCount {
		return nil, fmt.Errorf("invalid submesh %d", int(s))
	}
	return []byte(submeshNames[s]), nil
}

// SubmeshRange locates one shape in the shared vertex and index buffers.
type SubmeshRange struct {
	// StartIndex is the first index of the shape's triangles in the shared index buffer.
	StartIndex uint32
	// IndexCount is the number of triangle-list indices.
	IndexCount uint32
	// BaseVertex is added to every index to address the shared vertex buffer.
	BaseVertex int32
	// LineStartIndex is the first index of the shape's edges in the shared line-index buffer.
	LineStartIndex uint32
	// LineIndexCount is the number of line-list indices.
	LineIndexCount uint32
}
