package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is a generated mesh vertex with a full tangent frame and texture coordinates.
// Only the attributes selected by the geometry's VertexFormat reach the GPU.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TangentU mgl32.Vec3
	TexC     mgl32.Vec2
}

// NewVertex builds a Vertex from flat component values.
func NewVertex(px, py, pz, nx, ny, nz, tx, ty, tz, u, v float32) Vertex {
	return Vertex{
		Position: mgl32.Vec3{px, py, pz},
		Normal:   mgl32.Vec3{nx, ny, nz},
		TangentU: mgl32.Vec3{tx, ty, tz},
		TexC:     mgl32.Vec2{u, v},
	}
}

// MeshData holds the vertices and 32-bit triangle-list indices of a single generated shape.
// Triangles are wound clockwise when viewed from the front.
type MeshData struct {
	Vertices []Vertex
	Indices  []uint32
}

// midpoint returns the vertex halfway between v0 and v1, re-normalizing the direction vectors.
func midpoint(v0, v1 Vertex) Vertex {
	return Vertex{
		Position: v0.Position.Add(v1.Position).Mul(0.5),
		Normal:   v0.Normal.Add(v1.Normal).Mul(0.5).Normalize(),
		TangentU: v0.TangentU.Add(v1.TangentU).Mul(0.5).Normalize(),
		TexC:     v0.TexC.Add(v1.TexC).Mul(0.5),
	}
}

// subdivide splits every triangle into four by inserting edge midpoints.
// Each input triangle contributes six unshared vertices:
//
//	     v1
//	     *
//	    / \
//	m0 *---* m1
//	  / \ / \
//	 *---*---*
//	v0   m2   v2
func subdivide(mesh *MeshData) {
	in := *mesh
	numTris := len(in.Indices) / 3

	out := MeshData{
		Vertices: make([]Vertex, 0, numTris*6),
		Indices:  make([]uint32, 0, numTris*12),
	}

	for i := range numTris {
		v0 := in.Vertices[in.Indices[i*3+0]]
		v1 := in.Vertices[in.Indices[i*3+1]]
		v2 := in.Vertices[in.Indices[i*3+2]]

		m0 := midpoint(v0, v1)
		m1 := midpoint(v1, v2)
		m2 := midpoint(v0, v2)

		out.Vertices = append(out.Vertices, v0, v1, v2, m0, m1, m2)

		base := uint32(i * 6)
		out.Indices = append(out.Indices,
			base+0, base+3, base+5,
			base+3, base+4, base+5,
			base+5, base+4, base+2,
			base+3, base+1, base+4,
		)
	}

	*mesh = out
}

// lineIndices converts triangle-list indices into a line list with the three edges of every triangle.
//
// Parameters:
//   - indices: triangle-list indices
//
// Returns:
//   - []uint32: line-list indices, two per edge, six per triangle
func lineIndices(indices []uint32) []uint32 {
	out := make([]uint32, 0, len(indices)*2)
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		out = append(out, a, b, b, c, c, a)
	}
	return out
}
