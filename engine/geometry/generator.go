package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// maxBoxSubdivisions caps CreateBox subdivision; every level multiplies the triangle count by four.
const maxBoxSubdivisions = 6

// CreateBox builds an axis-aligned box centred at the origin with 4 vertices per face, optionally
// subdivided numSubdivisions times (capped at 6).
//
// Parameters:
//   - width, height, depth: box extents along X, Y and Z
//   - numSubdivisions: number of midpoint subdivision passes
//
// Returns:
//   - MeshData: the generated box
func CreateBox(width, height, depth float32, numSubdivisions int) MeshData {
	w2 := 0.5 * width
	h2 := 0.5 * height
	d2 := 0.5 * depth

	mesh := MeshData{
		Vertices: []Vertex{
			// front
			NewVertex(-w2, -h2, -d2, 0, 0, -1, 1, 0, 0, 0, 1),
			NewVertex(-w2, +h2, -d2, 0, 0, -1, 1, 0, 0, 0, 0),
			NewVertex(+w2, +h2, -d2, 0, 0, -1, 1, 0, 0, 1, 0),
			NewVertex(+w2, -h2, -d2, 0, 0, -1, 1, 0, 0, 1, 1),
			// back
			NewVertex(-w2, -h2, +d2, 0, 0, 1, -1, 0, 0, 1, 1),
			NewVertex(+w2, -h2, +d2, 0, 0, 1, -1, 0, 0, 0, 1),
			NewVertex(+w2, +h2, +d2, 0, 0, 1, -1, 0, 0, 0, 0),
			NewVertex(-w2, +h2, +d2, 0, 0, 1, -1, 0, 0, 1, 0),
			// top
			NewVertex(-w2, +h2, -d2, 0, 1, 0, 1, 0, 0, 0, 1),
			NewVertex(-w2, +h2, +d2, 0, 1, 0, 1, 0, 0, 0, 0),
			NewVertex(+w2, +h2, +d2, 0, 1, 0, 1, 0, 0, 1, 0),
			NewVertex(+w2, +h2, -d2, 0, 1, 0, 1, 0, 0, 1, 1),
			// bottom
			NewVertex(-w2, -h2, -d2, 0, -1, 0, -1, 0, 0, 1, 1),
			NewVertex(+w2, -h2, -d2, 0, -1, 0, -1, 0, 0, 0, 1),
			NewVertex(+w2, -h2, +d2, 0, -1, 0, -1, 0, 0, 0, 0),
			NewVertex(-w2, -h2, +d2, 0, -1, 0, -1, 0, 0, 1, 0),
			// left
			NewVertex(-w2, -h2, +d2, -1, 0, 0, 0, 0, -1, 0, 1),
			NewVertex(-w2, +h2, +d2, -1, 0, 0, 0, 0, -1, 0, 0),
			NewVertex(-w2, +h2, -d2, -1, 0, 0, 0, 0, -1, 1, 0),
			NewVertex(-w2, -h2, -d2, -1, 0, 0, 0, 0, -1, 1, 1),
			// right
			NewVertex(+w2, -h2, -d2, 1, 0, 0, 0, 0, 1, 0, 1),
			NewVertex(+w2, +h2, -d2, 1, 0, 0, 0, 0, 1, 0, 0),
			NewVertex(+w2, +h2, +d2, 1, 0, 0, 0, 0, 1, 1, 0),
			NewVertex(+w2, -h2, +d2, 1, 0, 0, 0, 0, 1, 1, 1),
		},
		Indices: []uint32{
			0, 1, 2, 0, 2, 3,
			4, 5, 6, 4, 6, 7,
			8, 9, 10, 8, 10, 11,
			12, 13, 14, 12, 14, 15,
			16, 17, 18, 16, 18, 19,
			20, 21, 22, 20, 22, 23,
		},
	}

	for range min(numSubdivisions, maxBoxSubdivisions) {
		subdivide(&mesh)
	}

	return mesh
}

// CreateSphere builds a UV sphere centred at the origin. The poles are single vertices and the
// texture seam is duplicated so each ring has sliceCount+1 vertices.
//
// Parameters:
//   - radius: sphere radius
//   - sliceCount: subdivisions around the Y axis
//   - stackCount: subdivisions from pole to pole
//
// Returns:
//   - MeshData: the generated sphere
func CreateSphere(radius float32, sliceCount, stackCount int) MeshData {
	var mesh MeshData

	top := NewVertex(0, radius, 0, 0, 1, 0, 1, 0, 0, 0, 0)
	bottom := NewVertex(0, -radius, 0, 0, -1, 0, 1, 0, 0, 0, 1)

	mesh.Vertices = append(mesh.Vertices, top)

	phiStep := math.Pi / float64(stackCount)
	thetaStep := 2 * math.Pi / float64(sliceCount)

	for i := 1; i <= stackCount-1; i++ {
		phi := float64(i) * phiStep
		for j := 0; j <= sliceCount; j++ {
			theta := float64(j) * thetaStep

			sinPhi, cosPhi := math.Sincos(phi)
			sinTheta, cosTheta := math.Sincos(theta)
			r := float64(radius)

			pos := mgl32.Vec3{
				float32(r * sinPhi * cosTheta),
				float32(r * cosPhi),
				float32(r * sinPhi * sinTheta),
			}
			tangent := mgl32.Vec3{
				float32(-r * sinPhi * sinTheta),
				0,
				float32(r * sinPhi * cosTheta),
			}

			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: pos,
				Normal:   pos.Normalize(),
				TangentU: tangent.Normalize(),
				TexC:     mgl32.Vec2{float32(theta / (2 * math.Pi)), float32(phi / math.Pi)},
			})
		}
	}

	mesh.Vertices = append(mesh.Vertices, bottom)

	// top cap fan
	for i := 1; i <= sliceCount; i++ {
		mesh.Indices = append(mesh.Indices, 0, uint32(i+1), uint32(i))
	}

	// inner stacks; index 0 is the top pole so rings start at 1
	baseIndex := uint32(1)
	ringVertexCount := uint32(sliceCount + 1)
	for i := 0; i < stackCount-2; i++ {
		for j := 0; j < sliceCount; j++ {
			ui, uj := uint32(i), uint32(j)
			mesh.Indices = append(mesh.Indices,
				baseIndex+ui*ringVertexCount+uj,
				baseIndex+ui*ringVertexCount+uj+1,
				baseIndex+(ui+1)*ringVertexCount+uj,

				baseIndex+(ui+1)*ringVertexCount+uj,
				baseIndex+ui*ringVertexCount+uj+1,
				baseIndex+(ui+1)*ringVertexCount+uj+1,
			)
		}
	}

	// bottom cap fan around the last ring
	southPole := uint32(len(mesh.Vertices) - 1)
	baseIndex = southPole - ringVertexCount
	for i := 0; i < sliceCount; i++ {
		mesh.Indices = append(mesh.Indices, southPole, baseIndex+uint32(i), baseIndex+uint32(i)+1)
	}

	return mesh
}

// CreateCylinder builds a capped frustum-shaped cylinder centred at the origin and aligned with Y.
// A topRadius of 0 yields a cone.
//
// Parameters:
//   - bottomRadius: radius at y = -height/2
//   - topRadius: radius at y = +height/2
//   - height: total height
//   - sliceCount: subdivisions around the Y axis
//   - stackCount: subdivisions along the height
//
// Returns:
//   - MeshData: the generated cylinder
func CreateCylinder(bottomRadius, topRadius, height float32, sliceCount, stackCount int) MeshData {
	var mesh MeshData

	stackHeight := height / float32(stackCount)
	radiusStep := (topRadius - bottomRadius) / float32(stackCount)
	ringCount := stackCount + 1
	dTheta := 2 * math.Pi / float64(sliceCount)

	for i := range ringCount {
		y := -0.5*height + float32(i)*stackHeight
		r := bottomRadius + float32(i)*radiusStep

		for j := 0; j <= sliceCount; j++ {
			s64, c64 := math.Sincos(float64(j) * dTheta)
			c, s := float32(c64), float32(s64)

			tangent := mgl32.Vec3{-s, 0, c}
			dr := bottomRadius - topRadius
			bitangent := mgl32.Vec3{dr * c, -height, dr * s}

			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: mgl32.Vec3{r * c, y, r * s},
				Normal:   tangent.Cross(bitangent).Normalize(),
				TangentU: tangent,
				TexC:     mgl32.Vec2{float32(j) / float32(sliceCount), 1 - float32(i)/float32(stackCount)},
			})
		}
	}

	// each ring repeats its first vertex at the seam
	ringVertexCount := uint32(sliceCount + 1)
	for i := range stackCount {
		for j := range sliceCount {
			ui, uj := uint32(i), uint32(j)
			mesh.Indices = append(mesh.Indices,
				ui*ringVertexCount+uj,
				(ui+1)*ringVertexCount+uj,
				(ui+1)*ringVertexCount+uj+1,

				ui*ringVertexCount+uj,
				(ui+1)*ringVertexCount+uj+1,
				ui*ringVertexCount+uj+1,
			)
		}
	}

	buildCylinderCap(&mesh, topRadius, height, sliceCount, true)
	buildCylinderCap(&mesh, bottomRadius, height, sliceCount, false)

	return mesh
}

// buildCylinderCap appends a triangle fan closing the top or bottom of a cylinder.
// Cap texture coordinates are a planar projection scaled by the cylinder height.
func buildCylinderCap(mesh *MeshData, radius, height float32, sliceCount int, top bool) {
	baseIndex := uint32(len(mesh.Vertices))

	y := 0.5 * height
	ny := float32(1)
	if !top {
		y = -y
		ny = -1
	}
	dTheta := 2 * math.Pi / float64(sliceCount)

	for i := 0; i <= sliceCount; i++ {
		s, c := math.Sincos(float64(i) * dTheta)
		x := radius * float32(c)
		z := radius * float32(s)
		u := x/height + 0.5
		v := z/height + 0.5
		mesh.Vertices = append(mesh.Vertices, NewVertex(x, y, z, 0, ny, 0, 1, 0, 0, u, v))
	}

	mesh.Vertices = append(mesh.Vertices, NewVertex(0, y, 0, 0, ny, 0, 1, 0, 0, 0.5, 0.5))
	centerIndex := uint32(len(mesh.Vertices) - 1)

	for i := range sliceCount {
		ui := uint32(i)
		if top {
			mesh.Indices = append(mesh.Indices, centerIndex, baseIndex+ui+1, baseIndex+ui)
		} else {
			mesh.Indices = append(mesh.Indices, centerIndex, baseIndex+ui, baseIndex+ui+1)
		}
	}
}

// CreateCone builds a cone as a cylinder whose top radius is zero.
//
// Parameters:
//   - radius: base radius
//   - height: total height
//   - sliceCount: subdivisions around the Y axis
//   - stackCount: subdivisions along the height
//
// Returns:
//   - MeshData: the generated cone
func CreateCone(radius, height float32, sliceCount, stackCount int) MeshData {
	return CreateCylinder(radius, 0, height, sliceCount, stackCount)
}

// CreateGrid builds an m x n vertex grid in the XZ plane centred at the origin.
//
// Parameters:
//   - width: extent along X
//   - depth: extent along Z
//   - m: number of vertex rows (along Z)
//   - n: number of vertex columns (along X)
//
// Returns:
//   - MeshData: the generated grid
func CreateGrid(width, depth float32, m, n int) MeshData {
	var mesh MeshData

	halfWidth := 0.5 * width
	halfDepth := 0.5 * depth

	dx := width / float32(n-1)
	dz := depth / float32(m-1)
	du := 1 / float32(n-1)
	dv := 1 / float32(m-1)

	mesh.Vertices = make([]Vertex, m*n)
	for i := range m {
		z := halfDepth - float32(i)*dz
		for j := range n {
			x := -halfWidth + float32(j)*dx
			mesh.Vertices[i*n+j] = NewVertex(x, 0, z, 0, 1, 0, 1, 0, 0, float32(j)*du, float32(i)*dv)
		}
	}

	mesh.Indices = make([]uint32, 0, (m-1)*(n-1)*6)
	un := uint32(n)
	for i := range m - 1 {
		for j := range n - 1 {
			ui, uj := uint32(i), uint32(j)
			mesh.Indices = append(mesh.Indices,
				ui*un+uj,
				ui*un+uj+1,
				(ui+1)*un+uj,

				(ui+1)*un+uj,
				ui*un+uj+1,
				(ui+1)*un+uj+1,
			)
		}
	}

	return mesh
}
