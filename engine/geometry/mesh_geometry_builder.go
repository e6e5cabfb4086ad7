package geometry

// MeshGeometryBuilderOption is a functional option applied to a meshGeometry during NewMeshGeometry.
type MeshGeometryBuilderOption func(*meshGeometry)

// WithLabel sets the debug label used for the geometry and its GPU buffers.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - MeshGeometryBuilderOption: option function to apply
func WithLabel(label string) MeshGeometryBuilderOption {
	return func(g *meshGeometry) {
		g.label = label
	}
}

// WithVertexFormat selects which vertex attributes are packed by VertexBytes.
//
// Parameters:
//   - format: the vertex format
//
// Returns:
//   - MeshGeometryBuilderOption: option function to apply
func WithVertexFormat(format VertexFormat) MeshGeometryBuilderOption {
	return func(g *meshGeometry) {
		g.format = format
	}
}

// WithShape registers a generator for a shape. Registering the same shape twice keeps the last generator.
//
// Parameters:
//   - s: the shape handle
//   - generate: function producing the shape's mesh data
//
// Returns:
//   - MeshGeometryBuilderOption: option function to apply
func WithShape(s Submesh, generate func() MeshData) MeshGeometryBuilderOption {
	return func(g *meshGeometry) {
		g.generators[s] = generate
	}
}

// WithWorkers sets how many shapes are generated concurrently. Values < 1 are treated as 1.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - MeshGeometryBuilderOption: option function to apply
func WithWorkers(n int) MeshGeometryBuilderOption {
	return func(g *meshGeometry) {
		g.workers = max(n, 1)
	}
}
