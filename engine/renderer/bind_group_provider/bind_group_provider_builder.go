package bind_group_provider

// BindGroupProviderOption configures a provider before the renderer initialises it.
type BindGroupProviderOption func(*bindGroupProvider)

// WithIndexCounts records the triangle and edge index counts of a mesh provider before its
// buffers exist, so draw ranges can be validated against them.
//
// Parameters:
//   - indices: the triangle index count
//   - lineIndices: the edge index count
//
// Returns:
//   - BindGroupProviderOption: option function to apply
func WithIndexCounts(indices, lineIndices int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.mesh.indexCount = indices
		p.mesh.lineIndexCount = lineIndices
	}
}
