package geometry

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/bind_group_provider"
)

// ErrNoShapes is returned when a MeshGeometry is built without any shape generators.
var ErrNoShapes = errors.New("geometry has no shapes")

// meshGeometry is the implementation of the MeshGeometry interface.
type meshGeometry struct {
	label  string
	format VertexFormat

	// generators maps each requested shape to the function producing its mesh data.
	generators map[Submesh]func() MeshData
	// workers is the worker pool size used to run generators concurrently.
	workers int

	order       []Submesh
	ranges      map[Submesh]SubmeshRange
	vertices    []Vertex
	indices     []uint32
	lineIndices []uint32

	provider bind_group_provider.BindGroupProvider
}

// MeshGeometry is a set of shapes concatenated into one shared vertex buffer, one triangle-list index buffer
// and one line-list index buffer. Each shape is addressed by its Submesh handle.
type MeshGeometry interface {
	// Label returns the debug label of the geometry.
	Label() string

	// Format returns the vertex format used by VertexBytes.
	Format() VertexFormat

	// Range returns the sub-range of the given shape.
	//
	// Parameters:
	//   - s: the shape handle
	//
	// Returns:
	//   - SubmeshRange: the shape's location in the shared buffers
	//   - bool: false if the geometry does not contain the shape
	Range(s Submesh) (SubmeshRange, bool)

	// Submeshes returns the contained shapes in buffer order.
	Submeshes() []Submesh

	// Vertices returns the concatenated vertices.
	Vertices() []Vertex

	// Indices returns the concatenated triangle-list indices, relative to each shape's BaseVertex.
	Indices() []uint32

	// LineIndices returns the concatenated line-list indices, relative to each shape's BaseVertex.
	LineIndices() []uint32

	// VertexBytes packs the vertices in the geometry's vertex format for GPU upload.
	//
	// Returns:
	//   - []byte: tightly packed vertex data
	VertexBytes() []byte

	// IndexBytes returns the triangle-list indices as little-endian uint32 bytes.
	IndexBytes() []byte

	// LineIndexBytes returns the line-list indices as little-endian uint32 bytes.
	LineIndexBytes() []byte

	// Provider returns the provider holding the GPU vertex, triangle index and line index buffers,
	// or nil before upload.
	Provider() bind_group_provider.BindGroupProvider

	// SetProvider sets the provider holding the GPU buffers.
	SetProvider(p bind_group_provider.BindGroupProvider)

	// Release releases the GPU buffers held by the provider.
	Release()
}

var _ MeshGeometry = &meshGeometry{}

// NewMeshGeometry generates every configured shape on a worker pool and concatenates the results in Submesh order.
//
// Parameters:
//   - options: functional options selecting shapes, vertex format and worker count
//
// Returns:
//   - MeshGeometry: the built geometry
//   - error: ErrNoShapes if no shape was configured
func NewMeshGeometry(options ...MeshGeometryBuilderOption) (MeshGeometry, error) {
	g := &meshGeometry{
		label:      "geometry",
		format:     VertexFormatPositionNormalTexture,
		generators: make(map[Submesh]func() MeshData),
		workers:    4,
		ranges:     make(map[Submesh]SubmeshRange),
	}
	for _, opt := range options {
		opt(g)
	}
	if len(g.generators) == 0 {
		return nil, fmt.Errorf("%s: %w", g.label, ErrNoShapes)
	}

	g.order = make([]Submesh, 0, len(g.generators))
	for s := range g.generators {
		g.order = append(g.order, s)
	}
	slices.Sort(g.order)

	meshes := g.generate()
	g.concatenate(meshes)

	common.LogDebug("built geometry %q: %d shapes, %d vertices, %d indices", g.label, len(g.order), len(g.vertices), len(g.indices))
	return g, nil
}

// generate runs each shape generator as a worker pool task and waits for all of them.
// Results are stored by position in g.order, so the output order does not depend on scheduling.
func (g *meshGeometry) generate() []MeshData {
	meshes := make([]MeshData, len(g.order))

	pool := worker.NewDynamicWorkerPool(g.workers, len(g.order), time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, s := range g.order {
		wg.Add(1)
		gen := g.generators[s]
		idx := i
		pool.SubmitTask(worker.Task{
			ID:      idx,
			Payload: s,
			Do: func() (any, error) {
				defer wg.Done()
				meshes[idx] = gen()
				return nil, nil
			},
		})
	}
	wg.Wait()

	return meshes
}

// concatenate appends every mesh to the shared buffers and records the sub-ranges.
func (g *meshGeometry) concatenate(meshes []MeshData) {
	var totalVertices, totalIndices int
	for _, m := range meshes {
		totalVertices += len(m.Vertices)
		totalIndices += len(m.Indices)
	}
	g.vertices = make([]Vertex, 0, totalVertices)
	g.indices = make([]uint32, 0, totalIndices)
	g.lineIndices = make([]uint32, 0, totalIndices*2)

	for i, m := range meshes {
		lines := lineIndices(m.Indices)
		g.ranges[g.order[i]] = SubmeshRange{
			StartIndex:     uint32(len(g.indices)),
			IndexCount:     uint32(len(m.Indices)),
			BaseVertex:     int32(len(g.vertices)),
			LineStartIndex: uint32(len(g.lineIndices)),
			LineIndexCount: uint32(len(lines)),
		}
		g.vertices = append(g.vertices, m.Vertices...)
		g.indices = append(g.indices, m.Indices...)
		g.lineIndices = append(g.lineIndices, lines...)
	}
}

func (g *meshGeometry) Label() string {
	return g.label
}

func (g *meshGeometry) Format() VertexFormat {
	return g.format
}

func (g *meshGeometry) Range(s Submesh) (SubmeshRange, bool) {
	r, ok := g.ranges[s]
	return r, ok
}

func (g *meshGeometry) Submeshes() []Submesh {
	return slices.Clone(g.order)
}

func (g *meshGeometry) Vertices() []Vertex {
	return g.vertices
}

func (g *meshGeometry) Indices() []uint32 {
	return g.indices
}

func (g *meshGeometry) LineIndices() []uint32 {
	return g.lineIndices
}

func (g *meshGeometry) VertexBytes() []byte {
	stride := g.format.Stride()
	buf := make([]byte, len(g.vertices)*stride)
	for i, v := range g.vertices {
		dst := buf[i*stride:]
		switch g.format {
		case VertexFormatPosition:
			gv := GPUVertexPosition{Position: v.Position}
			gv.MarshalInto(dst)
		default:
			gv := GPUVertex{Position: v.Position, Normal: v.Normal, TexC: v.TexC}
			gv.MarshalInto(dst)
		}
	}
	return buf
}

func (g *meshGeometry) IndexBytes() []byte {
	return slices.Clone(common.SliceToBytes(g.indices))
}

func (g *meshGeometry) LineIndexBytes() []byte {
	return slices.Clone(common.SliceToBytes(g.lineIndices))
}

func (g *meshGeometry) Provider() bind_group_provider.BindGroupProvider {
	return g.provider
}

func (g *meshGeometry) SetProvider(p bind_group_provider.BindGroupProvider) {
	g.provider = p
}

func (g *meshGeometry) Release() {
	if g.provider != nil {
		g.provider.Release()
	}
}
