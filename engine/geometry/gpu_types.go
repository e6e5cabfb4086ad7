package geometry

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// VertexFormat selects which vertex attributes are packed for the GPU.
type VertexFormat int

const (
	// VertexFormatPosition packs position only (GPUVertexPosition).
	VertexFormatPosition VertexFormat = iota
	// VertexFormatPositionNormalTexture packs position, normal and texture coordinates (GPUVertex).
	VertexFormatPositionNormalTexture
)

// Stride returns the packed size of one vertex in bytes.
func (f VertexFormat) Stride() int {
	switch f {
	case VertexFormatPosition:
		return int(unsafe.Sizeof(GPUVertexPosition{}))
	default:
		return int(unsafe.Sizeof(GPUVertex{}))
	}
}

// GPUVertexPositionSource is the canonical WGSL definition of the position-only VertexInput struct.
// Matches GPUVertexPosition layout exactly (12 bytes).
//
//go:embed assets/vertex_position.wgsl
var GPUVertexPositionSource string

// GPUVertexPosition is the GPU representation of a position-only vertex.
// Size: 12 bytes.
type GPUVertexPosition struct {
	Position [3]float32 // offset 0: model-space position
}

// Size returns the size of the GPUVertexPosition struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (12)
func (g *GPUVertexPosition) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalInto serializes the vertex into buf, which must hold at least Size() bytes.
func (g *GPUVertexPosition) MarshalInto(buf []byte) {
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Position[i]))
	}
}

// GPUVertexSource is the canonical WGSL definition of the lit VertexInput struct.
// Matches GPUVertex layout exactly (32 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU representation of a lit, textured vertex.
// Size: 32 bytes.
type GPUVertex struct {
	Position [3]float32 // offset  0: model-space position (12 bytes)
	Normal   [3]float32 // offset 12: model-space normal (12 bytes)
	TexC     [2]float32 // offset 24: texture coordinate (8 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalInto serializes the vertex into buf, which must hold at least Size() bytes.
func (g *GPUVertex) MarshalInto(buf []byte) {
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Position[i]))
		binary.LittleEndian.PutUint32(buf[12+i*4:], math.Float32bits(g.Normal[i]))
	}
	binary.LittleEndian.PutUint32(buf[24:], math.Float32bits(g.TexC[0]))
	binary.LittleEndian.PutUint32(buf[28:], math.Float32bits(g.TexC[1]))
}
