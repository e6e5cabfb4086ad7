package frame

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUObjectConstantsSource is the canonical WGSL definition of the ObjectConstants struct.
// Matches GPUObjectConstants layout exactly (128 bytes).
//
//go:embed assets/object.wgsl
var GPUObjectConstantsSource string

// GPUObjectConstants is the per-object constant block read by the vertex stage.
// Each element is placed at a 256-byte aligned offset so it can be bound with a dynamic offset.
// Size: 128 bytes.
type GPUObjectConstants struct {
	World        [16]float32 // offset  0: object-to-world matrix (mat4x4<f32>)
	TexTransform [16]float32 // offset 64: texture coordinate transform (mat4x4<f32>)
}

// NewGPUObjectConstants packs a world and texture transform.
//
// Parameters:
//   - world: the object-to-world matrix
//   - texTransform: the texture coordinate transform
//
// Returns:
//   - GPUObjectConstants: the packed constants
func NewGPUObjectConstants(world, texTransform mgl32.Mat4) GPUObjectConstants {
	return GPUObjectConstants{World: world, TexTransform: texTransform}
}

// Size returns the size of the GPUObjectConstants struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (g *GPUObjectConstants) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUObjectConstants struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUObjectConstants) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutMat4(buf[0:], g.World)
	common.PutMat4(buf[64:], g.TexTransform)
	return buf
}
