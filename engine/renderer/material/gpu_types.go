package material

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-castle/common"
)

// GPUMaterialConstantsSource is the canonical WGSL definition of the MaterialConstants struct.
// Matches GPUMaterialConstants layout exactly (96 bytes).
//
//go:embed assets/material.wgsl
var GPUMaterialConstantsSource string

// GPUMaterialConstants is the per-material constant block read by the lit fragment shader.
// Matches the WGSL MaterialConstants struct layout exactly (see GPUMaterialConstantsSource).
// Size: 96 bytes.
type GPUMaterialConstants struct {
	DiffuseAlbedo [4]float32  // offset  0: RGBA albedo multiplied with the diffuse texture
	FresnelR0     [3]float32  // offset 16: reflectance at normal incidence
	Roughness     float32     // offset 28: 0 = mirror, 1 = fully rough
	MatTransform  [16]float32 // offset 32: texture coordinate transform (mat4x4<f32>)
}

// Size returns the size of the GPUMaterialConstants struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (96)
func (g *GPUMaterialConstants) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialConstants struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload
func (g *GPUMaterialConstants) Marshal() []byte {
	buf := make([]byte, g.Size())
	common.PutVec4(buf[0:], g.DiffuseAlbedo)
	common.PutVec3(buf[16:], g.FresnelR0)
	common.PutFloat32(buf[28:], g.Roughness)
	common.PutMat4(buf[32:], g.MatTransform)
	return buf
}
