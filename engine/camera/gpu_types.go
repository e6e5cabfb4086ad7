package camera

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/engine/light"
)

// GPUPassConstantsSource is the canonical WGSL definition of the PassConstants struct.
// Matches GPUPassConstants layout exactly (640 bytes). It references the Light struct, so
// shaders must include light.GPULightSource before it.
//
//go:embed assets/pass.wgsl
var GPUPassConstantsSource string

// GPUPassConstants is the per-pass constant block written once per frame.
// Matches the WGSL PassConstants struct layout exactly (see GPUPassConstantsSource).
// Size: 640 bytes.
type GPUPassConstants struct {
	View                [16]float32                     // offset   0
	InvView             [16]float32                     // offset  64
	Proj                [16]float32                     // offset 128
	InvProj             [16]float32                     // offset 192
	ViewProj            [16]float32                     // offset 256
	InvViewProj         [16]float32                     // offset 320
	EyePosW             [3]float32                      // offset 384: world-space eye position
	_pad0               float32                         // offset 396
	RenderTargetSize    [2]float32                      // offset 400: surface size in pixels
	InvRenderTargetSize [2]float32                      // offset 408
	NearZ               float32                         // offset 416
	FarZ                float32                         // offset 420
	TotalTime           float32                         // offset 424: seconds since start
	DeltaTime           float32                         // offset 428: seconds since the previous frame
	AmbientLight        [4]float32                      // offset 432
	Lights              [light.MaxLights]light.GPULight // offset 448: 4 x 48 bytes
}

// Size returns the size of the GPUPassConstants struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (640)
func (g *GPUPassConstants) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPassConstants struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUPassConstants) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i, m := range [][16]float32{g.View, g.InvView, g.Proj, g.InvProj, g.ViewProj, g.InvViewProj} {
		common.PutMat4(buf[i*64:], m)
	}
	common.PutVec3(buf[384:], g.EyePosW)
	common.PutFloat32(buf[400:], g.RenderTargetSize[0])
	common.PutFloat32(buf[404:], g.RenderTargetSize[1])
	common.PutFloat32(buf[408:], g.InvRenderTargetSize[0])
	common.PutFloat32(buf[412:], g.InvRenderTargetSize[1])
	common.PutFloat32(buf[416:], g.NearZ)
	common.PutFloat32(buf[420:], g.FarZ)
	common.PutFloat32(buf[424:], g.TotalTime)
	common.PutFloat32(buf[428:], g.DeltaTime)
	common.PutVec4(buf[432:], g.AmbientLight)
	for i := range g.Lights {
		g.Lights[i].MarshalInto(buf[448+i*48:])
	}
	return buf
}
