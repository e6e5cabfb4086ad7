package light

import (
	_ "embed"
	"fmt"
	"slices"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-castle/common"
)

// MaxLights is the number of light slots in the per-pass constant block.
const MaxLights = 4

// GPULightSource is the canonical WGSL definition of the Light struct.
// Matches GPULight layout exactly (48 bytes, uniform aligned).
//
//go:embed assets/light.wgsl
var GPULightSource string

// GPULight is the GPU-aligned representation of a single light source.
// Matches the WGSL Light struct layout exactly (see GPULightSource).
// Size: 48 bytes.
type GPULight struct {
	Strength     [3]float32 // offset  0: RGB strength
	FalloffStart float32    // offset 12: point/spot only
	Direction    [3]float32 // offset 16: directional/spot only
	FalloffEnd   float32    // offset 28: point/spot only
	Position     [3]float32 // offset 32: point/spot only
	SpotPower    float32    // offset 44: spot only
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalInto serializes the light into buf, which must hold at least Size() bytes.
func (g *GPULight) MarshalInto(buf []byte) {
	common.PutVec3(buf[0:], g.Strength)
	common.PutFloat32(buf[12:], g.FalloffStart)
	common.PutVec3(buf[16:], g.Direction)
	common.PutFloat32(buf[28:], g.FalloffEnd)
	common.PutVec3(buf[32:], g.Position)
	common.PutFloat32(buf[44:], g.SpotPower)
}

// Pack orders enabled lights directional first, then point, then spot, and converts them
// into the fixed-size light array of the pass constants. Unused slots are zero.
//
// Parameters:
//   - lights: the scene lights
//
// Returns:
//   - [MaxLights]GPULight: the packed lights
//   - LightCounts: how many lights of each type were packed
//   - error: an error if more than MaxLights lights are enabled
func Pack(lights []Light) ([MaxLights]GPULight, LightCounts, error) {
	var out [MaxLights]GPULight
	var counts LightCounts

	enabled := make([]Light, 0, len(lights))
	for _, l := range lights {
		if l != nil && l.Enabled() {
			enabled = append(enabled, l)
		}
	}
	if len(enabled) > MaxLights {
		return out, counts, fmt.Errorf("%d enabled lights exceed the limit of %d", len(enabled), MaxLights)
	}

	slices.SortStableFunc(enabled, func(a, b Light) int {
		return int(a.Type()) - int(b.Type())
	})
	for i, l := range enabled {
		out[i] = l.GPU()
		switch l.Type() {
		case LightTypeDirectional:
			counts.Directional++
		case LightTypePoint:
			counts.Point++
		case LightTypeSpot:
			counts.Spot++
		}
	}
	return out, counts, nil
}

// LightCounts reports how many lights of each type occupy the packed array.
type LightCounts struct {
	Directional uint32
	Point       uint32
	Spot        uint32
}
