package texture

import (
	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// StaticSampler indexes the fixed sampler set created at startup.
type StaticSampler int

const (
	SamplerPointWrap StaticSampler = iota
	SamplerPointClamp
	SamplerLinearWrap
	SamplerLinearClamp
	SamplerAnisotropicWrap
	SamplerAnisotropicClamp

	// StaticSamplerCount is the number of static samplers.
	StaticSamplerCount
)

// MaxAnisotropy is the anisotropy of the two anisotropic samplers.
const MaxAnisotropy = 8

var staticSamplerNames = [StaticSamplerCount]string{
	"point_wrap", "point_clamp", "linear_wrap", "linear_clamp", "anisotropic_wrap", "anisotropic_clamp",
}

func (s StaticSampler) String() string {
	if s < 0 || s >= StaticSamplerCount {
		return "unknown"
	}
	return staticSamplerNames[s]
}

// StaticSamplers returns the six sampler configurations in StaticSampler order.
// Every field is set explicitly so no backend default applies.
//
// Returns:
//   - []common.SamplerStagingData: point, linear and anisotropic filtering, each with wrap and clamp addressing
func StaticSamplers() []common.SamplerStagingData {
	out := make([]common.SamplerStagingData, StaticSamplerCount)
	for i := range out {
		s := StaticSampler(i)

		address := wgpu.AddressModeRepeat
		if s == SamplerPointClamp || s == SamplerLinearClamp || s == SamplerAnisotropicClamp {
			address = wgpu.AddressModeClampToEdge
		}

		filter := wgpu.FilterModeLinear
		mipFilter := wgpu.MipmapFilterModeLinear
		anisotropy := uint16(1)
		switch s {
		case SamplerPointWrap, SamplerPointClamp:
			filter = wgpu.FilterModeNearest
			mipFilter = wgpu.MipmapFilterModeNearest
		case SamplerAnisotropicWrap, SamplerAnisotropicClamp:
			anisotropy = MaxAnisotropy
		}

		out[i] = common.SamplerStagingData{
			AddressModeU:  address,
			AddressModeV:  address,
			AddressModeW:  address,
			MagFilter:     filter,
			MinFilter:     filter,
			MipmapFilter:  mipFilter,
			LodMinClamp:   0,
			LodMaxClamp:   32,
			MaxAnisotropy: anisotropy,
		}
	}
	return out
}
