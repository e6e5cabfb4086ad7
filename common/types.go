package common

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrEmptyTexture is returned when texture data has no levels or a level has no pixels.
var ErrEmptyTexture = errors.New("empty texture")

// TextureLevel is one mip level of tightly packed, row-major RGBA8 pixels.
type TextureLevel struct {
	Pixels []byte
	Width  uint32
	Height uint32
}

// RowBytes is the length of one row of pixels.
func (l TextureLevel) RowBytes() uint32 {
	return l.Width * 4
}

// Validate reports a zero size or a pixel slice that does not match the size.
func (l TextureLevel) Validate() error {
	if l.Width == 0 || l.Height == 0 {
		return fmt.Errorf("%dx%d level: %w", l.Width, l.Height, ErrEmptyTexture)
	}
	if want := l.RowBytes() * l.Height; uint32(len(l.Pixels)) != want {
		return fmt.Errorf("%dx%d level has %d bytes, want %d", l.Width, l.Height, len(l.Pixels), want)
	}
	return nil
}

// TextureStagingData is a texture waiting for upload: its base level followed by each reduced
// level, largest first.
type TextureStagingData struct {
	Levels []TextureLevel
}

// Base returns the full size level. It panics when there are no levels.
func (t TextureStagingData) Base() TextureLevel {
	return t.Levels[0]
}

// MipLevelCount returns the number of levels including the base level.
func (t TextureStagingData) MipLevelCount() uint32 {
	return uint32(len(t.Levels))
}

// Validate checks every level.
//
// Returns:
//   - error: ErrEmptyTexture without levels, otherwise the first invalid level
func (t TextureStagingData) Validate() error {
	if len(t.Levels) == 0 {
		return ErrEmptyTexture
	}
	for i, l := range t.Levels {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("mip %d: %w", i, err)
		}
	}
	return nil
}

// SamplerStagingData is the configuration of a sampler the renderer has yet to create.
// Zero address modes mean repeat, a zero LodMaxClamp means 32 and a zero MaxAnisotropy means 1.
type SamplerStagingData struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode

	MagFilter, MinFilter wgpu.FilterMode
	MipmapFilter         wgpu.MipmapFilterMode

	LodMinClamp, LodMaxClamp float32

	// Compare is set only for comparison samplers.
	Compare wgpu.CompareFunction

	// MaxAnisotropy above 1 requires linear filtering in all three filters.
	MaxAnisotropy uint16
}
