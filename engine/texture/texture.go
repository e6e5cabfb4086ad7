// Package texture produces the RGBA images sampled by the lit scene: decoded from disk when an image
// file is present, generated procedurally otherwise, and reduced into a full mip chain for upload.
package texture

import (
	"image"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"golang.org/x/image/draw"
)

// Source records where a texture's pixels came from.
type Source int

const (
	// SourceGenerated marks a procedurally generated texture.
	SourceGenerated Source = iota
	// SourceFile marks a texture decoded from an image file.
	SourceFile
)

func (s Source) String() string {
	if s == SourceFile {
		return "file"
	}
	return "generated"
}

// texture is the implementation of the Texture interface.
type texture struct {
	name   string
	path   string
	source Source
	levels []common.TextureLevel
}

// Texture is an immutable RGBA image and its mip chain, keyed by name.
type Texture interface {
	// Name returns the key materials use to reference this texture.
	Name() string

	// Source reports whether the pixels were decoded from a file or generated.
	Source() Source

	// Path returns the file the texture was decoded from, or "" for generated textures.
	Path() string

	// Width returns the base level width in pixels.
	Width() uint32

	// Height returns the base level height in pixels.
	Height() uint32

	// Levels returns every mip level, base level first.
	Levels() []common.TextureLevel

	// StagingData packages the mip chain for GPU upload.
	//
	// Returns:
	//   - common.TextureStagingData: the base level plus the reduced levels
	StagingData() common.TextureStagingData
}

var _ Texture = &texture{}

// NewTexture wraps an image as a named texture. The image is copied into a tightly packed RGBA
// buffer and, unless WithoutMips is given, reduced into a full mip chain.
//
// Parameters:
//   - name: the texture key
//   - img: the source image (any color model)
//   - options: functional options
//
// Returns:
//   - Texture: the new texture
func NewTexture(name string, img image.Image, options ...TextureBuilderOption) Texture {
	t := &texture{
		name:   name,
		source: SourceGenerated,
	}
	cfg := textureConfig{mips: true}
	for _, opt := range options {
		opt(t, &cfg)
	}

	base := toRGBA(img)
	if cfg.mips {
		t.levels = MipChain(base)
	} else {
		t.levels = []common.TextureLevel{levelOf(base)}
	}
	return t
}

func (t *texture) Name() string {
	return t.name
}

func (t *texture) Source() Source {
	return t.source
}

func (t *texture) Path() string {
	return t.path
}

func (t *texture) Width() uint32 {
	return t.levels[0].Width
}

func (t *texture) Height() uint32 {
	return t.levels[0].Height
}

func (t *texture) Levels() []common.TextureLevel {
	return t.levels
}

func (t *texture) StagingData() common.TextureStagingData {
	return common.TextureStagingData{Levels: t.levels}
}

// MipLevelCount returns the number of levels in a full chain for the given base size,
// halving the larger dimension down to 1.
//
// Parameters:
//   - width, height: base level dimensions
//
// Returns:
//   - int: the level count including the base level
func MipLevelCount(width, height int) int {
	n := 1
	for size := max(width, height); size > 1; size /= 2 {
		n++
	}
	return n
}

// MipChain builds the full mip chain of an image. Each level halves both dimensions (never below 1)
// and is filtered bilinearly from the previous level.
//
// Parameters:
//   - base: the base level image
//
// Returns:
//   - []common.TextureLevel: the levels, base first
func MipChain(base *image.RGBA) []common.TextureLevel {
	w, h := base.Bounds().Dx(), base.Bounds().Dy()
	levels := make([]common.TextureLevel, 0, MipLevelCount(w, h))
	levels = append(levels, levelOf(base))

	prev := base
	for w > 1 || h > 1 {
		w = max(w/2, 1)
		h = max(h/2, 1)
		next := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(next, next.Bounds(), prev, prev.Bounds(), draw.Src, nil)
		levels = append(levels, levelOf(next))
		prev = next
	}
	return levels
}

// toRGBA returns img as a zero-origin, tightly packed *image.RGBA, copying when necessary.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func levelOf(img *image.RGBA) common.TextureLevel {
	return common.TextureLevel{
		Pixels: img.Pix,
		Width:  uint32(img.Rect.Dx()),
		Height: uint32(img.Rect.Dy()),
	}
}
