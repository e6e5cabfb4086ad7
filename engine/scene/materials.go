package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-castle/config"
	"github.com/Carmen-Shannon/oxy-castle/engine/light"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-castle/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// Texture names referenced by the lit materials.
const (
	TextureBrick  = "brick"
	TextureMarble = "marble"
	TextureTile   = "tile"
)

// DefaultAmbientLight is the ambient term of the pass constants.
var DefaultAmbientLight = mgl32.Vec4{0.25, 0.25, 0.35, 1}

// TextureSpecs lists the textures of the columns variant with their procedural fallbacks.
func TextureSpecs() []texture.Spec {
	return []texture.Spec{
		{Name: TextureBrick, Generator: texture.Brick},
		{Name: TextureMarble, Generator: texture.Marble},
		{Name: TextureTile, Generator: texture.Tile},
	}
}

// NewCastleMaterials builds the three castle materials of a variant with constant buffer
// indices 0, 1 and 2, each dirty for frames slots.
//
// The columns variant samples brick, marble and tile textures under a white albedo. The shapes
// variant has no textures and tints each material instead.
//
// Parameters:
//   - variant: config.VariantColumns or config.VariantShapes
//   - frames: the frame ring size
//
// Returns:
//   - []material.Material: bricks0, stone0 and tile0 in that order
//   - error: error if the variant is unknown
func NewCastleMaterials(variant string, frames int) ([]material.Material, error) {
	white := mgl32.Vec4{1, 1, 1, 1}
	var defs [][]material.MaterialBuilderOption
	switch variant {
	case config.VariantColumns:
		defs = [][]material.MaterialBuilderOption{
			{
				material.WithName(MaterialBricks),
				material.WithDiffuseTexture(TextureBrick),
				material.WithDiffuseAlbedo(white),
				material.WithFresnelR0(0.02),
				material.WithRoughness(0.1),
			},
			{
				material.WithName(MaterialStone),
				material.WithDiffuseTexture(TextureMarble),
				material.WithDiffuseAlbedo(white),
				material.WithFresnelR0(0.05),
				material.WithRoughness(0.3),
			},
			{
				material.WithName(MaterialTile),
				material.WithDiffuseTexture(TextureTile),
				material.WithDiffuseAlbedo(white),
				material.WithFresnelR0(0.02),
				material.WithRoughness(0.3),
			},
		}
	case config.VariantShapes:
		defs = [][]material.MaterialBuilderOption{
			{material.WithName(MaterialBricks), material.WithDiffuseAlbedo(mgl32.Vec4{0.55, 0.32, 0.26, 1})},
			{material.WithName(MaterialStone), material.WithDiffuseAlbedo(mgl32.Vec4{0.62, 0.62, 0.6, 1})},
			{material.WithName(MaterialTile), material.WithDiffuseAlbedo(mgl32.Vec4{0.3, 0.33, 0.4, 1})},
		}
	default:
		return nil, fmt.Errorf("unknown scene variant %q", variant)
	}

	mats := make([]material.Material, len(defs))
	for i, opts := range defs {
		mats[i] = material.NewMaterial(append(opts, material.WithCBIndex(i))...)
		mats[i].MarkDirty(frames)
	}
	return mats, nil
}

// NewCastleLights returns the three directional key, fill and back lights and the point light
// near the gate.
func NewCastleLights() []light.Light {
	return []light.Light{
		light.NewLight(light.LightTypeDirectional,
			light.WithDirection(0.57735, -0.57735, 0.57735),
			light.WithStrength(0.8, 0.8, 0.8),
		),
		light.NewLight(light.LightTypeDirectional,
			light.WithDirection(-0.57735, -0.57735, 0.57735),
			light.WithStrength(0.4, 0.4, 0.4),
		),
		light.NewLight(light.LightTypeDirectional,
			light.WithDirection(0, -0.707, -0.707),
			light.WithStrength(0.2, 0.2, 0.2),
		),
		light.NewLight(light.LightTypePoint,
			light.WithPosition(0, 5, -3),
			light.WithStrength(0.95, 0.95, 0.95),
			light.WithFalloff(1, 10),
		),
	}
}
