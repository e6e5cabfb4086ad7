package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-castle/config"
	"github.com/Carmen-Shannon/oxy-castle/engine/geometry"
	"github.com/Carmen-Shannon/oxy-castle/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var castleMaterials = MaterialNames()

func countSubmeshes(placements []Placement) map[geometry.Submesh]int {
	counts := make(map[geometry.Submesh]int)
	for _, p := range placements {
		counts[p.Submesh]++
	}
	return counts
}

func TestCastlePlacementCounts(t *testing.T) {
	columns, err := CastlePlacements(config.VariantColumns)
	require.NoError(t, err)
	require.Len(t, columns, 37)
	assert.Equal(t, map[geometry.Submesh]int{
		geometry.SubmeshBox:      28,
		geometry.SubmeshGrid:     1,
		geometry.SubmeshCylinder: 4,
		geometry.SubmeshSphere:   4,
	}, countSubmeshes(columns))

	shapes, err := CastlePlacements(config.VariantShapes)
	require.NoError(t, err)
	require.Len(t, shapes, 41)
	assert.Equal(t, 4, countSubmeshes(shapes)[geometry.SubmeshCone])

	// both variants share the walls in the same object index order
	assert.Equal(t, columns[:29], shapes[:29])

	_, err = CastlePlacements("keep")
	assert.Error(t, err)
}

func TestCastlePlacementsAreValid(t *testing.T) {
	for _, variant := range []string{config.VariantColumns, config.VariantShapes} {
		p, err := CastlePlacements(variant)
		require.NoError(t, err)
		assert.NoError(t, ValidatePlacements(p, castleMaterials), variant)

		names := make(map[string]bool)
		for _, pl := range p {
			assert.False(t, names[pl.Name], "duplicate name %s", pl.Name)
			names[pl.Name] = true
		}
	}
}

func TestConesRestOnColumnCaps(t *testing.T) {
	shapes, err := CastlePlacements(config.VariantShapes)
	require.NoError(t, err)

	for _, p := range shapes {
		if p.Submesh != geometry.SubmeshCone {
			continue
		}
		assert.Equal(t, float32(coneCenterY), p.Translate[1])
		assert.Contains(t, columnX[:], p.Translate[0])
		assert.Contains(t, columnZ[:], p.Translate[2])
	}
}

func TestPlacementWorld(t *testing.T) {
	p := Placement{Scale: [3]float32{10, 20, 100}, Translate: [3]float32{50, 10, -10}}
	got := p.World().Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	assert.True(t, got.ApproxEqual(mgl32.Vec4{60, 30, 90, 1}), "%v", got)

	// zero scale means unscaled
	q := Placement{Translate: [3]float32{-45, 15, 44}}
	got = q.World().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.True(t, got.ApproxEqual(mgl32.Vec4{-44, 15, 44, 1}), "%v", got)
}

func TestPlacementTexTransform(t *testing.T) {
	assert.Equal(t, mgl32.Ident4(), Placement{}.TexTransform())

	ground := Placement{TexScale: [2]float32{8, 8}}
	uv := ground.TexTransform().Mul4x1(mgl32.Vec4{0.5, 0.25, 0, 1})
	assert.True(t, uv.ApproxEqual(mgl32.Vec4{4, 2, 0, 1}), "%v", uv)
}

func TestParsePlacements(t *testing.T) {
	doc := `
[[placement]]
name = "keep"
submesh = "box"
scale = [10.0, 30.0, 10.0]
translate = [0.0, 15.0, 0.0]
material = "stone0"

[[placement]]
name = "lawn"
submesh = "grid"
material = "bricks0"
tex_scale = [4.0, 4.0]
`
	p, err := ParsePlacements([]byte(doc), castleMaterials)
	require.NoError(t, err)
	require.Len(t, p, 2)
	assert.Equal(t, geometry.SubmeshBox, p[0].Submesh)
	assert.Equal(t, [3]float32{10, 30, 10}, p[0].Scale)
	assert.Equal(t, geometry.SubmeshGrid, p[1].Submesh)
	assert.Equal(t, [2]float32{4, 4}, p[1].TexScale)
}

func TestParsePlacementsRejectsBadInput(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":            ``,
		"unknown submesh":  "[[placement]]\nname = \"x\"\nsubmesh = \"torus\"\nmaterial = \"tile0\"\n",
		"unknown material": "[[placement]]\nname = \"x\"\nsubmesh = \"box\"\nmaterial = \"gold\"\n",
		"negative scale":   "[[placement]]\nname = \"x\"\nsubmesh = \"box\"\nmaterial = \"tile0\"\nscale = [1.0, -1.0, 1.0]\n",
		"unknown field":    "[[placement]]\nname = \"x\"\nsubmesh = \"box\"\nmaterial = \"tile0\"\ncolour = \"red\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePlacements([]byte(doc), castleMaterials)
			assert.Error(t, err)
		})
	}

	_, err := ParsePlacements([]byte("[[placement]]\nname = \"x\"\nsubmesh = \"box\"\nmaterial = \"gold\"\n"), castleMaterials)
	assert.ErrorIs(t, err, ErrInvalidPlacement)
}

func TestLoadPlacements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[placement]]\nname = \"gate\"\nsubmesh = \"cylinder\"\nmaterial = \"bricks0\"\n"), 0o644))

	p, err := LoadPlacements(path, castleMaterials)
	require.NoError(t, err)
	require.Len(t, p, 1)
	assert.Equal(t, "gate", p[0].Name)

	_, err = LoadPlacements(filepath.Join(t.TempDir(), "missing.toml"), castleMaterials)
	assert.Error(t, err)
}

func TestCastleMaterials(t *testing.T) {
	columns, err := NewCastleMaterials(config.VariantColumns, 3)
	require.NoError(t, err)
	require.Len(t, columns, 3)
	for i, m := range columns {
		assert.Equal(t, castleMaterials[i], m.Name())
		assert.Equal(t, i, m.CBIndex())
		assert.Equal(t, 3, m.NumFramesDirty())
		assert.NotEmpty(t, m.DiffuseTexture())
	}
	assert.Equal(t, TextureBrick, columns[0].DiffuseTexture())
	assert.InDelta(t, 0.3, columns[1].Roughness(), 1e-6)

	shapes, err := NewCastleMaterials(config.VariantShapes, 2)
	require.NoError(t, err)
	for _, m := range shapes {
		assert.Empty(t, m.DiffuseTexture())
		assert.Equal(t, 2, m.NumFramesDirty())
	}

	_, err = NewCastleMaterials("moat", 3)
	assert.Error(t, err)
}

func TestCastleLightsPack(t *testing.T) {
	packed, counts, err := light.Pack(NewCastleLights())
	require.NoError(t, err)
	assert.Equal(t, uint32(3), counts.Directional)
	assert.Equal(t, uint32(1), counts.Point)
	assert.Equal(t, [3]float32{0, 5, -3}, packed[3].Position)
}

func TestTextureSpecsHaveGenerators(t *testing.T) {
	specs := TextureSpecs()
	require.Len(t, specs, 3)
	for _, s := range specs {
		assert.NotNil(t, s.Generator, s.Name)
	}
}
