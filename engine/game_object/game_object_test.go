package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-castle/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewGameObjectDefaults(t *testing.T) {
	a := NewGameObject()
	b := NewGameObject()

	assert.NotEqual(t, uuid.Nil, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.True(t, a.Enabled())
	assert.Equal(t, mgl32.Ident4(), a.World())
	assert.Equal(t, mgl32.Ident4(), a.TexTransform())
	assert.Equal(t, 0, a.NumFramesDirty())
	assert.False(t, a.ConsumeDirty())
}

func TestGameObjectOptions(t *testing.T) {
	id := uuid.MustParse("6f1c7d1e-3a55-4d7e-9a59-2f0c4b1f0a01")
	world := mgl32.Translate3D(5, 1.5, -10)
	g := NewGameObject(
		WithID(id),
		WithName("leftCyl0"),
		WithObjectIndex(3),
		WithSubmesh(geometry.SubmeshCylinder),
		WithMaterial("bricks0"),
		WithWorld(world),
		WithTexTransform(mgl32.Scale3D(8, 8, 1)),
		WithFramesDirty(3),
		WithEnabled(false),
	)

	assert.Equal(t, id, g.ID())
	assert.Equal(t, "leftCyl0", g.Name())
	assert.Equal(t, 3, g.ObjectIndex())
	assert.Equal(t, geometry.SubmeshCylinder, g.Submesh())
	assert.Equal(t, "bricks0", g.Material())
	assert.Equal(t, world, g.World())
	assert.Equal(t, float32(8), g.TexTransform().At(0, 0))
	assert.Equal(t, 3, g.NumFramesDirty())
	assert.False(t, g.Enabled())
}

func TestDirtyCounterReachesZeroAfterRingSizeUpdates(t *testing.T) {
	const ringSize = 3
	g := NewGameObject()
	g.SetWorld(mgl32.Translate3D(0, 1, 0), ringSize)
	assert.Equal(t, ringSize, g.NumFramesDirty())

	writes := 0
	for range ringSize + 2 {
		if g.ConsumeDirty() {
			writes++
		}
	}
	assert.Equal(t, ringSize, writes)
	assert.Equal(t, 0, g.NumFramesDirty())

	// a change mid-way restarts the count
	g.SetTexTransform(mgl32.Scale3D(2, 2, 1), ringSize)
	g.ConsumeDirty()
	g.SetWorld(mgl32.Ident4(), ringSize)
	assert.Equal(t, ringSize, g.NumFramesDirty())
}
