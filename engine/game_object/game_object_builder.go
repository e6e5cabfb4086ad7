package game_object

import (
	"github.com/Carmen-Shannon/oxy-castle/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject.
type GameObjectBuilderOption func(*gameObject)

// WithID sets a fixed ID instead of a random one.
//
// Parameters:
//   - id: the ID to assign
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithID(id uuid.UUID) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.id = id
	}
}

// WithName sets the debug name.
func WithName(name string) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.name = name
	}
}

// WithEnabled sets whether the object is drawn. Objects are enabled by default.
//
// Parameters:
//   - enabled: true to enable
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.enabled = enabled
	}
}

// WithObjectIndex sets the element index in the per-object constant buffer.
//
// Parameters:
//   - index: the element index
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithObjectIndex(index int) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.objectIndex = index
	}
}

// WithSubmesh sets the shape drawn for the object.
func WithSubmesh(s geometry.Submesh) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.submesh = s
	}
}

// WithMaterial sets the name of the material the object is drawn with.
func WithMaterial(name string) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.material = name
	}
}

// WithWorld sets the initial world transform. It does not mark the object dirty.
//
// Parameters:
//   - world: the object-to-world transform
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithWorld(world mgl32.Mat4) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.world = world
	}
}

// WithTexTransform sets the initial texture coordinate transform. It does not mark the object dirty.
//
// Parameters:
//   - t: the texture coordinate transform
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithTexTransform(t mgl32.Mat4) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.texTransform = t
	}
}

// WithFramesDirty sets the initial dirty counter, normally the frame ring size.
func WithFramesDirty(frames int) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.numFramesDirty = frames
	}
}
