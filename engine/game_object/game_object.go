package game_object

import (
	"github.com/Carmen-Shannon/oxy-castle/engine/geometry"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type gameObject struct {
	id          uuid.UUID
	name        string
	enabled     bool
	objectIndex int
	submesh     geometry.Submesh
	material    string

	world        mgl32.Mat4
	texTransform mgl32.Mat4

	numFramesDirty int
}

// GameObject is one placed instance of a shared mesh shape: its world and texture transforms, the
// element it owns in the per-object constant buffer, and the shape and material it draws with.
//
// Transform changes follow the dirty protocol: the object is marked dirty for as many frames as
// the frame ring has slots, and the per-frame updater writes its constants once per slot until
// the counter reaches zero. GameObjects are owned by the render goroutine and are not safe for
// concurrent use.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uuid.UUID: the object ID
	ID() uuid.UUID

	// Name returns the object's debug name.
	Name() string

	// Enabled returns whether this object is drawn.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// ObjectIndex returns the element index of this object in the per-object constant buffer.
	ObjectIndex() int

	// Submesh returns the shape drawn for this object.
	Submesh() geometry.Submesh

	// Material returns the name of the material this object is drawn with.
	Material() string

	// World returns the object-to-world transform.
	World() mgl32.Mat4

	// TexTransform returns the texture coordinate transform.
	TexTransform() mgl32.Mat4

	// NumFramesDirty returns how many frame slots still need the current constants.
	NumFramesDirty() int

	// SetEnabled sets whether the object is drawn.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetWorld replaces the world transform and marks the object dirty.
	//
	// Parameters:
	//   - world: the new object-to-world transform
	//   - frames: the frame ring size
	SetWorld(world mgl32.Mat4, frames int)

	// SetTexTransform replaces the texture transform and marks the object dirty.
	//
	// Parameters:
	//   - t: the new texture coordinate transform
	//   - frames: the frame ring size
	SetTexTransform(t mgl32.Mat4, frames int)

	// MarkDirty requests that the next frames slots receive the current constants.
	//
	// Parameters:
	//   - frames: the frame ring size
	MarkDirty(frames int)

	// ConsumeDirty decrements the dirty counter if it is positive.
	//
	// Returns:
	//   - bool: true if the caller must write the constants into the current slot
	ConsumeDirty() bool
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new enabled GameObject with a random ID, identity transforms and a
// dirty counter of zero.
//
// Parameters:
//   - options: functional options to configure the GameObject
//
// Returns:
//   - GameObject: a new GameObject instance
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	g := &gameObject{
		id:           uuid.New(),
		enabled:      true,
		world:        mgl32.Ident4(),
		texTransform: mgl32.Ident4(),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *gameObject) ID() uuid.UUID {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled
}

func (g *gameObject) ObjectIndex() int {
	return g.objectIndex
}

func (g *gameObject) Submesh() geometry.Submesh {
	return g.submesh
}

func (g *gameObject) Material() string {
	return g.material
}

func (g *gameObject) World() mgl32.Mat4 {
	return g.world
}

func (g *gameObject) TexTransform() mgl32.Mat4 {
	return g.texTransform
}

func (g *gameObject) NumFramesDirty() int {
	return g.numFramesDirty
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled = enabled
}

func (g *gameObject) SetWorld(world mgl32.Mat4, frames int) {
	g.world = world
	g.MarkDirty(frames)
}

func (g *gameObject) SetTexTransform(t mgl32.Mat4, frames int) {
	g.texTransform = t
	g.MarkDirty(frames)
}

func (g *gameObject) MarkDirty(frames int) {
	g.numFramesDirty = frames
}

func (g *gameObject) ConsumeDirty() bool {
	if g.numFramesDirty <= 0 {
		return false
	}
	g.numFramesDirty--
	return true
}
