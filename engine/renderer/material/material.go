package material

import (
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// material is the implementation of the Material interface.
type material struct {
	name           string
	cbIndex        int
	diffuseTexture string
	diffuseAlbedo  mgl32.Vec4
	fresnelR0      mgl32.Vec3
	roughness      float32
	matTransform   mgl32.Mat4

	numFramesDirty int

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines the interface for a render material: the surface constants uploaded to the
// per-material constant buffer and the texture the lit shader samples.
//
// Surface constants follow the same dirty protocol as scene instances: every change marks the
// material dirty for as many frames as the frame ring has slots, and the per-frame updater
// uploads it once per slot.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// CBIndex returns the element index of the material in the per-material constant buffer.
	CBIndex() int

	// DiffuseTexture returns the key of the texture sampled as diffuse albedo.
	DiffuseTexture() string

	// DiffuseAlbedo returns the RGBA albedo multiplied with the diffuse texture.
	DiffuseAlbedo() mgl32.Vec4

	// FresnelR0 returns the reflectance at normal incidence.
	FresnelR0() mgl32.Vec3

	// Roughness returns the surface roughness in [0, 1].
	Roughness() float32

	// MatTransform returns the texture coordinate transform applied after the object's transform.
	MatTransform() mgl32.Mat4

	// SetDiffuseAlbedo sets the albedo and marks the material dirty.
	//
	// Parameters:
	//   - albedo: the RGBA albedo
	//   - frames: the number of frame slots that must observe the change
	SetDiffuseAlbedo(albedo mgl32.Vec4, frames int)

	// SetMatTransform sets the texture coordinate transform and marks the material dirty.
	//
	// Parameters:
	//   - m: the transform
	//   - frames: the number of frame slots that must observe the change
	SetMatTransform(m mgl32.Mat4, frames int)

	// NumFramesDirty returns how many frame slots still need the current constants.
	NumFramesDirty() int

	// MarkDirty requests that the next frames slots receive the current constants.
	//
	// Parameters:
	//   - frames: the frame ring size
	MarkDirty(frames int)

	// ConsumeDirty decrements the dirty counter if it is positive.
	//
	// Returns:
	//   - bool: true if the caller must upload the constants for the current slot
	ConsumeDirty() bool

	// Constants packs the material into its GPU layout.
	//
	// Returns:
	//   - GPUMaterialConstants: the packed constants
	Constants() GPUMaterialConstants

	// BindGroupProvider retrieves the provider holding the material's texture and sampler bind group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider, or nil before GPU initialization
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider sets the provider holding the material's texture and sampler bind group.
	//
	// Parameters:
	//   - provider: the provider to store
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material. Materials start with an identity MatTransform, white albedo
// and a dirty counter of zero; callers mark them dirty once the frame ring size is known.
//
// Parameters:
//   - options: functional options applied to the material
//
// Returns:
//   - Material: the configured material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		diffuseAlbedo: mgl32.Vec4{1, 1, 1, 1},
		fresnelR0:     mgl32.Vec3{0.01, 0.01, 0.01},
		roughness:     0.25,
		matTransform:  mgl32.Ident4(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) CBIndex() int {
	return m.cbIndex
}

func (m *material) DiffuseTexture() string {
	return m.diffuseTexture
}

func (m *material) DiffuseAlbedo() mgl32.Vec4 {
	return m.diffuseAlbedo
}

func (m *material) FresnelR0() mgl32.Vec3 {
	return m.fresnelR0
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) MatTransform() mgl32.Mat4 {
	return m.matTransform
}

func (m *material) SetDiffuseAlbedo(albedo mgl32.Vec4, frames int) {
	m.diffuseAlbedo = albedo
	m.MarkDirty(frames)
}

func (m *material) SetMatTransform(t mgl32.Mat4, frames int) {
	m.matTransform = t
	m.MarkDirty(frames)
}

func (m *material) NumFramesDirty() int {
	return m.numFramesDirty
}

func (m *material) MarkDirty(frames int) {
	m.numFramesDirty = frames
}

func (m *material) ConsumeDirty() bool {
	if m.numFramesDirty <= 0 {
		return false
	}
	m.numFramesDirty--
	return true
}

func (m *material) Constants() GPUMaterialConstants {
	return GPUMaterialConstants{
		DiffuseAlbedo: m.diffuseAlbedo,
		FresnelR0:     m.fresnelR0,
		Roughness:     m.roughness,
		MatTransform:  m.matTransform,
	}
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}
