package material

import (
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// MaterialBuilderOption is a functional option used to configure a Material during construction.
type MaterialBuilderOption func(*material)

// WithName sets the name of the material.
//
// Parameters:
//   - name: the material identifier
//
// Returns:
//   - MaterialBuilderOption: a function that sets the material name
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithCBIndex sets the element index of the material in the per-material constant buffer.
//
// Parameters:
//   - index: the element index
//
// Returns:
//   - MaterialBuilderOption: a function that sets the constant buffer index
func WithCBIndex(index int) MaterialBuilderOption {
	return func(m *material) {
		m.cbIndex = index
	}
}

// WithDiffuseTexture sets the key of the texture sampled as diffuse albedo.
//
// Parameters:
//   - key: the texture key
//
// Returns:
//   - MaterialBuilderOption: a function that sets the diffuse texture
func WithDiffuseTexture(key string) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseTexture = key
	}
}

// WithDiffuseAlbedo sets the RGBA albedo.
//
// Parameters:
//   - albedo: the RGBA albedo
//
// Returns:
//   - MaterialBuilderOption: a function that sets the albedo
func WithDiffuseAlbedo(albedo mgl32.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseAlbedo = albedo
	}
}

// WithFresnelR0 sets the reflectance at normal incidence. The same value is used for each channel.
//
// Parameters:
//   - r0: the reflectance
//
// Returns:
//   - MaterialBuilderOption: a function that sets the Fresnel term
func WithFresnelR0(r0 float32) MaterialBuilderOption {
	return func(m *material) {
		m.fresnelR0 = mgl32.Vec3{r0, r0, r0}
	}
}

// WithRoughness sets the surface roughness, clamped to [0, 1].
//
// Parameters:
//   - roughness: the roughness
//
// Returns:
//   - MaterialBuilderOption: a function that sets the roughness
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = mgl32.Clamp(roughness, 0, 1)
	}
}

// WithMatTransform sets the texture coordinate transform.
func WithMatTransform(t mgl32.Mat4) MaterialBuilderOption {
	return func(m *material) {
		m.matTransform = t
	}
}

// WithBindGroupProvider sets the provider holding the material's texture and sampler bind group.
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) MaterialBuilderOption {
	return func(m *material) {
		m.bindGroupProvider = provider
	}
}
