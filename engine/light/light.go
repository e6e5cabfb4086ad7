package light

import (
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Affects all fragments uniformly with no distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Attenuates linearly between FalloffStart and FalloffEnd.
	LightTypePoint

	// LightTypeSpot represents a point light whose intensity is further shaped by
	// max(dot(-L, direction), 0)^SpotPower.
	LightTypeSpot
)

func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType    LightType
	strength     mgl32.Vec3
	direction    mgl32.Vec3
	position     mgl32.Vec3
	falloffStart float32
	falloffEnd   float32
	spotPower    float32
	enabled      bool
}

// Light defines the interface for a light source in the pass constants.
//
// The lit shader evaluates up to MaxLights lights per pass, ordered directional first,
// then point, then spot. Type-specific properties are ignored by types that do not use them.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// Strength returns the RGB radiant strength of the light.
	//
	// Returns:
	//   - mgl32.Vec3: strength per colour channel
	Strength() mgl32.Vec3

	// Direction returns the normalized direction the light travels.
	// Meaningless for point lights.
	//
	// Returns:
	//   - mgl32.Vec3: normalized direction
	Direction() mgl32.Vec3

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - mgl32.Vec3: world-space position
	Position() mgl32.Vec3

	// Falloff returns the distances at which linear attenuation starts and reaches zero.
	//
	// Returns:
	//   - start: full strength up to this distance
	//   - end: zero strength beyond this distance
	Falloff() (start, end float32)

	// SpotPower returns the exponent of the spot cone falloff.
	SpotPower() float32

	// Enabled returns whether this light is uploaded to the GPU.
	Enabled() bool

	// SetStrength sets the RGB strength of the light.
	SetStrength(strength mgl32.Vec3)

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - direction: direction vector (will be normalized)
	SetDirection(direction mgl32.Vec3)

	// SetPosition sets the world-space position of the light.
	SetPosition(position mgl32.Vec3)

	// SetFalloff sets the attenuation distances.
	//
	// Parameters:
	//   - start: full strength up to this distance
	//   - end: zero strength beyond this distance
	SetFalloff(start, end float32)

	// SetSpotPower sets the spot cone exponent.
	SetSpotPower(power float32)

	// SetEnabled enables or disables the light for rendering.
	SetEnabled(enabled bool)

	// GPU converts the light into its GPU layout.
	//
	// Returns:
	//   - GPULight: the packed light
	GPU() GPULight
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with the defaults of the
// lit shader (strength 0.5, falloff 1..10, spot power 64, pointing down).
//
// Parameters:
//   - lightType: the kind of light to create (directional, point, or spot)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:    lightType,
		strength:     mgl32.Vec3{0.5, 0.5, 0.5},
		direction:    mgl32.Vec3{0, -1, 0},
		falloffStart: 1,
		falloffEnd:   10,
		spotPower:    64,
		enabled:      true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Strength() mgl32.Vec3 {
	return l.strength
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Falloff() (start, end float32) {
	return l.falloffStart, l.falloffEnd
}

func (l *lightImpl) SpotPower() float32 {
	return l.spotPower
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetStrength(strength mgl32.Vec3) {
	l.strength = strength
}

func (l *lightImpl) SetDirection(direction mgl32.Vec3) {
	l.direction = normalize(direction)
}

func (l *lightImpl) SetPosition(position mgl32.Vec3) {
	l.position = position
}

func (l *lightImpl) SetFalloff(start, end float32) {
	l.falloffStart = start
	l.falloffEnd = end
}

func (l *lightImpl) SetSpotPower(power float32) {
	l.spotPower = power
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) GPU() GPULight {
	return GPULight{
		Strength:     l.strength,
		FalloffStart: l.falloffStart,
		Direction:    l.direction,
		FalloffEnd:   l.falloffEnd,
		Position:     l.position,
		SpotPower:    l.spotPower,
	}
}

// normalize returns v scaled to unit length, or v unchanged when it has zero length.
func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}
