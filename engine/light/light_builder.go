package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithStrength sets the RGB strength of the light.
//
// Parameters:
//   - r, g, b: strength per colour channel
//
// Returns:
//   - LightBuilderOption: a function that applies the strength option to a lightImpl
func WithStrength(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.strength = mgl32.Vec3{r, g, b}
	}
}

// WithDirection sets the direction of the light. The direction is normalized before storing.
//
// Parameters:
//   - x, y, z: direction components
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = normalize(mgl32.Vec3{x, y, z})
	}
}

// WithPosition sets the world-space position of the light.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = mgl32.Vec3{x, y, z}
	}
}

// WithFalloff sets the distances between which point and spot lights attenuate linearly to zero.
//
// Parameters:
//   - start: full strength up to this distance
//   - end: zero strength beyond this distance
//
// Returns:
//   - LightBuilderOption: a function that applies the falloff option to a lightImpl
func WithFalloff(start, end float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.falloffStart = start
		l.falloffEnd = end
	}
}

// WithSpotPower sets the spot cone exponent.
func WithSpotPower(power float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.spotPower = power
	}
}

// WithEnabled enables or disables the light.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
