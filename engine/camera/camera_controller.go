package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Orbit places the eye on a sphere around Target. Theta is the azimuth in the XZ plane measured
// from +X towards +Z, Phi the polar angle from +Y, both in radians.
type Orbit struct {
	Target mgl32.Vec3
	Radius float32
	Theta  float32
	Phi    float32
}

// Eye returns the world-space position the orbit describes.
func (o Orbit) Eye() mgl32.Vec3 {
	return o.Target.Add(common.SphericalToCartesian(o.Radius, o.Theta, o.Phi))
}

// OrbitLimits bounds the radius and keeps Phi PhiMargin radians away from either pole, so the
// view never looks straight along the up axis.
type OrbitLimits struct {
	MinRadius float32
	MaxRadius float32
	PhiMargin float32
}

// Clamp returns o with Radius and Phi moved inside the limits. Theta is unbounded.
func (l OrbitLimits) Clamp(o Orbit) Orbit {
	o.Radius = mgl32.Clamp(o.Radius, l.MinRadius, l.MaxRadius)
	o.Phi = mgl32.Clamp(o.Phi, l.PhiMargin, math.Pi-l.PhiMargin)
	return o
}

// DefaultOrbit looks down at the origin from the -Z side, 36° off vertical.
var DefaultOrbit = Orbit{Radius: 100, Theta: 1.5 * math.Pi, Phi: 0.2 * math.Pi}

// DefaultOrbitLimits allow zooming between 5 and 150 units.
var DefaultOrbitLimits = OrbitLimits{MinRadius: 5, MaxRadius: 150, PhiMargin: 0.1}

// CameraController is the mouse orbit control of the castle camera. It owns the eye position;
// Camera reads Position and Target from it to build the view matrix.
type CameraController interface {
	Position() mgl32.Vec3
	Target() mgl32.Vec3

	// SetTarget moves the pivot point, carrying the eye along.
	SetTarget(target mgl32.Vec3)

	// Orbit returns a snapshot of the current orbit.
	Orbit() Orbit

	// SetOrbit replaces the orbit, clamped to Limits.
	SetOrbit(o Orbit)
	Limits() OrbitLimits

	// Rotate applies a left-button drag: theta and phi both turn by RotateSpeed per pixel.
	//
	// Parameters:
	//   - dx: horizontal drag in pixels, turning theta
	//   - dy: vertical drag in pixels, turning phi
	Rotate(dx, dy float32)

	// Zoom applies a right-button drag. The radius grows by ZoomSpeed * (dx - dy).
	//
	// Parameters:
	//   - dx: horizontal drag in pixels
	//   - dy: vertical drag in pixels
	Zoom(dx, dy float32)

	Theta() float32
	Phi() float32
	Radius() float32
	SetTheta(theta float32)
	SetPhi(phi float32)
	SetRadius(radius float32)

	// RotateSpeed is in radians per pixel and ZoomSpeed in world units per pixel.
	RotateSpeed() float32
	ZoomSpeed() float32

	// SetSpeeds replaces both drag speeds.
	//
	// Parameters:
	//   - rotateDegreesPerPixel: rotation per dragged pixel, in degrees
	//   - zoomUnitsPerPixel: radius change per dragged pixel
	SetSpeeds(rotateDegreesPerPixel, zoomUnitsPerPixel float32)
}
