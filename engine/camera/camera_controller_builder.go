package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
// Options are applied before the orbit is clamped to its limits.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the starting distance from the target.
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbit.Radius = radius
	}
}

// WithTheta sets the starting azimuth in radians.
func WithTheta(theta float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbit.Theta = theta
	}
}

// WithPhi sets the starting polar angle in radians.
func WithPhi(phi float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbit.Phi = phi
	}
}

// WithTarget sets the pivot point.
//
// Parameters:
//   - x, y, z: world-space coordinates of the target
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbit.Target = mgl32.Vec3{x, y, z}
	}
}

// WithRadiusBounds sets the closest and farthest zoom.
func WithRadiusBounds(minRadius, maxRadius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.limits.MinRadius = minRadius
		cc.limits.MaxRadius = maxRadius
	}
}

// WithPhiMargin sets how close in radians phi may come to either pole.
func WithPhiMargin(margin float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.limits.PhiMargin = margin
	}
}

// WithRotateSpeed sets the rotation per dragged pixel, in degrees.
func WithRotateSpeed(degreesPerPixel float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.speeds.rotate = mgl32.DegToRad(degreesPerPixel)
	}
}

// WithZoomSpeed sets the radius change per dragged pixel.
func WithZoomSpeed(unitsPerPixel float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.speeds.zoom = unitsPerPixel
	}
}
