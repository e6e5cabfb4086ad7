package camera

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// dragSpeeds convert dragged pixels into orbit changes.
type dragSpeeds struct {
	rotate float32 // radians per pixel
	zoom   float32 // world units per pixel
}

type cameraControllerImpl struct {
	mu     sync.Mutex
	orbit  Orbit
	limits OrbitLimits
	speeds dragSpeeds

	// eye is orbit.Eye(), cached because the camera reads it every frame
	eye mgl32.Vec3
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller starting at DefaultOrbit within
// DefaultOrbitLimits, turning 0.25° and zooming 0.05 units per dragged pixel.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		orbit:  DefaultOrbit,
		limits: DefaultOrbitLimits,
		speeds: dragSpeeds{rotate: mgl32.DegToRad(0.25), zoom: 0.05},
	}
	for _, option := range options {
		option(cc)
	}
	cc.set(cc.orbit)
	return cc
}

// set clamps o and makes it current. Callers hold cc.mu, except during construction.
func (cc *cameraControllerImpl) set(o Orbit) {
	cc.orbit = cc.limits.Clamp(o)
	cc.eye = cc.orbit.Eye()
}

// update applies change to a copy of the orbit under the lock.
func (cc *cameraControllerImpl) update(change func(o *Orbit)) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	o := cc.orbit
	change(&o)
	cc.set(o)
}

func (cc *cameraControllerImpl) Orbit() Orbit {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.orbit
}

func (cc *cameraControllerImpl) SetOrbit(o Orbit) {
	cc.update(func(cur *Orbit) { *cur = o })
}

func (cc *cameraControllerImpl) Limits() OrbitLimits {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.limits
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.eye
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 { return cc.Orbit().Target }
func (cc *cameraControllerImpl) Theta() float32     { return cc.Orbit().Theta }
func (cc *cameraControllerImpl) Phi() float32       { return cc.Orbit().Phi }
func (cc *cameraControllerImpl) Radius() float32    { return cc.Orbit().Radius }

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.update(func(o *Orbit) { o.Target = target })
}

func (cc *cameraControllerImpl) SetTheta(theta float32) {
	cc.update(func(o *Orbit) { o.Theta = theta })
}

func (cc *cameraControllerImpl) SetPhi(phi float32) {
	cc.update(func(o *Orbit) { o.Phi = phi })
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.update(func(o *Orbit) { o.Radius = radius })
}

func (cc *cameraControllerImpl) Rotate(dx, dy float32) {
	cc.update(func(o *Orbit) {
		o.Theta += dx * cc.speeds.rotate
		o.Phi += dy * cc.speeds.rotate
	})
}

func (cc *cameraControllerImpl) Zoom(dx, dy float32) {
	cc.update(func(o *Orbit) {
		o.Radius += cc.speeds.zoom * (dx - dy)
	})
}

func (cc *cameraControllerImpl) RotateSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.speeds.rotate
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.speeds.zoom
}

func (cc *cameraControllerImpl) SetSpeeds(rotateDegreesPerPixel, zoomUnitsPerPixel float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.speeds = dragSpeeds{rotate: mgl32.DegToRad(rotateDegreesPerPixel), zoom: zoomUnitsPerPixel}
}
