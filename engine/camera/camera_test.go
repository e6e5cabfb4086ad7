package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-4

func TestControllerDefaults(t *testing.T) {
	cc := NewCameraController()
	assert.InDelta(t, 1.5*math.Pi, cc.Theta(), epsilon)
	assert.InDelta(t, 0.2*math.Pi, cc.Phi(), epsilon)
	assert.InDelta(t, 100, cc.Radius(), epsilon)
	assert.InDelta(t, 100, cc.Position().Len(), 1e-3)
}

func TestLeftDragRotatesQuarterDegreePerPixel(t *testing.T) {
	cc := NewCameraController()
	theta, phi, radius := cc.Theta(), cc.Phi(), cc.Radius()

	cc.Rotate(40, 0)

	assert.InDelta(t, theta+mgl32.DegToRad(10), cc.Theta(), epsilon)
	assert.InDelta(t, phi, cc.Phi(), epsilon)
	assert.InDelta(t, radius, cc.Radius(), epsilon)
}

func TestRightDragZooms(t *testing.T) {
	cc := NewCameraController()
	theta, phi := cc.Theta(), cc.Phi()

	cc.Zoom(0, -20)

	assert.InDelta(t, 101, cc.Radius(), epsilon)
	assert.InDelta(t, theta, cc.Theta(), epsilon)
	assert.InDelta(t, phi, cc.Phi(), epsilon)
}

func TestControllerClamps(t *testing.T) {
	cc := NewCameraController()

	cc.Rotate(0, 1e6)
	assert.InDelta(t, math.Pi-0.1, cc.Phi(), epsilon)
	cc.Rotate(0, -1e6)
	assert.InDelta(t, 0.1, cc.Phi(), epsilon)

	cc.Zoom(1e6, 0)
	assert.InDelta(t, 150, cc.Radius(), epsilon)
	cc.Zoom(-1e6, 0)
	assert.InDelta(t, 5, cc.Radius(), epsilon)

	cc.SetRadius(-3)
	assert.InDelta(t, 5, cc.Radius(), epsilon)
}

func TestControllerOptions(t *testing.T) {
	cc := NewCameraController(
		WithRadius(20),
		WithTarget(1, 2, 3),
		WithRadiusBounds(10, 30),
		WithRotateSpeed(1),
	)
	assert.InDelta(t, 20, cc.Radius(), epsilon)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cc.Target())
	assert.InDelta(t, 20, cc.Position().Sub(cc.Target()).Len(), 1e-3)
	assert.InDelta(t, mgl32.DegToRad(1), cc.RotateSpeed(), epsilon)

	cc.SetSpeeds(0.5, 0.2)
	assert.InDelta(t, mgl32.DegToRad(0.5), cc.RotateSpeed(), epsilon)
	assert.InDelta(t, 0.2, cc.ZoomSpeed(), epsilon)
}

func TestViewMapsEyeToOriginAndTargetForward(t *testing.T) {
	cc := NewCameraController()
	cam := NewCamera(WithController(cc))

	view := cam.View()
	eye := view.Mul4x1(cam.Eye().Vec4(1))
	assert.InDelta(t, 0, eye.Vec3().Len(), 1e-3)

	target := view.Mul4x1(cc.Target().Vec4(1))
	assert.InDelta(t, 0, target.X(), 1e-3)
	assert.InDelta(t, 0, target.Y(), 1e-3)
	assert.InDelta(t, cc.Radius(), target.Z(), 1e-3)
}

func TestProjectionDepthRange(t *testing.T) {
	cam := NewCamera(WithLens(0.25*math.Pi, 16.0/9.0, 1, 1000))
	proj := cam.Proj()

	near := proj.Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	far := proj.Mul4x1(mgl32.Vec4{0, 0, 1000, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), epsilon)
	assert.InDelta(t, 1, far.Z()/far.W(), epsilon)
}

func TestCameraUpdateFollowsController(t *testing.T) {
	cc := NewCameraController()
	cam := NewCamera(WithController(cc))
	before := cam.Eye()

	cc.Rotate(90, 0)
	assert.Equal(t, before, cam.Eye(), "eye only moves on Update")

	cam.Update()
	assert.Equal(t, cc.Position(), cam.Eye())
	assert.NotEqual(t, before, cam.Eye())
}

func TestSetAspectKeepsViewProjInSync(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController()))
	cam.SetAspect(2)
	assert.InDelta(t, 2, cam.Aspect(), epsilon)
	assert.True(t, cam.ViewProj().ApproxEqualThreshold(cam.Proj().Mul4(cam.View()), 1e-4))
}

func TestFillPassConstants(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController()))

	var pc GPUPassConstants
	require.Equal(t, 640, pc.Size())
	cam.FillPassConstants(&pc)

	assert.Equal(t, [16]float32(cam.View()), pc.View)
	assert.Equal(t, [3]float32(cam.Eye()), pc.EyePosW)
	assert.Equal(t, float32(1), pc.NearZ)
	assert.Equal(t, float32(1000), pc.FarZ)

	identity := mgl32.Mat4(pc.View).Mul4(mgl32.Mat4(pc.InvView))
	assert.True(t, identity.ApproxEqualThreshold(mgl32.Ident4(), 1e-4))

	buf := pc.Marshal()
	assert.Len(t, buf, 640)
}

func TestSetLensKeepsView(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController()))
	view := cam.View()

	lens := Lens{FovY: mgl32.DegToRad(60), Aspect: 2, Near: 0.5, Far: 500}
	cam.SetLens(lens)
	assert.Equal(t, lens, cam.Lens())
	assert.Equal(t, view, cam.View())
	assert.True(t, cam.Proj().ApproxEqualThreshold(lens.Proj(), 1e-6))
	assert.True(t, cam.ViewProj().ApproxEqualThreshold(lens.Proj().Mul4(view), 1e-4))

	var pc GPUPassConstants
	cam.FillPassConstants(&pc)
	assert.Equal(t, float32(0.5), pc.NearZ)
	assert.Equal(t, float32(500), pc.FarZ)
}

func TestCameraWithoutControllerKeepsIdentityView(t *testing.T) {
	cam := NewCamera(WithAspect(1.5))
	cam.Update()
	assert.Equal(t, mgl32.Ident4(), cam.View())
	assert.Nil(t, cam.Controller())
	assert.InDelta(t, 1.5, cam.Aspect(), epsilon)
	assert.Equal(t, DefaultLens.FovY, cam.Lens().FovY)
}

func TestOrbitLimitsClamp(t *testing.T) {
	o := DefaultOrbitLimits.Clamp(Orbit{Radius: 500, Theta: 7, Phi: -1})
	assert.InDelta(t, 150, o.Radius, epsilon)
	assert.InDelta(t, 7, o.Theta, epsilon)
	assert.InDelta(t, 0.1, o.Phi, epsilon)
}

func TestSetOrbitClampsAndMovesEye(t *testing.T) {
	cc := NewCameraController()
	cc.SetOrbit(Orbit{Target: mgl32.Vec3{0, 10, 0}, Radius: 1, Theta: 0, Phi: math.Pi / 2})

	o := cc.Orbit()
	assert.InDelta(t, DefaultOrbitLimits.MinRadius, o.Radius, epsilon)
	assert.Equal(t, o.Eye(), cc.Position())
	assert.InDelta(t, 5, cc.Position().X(), 1e-3)
	assert.InDelta(t, 10, cc.Position().Y(), 1e-3)
	assert.Equal(t, DefaultOrbitLimits, cc.Limits())
}
