package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/go-gl/mathgl/mgl32"
)

// worldUp is the up direction of every view matrix.
var worldUp = mgl32.Vec3{0, 1, 0}

// Lens is the perspective projection: vertical field of view in radians, width over height and
// the clip plane distances.
type Lens struct {
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

// DefaultLens is a 45 degree field of view with clip planes at 1 and 1000.
var DefaultLens = Lens{FovY: 0.25 * math.Pi, Aspect: 1, Near: 1, Far: 1000}

// Proj is the left-handed projection mapping view depth [Near, Far] to [0, 1].
func (l Lens) Proj() mgl32.Mat4 {
	return common.PerspectiveLH(l.FovY, l.Aspect, l.Near, l.Far)
}

// matrices are the transforms derived from the lens and the controller, with their inverses.
type matrices struct {
	eye                   mgl32.Vec3
	view, invView         mgl32.Mat4
	proj, invProj         mgl32.Mat4
	viewProj, invViewProj mgl32.Mat4
}

type cameraImpl struct {
	mu *sync.Mutex

	lens       Lens
	m          matrices
	controller CameraController
}

// Camera turns a Lens and an orbit CameraController into view and projection matrices.
// The view is recomputed from the controller only on Update, so the controller can be driven by
// input between frames without the matrices changing mid-frame.
type Camera interface {
	// Lens returns the projection parameters.
	Lens() Lens

	// Aspect returns the width over height ratio.
	Aspect() float32

	// Eye returns the world-space eye position used by the last Update.
	Eye() mgl32.Vec3

	View() mgl32.Mat4
	Proj() mgl32.Mat4

	// ViewProj returns Proj * View.
	ViewProj() mgl32.Mat4

	// Controller returns the attached controller, or nil.
	Controller() CameraController

	// Update reads the controller's position and target and recomputes the view. It does
	// nothing without a controller.
	Update()

	// SetLens replaces the projection parameters.
	SetLens(lens Lens)

	// SetAspect changes only the aspect ratio. Called when the surface is resized.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// SetController attaches a controller and updates the view from it.
	SetController(ctrl CameraController)

	// FillPassConstants writes the matrices, their inverses, the eye position and the clip
	// planes into pc. Other fields are left as they are.
	//
	// Parameters:
	//   - pc: the pass constants to fill
	FillPassConstants(pc *GPUPassConstants)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera with DefaultLens.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:   &sync.Mutex{},
		lens: DefaultLens,
		m: matrices{
			view:        mgl32.Ident4(),
			invView:     mgl32.Ident4(),
			viewProj:    mgl32.Ident4(),
			invViewProj: mgl32.Ident4(),
		},
	}
	for _, option := range options {
		option(c)
	}
	c.updateProjection()
	c.updateView()
	return c
}

func (c *cameraImpl) Lens() Lens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lens
}

func (c *cameraImpl) Aspect() float32 {
	return c.Lens().Aspect
}

func (c *cameraImpl) snapshot() matrices {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	return c.snapshot().eye
}

func (c *cameraImpl) View() mgl32.Mat4 {
	return c.snapshot().view
}

func (c *cameraImpl) Proj() mgl32.Mat4 {
	return c.snapshot().proj
}

func (c *cameraImpl) ViewProj() mgl32.Mat4 {
	return c.snapshot().viewProj
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateView()
}

func (c *cameraImpl) SetLens(lens Lens) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lens = lens
	c.updateProjection()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lens.Aspect = aspect
	c.updateProjection()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateView()
}

func (c *cameraImpl) FillPassConstants(pc *GPUPassConstants) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pc.View = c.m.view
	pc.InvView = c.m.invView
	pc.Proj = c.m.proj
	pc.InvProj = c.m.invProj
	pc.ViewProj = c.m.viewProj
	pc.InvViewProj = c.m.invViewProj
	pc.EyePosW = c.m.eye
	pc.NearZ = c.lens.Near
	pc.FarZ = c.lens.Far
}

// updateProjection recomputes the projection and the combined matrices. Caller holds the mutex.
func (c *cameraImpl) updateProjection() {
	c.m.proj = c.lens.Proj()
	c.m.invProj = c.m.proj.Inv()
	c.combine()
}

// updateView recomputes the view from the controller. Caller holds the mutex.
func (c *cameraImpl) updateView() {
	if c.controller == nil {
		return
	}
	c.m.eye = c.controller.Position()
	c.m.view = common.LookAtLH(c.m.eye, c.controller.Target(), worldUp)
	c.m.invView = c.m.view.Inv()
	c.combine()
}

func (c *cameraImpl) combine() {
	c.m.viewProj = c.m.proj.Mul4(c.m.view)
	c.m.invViewProj = c.m.viewProj.Inv()
}
