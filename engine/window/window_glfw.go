package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-castle/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow owns the GLFW handle and routes its callbacks into the engine window.
type glfwWindow struct {
	owner  *engineWindow
	handle *glfw.Window
}

// openGLFWWindow initialises GLFW, creates a window without a client API (WebGPU owns presentation)
// and registers the input and resize callbacks.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func openGLFWWindow(w *engineWindow) (*glfwWindow, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	handle, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	gw := &glfwWindow{owner: w, handle: handle}

	if l := w.limits; l != (sizeLimits{}) {
		handle.SetSizeLimits(dontCareIfZero(l.minWidth), dontCareIfZero(l.minHeight),
			dontCareIfZero(l.maxWidth), dontCareIfZero(l.maxHeight))
	}

	handle.SetKeyCallback(gw.onKey)
	handle.SetMouseButtonCallback(gw.onMouseButton)
	handle.SetCursorPosCallback(gw.onCursorPos)
	// Framebuffer size, not window size: on high-DPI displays the two differ and the surface
	// is configured in pixels.
	handle.SetFramebufferSizeCallback(gw.onFramebufferSize)

	fbWidth, fbHeight := handle.GetFramebufferSize()
	w.width, w.height = fbWidth, fbHeight

	return gw, nil
}

func dontCareIfZero(v int) int {
	if v <= 0 {
		return glfw.DontCare
	}
	return v
}

// onKey closes the window on Escape and records every other key as held or released.
func (gw *glfwWindow) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		gw.handle.SetShouldClose(true)
		return
	}
	switch action {
	case glfw.Press:
		gw.owner.input.KeyDown(uint32(key))
	case glfw.Release:
		gw.owner.input.KeyUp(uint32(key))
	}
}

// onMouseButton starts and ends drags. Only the left and right buttons drive the camera.
func (gw *glfwWindow) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	var b input.MouseButton
	switch button {
	case glfw.MouseButtonLeft:
		b = input.MouseLeft
	case glfw.MouseButtonRight:
		b = input.MouseRight
	default:
		return
	}
	switch action {
	case glfw.Press:
		x, y := gw.handle.GetCursorPos()
		gw.owner.input.ButtonDown(b, float32(x), float32(y))
	case glfw.Release:
		gw.owner.input.ButtonUp(b)
	}
}

func (gw *glfwWindow) onCursorPos(_ *glfw.Window, x, y float64) {
	gw.owner.input.CursorMoved(float32(x), float32(y))
}

func (gw *glfwWindow) onFramebufferSize(_ *glfw.Window, width, height int) {
	gw.owner.resized(width, height)
}

// surfaceDescriptor asks the wgpuglfw bridge for the platform surface.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func (gw *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(gw.handle)
}

func (gw *glfwWindow) running() bool {
	return !gw.handle.ShouldClose()
}

// poll processes pending events without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func (gw *glfwWindow) poll() {
	glfw.PollEvents()
}

// destroy releases the window and shuts GLFW down.
func (gw *glfwWindow) destroy() {
	gw.handle.Destroy()
	glfw.Terminate()
}
