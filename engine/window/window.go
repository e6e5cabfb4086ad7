package window

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-castle/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrWindowClosed is returned by Close when the platform window was never opened.
var ErrWindowClosed = errors.New("window is not open")

// Window is the platform window the castle renders into.
// Mouse buttons, cursor movement and keys are recorded into an input.Input that the render
// goroutine polls once per frame. Every method except Input, Width and Height must be called
// from the goroutine that created the window.
type Window interface {
	// SetUpdateCallback sets the function called once per message loop iteration, on the window thread.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called with the new framebuffer size in pixels.
	SetResizeCallback(callback func(width, height int))

	// Input returns the accumulator fed by the window's mouse and keyboard callbacks.
	//
	// Returns:
	//   - *input.Input: the shared input accumulator
	Input() *input.Input

	// SurfaceDescriptor returns the platform surface (HWND, Xlib, Wayland or Metal layer) for
	// creating a WebGPU surface.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the surface descriptor, or nil once the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is open and has not been asked to close.
	IsRunning() bool

	// Close destroys the platform window. Later calls do nothing.
	//
	// Returns:
	//   - error: ErrWindowClosed if the window was never opened
	Close() error

	// ProcessMessages polls window events until the window closes, calling the update callback
	// after every poll.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// sizeLimits bounds interactive resizing; zero means unlimited.
type sizeLimits struct {
	minWidth, minHeight int
	maxWidth, maxHeight int
}

// engineWindow implements Window on top of a GLFW window.
type engineWindow struct {
	title  string
	limits sizeLimits

	// mu guards width and height, which the resize callback writes on the window thread.
	mu            sync.Mutex
	width, height int

	platform *glfwWindow
	closed   bool

	onUpdate func()
	onResize func(width, height int)

	input *input.Input
}

var _ Window = &engineWindow{}

// NewWindow opens a window with the given options. It locks the calling goroutine to its OS thread,
// which then has to run ProcessMessages.
// Platform failures panic.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:  "Castle",
		width:  1280,
		height: 720,
		input:  input.NewInput(),
	}
	for _, opt := range options {
		opt(w)
	}
	p, err := openGLFWWindow(w)
	if err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	w.platform = p
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) Input() *input.Input {
	return w.input
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.platform == nil || w.closed {
		return nil
	}
	return w.platform.surfaceDescriptor()
}

func (w *engineWindow) IsRunning() bool {
	return w.platform != nil && !w.closed && w.platform.running()
}

func (w *engineWindow) Close() error {
	if w.platform == nil {
		return ErrWindowClosed
	}
	if w.closed {
		return nil
	}
	w.closed = true
	w.platform.destroy()
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		w.platform.poll()
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// resized records a new framebuffer size and forwards it to the resize callback.
func (w *engineWindow) resized(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
