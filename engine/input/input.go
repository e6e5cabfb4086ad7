// Package input accumulates mouse drags and key state delivered by window callbacks so the
// render goroutine can read them once per frame.
package input

import "sync"

// MouseButton identifies the buttons that drive the orbit camera.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	mouseButtonCount
)

// State is a snapshot of the input gathered since the previous Poll.
type State struct {
	// LeftDrag is the cursor movement in pixels while the left button was held.
	LeftDrag [2]float32
	// RightDrag is the cursor movement in pixels while the right button was held.
	RightDrag [2]float32
	// Keys holds every key that is down at the time of the poll.
	Keys map[uint32]bool
}

// KeyDown reports whether key was held when the state was polled.
func (s State) KeyDown(key uint32) bool {
	return s.Keys[key]
}

// Input is the shared accumulator between the window's message loop and the render goroutine.
// Callback methods may be called from any goroutine; Poll drains the accumulated deltas.
type Input struct {
	mu sync.Mutex

	buttons    [mouseButtonCount]bool
	lastX      float32
	lastY      float32
	haveCursor bool

	drag [mouseButtonCount][2]float32
	keys map[uint32]bool
}

// NewInput creates an empty accumulator.
//
// Returns:
//   - *Input: an accumulator with no buttons or keys held
func NewInput() *Input {
	return &Input{
		keys: make(map[uint32]bool),
	}
}

// ButtonDown records a button press at the cursor position (x, y). Later cursor movement
// accumulates into that button's drag until ButtonUp.
//
// Parameters:
//   - b: the pressed button
//   - x, y: the cursor position in pixels
func (in *Input) ButtonDown(b MouseButton, x, y float32) {
	if b < 0 || b >= mouseButtonCount {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.buttons[b] = true
	in.lastX, in.lastY = x, y
	in.haveCursor = true
}

// ButtonUp records a button release.
func (in *Input) ButtonUp(b MouseButton) {
	if b < 0 || b >= mouseButtonCount {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	in.buttons[b] = false
}

// CursorMoved records the cursor position. The movement since the previous position is added
// to the drag of the held button that comes first in MouseButton order, so with both buttons
// down the cursor only rotates.
//
// Parameters:
//   - x, y: the cursor position in pixels
func (in *Input) CursorMoved(x, y float32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.haveCursor {
		for b, held := range in.buttons {
			if held {
				in.drag[b][0] += x - in.lastX
				in.drag[b][1] += y - in.lastY
				break
			}
		}
	}
	in.lastX, in.lastY = x, y
	in.haveCursor = true
}

// KeyDown marks key as held.
func (in *Input) KeyDown(key uint32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.keys[key] = true
}

// KeyUp marks key as released.
func (in *Input) KeyUp(key uint32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.keys, key)
}

// Poll returns the drags accumulated since the previous call and the keys currently held,
// then resets the drags.
//
// Returns:
//   - State: the snapshot; its Keys map is a copy
func (in *Input) Poll() State {
	in.mu.Lock()
	defer in.mu.Unlock()

	s := State{
		LeftDrag:  in.drag[MouseLeft],
		RightDrag: in.drag[MouseRight],
		Keys:      make(map[uint32]bool, len(in.keys)),
	}
	for k := range in.keys {
		s.Keys[k] = true
	}
	in.drag = [mouseButtonCount][2]float32{}
	return s
}
