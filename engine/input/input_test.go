package input

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDragAccumulatesOnlyWhileHeld(t *testing.T) {
	in := NewInput()

	in.CursorMoved(10, 10)
	in.CursorMoved(30, 10)
	s := in.Poll()
	assert.Equal(t, [2]float32{}, s.LeftDrag)

	in.ButtonDown(MouseLeft, 30, 10)
	in.CursorMoved(50, 10)
	in.CursorMoved(70, 15)
	in.ButtonUp(MouseLeft)
	in.CursorMoved(200, 200)

	s = in.Poll()
	assert.Equal(t, [2]float32{40, 5}, s.LeftDrag)
	assert.Equal(t, [2]float32{}, s.RightDrag)
}

func TestLeftButtonTakesPrecedence(t *testing.T) {
	in := NewInput()
	in.ButtonDown(MouseLeft, 0, 0)
	in.ButtonDown(MouseRight, 0, 0)
	in.CursorMoved(40, 0)

	s := in.Poll()
	assert.Equal(t, [2]float32{40, 0}, s.LeftDrag)
	assert.Equal(t, [2]float32{}, s.RightDrag)

	in.ButtonUp(MouseLeft)
	in.CursorMoved(40, 10)
	s = in.Poll()
	assert.Equal(t, [2]float32{}, s.LeftDrag)
	assert.Equal(t, [2]float32{0, 10}, s.RightDrag)
}

func TestPollResetsDrags(t *testing.T) {
	in := NewInput()
	in.ButtonDown(MouseRight, 0, 0)
	in.CursorMoved(0, -20)

	assert.Equal(t, [2]float32{0, -20}, in.Poll().RightDrag)
	assert.Equal(t, [2]float32{}, in.Poll().RightDrag)

	in.CursorMoved(4, -20)
	assert.Equal(t, [2]float32{4, 0}, in.Poll().RightDrag)
}

func TestKeysStayHeldAcrossPolls(t *testing.T) {
	in := NewInput()
	in.KeyDown(49)

	s := in.Poll()
	assert.True(t, s.KeyDown(49))
	assert.True(t, in.Poll().KeyDown(49))

	// the snapshot is a copy
	s.Keys[50] = true
	assert.False(t, in.Poll().KeyDown(50))

	in.KeyUp(49)
	assert.False(t, in.Poll().KeyDown(49))
}

func TestInvalidButtonIgnored(t *testing.T) {
	in := NewInput()
	in.ButtonDown(MouseButton(7), 0, 0)
	in.ButtonUp(MouseButton(-1))
	in.CursorMoved(10, 10)
	s := in.Poll()
	assert.Equal(t, [2]float32{}, s.LeftDrag)
	assert.Equal(t, [2]float32{}, s.RightDrag)
}

func TestConcurrentCallbacksAndPolls(t *testing.T) {
	in := NewInput()
	in.ButtonDown(MouseLeft, 0, 0)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= 100; i++ {
			in.CursorMoved(float32(i), 0)
		}
	}()
	var total float32
	go func() {
		defer wg.Done()
		for range 50 {
			total += in.Poll().LeftDrag[0]
		}
	}()
	wg.Wait()
	total += in.Poll().LeftDrag[0]

	assert.Equal(t, float32(100), total)
}
