package renderer

import (
	"context"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/engine/frame"
	"github.com/cogentcore/webgpu/wgpu"
)

// queueFence is a frame.Fence driven by queue completion callbacks. Each Signal registers a
// work-done callback for everything submitted so far; Wait polls the device until the callback
// for the requested marker has fired.
type queueFence struct {
	mu        sync.Mutex
	current   uint64
	completed uint64

	// poll drives pending callbacks. With wait set it blocks until the queue is idle.
	poll func(wait bool)
	// onDone registers fn to run once all work submitted so far has finished.
	onDone func(fn func())
}

var _ frame.Fence = &queueFence{}

func newWGPUFence(device *wgpu.Device, queue *wgpu.Queue) *queueFence {
	return &queueFence{
		poll: func(wait bool) {
			device.Poll(wait, nil)
		},
		onDone: func(fn func()) {
			queue.OnSubmittedWorkDone(func(status wgpu.QueueWorkDoneStatus) {
				if status != wgpu.QueueWorkDoneStatusSuccess {
					common.LogWarn("queue work done with status %d", status)
				}
				fn()
			})
		},
	}
}

func (f *queueFence) Signal() uint64 {
	f.mu.Lock()
	f.current++
	value := f.current
	f.mu.Unlock()

	f.onDone(func() { f.complete(value) })
	return value
}

// complete raises the completed marker to value. Callbacks may arrive out of order.
func (f *queueFence) complete(value uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = max(f.completed, value)
}

func (f *queueFence) Current() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *queueFence) Completed() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

func (f *queueFence) Wait(ctx context.Context, value uint64) error {
	if f.Completed() >= value {
		return nil
	}
	f.poll(false)
	for f.Completed() < value {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("wait for fence value %d: %w", value, err)
		}
		if value > f.Current() {
			return fmt.Errorf("wait for fence value %d: never signalled, current is %d", value, f.Current())
		}
		f.poll(true)
	}
	return nil
}
