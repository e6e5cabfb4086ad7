package frame

import (
	"context"
	"fmt"
	"sync"
)

// Fence is a monotonically increasing completion marker shared between the CPU and the GPU.
// Signal hands out the next marker value after a submission; the GPU (or a test driver)
// later reports that value as completed.
type Fence interface {
	// Signal advances the marker and returns the new value. The value is considered
	// completed once all work submitted before the call has finished.
	//
	// Returns:
	//   - uint64: the new marker value, strictly greater than every previous one
	Signal() uint64

	// Completed returns the highest marker value known to be completed.
	Completed() uint64

	// Current returns the last value handed out by Signal, or 0 if Signal was never called.
	Current() uint64

	// Wait blocks until Completed() >= value or ctx is done.
	//
	// Parameters:
	//   - ctx: cancels the wait
	//   - value: the marker value to wait for
	//
	// Returns:
	//   - error: ctx.Err() wrapped, or a backend error if the wait primitive failed
	Wait(ctx context.Context, value uint64) error
}

// ManualFence is a Fence whose completed value is advanced explicitly through Complete.
// It backs headless runs and tests, where no GPU queue reports progress.
type ManualFence struct {
	mu        sync.Mutex
	current   uint64
	completed uint64
	changed   chan struct{}
}

var _ Fence = &ManualFence{}

// NewManualFence creates a ManualFence with no signalled or completed values.
func NewManualFence() *ManualFence {
	return &ManualFence{changed: make(chan struct{})}
}

func (f *ManualFence) Signal() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current++
	return f.current
}

func (f *ManualFence) Current() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *ManualFence) Completed() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

// Complete marks every marker up to value as completed and wakes pending waiters.
// Values beyond the last signalled marker are clamped to it, and values lower than the
// current completed value are ignored.
//
// Parameters:
//   - value: the highest completed marker
func (f *ManualFence) Complete(value uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value = min(value, f.current)
	if value <= f.completed {
		return
	}
	f.completed = value
	close(f.changed)
	f.changed = make(chan struct{})
}

// CompleteAll marks every signalled marker as completed.
func (f *ManualFence) CompleteAll() {
	f.Complete(f.Current())
}

func (f *ManualFence) Wait(ctx context.Context, value uint64) error {
	for {
		f.mu.Lock()
		if f.completed >= value {
			f.mu.Unlock()
			return nil
		}
		ch := f.changed
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for fence value %d: %w", value, ctx.Err())
		case <-ch:
		}
	}
}
