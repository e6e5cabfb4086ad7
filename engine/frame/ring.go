package frame

import (
	"context"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-castle/common"
)

// DefaultRingSize is the number of frame slots in flight when no size is configured.
const DefaultRingSize = 3

// ErrInvalidRingSize is returned when a ring is configured with fewer than one slot.
var ErrInvalidRingSize = errors.New("frame ring size must be at least 1")

// ring is the implementation of the Ring interface.
type ring struct {
	label string
	size  int

	fence Fence
	slots []FrameResource
	index int

	// lastSignaled is the most recent marker handed out by Submit.
	lastSignaled uint64
	// stalls counts Acquire calls that had to block on the fence.
	stalls uint64

	resourceConfig  FrameResourceConfig
	resourceFactory func(index int) (FrameResource, error)
}

// Ring rotates a fixed number of frame slots so the CPU can fill one slot while the GPU still
// reads the others. A slot is reused only after the fence marker recorded at its last
// submission has completed.
//
// Ring is driven by a single goroutine and is not safe for concurrent use.
type Ring interface {
	// Size returns the number of slots.
	Size() int

	// Index returns the index of the current slot.
	Index() int

	// Current returns the current slot.
	Current() FrameResource

	// Slot returns the slot at index i.
	Slot(i int) FrameResource

	// Advance moves to the next slot, wrapping after Size() calls, and returns it.
	//
	// Returns:
	//   - FrameResource: the new current slot
	Advance() FrameResource

	// Acquire blocks until the GPU has finished the last submission that used the current slot.
	// It returns immediately for a slot that was never submitted.
	//
	// Parameters:
	//   - ctx: cancels the wait
	//
	// Returns:
	//   - error: a wrapped error if the wait failed or was cancelled
	Acquire(ctx context.Context) error

	// Submit signals the fence and records the new marker on the current slot.
	//
	// Returns:
	//   - uint64: the recorded marker
	Submit() uint64

	// Flush waits for the last submitted marker, draining all GPU work that reads the ring.
	//
	// Parameters:
	//   - ctx: cancels the wait
	//
	// Returns:
	//   - error: a wrapped error if the wait failed or was cancelled
	Flush(ctx context.Context) error

	// Fence returns the fence shared by all slots.
	Fence() Fence

	// Stalls returns how many Acquire calls had to block.
	Stalls() uint64

	// Release releases every slot's GPU resources. Call Flush first.
	Release()
}

var _ Ring = &ring{}

// NewRing creates a ring of frame slots gated on fence.
//
// Parameters:
//   - fence: the completion marker shared by all slots
//   - options: functional options configuring size and slot construction
//
// Returns:
//   - Ring: the new ring, positioned on slot 0
//   - error: ErrInvalidRingSize, or an error from the slot factory
func NewRing(fence Fence, options ...RingBuilderOption) (Ring, error) {
	r := &ring{
		label: "frame",
		size:  DefaultRingSize,
		fence: fence,
	}
	for _, opt := range options {
		opt(r)
	}

	if r.size < 1 {
		return nil, fmt.Errorf("%s ring of %d slots: %w", r.label, r.size, ErrInvalidRingSize)
	}
	if r.fence == nil {
		return nil, fmt.Errorf("%s ring: nil fence", r.label)
	}
	if r.resourceFactory == nil {
		cfg := r.resourceConfig
		cfg.Label = r.label
		r.resourceFactory = func(index int) (FrameResource, error) {
			return NewFrameResource(index, cfg), nil
		}
	}

	r.slots = make([]FrameResource, r.size)
	for i := range r.slots {
		slot, err := r.resourceFactory(i)
		if err != nil {
			return nil, fmt.Errorf("create %s slot %d: %w", r.label, i, err)
		}
		r.slots[i] = slot
	}

	common.LogDebug("created %s ring with %d slots", r.label, r.size)
	return r, nil
}

func (r *ring) Size() int {
	return r.size
}

func (r *ring) Index() int {
	return r.index
}

func (r *ring) Current() FrameResource {
	return r.slots[r.index]
}

func (r *ring) Slot(i int) FrameResource {
	return r.slots[i]
}

func (r *ring) Advance() FrameResource {
	r.index = (r.index + 1) % r.size
	return r.slots[r.index]
}

func (r *ring) Acquire(ctx context.Context) error {
	marker := r.slots[r.index].Fence()
	if marker == 0 || r.fence.Completed() >= marker {
		return nil
	}

	r.stalls++
	if err := r.fence.Wait(ctx, marker); err != nil {
		return fmt.Errorf("acquire %s slot %d at marker %d: %w", r.label, r.index, marker, err)
	}
	return nil
}

func (r *ring) Submit() uint64 {
	marker := r.fence.Signal()
	r.slots[r.index].SetFence(marker)
	r.lastSignaled = marker
	return marker
}

func (r *ring) Flush(ctx context.Context) error {
	if r.lastSignaled == 0 {
		return nil
	}
	if err := r.fence.Wait(ctx, r.lastSignaled); err != nil {
		return fmt.Errorf("flush %s ring at marker %d: %w", r.label, r.lastSignaled, err)
	}
	return nil
}

func (r *ring) Fence() Fence {
	return r.fence
}

func (r *ring) Stalls() uint64 {
	return r.stalls
}

func (r *ring) Release() {
	for _, s := range r.slots {
		s.Release()
	}
}
