package frame

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRing(t *testing.T, size int) (Ring, *ManualFence) {
	t.Helper()
	fence := NewManualFence()
	r, err := NewRing(fence, WithSize(size), WithObjectCount(4), WithPassSize(64), WithMaterials(96, 2))
	require.NoError(t, err)
	return r, fence
}

func TestAdvanceReturnsToStartAfterSizeCalls(t *testing.T) {
	for size := 1; size <= 5; size++ {
		r, _ := newTestRing(t, size)
		start := r.Index()
		seen := make(map[int]bool)
		for range size {
			seen[r.Advance().Index()] = true
		}
		assert.Equal(t, start, r.Index(), "size=%d", size)
		assert.Len(t, seen, size, "every slot is visited once per cycle")
	}
}

func TestNewRingRejectsInvalidSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		_, err := NewRing(NewManualFence(), WithSize(size))
		assert.ErrorIs(t, err, ErrInvalidRingSize)
	}
}

func TestNewRingPropagatesFactoryError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewRing(NewManualFence(), WithFrameResourceFactory(func(index int) (FrameResource, error) {
		if index == 1 {
			return nil, boom
		}
		return NewFrameResource(index, FrameResourceConfig{}), nil
	}))
	assert.ErrorIs(t, err, boom)
}

func TestDefaultRingSlots(t *testing.T) {
	r, _ := newTestRing(t, DefaultRingSize)
	assert.Equal(t, 3, r.Size())
	for i := range r.Size() {
		slot := r.Slot(i)
		assert.Equal(t, i, slot.Index())
		assert.Equal(t, uint64(0), slot.Fence())
		assert.Equal(t, 4, slot.Objects().Count())
		assert.Equal(t, uint64(256), slot.Objects().ElementSize())
		assert.Equal(t, uint64(256), slot.Materials().ElementSize())
		assert.Equal(t, uint64(64), slot.Pass().Size())
	}
}

func TestAcquireSkipsNeverSubmittedSlot(t *testing.T) {
	r, _ := newTestRing(t, 3)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.NoError(t, r.Acquire(ctx))
	assert.Equal(t, uint64(0), r.Stalls())
}

func TestSubmitMarkersStrictlyIncrease(t *testing.T) {
	r, fence := newTestRing(t, 3)
	var last uint64
	for range 10 {
		r.Advance()
		fence.CompleteAll()
		require.NoError(t, r.Acquire(context.Background()))
		marker := r.Submit()
		assert.Greater(t, marker, last)
		assert.Equal(t, marker, r.Current().Fence())
		last = marker
	}
	assert.Equal(t, last, fence.Current())
}

func TestAcquireWaitsForSlotMarker(t *testing.T) {
	r, fence := newTestRing(t, 3)

	// fill every slot without the GPU completing anything
	for range r.Size() {
		r.Advance()
		require.NoError(t, r.Acquire(context.Background()))
		r.Submit()
	}
	slot := r.Advance()
	marker := slot.Fence()
	require.Equal(t, uint64(1), marker)

	var observed atomic.Uint64
	done := make(chan error, 1)
	go func() {
		err := r.Acquire(context.Background())
		observed.Store(fence.Completed())
		done <- err
	}()

	finished := func() bool { return len(done) > 0 }
	assert.Never(t, finished, 50*time.Millisecond, 5*time.Millisecond)

	fence.Complete(marker)
	assert.Eventually(t, finished, time.Second, 5*time.Millisecond)
	assert.NoError(t, <-done)
	assert.GreaterOrEqual(t, observed.Load(), marker)
	assert.Equal(t, uint64(1), r.Stalls())
}

func TestAcquireHonorsContext(t *testing.T) {
	r, _ := newTestRing(t, 1)
	r.Submit()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := r.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFlushDrainsLastSubmission(t *testing.T) {
	r, fence := newTestRing(t, 3)
	require.NoError(t, r.Flush(context.Background()), "nothing submitted yet")

	for range 5 {
		r.Advance()
		fence.CompleteAll()
		require.NoError(t, r.Acquire(context.Background()))
		r.Submit()
	}
	fence.Complete(4)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Flush(ctx), context.DeadlineExceeded)

	fence.Complete(5)
	assert.NoError(t, r.Flush(context.Background()))
}
