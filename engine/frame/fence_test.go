package frame

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualFenceClampsAndIgnoresRegressions(t *testing.T) {
	f := NewManualFence()
	assert.Equal(t, uint64(0), f.Current())

	f.Signal()
	f.Signal()
	f.Complete(10)
	assert.Equal(t, uint64(2), f.Completed(), "completion never passes the last signal")

	f.Complete(1)
	assert.Equal(t, uint64(2), f.Completed())
}

func TestManualFenceWaitWakesOnComplete(t *testing.T) {
	f := NewManualFence()
	v := f.Signal()

	done := make(chan error, 1)
	go func() { done <- f.Wait(context.Background(), v) }()

	select {
	case <-done:
		t.Fatal("wait returned before completion")
	case <-time.After(20 * time.Millisecond):
	}

	f.Complete(v)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("wait did not return after completion")
	}
}
