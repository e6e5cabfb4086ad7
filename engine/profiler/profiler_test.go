package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickWaitsForInterval(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(time.Hour)

	rep, ok := p.Tick(Sample{Draws: 37})
	assert.False(t, ok)
	assert.Equal(t, Report{}, rep)
}

func TestTickAveragesPresentedFrames(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(time.Hour)

	p.Tick(Sample{Draws: 37, Objects: 37, Materials: 3, Stalls: 1})
	p.Tick(Sample{Skipped: true, Objects: 5, Stalls: 1})
	p.Tick(Sample{Draws: 37, Objects: 1, Stalls: 2})

	p.lastTime = time.Now().Add(-2 * time.Hour)
	rep, ok := p.Tick(Sample{Draws: 41, Objects: 0, Stalls: 4})
	assert.True(t, ok)
	assert.Equal(t, 1, rep.Skipped)
	assert.InDelta(t, (37.0+37+41)/3, rep.DrawsPerFrame, 1e-9)
	assert.InDelta(t, 38.0/3, rep.ObjectWritesPerFrame, 1e-9)
	assert.InDelta(t, 1.0, rep.MaterialWritesPerFrame, 1e-9)
	assert.Equal(t, uint64(4), rep.Stalls)
	assert.Greater(t, rep.FPS, 0.0)

	// counters restart after a report
	p.lastTime = time.Now().Add(-2 * time.Hour)
	rep, ok = p.Tick(Sample{Draws: 10, Stalls: 6})
	assert.True(t, ok)
	assert.Equal(t, 0, rep.Skipped)
	assert.InDelta(t, 10.0, rep.DrawsPerFrame, 1e-9)
	assert.Equal(t, uint64(2), rep.Stalls)
}

func TestSetIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(0)
	assert.Equal(t, time.Second, p.updateInterval)
	p.SetInterval(-time.Second)
	assert.Equal(t, time.Second, p.updateInterval)
}
