package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/engine/profiler"
	"github.com/Carmen-Shannon/oxy-castle/engine/scene"
)

// frameErrors counts consecutive failed frames. A successful frame resets it.
type frameErrors struct {
	run, limit int
}

// fail records a failed frame and reports whether the limit has been reached.
func (f *frameErrors) fail(err error) bool {
	f.run++
	common.LogError("frame failed (%d/%d): %v", f.run, f.limit, err)
	return f.run >= f.limit
}

func (f *frameErrors) ok() {
	f.run = 0
}

// handleEngine runs the tick loop: pending config first, then the tick callback.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case rate := <-e.tickRateChannel:
			ticker.Reset(rate)
			e.engineTickRate = rate
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now

			select {
			case cfg := <-e.configChannel:
				e.ApplyConfig(cfg)
			default:
			}
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		}
	}
}

// handleRender runs scene frames back to back until quit, maxFrameErrors failures in a row, or a
// panic, which is logged and turned into a quit.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			common.LogError("render loop panicked: %v", r)
			e.signalQuit()
		}
	}()

	errs := frameErrors{limit: maxFrameErrors}
	last := time.Now()

	for !e.quitting() {
		start := time.Now()
		dt := float32(start.Sub(last).Seconds())
		last = start

		stats, err := e.scene.Frame(e.ctx, dt)
		if err != nil {
			if e.ctx.Err() != nil {
				return
			}
			if errs.fail(err) {
				e.signalQuit()
				return
			}
			continue
		}
		errs.ok()

		e.afterFrame(dt, stats)
		if !e.pace(start) {
			return
		}
	}
}

// afterFrame hands the frame's statistics to the render callback and the profiler.
func (e *engine) afterFrame(dt float32, stats scene.FrameStats) {
	if e.renderCallback != nil {
		e.renderCallback(dt, stats)
	}
	if e.profiler != nil && e.profilingEnabled.Load() {
		e.profiler.Tick(profiler.Sample{
			Draws:     stats.Draws,
			Objects:   stats.Objects,
			Materials: stats.Materials,
			Skipped:   stats.Skipped,
			Stalls:    e.scene.Ring().Stalls(),
		})
	}
}

// pace sleeps out the rest of the frame limit measured from start. It returns false when quit
// arrives during the sleep.
func (e *engine) pace(start time.Time) bool {
	limit := time.Duration(e.renderFrameLimit.Load())
	remaining := limit - time.Since(start)
	if limit <= 0 || remaining <= 0 {
		return true
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-e.quitChannel:
		return false
	case <-timer.C:
		return true
	}
}

func (e *engine) quitting() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

// handleQuit holds a WaitGroup slot until quit.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}
