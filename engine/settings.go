package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/config"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer"
	"github.com/Carmen-Shannon/oxy-castle/engine/scene"
)

// offerLatest puts v on a channel of capacity one, replacing any value not yet received.
// It never blocks while the receiver is the only other party.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate takes effect on the tick loop's next wakeup.
func (e *engine) SetTickRate(fps float64) {
	offerLatest(e.tickRateChannel, tickInterval(fps))
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32, stats scene.FrameStats)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit.Store(int64(frameDuration(fps)))
}

func (e *engine) ApplyConfig(cfg config.Config) {
	if err := common.SetLogLevel(cfg.Log.Level); err != nil {
		common.LogWarn("keeping log level: %v", err)
	}

	e.scene.SetCameraSpeeds(cfg.Camera.RotateDegreesPerPixel, cfg.Camera.ZoomUnitsPerPixel)
	if key, ok := common.KeyCodeFromName(cfg.Scene.WireframeKey); ok {
		e.scene.SetWireframeKey(key)
	} else {
		common.LogWarn("unknown wireframe key %q", cfg.Scene.WireframeKey)
	}

	if e.renderer != nil {
		c := cfg.Renderer.ClearColor
		e.renderer.SetClearColor(c[0], c[1], c[2], c[3])
		e.renderer.SetPresentMode(renderer.ParsePresentMode(cfg.Renderer.PresentMode))
	}

	e.SetTickRate(cfg.Engine.TickRate)
	e.SetRenderFrameLimit(cfg.Engine.FrameLimit)
	e.profilingEnabled.Store(cfg.Engine.Profiling)
	common.LogDebug("applied config: variant=%s ring=%d", cfg.Scene.Variant, cfg.Frame.RingSize)
}

// tickInterval is the tick period for fps, with rates <= 0 meaning defaultTickRate.
func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = defaultTickRate
	}
	return frameDuration(fps)
}

// frameDuration converts a rate to a period. Rates <= 0 mean no limit and give 0.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
