package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/config"
	"github.com/Carmen-Shannon/oxy-castle/engine/profiler"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer"
	"github.com/Carmen-Shannon/oxy-castle/engine/scene"
	"github.com/Carmen-Shannon/oxy-castle/engine/window"
)

const (
	// maxFrameErrors is how many frames in a row may fail before the engine quits.
	maxFrameErrors = 5

	// defaultTickRate is the engine tick frequency in Hz when none is configured.
	defaultTickRate = 60
)

type engine struct {
	// both channels hold at most the newest pending value, see offerLatest
	tickRateChannel chan time.Duration
	configChannel   chan config.Config

	wg sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	quitChannel chan struct{}
	quitOnce    sync.Once

	window   window.Window
	renderer renderer.Renderer
	scene    scene.Scene

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32, stats scene.FrameStats)

	configPath   string
	windowClosed bool // only touched by the window thread

	renderFrameLimit atomic.Int64 // minimum frame duration in nanoseconds; 0 = uncapped
}

// Engine drives one scene: a fixed-rate tick loop for callbacks and config reloads, a free-running
// render loop, and the window message loop on the calling thread.
type Engine interface {
	Window() window.Window
	Scene() scene.Scene

	// EnableProfiler logs frame statistics once per second until DisableProfiler.
	EnableProfiler()
	DisableProfiler()

	// SetTickRate changes the tick loop frequency. Rates <= 0 mean 60 Hz.
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each tick with the seconds since the last one.
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each completed frame.
	//
	// Parameters:
	//   - callback: receives the seconds since the previous frame and the frame's statistics
	SetRenderCallback(callback func(deltaTime float32, stats scene.FrameStats))

	// SetRenderFrameLimit caps the render loop. 0 uncaps it.
	SetRenderFrameLimit(fps float64)

	// ApplyConfig applies the settings that can change while running: camera sensitivity,
	// wireframe key, clear colour, present mode, tick rate, frame limit, profiling and log level.
	// Window size, MSAA, ring size and the scene variant only take effect on restart.
	//
	// Parameters:
	//   - cfg: a validated configuration
	ApplyConfig(cfg config.Config)

	// Run blocks in the window message loop until the window closes or Quit is called, then
	// waits for in-flight frames and releases the scene and renderer.
	Run()

	// Quit stops every loop. Calling it more than once is safe.
	Quit()
}

// NewEngine creates an engine ticking at 60 Hz with an uncapped render loop.
//
// Parameters:
//   - options: window, scene, renderer and loop settings
//
// Returns:
//   - Engine: the engine, idle until Run
func NewEngine(options ...EngineBuilderOption) Engine {
	return newEngine(options...)
}

func newEngine(options ...EngineBuilderOption) *engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		configChannel:   make(chan config.Config, 1),
		ctx:             ctx,
		cancel:          cancel,
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  tickInterval(defaultTickRate),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil && e.scene != nil {
		e.window.SetResizeCallback(e.scene.Resize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Run() {
	if err := e.start(); err != nil {
		common.LogError("engine failed to start: %v", err)
		e.shutdown()
		return
	}
	if e.window != nil {
		e.window.SetUpdateCallback(func() {
			select {
			case <-e.quitChannel:
				e.closeWindow()
			default:
			}
		})
		e.window.ProcessMessages()
	} else {
		<-e.quitChannel
	}
	e.shutdown()
	e.closeWindow()
}

// closeWindow destroys the platform window once. It must run on the window thread.
func (e *engine) closeWindow() {
	if e.window == nil || e.windowClosed {
		return
	}
	e.windowClosed = true
	if err := e.window.Close(); err != nil {
		common.LogWarn("failed to close window: %v", err)
	}
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel and cancels the engine context, which aborts a render goroutine
// blocked on a frame slot. The window loop notices the closed channel on its next update.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		e.cancel()
	})
}

// start launches the config watcher and the engine, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) start() error {
	if e.scene == nil {
		return errors.New("engine has no scene")
	}
	if e.configPath != "" {
		err := config.Watch(e.ctx, e.configPath, func(cfg config.Config) {
			offerLatest(e.configChannel, cfg)
		})
		if err != nil {
			return err
		}
	}

	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
	return nil
}

// shutdown stops the loops, waits for the GPU to finish the frames already submitted and releases
// the scene, then the renderer. The wait has no deadline; if it fails nothing is released, since
// the GPU may still be reading those buffers.
func (e *engine) shutdown() {
	e.signalQuit()
	e.wg.Wait()

	if e.scene != nil {
		if err := e.scene.Flush(context.Background()); err != nil {
			common.LogError("leaving GPU resources to process exit: %v", err)
			return
		}
		e.scene.Release()
	}
	if e.renderer != nil {
		e.renderer.Release()
	}
	common.LogInfo("engine stopped")
}
