package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/config"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer"
	"github.com/Carmen-Shannon/oxy-castle/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScene implements the parts of scene.Scene the engine drives.
type fakeScene struct {
	scene.Scene

	mu    sync.Mutex
	frame func(ctx context.Context) (scene.FrameStats, error)
	flush func(ctx context.Context) error
	state sceneState
}

type sceneState struct {
	frames   int
	flushed  bool
	released bool
	rotate   float32
	zoom     float32
	key      uint32
}

func (s *fakeScene) Frame(ctx context.Context, _ float32) (scene.FrameStats, error) {
	s.mu.Lock()
	s.state.frames++
	fn := s.frame
	s.mu.Unlock()
	if fn == nil {
		return scene.FrameStats{Draws: 37}, nil
	}
	return fn(ctx)
}

func (s *fakeScene) Flush(ctx context.Context) error {
	s.mu.Lock()
	fn := s.flush
	s.mu.Unlock()

	var err error
	if fn != nil {
		err = fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.flushed = err == nil
	return err
}

func (s *fakeScene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.released = true
}

func (s *fakeScene) SetCameraSpeeds(rotate, zoom float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.rotate, s.state.zoom = rotate, zoom
}

func (s *fakeScene) SetWireframeKey(key uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.key = key
}

func (s *fakeScene) Resize(int, int) {}

func (s *fakeScene) snapshot() sceneState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// fakeRenderer records the settings the engine applies.
type fakeRenderer struct {
	renderer.Renderer

	clear    [4]float64
	mode     renderer.PresentMode
	released bool
}

func (r *fakeRenderer) SetClearColor(red, green, blue, alpha float64) {
	r.clear = [4]float64{red, green, blue, alpha}
}

func (r *fakeRenderer) SetPresentMode(mode renderer.PresentMode) { r.mode = mode }

func (r *fakeRenderer) Release() { r.released = true }

// runAsync runs the engine and returns a channel closed when Run returns.
func runAsync(e Engine) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	return done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
}

func TestRunRendersUntilQuit(t *testing.T) {
	s := &fakeScene{}
	r := &fakeRenderer{}
	e := NewEngine(WithScene(s), WithRenderer(r))

	var draws []int
	e.SetRenderCallback(func(_ float32, stats scene.FrameStats) {
		draws = append(draws, stats.Draws)
		if len(draws) == 3 {
			e.Quit()
		}
	})

	waitDone(t, runAsync(e))

	got := s.snapshot()
	assert.Equal(t, 3, got.frames)
	assert.Equal(t, []int{37, 37, 37}, draws)
	assert.True(t, got.flushed)
	assert.True(t, got.released)
	assert.True(t, r.released)
}

func TestRenderQuitsAfterRepeatedFrameErrors(t *testing.T) {
	s := &fakeScene{frame: func(context.Context) (scene.FrameStats, error) {
		return scene.FrameStats{}, errors.New("device lost")
	}}
	e := NewEngine(WithScene(s))

	waitDone(t, runAsync(e))
	assert.Equal(t, maxFrameErrors, s.snapshot().frames)
	assert.True(t, s.snapshot().released)
}

func TestQuitCancelsBlockedFrame(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	s := &fakeScene{frame: func(ctx context.Context) (scene.FrameStats, error) {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return scene.FrameStats{}, ctx.Err()
	}}
	e := NewEngine(WithScene(s))

	done := runAsync(e)
	<-started
	e.Quit()
	waitDone(t, done)

	assert.Equal(t, 1, s.snapshot().frames)
	assert.True(t, s.snapshot().flushed)
}

func TestRenderRecoversFromPanic(t *testing.T) {
	s := &fakeScene{frame: func(context.Context) (scene.FrameStats, error) {
		panic("bad draw")
	}}
	e := NewEngine(WithScene(s))

	waitDone(t, runAsync(e))
	assert.True(t, s.snapshot().released)
}

func TestShutdownWaitsForFlushBeforeRelease(t *testing.T) {
	unblock := make(chan struct{})
	s := &fakeScene{flush: func(ctx context.Context) error {
		select {
		case <-unblock:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}}
	r := &fakeRenderer{}
	e := NewEngine(WithScene(s), WithRenderer(r))

	done := runAsync(e)
	e.Quit()

	// well past any timeout a shutdown might apply
	assert.Never(t, func() bool { return s.snapshot().released }, 3*time.Second, 50*time.Millisecond)
	close(unblock)
	waitDone(t, done)

	assert.True(t, s.snapshot().flushed)
	assert.True(t, s.snapshot().released)
	assert.True(t, r.released)
}

func TestShutdownKeepsResourcesWhenFlushFails(t *testing.T) {
	s := &fakeScene{flush: func(context.Context) error {
		return errors.New("wait on queue: device lost")
	}}
	r := &fakeRenderer{}
	e := NewEngine(WithScene(s), WithRenderer(r))

	done := runAsync(e)
	e.Quit()
	waitDone(t, done)

	assert.False(t, s.snapshot().flushed)
	assert.False(t, s.snapshot().released)
	assert.False(t, r.released)
}

func TestRunWithoutSceneReturns(t *testing.T) {
	r := &fakeRenderer{}
	e := NewEngine(WithRenderer(r))

	waitDone(t, runAsync(e))
	assert.True(t, r.released)
}

func TestApplyConfig(t *testing.T) {
	s := &fakeScene{}
	r := &fakeRenderer{}
	e := newEngine(WithScene(s), WithRenderer(r))

	cfg := config.Default()
	cfg.Camera.RotateDegreesPerPixel = 0.5
	cfg.Camera.ZoomUnitsPerPixel = 0.2
	cfg.Scene.WireframeKey = "W"
	cfg.Renderer.ClearColor = [4]float64{0.1, 0.2, 0.3, 1}
	cfg.Renderer.PresentMode = "uncapped"
	cfg.Engine.TickRate = 30
	cfg.Engine.FrameLimit = 100
	cfg.Engine.Profiling = true

	e.ApplyConfig(cfg)

	got := s.snapshot()
	assert.Equal(t, float32(0.5), got.rotate)
	assert.Equal(t, float32(0.2), got.zoom)
	want, ok := common.KeyCodeFromName("W")
	require.True(t, ok)
	assert.Equal(t, want, got.key)

	assert.Equal(t, [4]float64{0.1, 0.2, 0.3, 1}, r.clear)
	assert.Equal(t, renderer.PresentModeUncapped, r.mode)

	assert.True(t, e.profilingEnabled.Load())
	assert.Equal(t, int64(10*time.Millisecond), e.renderFrameLimit.Load())
	select {
	case rate := <-e.tickRateChannel:
		assert.Equal(t, time.Second/30, rate)
	default:
		t.Fatal("tick rate not queued")
	}
}

func TestTickAppliesPendingConfig(t *testing.T) {
	s := &fakeScene{frame: func(ctx context.Context) (scene.FrameStats, error) {
		<-ctx.Done()
		return scene.FrameStats{}, ctx.Err()
	}}
	e := newEngine(WithScene(s), WithTickRate(200))

	cfg := config.Default()
	cfg.Camera.RotateDegreesPerPixel = 1.5
	e.configChannel <- cfg

	done := runAsync(e)
	assert.Eventually(t, func() bool {
		return s.snapshot().rotate == 1.5
	}, 2*time.Second, 5*time.Millisecond)

	e.Quit()
	waitDone(t, done)
}

func TestFrameDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), frameDuration(0))
	assert.Equal(t, time.Duration(0), frameDuration(-5))
	assert.Equal(t, 16666666*time.Nanosecond, frameDuration(60))

	assert.Equal(t, frameDuration(60), tickInterval(0))
	assert.Equal(t, frameDuration(30), tickInterval(30))
}
