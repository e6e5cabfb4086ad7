package scene

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/config"
	"github.com/Carmen-Shannon/oxy-castle/engine/frame"
	"github.com/Carmen-Shannon/oxy-castle/engine/geometry"
	"github.com/Carmen-Shannon/oxy-castle/engine/input"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer records uploads and draws without a GPU. Present completes every signalled
// marker, as if the GPU kept up.
type fakeRenderer struct {
	fence     *frame.ManualFence
	pipelines map[string]pipeline.Pipeline

	width, height int
	state         renderer.FrameState
	surfaceDown   bool
	beginErr      error
	drawErr       error
	endErr        error
	presentErr    error
	clear         [4]float64

	meshUploads  int
	bindGroups   int
	textureViews int
	samplers     int
	writes       []bind_group_provider.BufferWrite
	draws        []renderer.DrawCommand
	presented    int
}

var _ renderer.Renderer = &fakeRenderer{}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		fence:     frame.NewManualFence(),
		pipelines: make(map[string]pipeline.Pipeline),
		width:     1280,
		height:    720,
	}
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline { return f.pipelines[key] }
func (f *fakeRenderer) Pipelines() map[string]pipeline.Pipeline { return f.pipelines }
func (f *fakeRenderer) Resize(width, height int) { f.width, f.height = width, height }
func (f *fakeRenderer) Size() (int, int) { return f.width, f.height }
func (f *fakeRenderer) SetPresentMode(renderer.PresentMode) {}
func (f *fakeRenderer) SetClearColor(r, g, b, a float64) { f.clear = [4]float64{r, g, b, a} }
func (f *fakeRenderer) WriteBuffers(w []bind_group_provider.BufferWrite) { f.writes = append(f.writes, w...) }
func (f *fakeRenderer) State() renderer.FrameState { return f.state }
func (f *fakeRenderer) Fence() frame.Fence { return f.fence }
func (f *fakeRenderer) Release() {}

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (f *fakeRenderer) BindGroupLayout(pipelineKey string, group int) (wgpu.BindGroupLayoutDescriptor, bool) {
	if _, ok := f.pipelines[pipelineKey]; !ok {
		return wgpu.BindGroupLayoutDescriptor{}, false
	}
	return wgpu.BindGroupLayoutDescriptor{Label: fmt.Sprintf("%s group %d", pipelineKey, group)}, true
}

func (f *fakeRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData, lineIndexData []byte) error {
	provider.SetIndexCount(len(indexData) / 4)
	provider.SetLineIndexCount(len(lineIndexData) / 4)
	f.meshUploads++
	return nil
}

func (f *fakeRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]uint64) error {
	f.bindGroups++
	return nil
}

func (f *fakeRenderer) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	f.textureViews++
	return nil
}

func (f *fakeRenderer) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	f.samplers++
	return nil
}

func (f *fakeRenderer) BeginFrame() error {
	if f.surfaceDown {
		return fmt.Errorf("no image: %w", renderer.ErrSurfaceUnavailable)
	}
	if f.beginErr != nil {
		return f.beginErr
	}
	if f.state != renderer.FrameStateIdle && f.state != renderer.FrameStatePresented {
		return renderer.ErrFrameState
	}
	f.state = renderer.FrameStateRecording
	return nil
}

func (f *fakeRenderer) DrawIndexed(cmd renderer.DrawCommand) error {
	if f.state != renderer.FrameStateRecording {
		return renderer.ErrFrameState
	}
	if _, ok := f.pipelines[cmd.PipelineKey]; !ok {
		return renderer.ErrUnknownPipeline
	}
	if f.drawErr != nil {
		return f.drawErr
	}
	f.draws = append(f.draws, cmd)
	return nil
}

func (f *fakeRenderer) EndFrame() error {
	if f.state != renderer.FrameStateRecording {
		return renderer.ErrFrameState
	}
	if f.endErr != nil {
		f.state = renderer.FrameStateIdle
		return f.endErr
	}
	f.state = renderer.FrameStateSubmitted
	return nil
}

func (f *fakeRenderer) Present() error {
	if f.state != renderer.FrameStateSubmitted {
		return renderer.ErrFrameState
	}
	f.state = renderer.FrameStatePresented
	if f.presentErr != nil {
		return f.presentErr
	}
	f.presented++
	f.fence.CompleteAll()
	return nil
}

func (f *fakeRenderer) Flush(ctx context.Context) error {
	return f.fence.Wait(ctx, f.fence.Current())
}

// fakeInput returns a fixed key set and hands out its drags once.
type fakeInput struct {
	st input.State
}

func (f *fakeInput) Poll() input.State {
	st := f.st
	f.st.LeftDrag, f.st.RightDrag = [2]float32{}, [2]float32{}
	return st
}

func newTestScene(t *testing.T, variant string, options ...SceneBuilderOption) (Scene, *fakeRenderer) {
	t.Helper()
	r := newFakeRenderer()
	opts := append([]SceneBuilderOption{WithVariant(variant), WithWorkers(2)}, options...)
	s, err := NewScene(r, opts...)
	require.NoError(t, err)
	t.Cleanup(s.Release)
	return s, r
}

func runFrame(t *testing.T, s Scene) FrameStats {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stats, err := s.Frame(ctx, 1.0/60)
	require.NoError(t, err)
	return stats
}

func TestNewSceneColumns(t *testing.T) {
	s, r := newTestScene(t, config.VariantColumns)

	require.Len(t, s.Instances(), 37)
	require.Len(t, s.Materials(), 3)
	assert.Equal(t, frame.DefaultRingSize, s.RingSize())
	assert.Equal(t, 1, r.meshUploads)
	assert.Contains(t, r.pipelines, pipeline.KeyOpaque)
	assert.Contains(t, r.pipelines, pipeline.KeyOpaqueWireframe)

	// pass, object and material groups per slot, plus one texture group per material
	assert.Equal(t, 3*3+3, r.bindGroups)
	assert.Equal(t, 3, r.textureViews)
	assert.Equal(t, 3, r.samplers)
	for _, m := range s.Materials() {
		assert.NotNil(t, m.BindGroupProvider(), m.Name())
	}

	seen := make(map[int]bool)
	for i, obj := range s.Instances() {
		assert.Equal(t, i, obj.ObjectIndex())
		assert.False(t, seen[obj.ObjectIndex()])
		seen[obj.ObjectIndex()] = true
		assert.Equal(t, 3, obj.NumFramesDirty())
	}
	assert.Equal(t, geometry.VertexFormatPositionNormalTexture, s.Geometry().Format())
}

func TestNewSceneShapes(t *testing.T) {
	s, r := newTestScene(t, config.VariantShapes)

	require.Len(t, s.Instances(), 41)
	assert.Equal(t, 0, r.textureViews)
	assert.Equal(t, 3*3, r.bindGroups)
	for _, m := range s.Materials() {
		assert.Nil(t, m.BindGroupProvider())
	}
	_, ok := s.Geometry().Range(geometry.SubmeshCone)
	assert.True(t, ok)
	assert.Equal(t, geometry.VertexFormatPosition, s.Geometry().Format())
}

func TestNewSceneErrors(t *testing.T) {
	_, err := NewScene(nil)
	assert.Error(t, err)

	_, err = NewScene(newFakeRenderer(), WithVariant("tower"))
	assert.Error(t, err)

	_, err = NewScene(newFakeRenderer(), WithRingSize(0))
	assert.ErrorIs(t, err, frame.ErrInvalidRingSize)

	// the columns variant builds no cone
	_, err = NewScene(newFakeRenderer(), WithPlacements([]Placement{
		{Name: "spire", Submesh: geometry.SubmeshCone, Material: MaterialTile},
	}))
	assert.ErrorIs(t, err, ErrInvalidPlacement)
}

func TestDirtyInstancesReachEverySlotOnce(t *testing.T) {
	s, _ := newTestScene(t, config.VariantColumns)
	ring := s.Ring()
	n := len(s.Instances())

	for range ring.Size() {
		stats := runFrame(t, s)
		assert.Equal(t, n, stats.Objects)
		assert.Equal(t, 3, stats.Materials)
	}
	for _, obj := range s.Instances() {
		assert.Zero(t, obj.NumFramesDirty())
	}
	for i := range ring.Size() {
		for idx := range n {
			assert.Equal(t, 1, ring.Slot(i).Objects().Writes(idx), "slot %d object %d", i, idx)
		}
	}

	stats := runFrame(t, s)
	assert.Zero(t, stats.Objects)
	assert.Zero(t, stats.Materials)

	// a new transform is written to each slot exactly once
	obj, ok := s.Instance(5)
	require.True(t, ok)
	moved := mgl32.Translate3D(1, 2, 3)
	obj.SetWorld(moved, s.RingSize())
	for range ring.Size() {
		assert.Equal(t, 1, runFrame(t, s).Objects)
	}
	assert.Zero(t, runFrame(t, s).Objects)

	oc := frame.NewGPUObjectConstants(moved, obj.TexTransform())
	want := oc.Marshal()
	for i := range ring.Size() {
		slot := ring.Slot(i)
		assert.Equal(t, 2, slot.Objects().Writes(5))
		assert.Equal(t, want, slot.Objects().Element(5)[:len(want)])
	}
}

func TestPassConstantsWrittenEveryFrame(t *testing.T) {
	s, _ := newTestScene(t, config.VariantShapes)
	ring := s.Ring()

	frames := 2 * ring.Size()
	for range frames {
		runFrame(t, s)
	}
	for i := range ring.Size() {
		assert.Equal(t, 2, ring.Slot(i).Pass().Writes(0))
	}
}

func TestFrameDrawsEveryEnabledInstance(t *testing.T) {
	s, r := newTestScene(t, config.VariantColumns)

	stats := runFrame(t, s)
	require.Equal(t, 37, stats.Draws)
	require.Len(t, r.draws, 37)
	assert.Equal(t, 1, r.presented)
	assert.Equal(t, uint64(1), r.fence.Current())

	slot := s.Ring().Current()
	cbIndex := make(map[string]int)
	for _, m := range s.Materials() {
		cbIndex[m.Name()] = m.CBIndex()
	}
	for i, cmd := range r.draws {
		obj := s.Instances()[i]
		assert.Equal(t, pipeline.KeyOpaque, cmd.PipelineKey)
		rng, _ := s.Geometry().Range(obj.Submesh())
		assert.Equal(t, rng, cmd.Range)
		require.Len(t, cmd.BindGroups, 4)
		assert.Same(t, slot.Pass().Provider(), cmd.BindGroups[0].Provider)
		assert.Equal(t, []uint32{uint32(256 * obj.ObjectIndex())}, cmd.BindGroups[1].DynamicOffsets)
		assert.Equal(t, []uint32{uint32(256 * cbIndex[obj.Material()])}, cmd.BindGroups[2].DynamicOffsets)
		assert.NotNil(t, cmd.BindGroups[3].Provider)
	}

	s.Instances()[0].SetEnabled(false)
	r.draws = nil
	assert.Equal(t, 36, runFrame(t, s).Draws)
}

func TestWireframeKeySelectsLinePipeline(t *testing.T) {
	in := &fakeInput{st: input.State{Keys: map[uint32]bool{common.Key1: true}}}
	s, r := newTestScene(t, config.VariantShapes, WithInput(in))

	stats := runFrame(t, s)
	assert.True(t, stats.Wireframe)
	for _, cmd := range r.draws {
		assert.Equal(t, pipeline.KeyOpaqueWireframe, cmd.PipelineKey)
	}

	s.SetWireframeKey(common.KeyF)
	r.draws = nil
	stats = runFrame(t, s)
	assert.False(t, stats.Wireframe)
	assert.Equal(t, pipeline.KeyOpaque, r.draws[0].PipelineKey)
}

func TestWireframeKeyIgnoredByColumns(t *testing.T) {
	in := &fakeInput{st: input.State{Keys: map[uint32]bool{common.Key1: true}}}
	s, _ := newTestScene(t, config.VariantColumns, WithInput(in))
	assert.False(t, runFrame(t, s).Wireframe)
}

func TestDragsMoveCamera(t *testing.T) {
	in := &fakeInput{st: input.State{LeftDrag: [2]float32{40, 0}}}
	s, _ := newTestScene(t, config.VariantShapes, WithInput(in))
	ctrl := s.Camera().Controller()
	theta, phi, radius := ctrl.Theta(), ctrl.Phi(), ctrl.Radius()

	runFrame(t, s)
	assert.InDelta(t, theta+mgl32.DegToRad(10), ctrl.Theta(), 1e-5)
	assert.InDelta(t, phi, ctrl.Phi(), 1e-6)
	assert.InDelta(t, radius, ctrl.Radius(), 1e-6)

	in.st.RightDrag = [2]float32{0, -20}
	runFrame(t, s)
	assert.InDelta(t, radius+1, ctrl.Radius(), 1e-4)

	s.SetCameraSpeeds(0.5, 0.1)
	in.st.LeftDrag = [2]float32{10, 0}
	before := ctrl.Theta()
	runFrame(t, s)
	assert.InDelta(t, before+mgl32.DegToRad(5), ctrl.Theta(), 1e-5)
}

func TestRotateTakesPrecedenceOverZoom(t *testing.T) {
	in := &fakeInput{st: input.State{LeftDrag: [2]float32{40, 0}, RightDrag: [2]float32{40, 0}}}
	s, _ := newTestScene(t, config.VariantShapes, WithInput(in))
	ctrl := s.Camera().Controller()
	theta, radius := ctrl.Theta(), ctrl.Radius()

	runFrame(t, s)
	assert.InDelta(t, theta+mgl32.DegToRad(10), ctrl.Theta(), 1e-5)
	assert.InDelta(t, radius, ctrl.Radius(), 1e-6)
}

func TestBackendFailureIsNotSkipped(t *testing.T) {
	s, r := newTestScene(t, config.VariantShapes)
	r.beginErr = errors.New("begin frame: create command encoder: device lost")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stats, err := s.Frame(ctx, 1.0/60)
	assert.ErrorIs(t, err, r.beginErr)
	assert.False(t, stats.Skipped)
	assert.Zero(t, r.fence.Current())
}

func TestFailedSubmitLeavesSlotUnmarked(t *testing.T) {
	s, r := newTestScene(t, config.VariantShapes)
	r.endErr = errors.New("end frame: finish frame commands: validation error")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.Frame(ctx, 1.0/60)
	assert.ErrorIs(t, err, r.endErr)
	assert.Zero(t, r.fence.Current())
	assert.Zero(t, s.Ring().Slot(s.Ring().Index()).Fence())
	assert.Zero(t, r.presented)

	r.endErr = nil
	runFrame(t, s)
	assert.Equal(t, uint64(1), r.fence.Current())
}

func TestDrawFailureReportsPresentFailure(t *testing.T) {
	s, r := newTestScene(t, config.VariantShapes)
	r.drawErr = errors.New("draw rejected")
	r.presentErr = errors.New("present: surface lost")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.Frame(ctx, 1.0/60)
	assert.ErrorIs(t, err, r.drawErr)
	assert.ErrorIs(t, err, r.presentErr)
	// the commands were submitted, so the slot still gets its marker
	assert.Equal(t, uint64(1), r.fence.Current())
}

func TestSurfaceUnavailableSkipsFrame(t *testing.T) {
	s, r := newTestScene(t, config.VariantShapes)
	r.surfaceDown = true

	stats := runFrame(t, s)
	assert.True(t, stats.Skipped)
	assert.Zero(t, stats.Draws)
	assert.Empty(t, r.draws)
	assert.Zero(t, r.fence.Current())

	r.surfaceDown = false
	stats = runFrame(t, s)
	assert.False(t, stats.Skipped)
	assert.Equal(t, 41, stats.Draws)
}

func TestFrameHonoursCancelledAcquire(t *testing.T) {
	s, r := newTestScene(t, config.VariantShapes)
	for range s.RingSize() {
		runFrame(t, s)
	}
	// the next slot's marker is signalled but not completed
	r.fence.Signal()
	s.Ring().Slot((s.Ring().Index() + 1) % s.RingSize()).SetFence(r.fence.Current())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Frame(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInstanceLookup(t *testing.T) {
	s, _ := newTestScene(t, config.VariantShapes)

	_, ok := s.Instance(-1)
	assert.False(t, ok)
	_, ok = s.Instance(len(s.Instances()))
	assert.False(t, ok)

	obj, ok := s.Instance(3)
	require.True(t, ok)
	found, ok := s.InstanceByID(obj.ID())
	require.True(t, ok)
	assert.Same(t, obj, found)

	_, ok = s.InstanceByID(uuid.New())
	assert.False(t, ok)
}

func TestResizeUpdatesAspect(t *testing.T) {
	s, r := newTestScene(t, config.VariantShapes)

	s.Resize(800, 400)
	assert.Equal(t, 800, r.width)
	assert.InDelta(t, 2.0, s.Camera().Aspect(), 1e-6)

	s.Resize(0, 0)
	assert.Equal(t, 0, r.width)
	assert.InDelta(t, 2.0, s.Camera().Aspect(), 1e-6)
}

func TestResolveBindingsOfBothVariants(t *testing.T) {
	for _, tc := range []struct {
		variant string
		groups  int
		texture int
	}{
		{config.VariantColumns, 4, 3},
		{config.VariantShapes, 3, -1},
	} {
		t.Run(tc.variant, func(t *testing.T) {
			s, _ := newTestScene(t, tc.variant)
			l := s.(*scene).layout
			assert.Equal(t, tc.groups, l.groups)
			assert.Equal(t, groupBinding{0, 0}, l.pass)
			assert.Equal(t, groupBinding{1, 0}, l.object)
			assert.Equal(t, groupBinding{2, 0}, l.material)
			assert.Equal(t, tc.texture, l.texture.group)
		})
	}
}

func TestFlushWaitsForSubmittedFrames(t *testing.T) {
	s, r := newTestScene(t, config.VariantShapes)
	runFrame(t, s)

	// the frame's own marker is signalled after Present and still pending
	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Flush(short), context.DeadlineExceeded)

	r.fence.CompleteAll()
	assert.NoError(t, s.Flush(context.Background()))
}
