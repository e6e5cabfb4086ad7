package renderer

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/engine/frame"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline
	// layouts holds the merged vertex+fragment bind group layout descriptors of each pipeline.
	layouts map[string]map[int]wgpu.BindGroupLayoutDescriptor

	backendType RendererBackendType
	backend     RendererBackend
	fence       frame.Fence

	state         FrameState
	width, height int
	draws         int

	settings settings
}

// SurfaceSource is the part of a window the renderer needs to create and size its surface.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the GPU device, caches pipelines, creates buffers, textures and bind groups
// for BindGroupProviders, and records one render pass per frame. Frame calls must follow
// BeginFrame, DrawIndexed..., EndFrame, Present; anything else returns ErrFrameState.
type Renderer interface {
	// Pipeline returns the registered pipeline with key, or nil.
	Pipeline(key string) pipeline.Pipeline
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines creates the GPU objects of each pipeline and caches it by PipelineKey.
	// Keys already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: a missing shader stage or a backend failure
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// BindGroupLayout returns one group of a registered pipeline's layout, merged over both
	// stages. Bind groups built from it work with every pipeline sharing the layout.
	BindGroupLayout(pipelineKey string, group int) (wgpu.BindGroupLayoutDescriptor, bool)

	// Resize reconfigures the surface. A zero width or height is recorded and the surface is left
	// alone until the next non-zero size.
	Resize(width, height int)
	Size() (width, height int)

	// SetPresentMode takes effect on the next Resize.
	SetPresentMode(mode PresentMode)
	SetClearColor(r, g, b, a float64)

	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData, lineIndexData []byte) error

	// InitBindGroup creates the buffers and bind group of descriptor on provider. Textures and
	// samplers must be attached first. Dynamic-offset buffers bind a window of MinBindingSize bytes.
	//
	// Parameters:
	//   - provider: receives the created objects
	//   - descriptor: a layout from BindGroupLayout
	//   - bufferSizeOverrides: buffer sizes by binding index instead of MinBindingSize, may be nil
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// InitTextureView uploads every mip level of stagingData into an sRGB texture on provider.
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues every write for upload before the next submission.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain image and opens the render pass, clearing colour and depth.
	//
	// Returns:
	//   - error: ErrFrameState if a frame is already open, ErrSurfaceUnavailable if the image is
	//     temporarily unavailable, any other error if the frame failed
	BeginFrame() error

	// DrawIndexed records one draw in the open pass.
	//
	// Returns:
	//   - error: ErrFrameState, ErrUnknownPipeline or ErrDrawRange
	DrawIndexed(cmd DrawCommand) error

	// EndFrame closes the pass and submits it. Present then shows the frame. If submission fails
	// the frame is dropped and the renderer returns to FrameStateIdle.
	EndFrame() error
	Present() error
	State() FrameState

	// Fence returns the completion marker signalled after each submission.
	Fence() frame.Fence

	// Flush blocks until every submitted command buffer has completed or ctx ends.
	Flush(ctx context.Context) error

	// Release releases the cached pipelines and the device. Call Flush first.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend, sized to the surface source.
// Backend creation failures panic.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the window providing the platform surface descriptor and size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) Renderer {
	r := newRenderer(backendType, options...)

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		b := newWGPURendererBackend(surface.SurfaceDescriptor(), r.settings.software, r.settings.msaa)
		r.backend = b
		r.fence = newWGPUFence(b.Device(), b.Queue())
	}

	r.applyPending()
	r.Resize(surface.Width(), surface.Height())
	return r
}

// newRenderer builds the frontend without a backend.
func newRenderer(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		layouts:       make(map[string]map[int]wgpu.BindGroupLayoutDescriptor),
		backendType:   backendType,
		settings:      defaultSettings,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// applyPending pushes the settings that need a backend into it.
func (r *renderer) applyPending() {
	r.backend.SetPresentMode(r.settings.presentMode)
	r.backend.SetClearColor(r.settings.clearColor)
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	r.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	r.settings.presentMode = mode
	r.mu.Unlock()
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(red, green, blue, alpha float64) {
	r.mu.Lock()
	r.settings.clearColor = wgpu.Color{R: red, G: green, B: blue, A: alpha}
	c := r.settings.clearColor
	r.mu.Unlock()
	r.backend.SetClearColor(c)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		vs := p.Shader(shader.ShaderTypeVertex)
		fs := p.Shader(shader.ShaderTypeFragment)
		if vs == nil || fs == nil {
			return fmt.Errorf("register pipeline %q: both vertex and fragment shaders must be set", key)
		}

		merged := mergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
		if err := r.backend.RegisterRenderPipeline(p, merged); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
		r.layouts[key] = merged
		common.LogDebug("registered pipeline %q with %d bind groups", key, len(merged))
	}
	return nil
}

func (r *renderer) BindGroupLayout(pipelineKey string, group int) (wgpu.BindGroupLayoutDescriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	desc, ok := r.layouts[pipelineKey][group]
	return desc, ok
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData, lineIndexData []byte) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, lineIndexData)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	if err := stagingData.Validate(); err != nil {
		return fmt.Errorf("texture %s: %w", provider.Label(), err)
	}
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	if len(writes) == 0 {
		return
	}
	r.backend.WriteBuffers(writes)
}

// transition moves the frame state from one of from to to, or reports ErrFrameState.
func (r *renderer) transition(call string, to FrameState, from ...FrameState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range from {
		if r.state == f {
			r.state = to
			return nil
		}
	}
	return fmt.Errorf("%s while %s: %w", call, r.state, ErrFrameState)
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	state, width, height := r.state, r.width, r.height
	r.mu.Unlock()

	if state != FrameStateIdle && state != FrameStatePresented {
		return fmt.Errorf("BeginFrame while %s: %w", state, ErrFrameState)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("surface is %dx%d: %w", width, height, ErrSurfaceUnavailable)
	}
	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}

	r.mu.Lock()
	r.state = FrameStateRecording
	r.draws = 0
	r.mu.Unlock()
	return nil
}

func (r *renderer) DrawIndexed(cmd DrawCommand) error {
	r.mu.Lock()
	state := r.state
	p, exists := r.pipelineCache[cmd.PipelineKey]
	r.mu.Unlock()

	if state != FrameStateRecording {
		return fmt.Errorf("DrawIndexed while %s: %w", state, ErrFrameState)
	}
	if !exists {
		return fmt.Errorf("draw with %q: %w", cmd.PipelineKey, ErrUnknownPipeline)
	}

	count, first := cmd.indexArgs(p.LineIndexed())
	limit := cmd.Mesh.IndexCount()
	if p.LineIndexed() {
		limit = cmd.Mesh.LineIndexCount()
	}
	if uint64(first)+uint64(count) > uint64(limit) {
		return fmt.Errorf("draw [%d, %d) of %s with %d indices: %w", first, first+count, cmd.Mesh.Label(), limit, ErrDrawRange)
	}

	r.backend.DrawIndexed(p, cmd)

	r.mu.Lock()
	r.draws++
	r.mu.Unlock()
	return nil
}

func (r *renderer) EndFrame() error {
	if err := r.transition("EndFrame", FrameStateSubmitted, FrameStateRecording); err != nil {
		return err
	}
	if err := r.backend.EndFrame(); err != nil {
		r.mu.Lock()
		r.state = FrameStateIdle
		r.mu.Unlock()
		return fmt.Errorf("end frame: %w", err)
	}
	return nil
}

func (r *renderer) Present() error {
	if err := r.transition("Present", FrameStatePresented, FrameStateSubmitted); err != nil {
		return err
	}
	r.backend.Present()
	return nil
}

func (r *renderer) State() FrameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Draws returns the number of draws recorded in the current or last frame.
func (r *renderer) Draws() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draws
}

func (r *renderer) Fence() frame.Fence {
	return r.fence
}

func (r *renderer) Flush(ctx context.Context) error {
	current := r.fence.Current()
	if current == 0 {
		return nil
	}
	if err := r.fence.Wait(ctx, current); err != nil {
		return fmt.Errorf("flush renderer at marker %d: %w", current, err)
	}
	return nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.pipelineCache {
		if rp := p.RenderPipeline(); rp != nil {
			rp.Release()
		}
		delete(r.pipelineCache, key)
	}
	r.backend.Release()
	r.state = FrameStateIdle
}

// mergeBindGroupLayouts combines the per-stage layouts of one pipeline. A binding declared by
// several stages is visible to all of them, and dynamic if any stage declared it dynamic.
// Entries come out sorted by binding.
func mergeBindGroupLayouts(stages ...map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	byGroup := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	labels := make(map[int]string)
	for _, layouts := range stages {
		for g, desc := range layouts {
			if byGroup[g] == nil {
				byGroup[g] = make(map[uint32]wgpu.BindGroupLayoutEntry)
				labels[g] = desc.Label
			}
			for _, e := range desc.Entries {
				if seen, ok := byGroup[g][e.Binding]; ok {
					e.Visibility |= seen.Visibility
					e.Buffer.HasDynamicOffset = e.Buffer.HasDynamicOffset || seen.Buffer.HasDynamicOffset
				}
				byGroup[g][e.Binding] = e
			}
		}
	}

	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, len(byGroup))
	for g, entries := range byGroup {
		sorted := slices.SortedFunc(maps.Values(entries), func(a, b wgpu.BindGroupLayoutEntry) int {
			return cmp.Compare(a.Binding, b.Binding)
		})
		merged[g] = wgpu.BindGroupLayoutDescriptor{Label: labels[g], Entries: sorted}
	}
	return merged
}
