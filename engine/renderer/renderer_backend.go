package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/engine/geometry"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ParsePresentMode maps a config name ("vsync" or "uncapped") to a PresentMode.
// Unknown names fall back to PresentModeVSync.
func ParsePresentMode(name string) PresentMode {
	if name == "uncapped" {
		return PresentModeUncapped
	}
	return PresentModeVSync
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// FrameState is the position of the renderer in its per-frame cycle.
type FrameState int

const (
	// FrameStateIdle means no frame is open. BeginFrame is the only valid frame call.
	FrameStateIdle FrameState = iota
	// FrameStateRecording means a render pass is open and draws may be recorded.
	FrameStateRecording
	// FrameStateSubmitted means the command buffer has been submitted but not yet presented.
	FrameStateSubmitted
	// FrameStatePresented means the frame reached the display. The next BeginFrame starts over.
	FrameStatePresented
)

func (s FrameState) String() string {
	switch s {
	case FrameStateIdle:
		return "idle"
	case FrameStateRecording:
		return "recording"
	case FrameStateSubmitted:
		return "submitted"
	case FrameStatePresented:
		return "presented"
	default:
		return "unknown"
	}
}

var (
	// ErrFrameState is returned when a frame call arrives out of order.
	ErrFrameState = errors.New("renderer: frame call out of order")

	// ErrSurfaceUnavailable is returned by BeginFrame when the surface has zero size or its
	// image acquire timed out or found the surface outdated or lost. The caller skips the frame;
	// any other BeginFrame error is a failed frame.
	ErrSurfaceUnavailable = errors.New("renderer: surface unavailable")

	// ErrUnknownPipeline is returned when a draw names a pipeline that was never registered.
	ErrUnknownPipeline = errors.New("renderer: unknown pipeline")

	// ErrDrawRange is returned when a draw reaches past the end of the mesh's index buffer.
	ErrDrawRange = errors.New("renderer: draw range outside index buffer")
)

// BindGroupBinding is one bind group set for a draw, with the dynamic offsets its
// storage_uniform_dynamic entries take, in binding order.
type BindGroupBinding struct {
	Provider       bind_group_provider.BindGroupProvider
	DynamicOffsets []uint32
}

// DrawCommand describes one indexed draw of a sub-range of the shared mesh buffers.
// BindGroups is indexed by group number. Wireframe pipelines read the line fields of Range.
type DrawCommand struct {
	PipelineKey string
	Mesh        bind_group_provider.BindGroupProvider
	Range       geometry.SubmeshRange
	BindGroups  []BindGroupBinding
}

// indexArgs resolves the index count and first index for the pipeline's topology.
func (c DrawCommand) indexArgs(lineIndexed bool) (count, first uint32) {
	if lineIndexed {
		return c.Range.LineIndexCount, c.Range.LineStartIndex
	}
	return c.Range.IndexCount, c.Range.StartIndex
}

// RendererBackend is the set of GPU operations the Renderer drives. Frame ordering and draw range
// checks happen in the Renderer, so a backend may assume its calls arrive in order.
type RendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and recreates the size dependent attachments.
	ConfigureSurface(width, height int)
	SetPresentMode(mode PresentMode)
	SetClearColor(color wgpu.Color)

	// RegisterRenderPipeline creates the GPU pipeline for p and stores it on p.
	//
	// Parameters:
	//   - p: the pipeline with both shader stages set
	//   - layouts: the bind group layouts of both stages merged, keyed by group
	//
	// Returns:
	//   - error: module, layout or pipeline creation failure
	RegisterRenderPipeline(p pipeline.Pipeline, layouts map[int]wgpu.BindGroupLayoutDescriptor) error

	// InitMeshBuffers uploads vertex, triangle index and line index data into new buffers on
	// provider. Empty slices create no buffer.
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData, lineIndexData []byte) error

	// InitBindGroup creates the missing buffers of descriptor on provider, then its bind group.
	// Texture and sampler entries must already be initialised.
	//
	// Parameters:
	//   - provider: receives the buffers, layout and bind group
	//   - descriptor: the reflected layout of the group
	//   - bufferSizeOverrides: buffer sizes by binding, replacing the reflected minimum
	//
	// Returns:
	//   - error: a missing texture or sampler, or a creation failure
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues every write. Writes that fall outside their buffer are dropped.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next swapchain image and opens the main render pass. Only a
	// temporarily unavailable image wraps ErrSurfaceUnavailable.
	BeginFrame() error
	DrawIndexed(p pipeline.Pipeline, cmd DrawCommand)

	// EndFrame closes the pass and submits the command buffer. On error nothing was submitted
	// and the frame is dropped.
	EndFrame() error
	Present()
	Release()
}
