package renderer

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// skippableAcquire are the GetCurrentTexture failures that clear up by themselves or after the
// next resize. The binding reports the surface status only as message text.
var skippableAcquire = []string{"timeout", "timed out", "outdated", "lost"}

// acquireError classifies a GetCurrentTexture failure. Timeouts and outdated or lost surfaces
// wrap ErrSurfaceUnavailable; a lost device or exhausted memory does not.
func acquireError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ReplaceAll(strings.ToLower(err.Error()), "-", " ")
	if strings.Contains(msg, "device lost") || strings.Contains(msg, "out of memory") {
		return fmt.Errorf("acquire swapchain image: %w", err)
	}
	for _, s := range skippableAcquire {
		if strings.Contains(msg, s) {
			return fmt.Errorf("acquire swapchain image: %w: %w", ErrSurfaceUnavailable, err)
		}
	}
	return fmt.Errorf("acquire swapchain image: %w", err)
}

type boundGroup struct {
	provider bind_group_provider.BindGroupProvider
	offsets  []uint32
}

// passBindings remembers the pipeline and bind groups set on the open pass so a draw only
// rebinds what differs from the previous draw.
type passBindings struct {
	pipeline pipeline.Pipeline
	groups   []boundGroup
}

// usePipeline reports whether p has to be set. Switching pipelines forgets the bound groups.
func (pb *passBindings) usePipeline(p pipeline.Pipeline) bool {
	if pb.pipeline == p {
		return false
	}
	pb.pipeline = p
	pb.groups = pb.groups[:0]
	return true
}

// bind records b at group and reports whether it differs from what the group already holds.
// Bindings without a provider are never set.
func (pb *passBindings) bind(group int, b BindGroupBinding) bool {
	if b.Provider == nil {
		return false
	}
	if group >= len(pb.groups) {
		pb.groups = append(pb.groups, make([]boundGroup, group+1-len(pb.groups))...)
	}
	cur := &pb.groups[group]
	if cur.provider == b.Provider && slices.Equal(cur.offsets, b.DynamicOffsets) {
		return false
	}
	cur.provider = b.Provider
	cur.offsets = slices.Clone(b.DynamicOffsets)
	return true
}

// openFrame holds the GPU objects of the frame between BeginFrame and Present.
// encoder and pass are nil once the frame has been submitted.
type openFrame struct {
	image    *wgpu.Texture
	view     *wgpu.TextureView
	encoder  *wgpu.CommandEncoder
	pass     *wgpu.RenderPassEncoder
	bindings passBindings
}

// recording reports whether draws can still be encoded. It is safe on a nil frame.
func (f *openFrame) recording() bool {
	return f != nil && f.pass != nil
}

// endPass ends and releases the render pass.
func (f *openFrame) endPass() error {
	err := f.pass.End()
	f.pass.Release()
	f.pass = nil
	return err
}

// abandon releases whatever the frame still holds without submitting or presenting it.
func (f *openFrame) abandon() {
	if f == nil {
		return
	}
	if f.pass != nil {
		_ = f.endPass()
	}
	if f.encoder != nil {
		f.encoder.Release()
		f.encoder = nil
	}
	if f.view != nil {
		f.view.Release()
		f.view = nil
	}
	if f.image != nil {
		f.image.Release()
		f.image = nil
	}
}

// BeginFrame wraps ErrSurfaceUnavailable only for skippable acquire failures. Failing to create
// the image view or command encoder means the device is gone and panics.
func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame != nil {
		return errors.New("previous frame not yet presented")
	}
	if !b.targets.ready() {
		return errors.New("no render attachments for the surface")
	}

	image, err := b.surface.GetCurrentTexture()
	if err != nil {
		return acquireError(err)
	}
	f := &openFrame{image: image}
	if f.view, err = f.image.CreateView(nil); err != nil {
		f.abandon()
		panic(fmt.Sprintf("renderer: create swapchain view: %v", err))
	}
	if f.encoder, err = b.device.CreateCommandEncoder(nil); err != nil {
		f.abandon()
		panic(fmt.Sprintf("renderer: create command encoder: %v", err))
	}
	f.pass = f.encoder.BeginRenderPass(b.targets.target(f.view))
	b.frame = f
	return nil
}

func (b *wgpuRendererBackendImpl) DrawIndexed(p pipeline.Pipeline, cmd DrawCommand) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.frame.recording() {
		return
	}
	pass, bound := b.frame.pass, &b.frame.bindings

	if bound.usePipeline(p) {
		pass.SetPipeline(p.RenderPipeline())
	}
	for group, bg := range cmd.BindGroups {
		if bound.bind(group, bg) {
			pass.SetBindGroup(uint32(group), bg.Provider.BindGroup(), bg.DynamicOffsets)
		}
	}

	indices := cmd.Mesh.IndexBuffer()
	if p.LineIndexed() {
		indices = cmd.Mesh.LineIndexBuffer()
	}
	count, first := cmd.indexArgs(p.LineIndexed())

	pass.SetVertexBuffer(0, cmd.Mesh.VertexBuffer(), 0, wgpu.WholeSize)
	pass.SetIndexBuffer(indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(count, 1, first, cmd.Range.BaseVertex, 0)
}

// EndFrame submits the recorded commands. When the pass or the command buffer cannot be
// finished the frame is dropped unsubmitted and the error returned.
func (b *wgpuRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	f := b.frame
	if !f.recording() {
		return errors.New("no frame recording")
	}
	if err := f.endPass(); err != nil {
		f.abandon()
		b.frame = nil
		return fmt.Errorf("end render pass: %w", err)
	}

	commands, err := f.encoder.Finish(nil)
	f.encoder.Release()
	f.encoder = nil
	if err != nil {
		f.abandon()
		b.frame = nil
		return fmt.Errorf("finish frame commands: %w", err)
	}
	b.queue.Submit(commands)
	commands.Release()
	return nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frame == nil {
		return
	}
	b.surface.Present()
	b.frame.abandon()
	b.frame = nil
}
