package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// binding is the GPU resource behind one @binding of the group. Exactly one of buffer, view or
// sampler is set once the renderer has initialised it; texture backs view.
type binding struct {
	buffer  *wgpu.Buffer
	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

func (b *binding) release() {
	if b.view != nil {
		b.view.Release()
	}
	if b.texture != nil {
		b.texture.Release()
	}
	if b.sampler != nil {
		b.sampler.Release()
	}
	if b.buffer != nil {
		b.buffer.Release()
	}
	*b = binding{}
}

// meshBuffers are the vertex, triangle index and edge index buffers of a mesh provider.
type meshBuffers struct {
	vertex, index, lineIndex *wgpu.Buffer
	indexCount               int
	lineIndexCount           int
}

type bindGroupProvider struct {
	label string

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	bindings        map[int]*binding

	mesh meshBuffers
}

// BindGroupProvider owns the GPU objects behind one bind group, or behind the shared mesh buffers.
// The scene creates one per frame slot constant group (pass, objects, materials), one per texture
// and one for the castle geometry. The Renderer fills it in and the scene binds it per draw.
//
// Lifecycle:
//  1. the scene creates a provider with a label
//  2. Renderer.InitBindGroup creates its buffers and bind group, or InitMeshBuffers its mesh buffers
//  3. frame.UploadBuffer.Flush produces BufferWrites against its buffers
//  4. Renderer.WriteBuffers uploads them and the scene binds BindGroup per draw
//
// Getters return nil until the renderer has stored the object.
type BindGroupProvider interface {
	// Label names the provider in logs and GPU object labels.
	Label() string

	// Release frees every GPU object the provider holds. Calling it twice is safe.
	Release()

	BindGroup() *wgpu.BindGroup
	BindGroupLayout() *wgpu.BindGroupLayout
	SetBindGroup(bg *wgpu.BindGroup)
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// Buffer returns the uniform or storage buffer at binding.
	Buffer(binding int) *wgpu.Buffer

	// SetBuffer stores the buffer the renderer created for binding.
	//
	// Parameters:
	//   - binding: the @binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	Texture(binding int) *wgpu.Texture
	TextureView(binding int) *wgpu.TextureView

	// SetTexture stores the texture behind a view so Release can free both.
	SetTexture(binding int, tex *wgpu.Texture)
	SetTextureView(binding int, tv *wgpu.TextureView)

	Sampler(binding int) *wgpu.Sampler
	SetSampler(binding int, s *wgpu.Sampler)

	// VertexBuffer, IndexBuffer and LineIndexBuffer belong to mesh providers. Wireframe
	// pipelines draw LineIndexBuffer instead of IndexBuffer.
	VertexBuffer() *wgpu.Buffer
	IndexBuffer() *wgpu.Buffer
	LineIndexBuffer() *wgpu.Buffer
	SetVertexBuffer(buf *wgpu.Buffer)
	SetIndexBuffer(buf *wgpu.Buffer)
	SetLineIndexBuffer(buf *wgpu.Buffer)

	// IndexCount is the number of uint32 triangle indices.
	IndexCount() int

	// LineIndexCount is the number of uint32 edge indices.
	LineIndexCount() int
	SetIndexCount(count int)
	SetLineIndexCount(count int)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider. GPU objects are attached by the Renderer.
//
// Parameters:
//   - label: the debug label, also used for GPU object labels
//   - options: functional options applied in order
//
// Returns:
//   - BindGroupProvider: the provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:    label,
		bindings: make(map[int]*binding),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// at returns the binding record, creating it on first use.
func (p *bindGroupProvider) at(index int) *binding {
	b, ok := p.bindings[index]
	if !ok {
		b = &binding{}
		p.bindings[index] = b
	}
	return b
}

// lookup returns an empty record for bindings never set, so getters need no nil checks.
func (p *bindGroupProvider) lookup(index int) binding {
	if b, ok := p.bindings[index]; ok {
		return *b
	}
	return binding{}
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) Buffer(index int) *wgpu.Buffer {
	return p.lookup(index).buffer
}

func (p *bindGroupProvider) SetBuffer(index int, buf *wgpu.Buffer) {
	p.at(index).buffer = buf
}

func (p *bindGroupProvider) Texture(index int) *wgpu.Texture {
	return p.lookup(index).texture
}

func (p *bindGroupProvider) TextureView(index int) *wgpu.TextureView {
	return p.lookup(index).view
}

func (p *bindGroupProvider) SetTexture(index int, tex *wgpu.Texture) {
	p.at(index).texture = tex
}

func (p *bindGroupProvider) SetTextureView(index int, tv *wgpu.TextureView) {
	p.at(index).view = tv
}

func (p *bindGroupProvider) Sampler(index int) *wgpu.Sampler {
	return p.lookup(index).sampler
}

func (p *bindGroupProvider) SetSampler(index int, s *wgpu.Sampler) {
	p.at(index).sampler = s
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.mesh.vertex
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.mesh.index
}

func (p *bindGroupProvider) LineIndexBuffer() *wgpu.Buffer {
	return p.mesh.lineIndex
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.mesh.vertex = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.mesh.index = buf
}

func (p *bindGroupProvider) SetLineIndexBuffer(buf *wgpu.Buffer) {
	p.mesh.lineIndex = buf
}

func (p *bindGroupProvider) IndexCount() int {
	return p.mesh.indexCount
}

func (p *bindGroupProvider) LineIndexCount() int {
	return p.mesh.lineIndexCount
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.mesh.indexCount = count
}

func (p *bindGroupProvider) SetLineIndexCount(count int) {
	p.mesh.lineIndexCount = count
}

// Release frees the bind group before the resources it references.
func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	for index, b := range p.bindings {
		b.release()
		delete(p.bindings, index)
	}
	for _, buf := range []*wgpu.Buffer{p.mesh.vertex, p.mesh.index, p.mesh.lineIndex} {
		if buf != nil {
			buf.Release()
		}
	}
	p.mesh.vertex, p.mesh.index, p.mesh.lineIndex = nil, nil, nil
}
