package renderer

import (
	"cmp"
	"fmt"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// groupCount is one past the highest group index in layouts. Pipeline layouts cannot skip groups.
func groupCount(layouts map[int]wgpu.BindGroupLayoutDescriptor) int {
	n := 0
	for g := range layouts {
		n = max(n, g+1)
	}
	return n
}

// depthStencilState tests and writes depth as state asks. Stencil is unused.
func depthStencilState(state pipeline.State) *wgpu.DepthStencilState {
	always := wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways}
	return &wgpu.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: state.DepthWrite,
		DepthCompare:      state.DepthCompare(),
		StencilFront:      always,
		StencilBack:       always,
	}
}

// bufferUsage is the usage a buffer entry needs: uniform or storage, always writable from the queue.
func bufferUsage(entry wgpu.BindGroupLayoutEntry) wgpu.BufferUsage {
	if entry.Buffer.Type == wgpu.BufferBindingTypeUniform {
		return wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	}
	return wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
}

// bindingWindow is how much of a buffer a bind group entry exposes. Dynamic entries expose one
// element that each draw offsets into.
func bindingWindow(entry wgpu.BindGroupLayoutEntry) uint64 {
	if entry.Buffer.HasDynamicOffset {
		return entry.Buffer.MinBindingSize
	}
	return wgpu.WholeSize
}

// samplerDescriptor fills the zero fields of data with their documented defaults.
// FilterModeNearest is the zero filter, so filters are taken as given.
func samplerDescriptor(label string, data common.SamplerStagingData) *wgpu.SamplerDescriptor {
	return &wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  cmp.Or(data.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  cmp.Or(data.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  cmp.Or(data.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     data.MagFilter,
		MinFilter:     data.MinFilter,
		MipmapFilter:  data.MipmapFilter,
		LodMinClamp:   data.LodMinClamp,
		LodMaxClamp:   cmp.Or(data.LodMaxClamp, 32.0),
		MaxAnisotropy: cmp.Or(data.MaxAnisotropy, 1),
		Compare:       data.Compare,
	}
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline, layouts map[int]wgpu.BindGroupLayoutDescriptor) error {
	vs := p.Shader(shader.ShaderTypeVertex)
	fs := p.Shader(shader.ShaderTypeFragment)
	if vs == nil || fs == nil {
		return fmt.Errorf("pipeline %s needs a vertex and a fragment shader", p.PipelineKey())
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	vertexModule, err := b.device.CreateShaderModule(vs.Module())
	if err != nil {
		return fmt.Errorf("vertex module %s: %w", vs.Key(), err)
	}
	fragmentModule, err := b.device.CreateShaderModule(fs.Module())
	if err != nil {
		return fmt.Errorf("fragment module %s: %w", fs.Key(), err)
	}

	groups := make([]*wgpu.BindGroupLayout, groupCount(layouts))
	for g := range groups {
		desc, ok := layouts[g]
		if !ok {
			desc = wgpu.BindGroupLayoutDescriptor{Label: fmt.Sprintf("%s empty group %d", p.PipelineKey(), g)}
		}
		if groups[g], err = b.device.CreateBindGroupLayout(&desc); err != nil {
			return fmt.Errorf("group %d layout: %w", g, err)
		}
	}
	layout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: groups,
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}

	state := p.State()
	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey(),
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vertexModule,
			EntryPoint: vs.EntryPoint(),
			Buffers:    vs.VertexBuffers(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fragmentModule,
			EntryPoint: fs.EntryPoint(),
			Targets: []wgpu.ColorTargetState{{
				Format:    b.format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  state.Topology,
			FrontFace: state.FrontFace,
			CullMode:  state.CullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencilState(state),
	})
	if err != nil {
		return err
	}
	p.SetRenderPipeline(created)
	return nil
}

// upload creates a buffer of len(data) bytes and queues data into it.
func (b *wgpuRendererBackendImpl) upload(label string, usage wgpu.BufferUsage, data []byte) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData, lineIndexData []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	uploads := []struct {
		name  string
		usage wgpu.BufferUsage
		data  []byte
		set   func(*wgpu.Buffer)
	}{
		{"Vertices", wgpu.BufferUsageVertex, vertexData, provider.SetVertexBuffer},
		{"Indices", wgpu.BufferUsageIndex, indexData, provider.SetIndexBuffer},
		{"Line Indices", wgpu.BufferUsageIndex, lineIndexData, provider.SetLineIndexBuffer},
	}
	for _, u := range uploads {
		if len(u.data) == 0 {
			continue
		}
		buf, err := b.upload(provider.Label()+" "+u.name, u.usage, u.data)
		if err != nil {
			return err
		}
		u.set(buf)
	}
	provider.SetIndexCount(len(indexData) / 4)
	provider.SetLineIndexCount(len(lineIndexData) / 4)
	return nil
}

// bindGroupEntry resolves the resource behind one layout entry, creating its buffer if the provider
// has none yet. Callers hold b.mu.
func (b *wgpuRendererBackendImpl) bindGroupEntry(provider bind_group_provider.BindGroupProvider, entry wgpu.BindGroupLayoutEntry, sizeOverrides map[int]uint64) (wgpu.BindGroupEntry, error) {
	index := int(entry.Binding)
	switch {
	case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
		view := provider.TextureView(index)
		if view == nil {
			return wgpu.BindGroupEntry{}, fmt.Errorf("%s binding %d: texture not initialised", provider.Label(), index)
		}
		return wgpu.BindGroupEntry{Binding: entry.Binding, TextureView: view}, nil

	case entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
		s := provider.Sampler(index)
		if s == nil {
			return wgpu.BindGroupEntry{}, fmt.Errorf("%s binding %d: sampler not initialised", provider.Label(), index)
		}
		return wgpu.BindGroupEntry{Binding: entry.Binding, Sampler: s}, nil
	}

	buf := provider.Buffer(index)
	if buf == nil {
		size, ok := sizeOverrides[index]
		if !ok {
			size = entry.Buffer.MinBindingSize
		}
		var err error
		buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("%s binding %d", provider.Label(), index),
			Size:  size,
			Usage: bufferUsage(entry),
		})
		if err != nil {
			return wgpu.BindGroupEntry{}, err
		}
		provider.SetBuffer(index, buf)
	}
	return wgpu.BindGroupEntry{Binding: entry.Binding, Buffer: buf, Size: bindingWindow(entry)}, nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	if len(descriptor.Entries) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		if layout, err = b.device.CreateBindGroupLayout(&descriptor); err != nil {
			return err
		}
		provider.SetBindGroupLayout(layout)
	}

	entries := make([]wgpu.BindGroupEntry, 0, len(descriptor.Entries))
	for _, e := range descriptor.Entries {
		entry, err := b.bindGroupEntry(provider, e, bufferSizeOverrides)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label(),
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(group)
	return nil
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	base := stagingData.Base()
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         provider.Label(),
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          wgpu.Extent3D{Width: base.Width, Height: base.Height, DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: stagingData.MipLevelCount(),
		SampleCount:   1,
	})
	if err != nil {
		return err
	}

	for mip, level := range stagingData.Levels {
		b.queue.WriteTexture(
			&wgpu.ImageCopyTexture{Texture: tex, MipLevel: uint32(mip), Aspect: wgpu.TextureAspectAll},
			level.Pixels,
			&wgpu.TextureDataLayout{BytesPerRow: level.RowBytes(), RowsPerImage: level.Height},
			&wgpu.Extent3D{Width: level.Width, Height: level.Height, DepthOrArrayLayers: 1},
		)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	provider.SetTexture(bindingKey, tex)
	provider.SetTextureView(bindingKey, view)
	return nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.device.CreateSampler(samplerDescriptor(provider.Label(), samplerStagingData))
	if err != nil {
		return err
	}
	provider.SetSampler(bindingKey, s)
	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		switch {
		case buf == nil:
			common.LogWarn("dropping %d byte write to %s binding %d: no buffer", w.Size(), w.Provider.Label(), w.Binding)
		case w.End() > buf.GetSize():
			common.LogWarn("dropping write to %s binding %d: bytes %d..%d exceed size %d", w.Provider.Label(), w.Binding, w.Offset, w.End(), buf.GetSize())
		default:
			b.queue.WriteBuffer(buf, w.Offset, w.Data)
		}
	}
}
