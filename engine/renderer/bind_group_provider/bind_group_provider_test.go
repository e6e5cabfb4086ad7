package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderIsEmpty(t *testing.T) {
	p := NewBindGroupProvider("castle.mesh", WithIndexCounts(36, 72))

	assert.Equal(t, "castle.mesh", p.Label())
	assert.Equal(t, 36, p.IndexCount())
	assert.Equal(t, 72, p.LineIndexCount())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.LineIndexBuffer())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.Texture(0))
	assert.Nil(t, p.Sampler(1))

	// releasing a provider the renderer never initialised is a no-op
	assert.NotPanics(t, p.Release)
	assert.NotPanics(t, p.Release)
}

func TestSetCountsAfterConstruction(t *testing.T) {
	p := NewBindGroupProvider("castle.mesh")
	p.SetIndexCount(2304)
	p.SetLineIndexCount(4608)
	assert.Equal(t, 2304, p.IndexCount())
	assert.Equal(t, 4608, p.LineIndexCount())
}

func TestGettersDoNotCreateBindings(t *testing.T) {
	p := NewBindGroupProvider("objects").(*bindGroupProvider)
	_ = p.Buffer(3)
	_ = p.TextureView(4)
	assert.Empty(t, p.bindings)

	p.SetBuffer(0, nil)
	assert.Len(t, p.bindings, 1)
	p.Release()
	assert.Empty(t, p.bindings)
}

func TestBufferWriteRange(t *testing.T) {
	w := BufferWrite{Offset: 256, Data: make([]byte, 128)}
	assert.Equal(t, uint64(128), w.Size())
	assert.Equal(t, uint64(384), w.End())
	assert.Equal(t, uint64(0), BufferWrite{}.End())
}
