package frame

import (
	"fmt"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/bind_group_provider"
)

// frameResource is the implementation of the FrameResource interface.
type frameResource struct {
	index int
	fence uint64

	pass      *UploadBuffer
	objects   *UploadBuffer
	materials *UploadBuffer
}

// FrameResource is one slot of the frame ring: the constant buffers the CPU fills for a frame
// and the fence marker of the last submission that read them.
type FrameResource interface {
	// Index returns the slot's position in the ring.
	Index() int

	// Fence returns the marker recorded when the slot was last submitted, or 0 if never submitted.
	Fence() uint64

	// SetFence records the marker of the submission that reads this slot.
	//
	// Parameters:
	//   - value: the fence marker
	SetFence(value uint64)

	// Pass returns the per-pass constant buffer (one element).
	Pass() *UploadBuffer

	// Objects returns the per-object constant buffer (one aligned element per instance).
	Objects() *UploadBuffer

	// Materials returns the per-material constant buffer (one aligned element per material).
	Materials() *UploadBuffer

	// Flush collects the queued writes of all three buffers.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: writes to hand to the renderer
	Flush() []bind_group_provider.BufferWrite

	// Release releases the GPU resources held by the attached providers.
	Release()
}

var _ FrameResource = &frameResource{}

// FrameResourceConfig sizes the buffers of one frame slot.
type FrameResourceConfig struct {
	// Label prefixes the debug labels of the slot's buffers.
	Label string
	// PassSize is the size in bytes of the per-pass constant block.
	PassSize uint64
	// ObjectCount is the number of per-object elements.
	ObjectCount int
	// MaterialSize is the unpadded size in bytes of one per-material element.
	MaterialSize uint64
	// MaterialCount is the number of per-material elements.
	MaterialCount int
}

// NewFrameResource allocates the CPU mirrors for slot index.
// Object and material elements are padded to the uniform offset alignment.
//
// Parameters:
//   - index: the slot index in the ring
//   - cfg: buffer sizes
//
// Returns:
//   - FrameResource: the new slot
func NewFrameResource(index int, cfg FrameResourceConfig) FrameResource {
	objectSize := uint64(unsafe.Sizeof(GPUObjectConstants{}))
	return &frameResource{
		index:     index,
		pass:      NewUploadBuffer(fmt.Sprintf("%s[%d].pass", cfg.Label, index), cfg.PassSize, 1, false),
		objects:   NewUploadBuffer(fmt.Sprintf("%s[%d].objects", cfg.Label, index), objectSize, cfg.ObjectCount, true),
		materials: NewUploadBuffer(fmt.Sprintf("%s[%d].materials", cfg.Label, index), cfg.MaterialSize, cfg.MaterialCount, true),
	}
}

func (f *frameResource) Index() int {
	return f.index
}

func (f *frameResource) Fence() uint64 {
	return f.fence
}

func (f *frameResource) SetFence(value uint64) {
	f.fence = value
}

func (f *frameResource) Pass() *UploadBuffer {
	return f.pass
}

func (f *frameResource) Objects() *UploadBuffer {
	return f.objects
}

func (f *frameResource) Materials() *UploadBuffer {
	return f.materials
}

func (f *frameResource) Flush() []bind_group_provider.BufferWrite {
	writes := f.objects.Flush()
	writes = append(writes, f.materials.Flush()...)
	writes = append(writes, f.pass.Flush()...)
	return writes
}

func (f *frameResource) Release() {
	released := make(map[bind_group_provider.BindGroupProvider]bool)
	for _, b := range []*UploadBuffer{f.pass, f.objects, f.materials} {
		p := b.Provider()
		if p == nil || released[p] {
			continue
		}
		p.Release()
		released[p] = true
	}
}
