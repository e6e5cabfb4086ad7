package frame

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-castle/common"
	"github.com/Carmen-Shannon/oxy-castle/engine/renderer/bind_group_provider"
)

// UploadBuffer is a CPU mirror of one GPU constant buffer holding count fixed-size elements.
// Element writes land in the mirror and are queued; Flush turns the queued elements into
// BufferWrites against the GPU buffer stored on the attached provider.
//
// UploadBuffer is not safe for concurrent use. It is owned by the render goroutine.
type UploadBuffer struct {
	label       string
	elementSize uint64
	count       int
	data        []byte

	pending []bool
	writes  []int

	provider bind_group_provider.BindGroupProvider
	binding  int
}

// NewUploadBuffer allocates a mirror for count elements of elementSize bytes.
// When aligned is true each element is padded to common.UniformAlignment so it can be
// addressed with a dynamic offset.
//
// Parameters:
//   - label: debug label
//   - elementSize: the unpadded size of one element in bytes
//   - count: number of elements
//   - aligned: pad elements to the uniform offset alignment
//
// Returns:
//   - *UploadBuffer: the allocated buffer
func NewUploadBuffer(label string, elementSize uint64, count int, aligned bool) *UploadBuffer {
	if aligned {
		elementSize = common.AlignUniform(elementSize)
	}
	count = max(count, 0)
	return &UploadBuffer{
		label:       label,
		elementSize: elementSize,
		count:       count,
		data:        make([]byte, elementSize*uint64(count)),
		pending:     make([]bool, count),
		writes:      make([]int, count),
	}
}

// Label returns the debug label.
func (b *UploadBuffer) Label() string {
	return b.label
}

// ElementSize returns the (possibly padded) size of one element in bytes.
func (b *UploadBuffer) ElementSize() uint64 {
	return b.elementSize
}

// Count returns the number of elements.
func (b *UploadBuffer) Count() int {
	return b.count
}

// Size returns the total size of the buffer in bytes.
func (b *UploadBuffer) Size() uint64 {
	return uint64(len(b.data))
}

// DynamicOffset returns the byte offset of element index, as passed to SetBindGroup.
func (b *UploadBuffer) DynamicOffset(index int) uint32 {
	return uint32(uint64(index) * b.elementSize)
}

// CopyData copies data into element index and queues it for upload.
//
// Parameters:
//   - index: the element index
//   - data: the element bytes, at most ElementSize() long
//
// Returns:
//   - error: an error if index is out of range or data does not fit
func (b *UploadBuffer) CopyData(index int, data []byte) error {
	if index < 0 || index >= b.count {
		return fmt.Errorf("%s: element %d out of range [0, %d)", b.label, index, b.count)
	}
	if uint64(len(data)) > b.elementSize {
		return fmt.Errorf("%s: %d bytes exceed element size %d", b.label, len(data), b.elementSize)
	}
	off := uint64(index) * b.elementSize
	copy(b.data[off:off+b.elementSize], data)
	b.pending[index] = true
	b.writes[index]++
	return nil
}

// Element returns the mirrored bytes of element index.
func (b *UploadBuffer) Element(index int) []byte {
	off := uint64(index) * b.elementSize
	return b.data[off : off+b.elementSize]
}

// Writes returns how many times element index has been written since creation.
func (b *UploadBuffer) Writes(index int) int {
	return b.writes[index]
}

// SetProvider attaches the provider whose buffer at binding receives the flushed writes.
//
// Parameters:
//   - p: the provider owning the GPU buffer
//   - binding: the binding index of the buffer on the provider
func (b *UploadBuffer) SetProvider(p bind_group_provider.BindGroupProvider, binding int) {
	b.provider = p
	b.binding = binding
}

// Provider returns the attached provider, or nil.
func (b *UploadBuffer) Provider() bind_group_provider.BindGroupProvider {
	return b.provider
}

// Flush converts queued elements into BufferWrites, merging runs of adjacent elements into
// one write, and clears the queue. Without an attached provider the queue is cleared and no
// writes are returned.
//
// Returns:
//   - []bind_group_provider.BufferWrite: the writes to hand to the renderer
func (b *UploadBuffer) Flush() []bind_group_provider.BufferWrite {
	var writes []bind_group_provider.BufferWrite
	start := -1
	emit := func(end int) {
		if b.provider != nil {
			from := uint64(start) * b.elementSize
			to := uint64(end) * b.elementSize
			writes = append(writes, bind_group_provider.BufferWrite{
				Provider: b.provider,
				Binding:  b.binding,
				Offset:   from,
				Data:     b.data[from:to],
			})
		}
		start = -1
	}

	for i, p := range b.pending {
		switch {
		case p && start < 0:
			start = i
		case !p && start >= 0:
			emit(i)
		}
		b.pending[i] = false
	}
	if start >= 0 {
		emit(b.count)
	}
	return writes
}
