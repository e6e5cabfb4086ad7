package bind_group_provider

// BufferWrite is one queued upload into the buffer a provider holds at Binding.
// frame.UploadBuffer produces them and Renderer.WriteBuffers consumes them.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Size is the number of bytes the write uploads.
func (w BufferWrite) Size() uint64 {
	return uint64(len(w.Data))
}

// End is the first byte past the written range.
func (w BufferWrite) End() uint64 {
	return w.Offset + w.Size()
}
