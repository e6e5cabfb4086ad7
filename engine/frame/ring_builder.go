package frame

// RingBuilderOption is a functional option applied to a ring during NewRing.
type RingBuilderOption func(*ring)

// WithLabel sets the debug label used for the ring and its slot buffers.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - RingBuilderOption: option function to apply
func WithLabel(label string) RingBuilderOption {
	return func(r *ring) {
		r.label = label
	}
}

// WithSize sets the number of frame slots. Values below 1 make NewRing fail with ErrInvalidRingSize.
//
// Parameters:
//   - n: the slot count
//
// Returns:
//   - RingBuilderOption: option function to apply
func WithSize(n int) RingBuilderOption {
	return func(r *ring) {
		r.size = n
	}
}

// WithPassSize sets the per-pass constant block size used by the default slot factory.
func WithPassSize(size uint64) RingBuilderOption {
	return func(r *ring) {
		r.resourceConfig.PassSize = size
	}
}

// WithObjectCount sets the number of per-object elements allocated by the default slot factory.
func WithObjectCount(n int) RingBuilderOption {
	return func(r *ring) {
		r.resourceConfig.ObjectCount = n
	}
}

// WithMaterials sets the per-material element size and count allocated by the default slot factory.
//
// Parameters:
//   - size: the unpadded size of one material element in bytes
//   - n: the number of materials
//
// Returns:
//   - RingBuilderOption: option function to apply
func WithMaterials(size uint64, n int) RingBuilderOption {
	return func(r *ring) {
		r.resourceConfig.MaterialSize = size
		r.resourceConfig.MaterialCount = n
	}
}

// WithFrameResourceFactory replaces the default slot factory. The factory is called once per slot
// with the slot index.
//
// Parameters:
//   - factory: builds the slot at the given index
//
// Returns:
//   - RingBuilderOption: option function to apply
func WithFrameResourceFactory(factory func(index int) (FrameResource, error)) RingBuilderOption {
	return func(r *ring) {
		r.resourceFactory = factory
	}
}
