package texture

// textureConfig holds construction-only settings that are not kept on the texture.
type textureConfig struct {
	mips bool
}

// TextureBuilderOption is a functional option applied during NewTexture.
type TextureBuilderOption func(*texture, *textureConfig)

// WithSourceFile marks the texture as decoded from the given path.
//
// Parameters:
//   - path: the image file the pixels were read from
//
// Returns:
//   - TextureBuilderOption: a function that records the file source
func WithSourceFile(path string) TextureBuilderOption {
	return func(t *texture, _ *textureConfig) {
		t.source = SourceFile
		t.path = path
	}
}

// WithoutMips keeps only the base level.
//
// Returns:
//   - TextureBuilderOption: a function that disables mip generation
func WithoutMips() TextureBuilderOption {
	return func(_ *texture, cfg *textureConfig) {
		cfg.mips = false
	}
}
