package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextureStagingDataValidate(t *testing.T) {
	assert.ErrorIs(t, TextureStagingData{}.Validate(), ErrEmptyTexture)

	ok := TextureStagingData{Levels: []TextureLevel{
		{Pixels: make([]byte, 4*2*4), Width: 4, Height: 2},
		{Pixels: make([]byte, 2*1*4), Width: 2, Height: 1},
	}}
	assert.NoError(t, ok.Validate())
	assert.Equal(t, uint32(2), ok.MipLevelCount())
	assert.Equal(t, uint32(16), ok.Base().RowBytes())

	short := TextureStagingData{Levels: []TextureLevel{ok.Levels[0], {Pixels: make([]byte, 4), Width: 2, Height: 1}}}
	err := short.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mip 1")

	zero := TextureStagingData{Levels: []TextureLevel{{Width: 0, Height: 4}}}
	assert.ErrorIs(t, zero.Validate(), ErrEmptyTexture)
}
