package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLightNormalizesDirection(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithDirection(0, -2, 0))
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, l.Direction())

	l.SetDirection(mgl32.Vec3{3, 0, 4})
	assert.InDelta(t, 0.6, l.Direction().X(), 1e-6)
	assert.InDelta(t, 0.8, l.Direction().Z(), 1e-6)

	l.SetDirection(mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{}, l.Direction(), "zero vectors are kept as is")
}

func TestPackOrdersByType(t *testing.T) {
	point := NewLight(LightTypePoint, WithPosition(0, 5, -3), WithStrength(0.95, 0.95, 0.95), WithFalloff(1, 10))
	dir := NewLight(LightTypeDirectional, WithDirection(0.57735, -0.57735, 0.57735), WithStrength(0.8, 0.8, 0.8))
	spot := NewLight(LightTypeSpot, WithSpotPower(8))
	off := NewLight(LightTypeDirectional, WithEnabled(false))

	packed, counts, err := Pack([]Light{point, spot, off, dir})
	require.NoError(t, err)

	assert.Equal(t, LightCounts{Directional: 1, Point: 1, Spot: 1}, counts)
	assert.Equal(t, [3]float32{0.8, 0.8, 0.8}, packed[0].Strength)
	assert.Equal(t, [3]float32{0, 5, -3}, packed[1].Position)
	assert.Equal(t, float32(10), packed[1].FalloffEnd)
	assert.Equal(t, float32(8), packed[2].SpotPower)
	assert.Equal(t, GPULight{}, packed[3])
}

func TestPackRejectsTooManyLights(t *testing.T) {
	lights := make([]Light, MaxLights+1)
	for i := range lights {
		lights[i] = NewLight(LightTypePoint)
	}
	_, _, err := Pack(lights)
	assert.Error(t, err)
}

func TestGPULightLayout(t *testing.T) {
	g := NewLight(LightTypeSpot,
		WithStrength(1, 2, 3),
		WithFalloff(4, 8),
		WithDirection(0, 0, 1),
		WithPosition(5, 6, 7),
		WithSpotPower(9),
	).GPU()
	require.Equal(t, 48, g.Size())

	buf := make([]byte, g.Size())
	g.MarshalInto(buf)
	at := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])) }

	assert.Equal(t, []float32{1, 2, 3, 4, 0, 0, 1, 8, 5, 6, 7, 9}, []float32{
		at(0), at(1), at(2), at(3), at(4), at(5), at(6), at(7), at(8), at(9), at(10), at(11),
	})
}
