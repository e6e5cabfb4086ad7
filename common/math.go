package common

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformAlignment is the byte alignment required between dynamically offset uniform buffer elements.
// WebGPU guarantees minUniformBufferOffsetAlignment <= 256 on every adapter.
const UniformAlignment = 256

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*size)
}

// AlignUniform rounds a byte size up to the next multiple of UniformAlignment.
//
// Parameters:
//   - size: the unaligned byte size
//
// Returns:
//   - uint64: the aligned size
func AlignUniform(size uint64) uint64 {
	return (size + UniformAlignment - 1) &^ (UniformAlignment - 1)
}

// PutMat4 writes a matrix into buf in column-major little-endian order.
// buf must hold at least 64 bytes.
//
// Parameters:
//   - buf: destination byte slice
//   - m: the matrix to write
func PutMat4(buf []byte, m mgl32.Mat4) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(m[i]))
	}
}

// PutVec3 writes three float32 components into buf (12 bytes).
func PutVec3(buf []byte, v mgl32.Vec3) {
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v[i]))
	}
}

// PutVec4 writes four float32 components into buf (16 bytes).
func PutVec4(buf []byte, v mgl32.Vec4) {
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v[i]))
	}
}

// PutFloat32 writes a single float32 into buf (4 bytes).
func PutFloat32(buf []byte, f float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(f))
}

// LookAtLH builds a left-handed view matrix looking from eye towards target.
// Camera space has +X right, +Y up and +Z forward.
//
// Parameters:
//   - eye: camera position in world space
//   - target: point the camera looks at
//   - up: approximate world up direction
//
// Returns:
//   - mgl32.Mat4: the view matrix
func LookAtLH(eye, target, up mgl32.Vec3) mgl32.Mat4 {
	zAxis := target.Sub(eye).Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis)

	return mgl32.Mat4{
		xAxis[0], yAxis[0], zAxis[0], 0,
		xAxis[1], yAxis[1], zAxis[1], 0,
		xAxis[2], yAxis[2], zAxis[2], 0,
		-xAxis.Dot(eye), -yAxis.Dot(eye), -zAxis.Dot(eye), 1,
	}
}

// PerspectiveLH builds a left-handed perspective projection mapping view depth [near, far] to clip depth [0, 1].
// This matches the WebGPU clip-space convention with w = view-space z.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func PerspectiveLH(fovY, aspect, near, far float32) mgl32.Mat4 {
	yScale := 1 / float32(math.Tan(float64(fovY)/2))
	xScale := yScale / aspect
	zRange := far / (far - near)

	return mgl32.Mat4{
		xScale, 0, 0, 0,
		0, yScale, 0, 0,
		0, 0, zRange, 1,
		0, 0, -near * zRange, 0,
	}
}

// PlacementMatrix composes a world matrix that scales first and then translates.
//
// Parameters:
//   - scale: per-axis scale factors
//   - translate: world-space translation
//
// Returns:
//   - mgl32.Mat4: Translate * Scale
func PlacementMatrix(scale, translate mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(translate[0], translate[1], translate[2]).Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// SphericalToCartesian converts spherical coordinates with a polar angle measured from +Y into a Cartesian point.
//
// Parameters:
//   - radius: distance from the origin
//   - theta: azimuth in the XZ plane, measured from +X towards +Z
//   - phi: polar angle from +Y
//
// Returns:
//   - mgl32.Vec3: the Cartesian position
func SphericalToCartesian(radius, theta, phi float32) mgl32.Vec3 {
	sinPhi := float32(math.Sin(float64(phi)))
	return mgl32.Vec3{
		radius * sinPhi * float32(math.Cos(float64(theta))),
		radius * float32(math.Cos(float64(phi))),
		radius * sinPhi * float32(math.Sin(float64(theta))),
	}
}
