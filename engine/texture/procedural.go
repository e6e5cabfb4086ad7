package texture

import (
	"image"
	"image/color"
	"math"
)

// Procedural pattern geometry, in pixels of a 256 x 256 texture. Other sizes scale the pattern.
const (
	brickRowHeight  = 32
	brickWidth      = 64
	brickMortar     = 4
	tileSize        = 64
	tileGrout       = 3
	marbleOctaves   = 5
	marbleVeinScale = 6.0
)

var (
	mortarColor = color.RGBA{R: 170, G: 166, B: 158, A: 255}
	groutColor  = color.RGBA{R: 90, G: 88, B: 84, A: 255}
)

// Generator produces a square procedural RGBA image of the given edge length.
type Generator func(size int) *image.RGBA

// Brick generates a running-bond brick wall: rows of red bricks offset by half a brick on every
// other row, separated by light grey mortar.
//
// Parameters:
//   - size: the edge length in pixels
//
// Returns:
//   - *image.RGBA: the generated image
func Brick(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scale := float64(size) / 256
	rowH := max(int(brickRowHeight*scale), 2)
	brickW := max(int(brickWidth*scale), 2)
	mortar := max(int(brickMortar*scale), 1)

	for y := range size {
		row := y / rowH
		offset := 0
		if row%2 == 1 {
			offset = brickW / 2
		}
		for x := range size {
			bx := (x + offset) % brickW
			if y%rowH < mortar || bx < mortar {
				img.SetRGBA(x, y, mortarColor)
				continue
			}
			// each brick gets its own tint, each pixel a little grain
			brick := hash2(uint32((x+offset)/brickW), uint32(row), 0x9e37)
			grain := hash2(uint32(x), uint32(y), 0x85eb)
			r := 150 + 50*brick + 20*(grain-0.5)
			g := 60 + 25*brick + 10*(grain-0.5)
			b := 45 + 15*brick + 10*(grain-0.5)
			img.SetRGBA(x, y, rgb(r, g, b))
		}
	}
	return img
}

// Marble generates white marble with grey veins from a sine pattern distorted by turbulence.
// The pattern tiles seamlessly.
//
// Parameters:
//   - size: the edge length in pixels
//
// Returns:
//   - *image.RGBA: the generated image
func Marble(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			u := float64(x) / float64(size)
			v := float64(y) / float64(size)
			t := turbulence(u, v, marbleOctaves)
			vein := math.Abs(math.Sin((u+v+2*t)*marbleVeinScale*math.Pi))
			vein = math.Pow(vein, 0.35)
			base := 120 + 125*vein
			img.SetRGBA(x, y, rgb(base, base, base+6))
		}
	}
	return img
}

// Tile generates a grid of square floor tiles with dark grout lines and a faint checkerboard.
//
// Parameters:
//   - size: the edge length in pixels
//
// Returns:
//   - *image.RGBA: the generated image
func Tile(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scale := float64(size) / 256
	cell := max(int(tileSize*scale), 2)
	grout := max(int(tileGrout*scale), 1)

	for y := range size {
		for x := range size {
			if x%cell < grout || y%cell < grout {
				img.SetRGBA(x, y, groutColor)
				continue
			}
			shade := 205.0
			if (x/cell+y/cell)%2 == 1 {
				shade = 185
			}
			grain := hash2(uint32(x), uint32(y), 0xc2b2)
			s := shade + 14*(grain-0.5)
			img.SetRGBA(x, y, rgb(s, s-6, s-16))
		}
	}
	return img
}

func rgb(r, g, b float64) color.RGBA {
	return color.RGBA{R: clampByte(r), G: clampByte(g), B: clampByte(b), A: 255}
}

func clampByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

// hash2 maps a lattice point to a pseudo-random value in [0, 1).
func hash2(x, y, seed uint32) float64 {
	h := x*0x27d4eb2d ^ y*0x165667b1 ^ seed*0x9e3779b9
	h ^= h >> 15
	h *= 0x2c1b3c6d
	h ^= h >> 12
	h *= 0x297a2d39
	h ^= h >> 15
	return float64(h) / float64(math.MaxUint32+1)
}

// valueNoise samples smooth lattice noise with the given period so it wraps at u, v = 0 and 1.
func valueNoise(u, v float64, period int) float64 {
	x := u * float64(period)
	y := v * float64(period)
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := smooth(x - float64(x0))
	fy := smooth(y - float64(y0))

	corner := func(cx, cy int) float64 {
		cx = ((cx % period) + period) % period
		cy = ((cy % period) + period) % period
		return hash2(uint32(cx), uint32(cy), uint32(period))
	}
	top := lerp(corner(x0, y0), corner(x0+1, y0), fx)
	bottom := lerp(corner(x0, y0+1), corner(x0+1, y0+1), fx)
	return lerp(top, bottom, fy)
}

// turbulence sums octaves of value noise, halving the amplitude each octave. Result is in [0, 1).
func turbulence(u, v float64, octaves int) float64 {
	sum, amp, norm := 0.0, 1.0, 0.0
	period := 4
	for range octaves {
		sum += amp * valueNoise(u, v, period)
		norm += amp
		amp /= 2
		period *= 2
	}
	return sum / norm
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
