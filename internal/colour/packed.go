// Package colour provides the k-means dominant colour extraction core and
// palette presentation helpers.
package colour

import "image/color"

// Channel layout of a Packed colour.
const (
	alphaMask  = 0xFF000000
	blueMask   = 0x00FF0000
	blueShift  = 16
	greenMask  = 0x0000FF00
	greenShift = 8
	redMask    = 0x000000FF
)

// Packed is a 32-bit colour laid out as 0xAABBGGRR, which is what four
// R,G,B,A bytes read as a little-endian uint32 look like.
type Packed uint32

// EmptySentinel is the flat value historically used to mark a cluster with
// no members. Inside this package empty clusters are tagged on Centroid
// instead; the sentinel only appears when a flat value is requested.
const EmptySentinel Packed = 0xFFFFFFFF

// Pack builds an opaque colour from 8-bit channel values.
// Values outside 0-255 are masked.
func Pack(r, g, b int) Packed {
	return Packed(alphaMask |
		(uint32(b)<<blueShift)&blueMask |
		(uint32(g)<<greenShift)&greenMask |
		uint32(r)&redMask)
}

// Unpack returns the red, green and blue channels. Alpha is ignored.
func Unpack(c Packed) (r, g, b int) {
	return c.R(), c.G(), c.B()
}

// R returns the red channel.
func (c Packed) R() int { return int(c & redMask) }

// G returns the green channel.
func (c Packed) G() int { return int((c & greenMask) >> greenShift) }

// B returns the blue channel.
func (c Packed) B() int { return int((c & blueMask) >> blueShift) }

// A returns the alpha channel.
func (c Packed) A() int { return int(uint32(c) >> 24) }

// Opaque returns c with alpha forced to 0xFF.
func (c Packed) Opaque() Packed { return c | alphaMask }

// SwapRedBlue exchanges the red and blue channels and forces opacity.
// It converts between 0xAABBGGRR and the 0xAARRGGBB convention used by
// most host colour integers.
func SwapRedBlue(c Packed) Packed {
	return Pack(c.B(), c.G(), c.R())
}

// RGB returns the colour as an RGB triple.
func (c Packed) RGB() RGB {
	return RGB{R: uint8(c.R()), G: uint8(c.G()), B: uint8(c.B())}
}

// Color returns the colour as an opaque color.RGBA.
func (c Packed) Color() color.RGBA {
	return color.RGBA{R: uint8(c.R()), G: uint8(c.G()), B: uint8(c.B()), A: 255}
}

// Centroid is a cluster representative. A cluster that attracted no pixels
// in the last assignment pass is Empty and carries no colour.
type Centroid struct {
	Colour Packed
	Empty  bool
}

// Packed returns the centroid colour, or EmptySentinel for an empty centroid.
func (c Centroid) Packed() Packed {
	if c.Empty {
		return EmptySentinel
	}
	return c.Colour
}

// CentroidSet is an index-stable sequence of K centroids.
type CentroidSet []Centroid

// Colours returns the flat packed values of the set.
func (s CentroidSet) Colours() []Packed {
	out := make([]Packed, len(s))
	for i, c := range s {
		out[i] = c.Packed()
	}
	return out
}
