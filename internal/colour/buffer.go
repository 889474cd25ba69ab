package colour

import (
	"encoding/binary"
	"fmt"
)

// bytesPerPixel is fixed: 8 bits per channel, R,G,B,A.
const bytesPerPixel = 4

// PixelBuffer is a read-only view over an RGBA pixel buffer whose rows may
// be padded (stride greater than width*4).
type PixelBuffer struct {
	width  int
	height int
	stride int
	pix    []byte
}

// NewPixelBuffer validates the geometry once so that At needs no further
// checks beyond the slice bounds the runtime already performs.
func NewPixelBuffer(width, height, stride int, pix []byte) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer dimensions: %dx%d", width, height)
	}
	if stride < width*bytesPerPixel {
		return nil, fmt.Errorf("stride %d is smaller than row size %d", stride, width*bytesPerPixel)
	}
	need := stride*(height-1) + width*bytesPerPixel
	if len(pix) < need {
		return nil, fmt.Errorf("pixel data too short: %d bytes, need %d", len(pix), need)
	}
	return &PixelBuffer{width: width, height: height, stride: stride, pix: pix}, nil
}

// Width returns the width in pixels.
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the height in pixels.
func (b *PixelBuffer) Height() int { return b.height }

// Stride returns the row stride in bytes.
func (b *PixelBuffer) Stride() int { return b.stride }

// Len returns the number of pixels.
func (b *PixelBuffer) Len() int { return b.width * b.height }

// At returns the packed colour at (x, y), including its stored alpha.
func (b *PixelBuffer) At(x, y int) Packed {
	i := y*b.stride + x*bytesPerPixel
	return Packed(binary.LittleEndian.Uint32(b.pix[i : i+bytesPerPixel]))
}

