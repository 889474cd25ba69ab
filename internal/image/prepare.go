package image

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// DefaultSide is the square images are shrunk to fit before clustering.
const DefaultSide = 50

// FitInSquare scales img down, preserving its aspect ratio, so that neither
// side exceeds side pixels. Images already small enough, or side <= 0,
// are returned unchanged. Scaling is nearest neighbour so that no colours
// are invented by interpolation.
func FitInSquare(img image.Image, side int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if side <= 0 || (w <= side && h <= side) {
		return img
	}

	var nw, nh int
	if w > h {
		nw, nh = side, int(float64(side)*float64(h)/float64(w))
	} else {
		nw, nh = int(float64(side)*float64(w)/float64(h)), side
	}
	nw, nh = max(nw, 1), max(nh, 1)

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// ToRGBA returns img in an 8-bit-per-channel R,G,B,A layout. *image.RGBA and
// *image.NRGBA are returned as they are; anything else is copied into a
// new *image.NRGBA anchored at the origin.
func ToRGBA(img image.Image) image.Image {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
	return dst
}
