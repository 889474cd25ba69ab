// Package dominant exposes dominant colour extraction over a lockable pixel
// source, handling validation, locking and result construction around the
// k-means core.
package dominant

import (
	"errors"
	"fmt"
	"image"
	"sync"
)

// Format identifies the memory layout of a pixel source.
type Format int

const (
	// FormatUnknown is any layout this package cannot read.
	FormatUnknown Format = iota
	// FormatRGBA8888 is 8 bits per channel in R,G,B,A byte order.
	FormatRGBA8888
	// FormatRGB565 is 16-bit packed RGB.
	FormatRGB565
	// FormatAlpha8 is a single 8-bit alpha channel.
	FormatAlpha8
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatRGBA8888:
		return "RGBA_8888"
	case FormatRGB565:
		return "RGB_565"
	case FormatAlpha8:
		return "A_8"
	default:
		return "unknown"
	}
}

// Info describes the geometry and layout of a pixel source.
type Info struct {
	Width  int
	Height int
	Stride int
	Format Format
}

// PixelSource is a bitmap whose pixels can be read while it is locked.
// Implementations must keep the locked bytes stable until Unlock.
type PixelSource interface {
	Info() (Info, error)
	Lock() ([]byte, error)
	Unlock()
}

var errAlreadyLocked = errors.New("pixel source is already locked")

// ImageSource adapts an in-memory image to PixelSource. *image.RGBA and
// *image.NRGBA report FormatRGBA8888, *image.Alpha reports FormatAlpha8 and
// anything else FormatUnknown.
type ImageSource struct {
	img    image.Image
	mu     sync.Mutex
	locked bool
}

// NewImageSource wraps img.
func NewImageSource(img image.Image) *ImageSource {
	return &ImageSource{img: img}
}

// Info implements PixelSource.
func (s *ImageSource) Info() (Info, error) {
	if s.img == nil {
		return Info{}, fmt.Errorf("image is nil")
	}
	b := s.img.Bounds()
	info := Info{Width: b.Dx(), Height: b.Dy()}
	switch img := s.img.(type) {
	case *image.RGBA:
		info.Stride, info.Format = img.Stride, FormatRGBA8888
	case *image.NRGBA:
		info.Stride, info.Format = img.Stride, FormatRGBA8888
	case *image.Alpha:
		info.Stride, info.Format = img.Stride, FormatAlpha8
	}
	return info, nil
}

// Lock implements PixelSource. It returns the pixel bytes starting at the
// image's top-left corner so that sub-images are addressed correctly.
func (s *ImageSource) Lock() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return nil, errAlreadyLocked
	}

	var pix []byte
	switch img := s.img.(type) {
	case *image.RGBA:
		pix = img.Pix[img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y):]
	case *image.NRGBA:
		pix = img.Pix[img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y):]
	default:
		return nil, fmt.Errorf("cannot lock pixels of %T", s.img)
	}
	s.locked = true
	return pix, nil
}

// Unlock implements PixelSource.
func (s *ImageSource) Unlock() {
	s.mu.Lock()
	s.locked = false
	s.mu.Unlock()
}

// Locked reports whether the source is currently locked.
func (s *ImageSource) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}
