// Package compression transparently decompresses image inputs stored as
// gzip, xz or bzip2 streams.
package compression

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// DefaultMaxSize bounds the decompressed size of a single input.
const DefaultMaxSize = 256 * 1024 * 1024

// ErrSizeLimit is returned when a stream decompresses past its limit.
var ErrSizeLimit = errors.New("decompression size limit exceeded")

// Kind identifies a compression format.
type Kind string

const (
	KindNone  Kind = ""
	KindGzip  Kind = "gzip"
	KindXz    Kind = "xz"
	KindBzip2 Kind = "bzip2"
)

var (
	gzipMagic  = []byte{0x1f, 0x8b}
	xzMagic    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	bzip2Magic = []byte("BZh")
)

// KindFromName detects the format from a file name or URL suffix.
func KindFromName(name string) Kind {
	name = strings.ToLower(name)
	if i := strings.IndexAny(name, "?#"); i != -1 {
		name = name[:i]
	}
	switch {
	case strings.HasSuffix(name, ".gz"):
		return KindGzip
	case strings.HasSuffix(name, ".xz"):
		return KindXz
	case strings.HasSuffix(name, ".bz2"):
		return KindBzip2
	default:
		return KindNone
	}
}

// KindFromHeader detects the format from the first bytes of a stream.
func KindFromHeader(header []byte) Kind {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return KindGzip
	case bytes.HasPrefix(header, xzMagic):
		return KindXz
	case bytes.HasPrefix(header, bzip2Magic):
		return KindBzip2
	default:
		return KindNone
	}
}

// StripExtension removes a compression suffix, so "photo.png.xz" becomes
// "photo.png".
func StripExtension(name string) string {
	if KindFromName(name) == KindNone {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// NewReader wraps r in a decompressor for kind, limited to maxBytes of
// output. KindNone passes r through unchanged. Closing the result closes
// the decompressor but never r.
func NewReader(r io.Reader, kind Kind, maxBytes int64) (io.ReadCloser, error) {
	var dr io.Reader
	switch kind {
	case KindNone:
		return io.NopCloser(r), nil
	case KindGzip:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		dr = gzr
	case KindXz:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		dr = xzr
	case KindBzip2:
		dr = bzip2.NewReader(r)
	default:
		return nil, fmt.Errorf("unsupported compression: %s", kind)
	}
	return NewLimitedReader(dr, maxBytes), nil
}

// Detect peeks at r and returns a reader over the decompressed stream.
// The name is consulted first; magic bytes catch misnamed files.
func Detect(r io.Reader, name string) (io.ReadCloser, Kind, error) {
	br := bufio.NewReader(r)
	kind := KindFromName(name)
	if kind == KindNone {
		header, _ := br.Peek(len(xzMagic))
		kind = KindFromHeader(header)
	}
	dr, err := NewReader(br, kind, DefaultMaxSize)
	if err != nil {
		return nil, kind, err
	}
	return dr, kind, nil
}

// Open opens path and returns a reader over its decompressed content. The
// caller must close the returned closer, which releases both the
// decompressor and the file.
func Open(path string) (io.Reader, io.Closer, error) {
	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	r, _, err := Detect(file, path)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return r, closers{r, file}, nil
}

// closers closes each element in order and returns the first error.
type closers []io.Closer

func (cs closers) Close() error {
	var first error
	for _, c := range cs {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// LimitedReader wraps an io.Reader and fails once more than the allowed
// number of bytes has been read, guarding against decompression bombs.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		// Distinguish a stream that ends exactly at the limit.
		var probe [1]byte
		if n, err := l.R.Read(probe[:]); n == 0 && err == io.EOF {
			return 0, io.EOF
		}
		return 0, ErrSizeLimit
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// Close closes the wrapped reader if it is an io.Closer.
func (l *LimitedReader) Close() error {
	if c, ok := l.R.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{R: r, Remaining: maxBytes}
}
