package compression

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
)

var payload = bytes.Repeat([]byte("dominant colours "), 64)

func gzipData(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func xzData(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestKindFromName(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"photo.png", KindNone},
		{"photo.png.gz", KindGzip},
		{"PHOTO.PNG.XZ", KindXz},
		{"photo.png.bz2", KindBzip2},
		{"https://example.com/a.png.xz?dl=1", KindXz},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindFromName(tt.name); got != tt.want {
				t.Errorf("KindFromName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripExtension(t *testing.T) {
	if got := StripExtension("a/photo.png.xz"); got != "a/photo.png" {
		t.Errorf("StripExtension() = %q", got)
	}
	if got := StripExtension("photo.png"); got != "photo.png" {
		t.Errorf("StripExtension() = %q", got)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		want     Kind
	}{
		{"plain", payload, "photo.png", KindNone},
		{"gzip by name", gzipData(t, payload), "photo.png.gz", KindGzip},
		{"gzip by magic", gzipData(t, payload), "photo.png", KindGzip},
		{"xz by name", xzData(t, payload), "photo.png.xz", KindXz},
		{"xz by magic", xzData(t, payload), "photo", KindXz},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, kind, err := Detect(bytes.NewReader(tt.data), tt.filename)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if kind != tt.want {
				t.Errorf("kind = %q, want %q", kind, tt.want)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("decompressed %d bytes, want %d", len(got), len(payload))
			}
		})
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin.xz")
	if err := os.WriteFile(path, xzData(t, payload), 0o600); err != nil {
		t.Fatal(err)
	}

	r, closer, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer closer.Close()

	got, err := io.ReadAll(r)
	if err != nil || !bytes.Equal(got, payload) {
		t.Errorf("Open() content mismatch, err = %v", err)
	}

	if _, _, err := Open(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLimitedReader(t *testing.T) {
	r := NewLimitedReader(bytes.NewReader(payload), 10)
	_, err := io.ReadAll(r)
	if !errors.Is(err, ErrSizeLimit) {
		t.Errorf("ReadAll() error = %v, want ErrSizeLimit", err)
	}

	exact := NewLimitedReader(bytes.NewReader(payload), int64(len(payload)))
	got, err := io.ReadAll(exact)
	if err != nil || len(got) != len(payload) {
		t.Errorf("exact-size read: %d bytes, err = %v", len(got), err)
	}
}

// trackingReader records whether it was closed.
type trackingReader struct {
	io.Reader
	closed int
	err    error
}

func (r *trackingReader) Close() error {
	r.closed++
	return r.err
}

func TestLimitedReaderClosesDecompressor(t *testing.T) {
	inner := &trackingReader{Reader: bytes.NewReader(payload)}
	if err := NewLimitedReader(inner, 10).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if inner.closed != 1 {
		t.Errorf("inner closed %d times, want 1", inner.closed)
	}

	if err := NewLimitedReader(bytes.NewReader(payload), 10).Close(); err != nil {
		t.Errorf("Close() on a plain reader error = %v", err)
	}
}

func TestClosersClosesAll(t *testing.T) {
	boom := errors.New("boom")
	first := &trackingReader{err: boom}
	second := &trackingReader{}

	if err := (closers{first, second}).Close(); !errors.Is(err, boom) {
		t.Errorf("Close() error = %v, want %v", err, boom)
	}
	if first.closed != 1 || second.closed != 1 {
		t.Errorf("closed %d/%d times, want 1/1", first.closed, second.closed)
	}
}

func TestOpenGzipClosesDecompressor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin.gz")
	if err := os.WriteFile(path, gzipData(t, payload), 0o600); err != nil {
		t.Fatal(err)
	}

	r, closer, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := closer.(closers); !ok {
		t.Fatalf("closer = %T, want closers", closer)
	}
	lr, ok := r.(*LimitedReader)
	if !ok {
		t.Fatalf("reader = %T, want *LimitedReader", r)
	}
	if _, ok := lr.R.(*gzip.Reader); !ok {
		t.Fatalf("decompressor = %T, want *gzip.Reader", lr.R)
	}
	got, err := io.ReadAll(r)
	if err != nil || !bytes.Equal(got, payload) {
		t.Errorf("content mismatch, err = %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
