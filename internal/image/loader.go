// Package image provides utilities for loading images from files,
// directories and URLs, and preparing them for colour extraction.
package image

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/dominant/internal/compression"
	"github.com/jmylchreest/dominant/internal/security"
	httputil "github.com/jmylchreest/dominant/internal/util/http"
)

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given path.
	Load(ctx context.Context, path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem. Files compressed with
// gzip, xz or bzip2 are decompressed transparently.
type FileLoader struct{}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load loads an image from a file path.
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	r, closer, err := compression.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer closer.Close()

	return decode(r)
}

func decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, nil
}

// ValidateImagePath checks that path is an HTTP(S) URL, a directory, or a
// file whose header decodes as a supported image.
func ValidateImagePath(path string) error {
	if path == "" {
		return fmt.Errorf("image path cannot be empty")
	}

	// URLs are fetched later; avoid fetching twice.
	if isURL(path) {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("image file or directory not found: %s", path)
		}
		return fmt.Errorf("failed to access image path: %w", err)
	}
	if info.IsDir() {
		return nil
	}

	r, closer, err := compression.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image file: %w", err)
	}
	defer closer.Close()

	if _, _, err := image.DecodeConfig(r); err != nil {
		return fmt.Errorf("unsupported or invalid image format: %w", err)
	}
	return nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
// Each may additionally carry a .gz, .xz or .bz2 suffix.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
}

// isImageFile checks if a file has a supported image extension.
func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(compression.StripExtension(path)))
	return slices.Contains(SupportedImageExtensions(), ext)
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ScanDirectoryForImages returns the image files directly inside dirPath.
// Symlinks are followed; subdirectories are not descended into.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// Broken symlinks and unreadable entries are skipped.
		info, err := os.Stat(fullPath)
		if err != nil || info.IsDir() {
			continue
		}
		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no supported image files found in directory: %s", dirPath)
	}
	return imageFiles, nil
}

// SelectRandomImage selects a random image from a list of image paths.
func SelectRandomImage(imagePaths []string) (string, error) {
	if len(imagePaths) == 0 {
		return "", fmt.Errorf("image path list is empty")
	}

	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(imagePaths))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return imagePaths[idx.Int64()], nil
}

// ResolveImagePath returns path unchanged for files and URLs, and a random
// image from inside it for directories.
func ResolveImagePath(path string) (string, error) {
	if isURL(path) {
		return path, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	imageFiles, err := ScanDirectoryForImages(path)
	if err != nil {
		return "", err
	}
	return SelectRandomImage(imageFiles)
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
type SmartLoader struct {
	fileLoader   *FileLoader
	fetch        func(ctx context.Context, url string, opts httputil.FetchOptions) ([]byte, error)
	allowPrivate bool
}

// SmartLoaderOption configures a SmartLoader.
type SmartLoaderOption func(*SmartLoader)

// WithPrivateHosts permits URLs on loopback and private network hosts,
// which are refused by default.
func WithPrivateHosts(allow bool) SmartLoaderOption {
	return func(l *SmartLoader) { l.allowPrivate = allow }
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader(opts ...SmartLoaderOption) *SmartLoader {
	l := &SmartLoader{
		fileLoader: NewFileLoader(),
		fetch:      httputil.Fetch,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads an image from either a local file path or HTTP(S) URL.
func (l *SmartLoader) Load(ctx context.Context, path string) (image.Image, error) {
	if isURL(path) {
		return l.loadFromURL(ctx, path)
	}
	return l.fileLoader.Load(ctx, path)
}

// loadFromURL fetches, decompresses if needed, and decodes a remote image.
func (l *SmartLoader) loadFromURL(ctx context.Context, url string) (image.Image, error) {
	if err := security.ValidateImageURL(url, l.allowPrivate); err != nil {
		return nil, err
	}

	data, err := l.fetch(ctx, url, httputil.FetchOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}

	r, _, err := compression.Detect(bytes.NewReader(data), url)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress image: %w", err)
	}
	defer r.Close()
	return decode(r)
}
