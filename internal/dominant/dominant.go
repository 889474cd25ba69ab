package dominant

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/dominant/internal/colour"
)

// Errors returned by Extract. Each one means no palette was produced.
var (
	// ErrInvalidParameter is returned for a palette size below 1.
	ErrInvalidParameter = colour.ErrInvalidParameter
	// ErrUnreadablePixelSource is returned when the source metadata cannot
	// be obtained or is inconsistent with its pixels.
	ErrUnreadablePixelSource = errors.New("unreadable pixel source")
	// ErrUnsupportedFormat is returned for anything but RGBA_8888.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
	// ErrLockFailure is returned when the pixels cannot be locked.
	ErrLockFailure = errors.New("failed to lock pixels")
	// ErrResultConstruction is returned when a result entry cannot be built.
	ErrResultConstruction = errors.New("failed to construct result")
)

// Colour is one entry of an extracted palette. Value uses the 0xAARRGGBB
// layout common to host colour integers. Empty entries carry
// colour.EmptySentinel and a zero percentage.
type Colour struct {
	Value      uint32
	Percentage float32
	Empty      bool
}

// RGB decodes Value.
func (c Colour) RGB() colour.RGB {
	return colour.RGB{R: uint8(c.Value >> 16), G: uint8(c.Value >> 8), B: uint8(c.Value)}
}

// ResultBuilder receives each prepared entry in slot order and returns the
// value to store. An error aborts the whole extraction.
type ResultBuilder func(index int, c Colour) (Colour, error)

type options struct {
	logger        hclog.Logger
	rng           colour.Rand
	maxIterations int
	builder       ResultBuilder
}

// Option configures Extract.
type Option func(*options)

// WithLogger sets the diagnostic sink. The default discards everything.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRand sets the random source used for seeding.
func WithRand(r colour.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithSeed seeds a private random source, making results reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) { o.rng = colour.NewRand(seed) }
}

// WithMaxIterations overrides the k-means iteration cap.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIterations = n }
}

// WithResultBuilder sets the hook that builds each result entry.
func WithResultBuilder(b ResultBuilder) Option {
	return func(o *options) {
		if b != nil {
			o.builder = b
		}
	}
}

func identityBuilder(_ int, c Colour) (Colour, error) { return c, nil }

// Extract computes numColours dominant colours of src with their coverage.
//
// Preconditions are checked in order before any pixel is read: palette
// size, source metadata, pixel format, lock. The source is unlocked on
// every path once locked. On failure nil is returned with an error wrapping
// one of the package errors; the reason is also logged.
func Extract(src PixelSource, numColours int, opts ...Option) ([]Colour, error) {
	o := options{
		logger:        hclog.NewNullLogger(),
		maxIterations: colour.DefaultMaxIterations,
		builder:       identityBuilder,
	}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger

	if numColours <= 0 {
		log.Error("palette size must be positive", "num_colours", numColours)
		return nil, fmt.Errorf("%w: number of colours must be at least 1, got %d", ErrInvalidParameter, numColours)
	}
	if src == nil {
		log.Error("pixel source is nil")
		return nil, fmt.Errorf("%w: source is nil", ErrUnreadablePixelSource)
	}

	info, err := src.Info()
	if err != nil {
		log.Error("reading pixel source info failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnreadablePixelSource, err)
	}
	if info.Width <= 0 || info.Height <= 0 {
		log.Error("pixel source has no pixels", "width", info.Width, "height", info.Height)
		return nil, fmt.Errorf("%w: empty bitmap %dx%d", ErrUnreadablePixelSource, info.Width, info.Height)
	}
	log.Debug("pixel source", "width", info.Width, "height", info.Height, "stride", info.Stride, "format", info.Format.String())

	if info.Format != FormatRGBA8888 {
		log.Error("pixel format must be RGBA_8888", "format", info.Format.String())
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, info.Format)
	}

	pix, err := src.Lock()
	if err != nil {
		log.Error("locking pixels failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrLockFailure, err)
	}
	defer src.Unlock()

	buf, err := colour.NewPixelBuffer(info.Width, info.Height, info.Stride, pix)
	if err != nil {
		log.Error("locked pixels do not match source info", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnreadablePixelSource, err)
	}

	rng := o.rng
	if rng == nil {
		rng = colour.NewRand(time.Now().UnixNano())
	}

	start := time.Now()
	extractor, err := colour.NewExtractor(colour.AlgorithmKMeans,
		colour.WithMaxIterations(o.maxIterations),
		colour.WithLogger(log.Named("kmeans")),
	)
	if err != nil {
		return nil, err
	}
	res, err := extractor.Extract(buf, numColours, rng)
	if err != nil {
		return nil, err
	}
	log.Debug("k-means finished",
		"iterations", res.Iterations,
		"converged", res.Converged,
		"max_error", res.MaxError,
		"elapsed", time.Since(start))

	out := make([]Colour, len(res.Centroids))
	for i, c := range res.Centroids {
		entry := Colour{Value: uint32(colour.EmptySentinel), Empty: true}
		if !c.Empty {
			entry = Colour{
				Value:      uint32(colour.SwapRedBlue(c.Colour)),
				Percentage: float32(res.Fractions[i]),
			}
		}

		built, err := o.builder(i, entry)
		if err != nil {
			log.Error("building result entry failed", "index", i, "error", err)
			return nil, fmt.Errorf("%w: entry %d: %w", ErrResultConstruction, i, err)
		}
		out[i] = built
		log.Debug("dominant colour", "index", i, "value", fmt.Sprintf("%#010x", built.Value), "percentage", built.Percentage, "empty", built.Empty)
	}

	return out, nil
}

// ToPalette converts extracted colours to a presentation palette.
func ToPalette(colours []Colour) *colour.Palette {
	swatches := make([]colour.Swatch, len(colours))
	for i, c := range colours {
		if c.Empty {
			swatches[i] = colour.Swatch{Empty: true}
			continue
		}
		swatches[i] = colour.Swatch{RGB: c.RGB(), Weight: float64(c.Percentage)}
	}
	return colour.NewPalette(swatches)
}
