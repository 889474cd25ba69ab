package colour

import (
	"fmt"
	"slices"
)

// Extractor defines the interface for colour extraction algorithms.
type Extractor interface {
	// Extract clusters buf into count colours. rng drives any random
	// choices the algorithm makes; a fixed rng gives a reproducible result.
	Extract(buf *PixelBuffer, count int, rng Rand) (*Result, error)
}

// Algorithm represents the colour extraction algorithm type.
type Algorithm string

const (
	// AlgorithmKMeans uses k-means clustering with the weighted RGB metric.
	AlgorithmKMeans Algorithm = "kmeans"
)

// MaxColourCount is the largest palette the CLI accepts.
const MaxColourCount = 256

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{AlgorithmKMeans}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	return slices.Contains(ValidAlgorithms(), alg)
}

// NewExtractor creates a new Extractor based on the specified algorithm.
func NewExtractor(alg Algorithm, opts ...KMeansOption) (Extractor, error) {
	switch alg {
	case AlgorithmKMeans:
		return NewKMeansExtractor(opts...), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", alg, ValidAlgorithms())
	}
}

// ExtractorConfig holds configuration for colour extraction.
type ExtractorConfig struct {
	Algorithm     Algorithm
	ColourCount   int
	MaxIterations int
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:     AlgorithmKMeans,
		ColourCount:   3,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("invalid algorithm: %s", c.Algorithm)
	}
	if c.ColourCount < 1 {
		return fmt.Errorf("%w: colour count must be at least 1, got %d", ErrInvalidParameter, c.ColourCount)
	}
	if c.ColourCount > MaxColourCount {
		return fmt.Errorf("%w: colour count too large: %d (maximum: %d)", ErrInvalidParameter, c.ColourCount, MaxColourCount)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalidParameter, c.MaxIterations)
	}
	return nil
}
