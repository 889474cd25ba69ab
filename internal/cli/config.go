package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jmylchreest/dominant/internal/colour"
	"github.com/jmylchreest/dominant/internal/image"
	"github.com/jmylchreest/dominant/internal/seed"
)

// Environment variables providing defaults for extract flags.
const (
	EnvColours   = "DOMINANT_COLOURS"
	EnvSide      = "DOMINANT_SIDE"
	EnvSeedMode  = "DOMINANT_SEED_MODE"
	EnvSeedValue = "DOMINANT_SEED_VALUE"
	EnvFormat    = "DOMINANT_FORMAT"
	EnvPreview   = "DOMINANT_PREVIEW"
)

// Output formats.
const (
	FormatHex   = "hex"
	FormatRGB   = "rgb"
	FormatJSON  = "json"
	FormatTable = "table"
)

// ValidFormats returns the supported output formats.
func ValidFormats() []string {
	return []string{FormatHex, FormatRGB, FormatJSON, FormatTable}
}

// Config holds the settings of one extract run.
type Config struct {
	Colours       int
	Format        string
	Output        string
	Preview       bool
	Side          int
	SeedMode      seed.Mode
	SeedValue     *int64
	MaxIterations int
	Sort          bool

	// AllowPrivateHosts permits image URLs on loopback and private networks.
	AllowPrivateHosts bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Colours:       colour.DefaultExtractorConfig().ColourCount,
		Format:        FormatHex,
		Side:          image.DefaultSide,
		SeedMode:      seed.ModeContent,
		MaxIterations: colour.DefaultMaxIterations,
	}
}

// ApplyEnv overrides fields from environment variables read through getenv.
// Unset or blank variables are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvColours)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvColours, err)
		}
		c.Colours = n
	}
	if v := strings.TrimSpace(getenv(EnvSide)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSide, err)
		}
		c.Side = n
	}
	if v := strings.TrimSpace(getenv(EnvSeedMode)); v != "" {
		mode, err := seed.ParseMode(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeedMode, err)
		}
		c.SeedMode = mode
	}
	if v := strings.TrimSpace(getenv(EnvSeedValue)); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeedValue, err)
		}
		c.SeedValue = &n
		// A seed value on its own implies manual mode.
		if strings.TrimSpace(getenv(EnvSeedMode)) == "" {
			c.SeedMode = seed.ModeManual
		}
	}
	if v := strings.TrimSpace(getenv(EnvFormat)); v != "" {
		c.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv(EnvPreview)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPreview, err)
		}
		c.Preview = b
	}
	return nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	ec := colour.ExtractorConfig{
		Algorithm:     colour.AlgorithmKMeans,
		ColourCount:   c.Colours,
		MaxIterations: c.MaxIterations,
	}
	if err := ec.Validate(); err != nil {
		return err
	}
	if !slices.Contains(ValidFormats(), c.Format) {
		return fmt.Errorf("unsupported format: %s (supported: %s)", c.Format, strings.Join(ValidFormats(), ", "))
	}
	if c.Side < 0 {
		return fmt.Errorf("side must be 0 (no resize) or positive, got %d", c.Side)
	}
	if _, err := seed.ParseMode(string(c.SeedMode)); err != nil {
		return err
	}
	if c.SeedMode == seed.ModeManual && c.SeedValue == nil {
		return fmt.Errorf("seed value is required for manual seed mode")
	}
	return nil
}
