package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/dominant/internal/colour"
	"github.com/jmylchreest/dominant/internal/dominant"
	"github.com/jmylchreest/dominant/internal/image"
	"github.com/jmylchreest/dominant/internal/seed"
)

const previewWidth = 8

func newExtractCmd() *cobra.Command {
	defaults := DefaultConfig()

	cmd := &cobra.Command{
		Use:   "extract <image|directory|url>",
		Short: "Extract the dominant colours of an image",
		Long: `Extract the dominant colours of an image and how much of it each covers.

The image is shrunk to fit a small square, then its pixels are clustered
with k-means. Slots that end up with no pixels are reported as "empty".
Given a directory, a random image inside it is used.

Defaults can be set with DOMINANT_COLOURS, DOMINANT_SIDE, DOMINANT_SEED_MODE,
DOMINANT_SEED_VALUE, DOMINANT_FORMAT and DOMINANT_PREVIEW. Flags take
precedence over the environment.

Supported image formats: JPEG, PNG, GIF, WebP (optionally .gz, .xz, .bz2)

Examples:
  # Extract 3 colours (default) from an image
  dominant extract wallpaper.jpg

  # Extract 5 colours as JSON, largest first
  dominant extract -c 5 -f json --sort wallpaper.png

  # Reproducible palette for a fixed seed
  dominant extract --seed-mode manual --seed 42 wallpaper.jpg

  # Use the full image instead of a 50x50 thumbnail
  dominant extract --side 0 wallpaper.jpg

  # A random image from a directory, as a table
  dominant extract -f table ~/Pictures/wallpapers`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, os.Getenv)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runExtract(cmd, args[0], cfg, newLogger(cmd))
		},
	}

	flags := cmd.Flags()
	flags.IntP("colours", "c", defaults.Colours, "number of colours to extract (1-256)")
	flags.StringP("format", "f", defaults.Format, "output format ("+strings.Join(ValidFormats(), ", ")+")")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.Bool("preview", false, "show colour previews (default: on when stdout is a terminal)")
	flags.Int("side", defaults.Side, "shrink the image to fit a square of this side before clustering (0 keeps full size)")
	flags.String("seed-mode", string(defaults.SeedMode), "seed mode for initial centroids (content, filepath, manual, random)")
	flags.Int64("seed", 0, "seed value for manual seed mode (implies --seed-mode manual)")
	flags.Int("max-iterations", defaults.MaxIterations, "maximum k-means iterations")
	flags.Bool("sort", false, "sort colours by coverage, largest first")
	flags.Bool("allow-private-hosts", false, "allow image URLs on localhost and private networks")

	return cmd
}

// resolveConfig layers defaults, environment and explicitly set flags.
func resolveConfig(cmd *cobra.Command, getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(getenv); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	var err error
	if flags.Changed("colours") {
		if cfg.Colours, err = flags.GetInt("colours"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("format") {
		f, err := flags.GetString("format")
		if err != nil {
			return cfg, err
		}
		cfg.Format = strings.ToLower(f)
	}
	if cfg.Output, err = flags.GetString("output"); err != nil {
		return cfg, err
	}
	if flags.Changed("side") {
		if cfg.Side, err = flags.GetInt("side"); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("seed") {
		v, err := flags.GetInt64("seed")
		if err != nil {
			return cfg, err
		}
		cfg.SeedValue = &v
		cfg.SeedMode = seed.ModeManual
	}
	if flags.Changed("seed-mode") {
		s, err := flags.GetString("seed-mode")
		if err != nil {
			return cfg, err
		}
		if cfg.SeedMode, err = seed.ParseMode(s); err != nil {
			return cfg, err
		}
	}
	if flags.Changed("max-iterations") {
		if cfg.MaxIterations, err = flags.GetInt("max-iterations"); err != nil {
			return cfg, err
		}
	}
	if cfg.Sort, err = flags.GetBool("sort"); err != nil {
		return cfg, err
	}
	if cfg.AllowPrivateHosts, err = flags.GetBool("allow-private-hosts"); err != nil {
		return cfg, err
	}

	switch {
	case flags.Changed("preview"):
		if cfg.Preview, err = flags.GetBool("preview"); err != nil {
			return cfg, err
		}
	case strings.TrimSpace(getenv(EnvPreview)) == "":
		cfg.Preview = cfg.Output == "" && isTerminal(cmd.OutOrStdout())
	}

	return cfg, cfg.Validate()
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 -- file descriptors fit in int
}

// runExtract loads the image at path, extracts its palette and writes it.
func runExtract(cmd *cobra.Command, path string, cfg Config, logger hclog.Logger) error {
	if err := image.ValidateImagePath(path); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	resolved, err := image.ResolveImagePath(path)
	if err != nil {
		return fmt.Errorf("failed to resolve image path: %w", err)
	}
	if resolved != path {
		logger.Info("selected image from directory", "path", resolved)
	}

	logger.Debug("loading image", "path", resolved)
	img, err := image.NewSmartLoader(image.WithPrivateHosts(cfg.AllowPrivateHosts)).Load(cmd.Context(), resolved)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	seedValue, err := seed.Calculate(img, resolved, seed.Config{Mode: cfg.SeedMode, Value: cfg.SeedValue})
	if err != nil {
		return fmt.Errorf("failed to calculate seed: %w", err)
	}
	logger.Debug("seed", "mode", cfg.SeedMode, "value", seedValue)

	if cfg.Side > 0 {
		img = image.FitInSquare(img, cfg.Side)
		b := img.Bounds()
		logger.Debug("image resized", "side", cfg.Side, "width", b.Dx(), "height", b.Dy())
	}

	start := time.Now()
	colours, err := dominant.Extract(
		dominant.NewImageSource(image.ToRGBA(img)),
		cfg.Colours,
		dominant.WithLogger(logger.Named("extract")),
		dominant.WithSeed(seedValue),
		dominant.WithMaxIterations(cfg.MaxIterations),
	)
	if err != nil {
		return fmt.Errorf("failed to extract colours: %w", err)
	}
	logger.Debug("extraction complete", "colours", len(colours), "elapsed", time.Since(start))

	palette := dominant.ToPalette(colours)
	if cfg.Sort {
		palette = palette.SortedByWeight()
	}

	output, err := formatPalette(palette, cfg.Format, cfg.Preview)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if cfg.Output == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), output)
		return err
	}
	logger.Debug("writing output", "path", cfg.Output)
	if err := os.WriteFile(cfg.Output, []byte(output), 0o644); err != nil { // #nosec G306 -- palette output is not sensitive
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// formatPalette formats the palette according to the specified format.
func formatPalette(palette *colour.Palette, format string, showPreview bool) (string, error) {
	switch format {
	case FormatHex:
		return formatHex(palette, showPreview), nil
	case FormatRGB:
		return formatRGB(palette, showPreview), nil
	case FormatJSON:
		data, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	case FormatTable:
		return formatTable(palette, showPreview), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(ValidFormats(), ", "))
	}
}

// formatHex writes one hex code per line, or "empty" for unfilled slots.
func formatHex(palette *colour.Palette, showPreview bool) string {
	var b strings.Builder
	for i, hex := range palette.ToHex() {
		if showPreview {
			b.WriteString(colour.FormatSwatchWithPreview(palette.Swatches[i], previewWidth))
		} else {
			b.WriteString(hex)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatRGB writes one rgb(r, g, b) triple per line.
func formatRGB(palette *colour.Palette, showPreview bool) string {
	var b strings.Builder
	for _, s := range palette.All() {
		text := s.RGB.String()
		if s.Empty {
			text = "empty"
		}
		if showPreview {
			block := strings.Repeat(" ", previewWidth)
			if !s.Empty {
				block = colour.ColourPreview(s.RGB, previewWidth)
			}
			fmt.Fprintf(&b, "%s %s %6.2f%%\n", block, text, s.Weight*100)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

// formatTable renders the palette with its coverage as aligned columns.
func formatTable(palette *colour.Palette, showPreview bool) string {
	headers := []string{"#", "Hex", "RGB", "Coverage"}
	if showPreview {
		headers = append([]string{"Colour"}, headers...)
	}
	t := NewTable(headers...)
	if showPreview {
		t.AlignRight(1, 4)
	} else {
		t.AlignRight(0, 3)
	}

	for i, s := range palette.All() {
		hex, rgb := s.RGB.Hex(), fmt.Sprintf("%d, %d, %d", s.RGB.R, s.RGB.G, s.RGB.B)
		if s.Empty {
			hex, rgb = "empty", "-"
		}
		row := []string{strconv.Itoa(i + 1), hex, rgb, fmt.Sprintf("%.2f%%", s.Weight*100)}
		if showPreview {
			block := strings.Repeat(" ", previewWidth)
			if !s.Empty {
				block = colour.ColourPreview(s.RGB, previewWidth)
			}
			row = append([]string{block}, row...)
		}
		t.AddRow(row...)
	}
	return t.Render()
}
