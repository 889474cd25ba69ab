package colour

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents a colour in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}.Hex()
}

// ParseHex parses a "#rrggbb" or "#rgb" string.
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Swatch is one palette entry: a colour and the fraction of the image it
// covers. Empty swatches come from clusters that attracted no pixels.
type Swatch struct {
	RGB    RGB
	Weight float64
	Empty  bool
}

// Palette represents the dominant colours extracted from an image.
type Palette struct {
	Swatches []Swatch
}

// NewPalette creates a new Palette with the given swatches.
func NewPalette(swatches []Swatch) *Palette {
	return &Palette{Swatches: swatches}
}

// Len returns the number of swatches in the palette, empty ones included.
func (p *Palette) Len() int {
	return len(p.Swatches)
}

// Get returns the swatch at the specified index.
func (p *Palette) Get(index int) (Swatch, error) {
	if index < 0 || index >= len(p.Swatches) {
		return Swatch{}, fmt.Errorf("index out of bounds: %d (palette has %d colours)", index, len(p.Swatches))
	}
	return p.Swatches[index], nil
}

// All returns an iterator over all swatches in the palette.
func (p *Palette) All() func(func(int, Swatch) bool) {
	return func(yield func(int, Swatch) bool) {
		for i, s := range p.Swatches {
			if !yield(i, s) {
				return
			}
		}
	}
}

// SortedByWeight returns a copy of the palette ordered by descending
// weight. Empty swatches sort last; equal weights keep their slot order.
func (p *Palette) SortedByWeight() *Palette {
	sorted := slices.Clone(p.Swatches)
	slices.SortStableFunc(sorted, func(a, b Swatch) int {
		if a.Empty != b.Empty {
			if a.Empty {
				return 1
			}
			return -1
		}
		return cmp.Compare(b.Weight, a.Weight)
	})
	return NewPalette(sorted)
}

// TotalWeight returns the sum of all swatch weights.
func (p *Palette) TotalWeight() float64 {
	total := 0.0
	for _, s := range p.Swatches {
		total += s.Weight
	}
	return total
}

// ToHex converts the palette colours to hex strings. Empty swatches are
// rendered as "empty".
func (p *Palette) ToHex() []string {
	hexColours := make([]string, len(p.Swatches))
	for i, s := range p.Swatches {
		if s.Empty {
			hexColours[i] = "empty"
			continue
		}
		hexColours[i] = s.RGB.Hex()
	}
	return hexColours
}

// SwatchJSON represents a swatch in JSON output format.
type SwatchJSON struct {
	Hex        string  `json:"hex,omitempty"`
	RGB        *RGB    `json:"rgb,omitempty"`
	Percentage float64 `json:"percentage"`
	Empty      bool    `json:"empty,omitempty"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count   int          `json:"count"`
	Colours []SwatchJSON `json:"colours"`
}

// ToJSON converts the palette to JSON format.
func (p *Palette) ToJSON() ([]byte, error) {
	colours := make([]SwatchJSON, len(p.Swatches))
	for i, s := range p.Swatches {
		if s.Empty {
			colours[i] = SwatchJSON{Empty: true}
			continue
		}
		rgb := s.RGB
		colours[i] = SwatchJSON{
			Hex:        rgb.Hex(),
			RGB:        &rgb,
			Percentage: s.Weight * 100,
		}
	}

	return json.MarshalIndent(PaletteJSON{
		Count:   len(p.Swatches),
		Colours: colours,
	}, "", "  ")
}

// String returns a human-readable string representation of the palette.
func (p *Palette) String() string {
	if len(p.Swatches) == 0 {
		return "Empty palette"
	}

	result := fmt.Sprintf("Palette with %d colours:\n", len(p.Swatches))
	for i, s := range p.Swatches {
		if s.Empty {
			result += fmt.Sprintf("  %2d: empty\n", i+1)
			continue
		}
		result += fmt.Sprintf("  %2d: %s (%s) %6.2f%%\n", i+1, s.RGB.Hex(), s.RGB.String(), s.Weight*100)
	}
	return result
}
