package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8
)

// ColourPreview returns an ANSI-coloured preview string for a colour.
// Width specifies how many characters wide the colour block should be.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	bgColour := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	return bgColour + strings.Repeat(" ", width) + ansiReset
}

// FormatSwatchWithPreview formats a swatch as a colour block followed by
// its hex code and coverage. Empty swatches get a blank block.
func FormatSwatchWithPreview(s Swatch, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	if s.Empty {
		return fmt.Sprintf("%s %-7s %6.2f%%", strings.Repeat(" ", width), "empty", 0.0)
	}
	return fmt.Sprintf("%s %s %6.2f%%", ColourPreview(s.RGB, width), s.RGB.Hex(), s.Weight*100)
}
