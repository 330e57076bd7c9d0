package css

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// NormalizeColor validates a color value. Hex colors are returned in lower
// case six-digit form, custom property references and a few keywords pass
// through unchanged.
func NormalizeColor(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	lower := strings.ToLower(value)
	switch lower {
	case "transparent", "currentcolor", "inherit", "initial", "unset":
		return lower, true
	}
	if strings.HasPrefix(lower, "var(--") && strings.HasSuffix(lower, ")") {
		return value, true
	}
	if strings.HasPrefix(lower, "#") {
		if len(lower) == 4 {
			lower = "#" + strings.Repeat(lower[1:2], 2) + strings.Repeat(lower[2:3], 2) + strings.Repeat(lower[3:4], 2)
		}
		c, err := colorful.Hex(lower)
		if err != nil {
			return "", false
		}
		return c.Hex(), true
	}
	return "", false
}

// Contrast returns black or white, whichever reads better on a hex
// background. Non hex inputs yield black.
func Contrast(background string) string {
	c, err := colorful.Hex(background)
	if err != nil {
		return "#000000"
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	black := colorful.Color{}
	if c.DistanceCIEDE2000(white) > c.DistanceCIEDE2000(black) {
		return "#ffffff"
	}
	return "#000000"
}
