package render

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Fixed plot colours.
var (
	white     = color.NRGBA{255, 255, 255, 255}
	black     = color.NRGBA{0, 0, 0, 255}
	axisGray  = color.NRGBA{90, 90, 90, 255}
	gridGray  = color.NRGBA{200, 200, 200, 255}
	nodeRed   = color.NRGBA{200, 30, 30, 255}
	nodeGreen = color.NRGBA{20, 150, 40, 255}
)

// Default colours of configurable elements, as "#RRGGBB".
const (
	DefaultTraceColor = "#1F4E9C"
	DefaultRoseFill   = "#3A7DC9"
	DefaultRoseEdge   = "#FFFFFF"
	DefaultBackground = "#FFFFFF"
)

// ParseColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA".
func ParseColor(hex string) (color.NRGBA, error) {
	if len(hex) == 9 && hex[0] == '#' {
		c, err := colorful.Hex(hex[:7])
		if err != nil {
			return color.NRGBA{}, err
		}
		var a uint8
		if _, err := fmt.Sscanf(hex[7:], "%02x", &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q: %w", hex, err)
		}
		n := toNRGBA(c)
		n.A = a
		return n, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	return toNRGBA(c), nil
}

// colorOr parses hex, falling back to def for an empty or invalid string.
func colorOr(hex string, def color.NRGBA) color.NRGBA {
	if hex == "" {
		return def
	}
	c, err := ParseColor(hex)
	if err != nil {
		return def
	}
	return c
}

// OrientationColor maps an axial orientation in degrees onto a hue wheel.
// The angle is doubled so 0° and 180° meet with the same colour.
func OrientationColor(deg float64) color.NRGBA {
	hue := math.Mod(2*deg, 360)
	if hue < 0 {
		hue += 360
	}
	return toNRGBA(colorful.Hsv(hue, 0.85, 0.8).Clamped())
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// cssColor formats c for SVG style attributes.
func cssColor(c color.Color) (hex string, opacity float64) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B), float64(n.A) / 255
}
