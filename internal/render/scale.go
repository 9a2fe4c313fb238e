package render

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colour-bar layout in pixels.
const (
	colorBarSpace  = 50.0
	colorBarHeight = 12.0
	colorBarSteps  = 48
)

// ColorScale colours trace-map segments by a per-segment value on a
// blue-to-red ramp, or by category.
type ColorScale struct {
	// Label is written under the colour bar.
	Label string
	// Values holds one value per segment. NaN keeps the trace colour.
	Values []float64
	// Min and Max fix the ramp range. When both are zero the range of the
	// finite Values is used.
	Min, Max float64
	// Reversed runs the ramp from red at Min to blue at Max.
	Reversed bool
	// Categories switches to discrete colours: value k selects
	// Categories[k].
	Categories []string
}

// rampColor maps u in [0, 1] from blue through green and yellow to red.
func rampColor(u float64) color.NRGBA {
	u = math.Max(0, math.Min(1, u))
	return toNRGBA(colorful.Hsv(240*(1-u), 0.9, 0.9).Clamped())
}

func (cs *ColorScale) bounds() (lo, hi float64) {
	if len(cs.Categories) > 0 {
		return 0, float64(len(cs.Categories) - 1)
	}
	lo, hi = cs.Min, cs.Max
	if lo == 0 && hi == 0 {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, v := range cs.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		if math.IsInf(lo, 1) {
			lo, hi = 0, 1
		}
	}
	if !(hi > lo) {
		hi = lo + 1
	}
	return lo, hi
}

// categoryColor spreads n categories over the middle of the ramp.
func categoryColor(k, n int) color.NRGBA {
	if n <= 1 {
		return rampColor(0.5)
	}
	return rampColor(0.1 + 0.8*float64(k)/float64(n-1))
}

// colorOf returns the colour of value v.
func (cs *ColorScale) colorOf(v float64) color.NRGBA {
	if n := len(cs.Categories); n > 0 {
		k := int(math.Round(v))
		k = max(0, min(n-1, k))
		return categoryColor(k, n)
	}
	lo, hi := cs.bounds()
	u := (v - lo) / (hi - lo)
	if cs.Reversed {
		u = 1 - u
	}
	return rampColor(u)
}

// segmentColor returns the colour of segment i, false when it has no
// value.
func (cs *ColorScale) segmentColor(i int) (color.Color, bool) {
	if i >= len(cs.Values) || math.IsNaN(cs.Values[i]) {
		return nil, false
	}
	return cs.colorOf(cs.Values[i]), true
}

// drawColorBar draws the scale below the plot area of v.
func drawColorBar(s surface, v viewport, cs *ColorScale) {
	top := v.top + v.h + marginBottom + 2
	bottom := top + colorBarHeight
	labelY := bottom + 15

	if n := len(cs.Categories); n > 0 {
		gap := 10.0
		w := (v.w - gap*float64(n-1)) / float64(n)
		for k, name := range cs.Categories {
			x := v.left + float64(k)*(w+gap)
			patch := []point{{x, top}, {x + w, top}, {x + w, bottom}, {x, bottom}}
			s.polygon(patch, categoryColor(k, n), axisGray, 0.5)
			s.text(point{x + w/2, labelY}, name, black, anchorMiddle)
		}
		return
	}

	lo, hi := cs.bounds()
	step := v.w / colorBarSteps
	for i := 0; i < colorBarSteps; i++ {
		u := (float64(i) + 0.5) / colorBarSteps
		if cs.Reversed {
			u = 1 - u
		}
		x := v.left + float64(i)*step
		// Each strip overlaps the next by one pixel.
		strip := []point{{x, top}, {x + step + 1, top}, {x + step + 1, bottom}, {x, bottom}}
		s.polygon(strip, rampColor(u), nil, 0)
	}
	s.polygon([]point{{v.left, top}, {v.left + v.w, top}, {v.left + v.w, bottom}, {v.left, bottom}}, nil, axisGray, 1)
	s.text(point{v.left, labelY}, tickLabel(lo), axisGray, anchorStart)
	s.text(point{v.left + v.w, labelY}, tickLabel(hi), axisGray, anchorEnd)
	s.text(point{v.left + v.w/2, labelY}, cs.Label, black, anchorMiddle)
}
