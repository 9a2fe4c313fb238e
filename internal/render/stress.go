package render

import (
	"fmt"
	"io"
	"math"

	"github.com/ironsheep/fracpaq-go/internal/analysis"
	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

// StressScale builds the colour scale for measure m of a. Tendencies use
// a fixed 0..1 range; susceptibility runs red (low, close to failure) to
// blue over its data range; critical stress is two categories.
func StressScale(a analysis.StressAnalysis, m analysis.StressMeasure) *ColorScale {
	cs := &ColorScale{Label: m.Label(), Values: a.Values(m)}
	switch m {
	case analysis.MeasureSlip, analysis.MeasureDilation:
		cs.Min, cs.Max = 0, 1
	case analysis.MeasureSusceptibility:
		cs.Reversed = true
	case analysis.MeasureCritical:
		cs.Categories = []string{"Non-CSF", "CSF"}
		cs.Label = fmt.Sprintf("%s, Pf=%g MPa", m.Label(), a.Options.PorePressure)
	}
	return cs
}

// StressMap draws tm with every segment coloured by measure m of a, which
// must have been computed from tm.
func StressMap(w io.Writer, tm fracture.TraceMap, a analysis.StressAnalysis, m analysis.StressMeasure, opts MapOptions) error {
	opts.Scale = StressScale(a, m)
	if opts.Title == "" {
		o := a.Options
		opts.Title = fmt.Sprintf("%s, σ1=%g MPa, σ2=%g MPa, θ=%g°", m.Label(), o.Sigma1, o.Sigma2, o.Sigma1Azimuth)
	}
	return TraceMap(w, tm, opts)
}

// SaveStressMap renders a stress map to path, with the format taken from
// the extension.
func SaveStressMap(path string, tm fracture.TraceMap, a analysis.StressAnalysis, m analysis.StressMeasure, opts MapOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	opts.Format = format
	return saveTo(path, func(w io.Writer) error { return StressMap(w, tm, a, m, opts) })
}

// MohrOptions controls Mohr diagram rendering.
type MohrOptions struct {
	Format Format // output format, PNG when empty
	Size   int    // width and height in pixels, 600 when <= 0
	Title  string
}

// Mohr draws the upper half of the Mohr circle of a's stress state, the
// Coulomb failure envelope, and one point (σn, |τ|) per measured segment,
// red when critically stressed.
func Mohr(w io.Writer, a analysis.StressAnalysis, opts MohrOptions) error {
	if opts.Format == "" {
		opts.Format = PNG
	}
	if opts.Size <= 0 {
		opts.Size = 600
	}
	s, err := newSurface(opts.Format, opts.Size, opts.Size, white)
	if err != nil {
		return err
	}

	o := a.Options
	c, r := a.MohrCenter(), a.MohrRadius()
	xLeft := math.Min(-5, c-1.2*r)
	xRight := math.Max(o.Sigma1, c+1.2*r)
	// The envelope meets τ = 0 at Pf - C0/μ.
	envStart := math.Max(xLeft, math.Min(xRight, o.PorePressure-o.Cohesion/o.Friction))
	yMax := math.Max(r, a.Envelope(xRight))
	if yMax <= 0 {
		yMax = 1
	}

	v := newViewport(fracture.Bounds{MinX: xLeft, MaxX: xRight, MinY: 0, MaxY: 1.05 * yMax}, MapOptions{Width: opts.Size, Height: opts.Size})
	drawAxes(s, v, "Normal stress, MPa", "Shear stress, MPa")
	at := func(x, y float64) point { return point{v.screenX(x), v.screenY(y)} }

	s.line(at(xLeft, 0), at(xRight, 0), axisGray, 0.8)

	prev := at(c+r, 0)
	for deg := 2; deg <= 180; deg += 2 {
		t := float64(deg) * math.Pi / 180
		cur := at(c+r*math.Cos(t), r*math.Sin(t))
		s.line(prev, cur, black, 1.2)
		prev = cur
	}
	s.line(at(envStart, a.Envelope(envStart)), at(xRight, a.Envelope(xRight)), nodeRed, 1.2)

	for _, seg := range a.Segments {
		if seg.Degenerate {
			continue
		}
		fill := categoryColor(0, 2)
		if seg.CriticallyStressed {
			fill = categoryColor(1, 2)
		}
		s.circle(at(seg.Normal, math.Abs(seg.Shear)), 2.5, fill, nil, 0)
	}

	// Legend.
	lx, ly := v.left+10, v.top+16
	s.line(point{lx, ly - 4}, point{lx + 20, ly - 4}, black, 1.2)
	s.text(point{lx + 26, ly}, "Stress", black, anchorStart)
	s.line(point{lx, ly + 12}, point{lx + 20, ly + 12}, nodeRed, 1.2)
	s.text(point{lx + 26, ly + 16}, "Sliding or failure", black, anchorStart)

	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("Mohr diagram μ=%g, C0=%g MPa", o.Friction, o.Cohesion)
	}
	s.text(point{v.left + v.w/2, marginTop / 2}, title, black, anchorMiddle)
	return s.encode(w)
}

// SaveMohr renders a Mohr diagram to path, with the format taken from the
// extension.
func SaveMohr(path string, a analysis.StressAnalysis, opts MohrOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	opts.Format = format
	return saveTo(path, func(w io.Writer) error { return Mohr(w, a, opts) })
}
