package render

import (
	"fmt"
	"io"
	"math"

	"github.com/ironsheep/fracpaq-go/internal/analysis"
)

// RoseOptions controls rose-diagram rendering. The zero value draws a
// 600x600 PNG with linear radii.
type RoseOptions struct {
	Format Format // output format, PNG when empty
	Size   int    // width and height in pixels, 600 when <= 0
	Title  string // defaults to a description of the histogram

	// EqualArea scales bar radii by the square root of the bin value so
	// that bar area, not radius, is proportional to the value.
	EqualArea bool

	FillColor  string // bar fill as "#RRGGBB"
	EdgeColor  string // bar outline as "#RRGGBB"
	Background string
}

func (o RoseOptions) withDefaults() RoseOptions {
	if o.Format == "" {
		o.Format = PNG
	}
	if o.Size <= 0 {
		o.Size = 600
	}
	return o
}

// maxArcStep bounds the angular step, in degrees, of the polyline that
// approximates a bar's arc.
const maxArcStep = 2.0

// roseDial places orientation angles on screen. With the X reference 0° is
// East and angles increase clockwise; with North, 0° is at the top and
// angles increase clockwise.
type roseDial struct {
	center point
	radius float64
	north  bool
}

func (d roseDial) at(deg, r float64) point {
	rad := deg * math.Pi / 180
	if d.north {
		return point{d.center.X + r*math.Sin(rad), d.center.Y - r*math.Cos(rad)}
	}
	return point{d.center.X + r*math.Cos(rad), d.center.Y + r*math.Sin(rad)}
}

// wedge returns the outline of a bar from lo to hi degrees at radius r.
func (d roseDial) wedge(lo, hi, r float64) []point {
	steps := int(math.Ceil((hi - lo) / maxArcStep))
	if steps < 1 {
		steps = 1
	}
	pts := make([]point, 0, steps+2)
	pts = append(pts, d.center)
	for k := 0; k <= steps; k++ {
		pts = append(pts, d.at(lo+(hi-lo)*float64(k)/float64(steps), r))
	}
	return pts
}

// Rose draws h as a rose diagram and writes the encoded image to w. Every
// bin is drawn at θ and θ+180°. An empty histogram draws the frame only.
func Rose(w io.Writer, h analysis.OrientationHistogram, opts RoseOptions) error {
	o := opts.withDefaults()
	s, err := newSurface(o.Format, o.Size, o.Size, colorOr(o.Background, white))
	if err != nil {
		return err
	}

	size := float64(o.Size)
	d := roseDial{
		center: point{size / 2, size/2 + 12},
		radius: math.Max(size/2-60, 10),
		north:  h.Reference == analysis.ReferenceNorth,
	}

	maxV := h.Max()
	total := h.Total()
	scaled := func(frac float64) float64 {
		if o.EqualArea {
			return d.radius * math.Sqrt(frac)
		}
		return d.radius * frac
	}

	// Rings at quarters of the largest bin, labelled as a share of the total.
	for k := 1; k <= 4; k++ {
		frac := float64(k) / 4
		r := scaled(frac)
		s.circle(d.center, r, nil, gridGray, 0.75)
		if maxV > 0 && total > 0 {
			label := fmt.Sprintf("%.3g%%", 100*frac*maxV/total)
			s.text(d.at(15, r), label, axisGray, anchorStart)
		}
	}
	for deg := 0.0; deg < 360; deg += 30 {
		s.line(d.center, d.at(deg, d.radius), gridGray, 0.75)
		lp := d.at(deg, d.radius+18)
		s.text(point{lp.X, lp.Y + 4}, fmt.Sprintf("%.0f°", deg), axisGray, anchorMiddle)
	}

	if maxV > 0 {
		fill := colorOr(o.FillColor, colorOr(DefaultRoseFill, black))
		edge := colorOr(o.EdgeColor, colorOr(DefaultRoseEdge, white))
		for j, v := range h.Mirrored() {
			if v <= 0 {
				continue
			}
			lo := float64(j) * h.BinWidth
			s.polygon(d.wedge(lo, lo+h.BinWidth, scaled(v/maxV)), fill, edge, 1)
		}
	}

	s.circle(d.center, d.radius, nil, axisGray, 1)
	s.text(point{size / 2, 24}, roseTitle(h, o.Title), black, anchorMiddle)

	return s.encode(w)
}

func roseTitle(h analysis.OrientationHistogram, title string) string {
	if title != "" {
		return title
	}
	weighting := "frequency"
	if h.Weighted {
		weighting = "length-weighted"
	}
	return fmt.Sprintf("Rose diagram, %s, %d bins of %.3g°, ref %s",
		weighting, h.BinCount, h.BinWidth, h.Reference)
}

// SaveRose renders h to path. The format comes from the file extension and
// overrides opts.Format.
func SaveRose(path string, h analysis.OrientationHistogram, opts RoseOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	opts.Format = format
	return saveTo(path, func(w io.Writer) error { return Rose(w, h, opts) })
}
