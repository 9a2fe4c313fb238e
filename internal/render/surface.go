package render

import (
	"image"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// point is a position in pixel coordinates, origin top-left.
type point struct{ X, Y float64 }

// anchor is the horizontal alignment of a text label.
type anchor int

const (
	anchorStart anchor = iota
	anchorMiddle
	anchorEnd
)

// surface is the small drawing vocabulary shared by the raster and SVG
// back ends. A nil fill or stroke colour draws nothing for that part.
type surface interface {
	line(a, b point, stroke color.Color, width float64)
	polygon(pts []point, fill, stroke color.Color, width float64)
	circle(c point, r float64, fill, stroke color.Color, width float64)
	text(p point, s string, c color.Color, align anchor)
	encode(w io.Writer) error
}

// newSurface returns a blank surface of the given size for format.
func newSurface(format Format, width, height int, bg color.Color) (surface, error) {
	if format == SVG {
		return newSVGSurface(width, height, bg), nil
	}
	f, err := format.imagingFormat()
	if err != nil {
		return nil, err
	}
	return &rasterSurface{
		img:    imaging.New(width, height, bg),
		format: f,
	}, nil
}

// rasterSurface draws anti-aliased shapes onto an NRGBA canvas.
type rasterSurface struct {
	img    *image.NRGBA
	format imaging.Format
}

func (r *rasterSurface) fill(pts []point, c color.Color) {
	if len(pts) < 3 || c == nil {
		return
	}
	b := r.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
	z.Draw(r.img, b, image.NewUniform(c), image.Point{})
}

func (r *rasterSurface) line(a, b point, stroke color.Color, width float64) {
	if stroke == nil {
		return
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		r.fill(circlePoints(a, width/2, 8), stroke)
		return
	}
	// Offset by half the width along the normal and extend the ends by the
	// same amount so joined strokes meet without notches.
	h := width / 2
	nx, ny := -dy/l*h, dx/l*h
	ex, ey := dx/l*h/2, dy/l*h/2
	r.fill([]point{
		{a.X - ex + nx, a.Y - ey + ny},
		{b.X + ex + nx, b.Y + ey + ny},
		{b.X + ex - nx, b.Y + ey - ny},
		{a.X - ex - nx, a.Y - ey - ny},
	}, stroke)
}

func (r *rasterSurface) polygon(pts []point, fill, stroke color.Color, width float64) {
	r.fill(pts, fill)
	if stroke == nil {
		return
	}
	for i := range pts {
		r.line(pts[i], pts[(i+1)%len(pts)], stroke, width)
	}
}

func (r *rasterSurface) circle(c point, radius float64, fill, stroke color.Color, width float64) {
	r.polygon(circlePoints(c, radius, 24), fill, stroke, width)
}

// asciiLabels spells out the symbols basicfont has no glyph for.
var asciiLabels = strings.NewReplacer(
	"°", " deg",
	"σ", "s",
	"θ", "theta",
	"μ", "mu",
	"Δ", "d",
	"≥", ">=",
)

func (r *rasterSurface) text(p point, s string, c color.Color, align anchor) {
	s = asciiLabels.Replace(s)
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: face,
	}
	x := p.X
	switch align {
	case anchorMiddle:
		x -= float64(d.MeasureString(s).Ceil()) / 2
	case anchorEnd:
		x -= float64(d.MeasureString(s).Ceil())
	}
	d.Dot = fixed.P(int(math.Round(x)), int(math.Round(p.Y)))
	d.DrawString(s)
}

func (r *rasterSurface) encode(w io.Writer) error {
	return imaging.Encode(w, r.img, r.format, imaging.JPEGQuality(95))
}

// circlePoints approximates a circle by an n-gon.
func circlePoints(c point, r float64, n int) []point {
	pts := make([]point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = point{c.X + r*math.Cos(a), c.Y + r*math.Sin(a)}
	}
	return pts
}
