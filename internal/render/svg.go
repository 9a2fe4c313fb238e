package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// svgSurface writes shapes as SVG elements. svgo works in integer user
// units, which at plot resolution is one pixel.
type svgSurface struct {
	buf    bytes.Buffer
	canvas *svg.SVG
}

func newSVGSurface(width, height int, bg color.Color) *svgSurface {
	s := &svgSurface{}
	s.canvas = svg.New(&s.buf)
	s.canvas.Start(width, height)
	s.canvas.Rect(0, 0, width, height, "fill:"+fillStyle(bg))
	return s
}

func px(v float64) int { return int(math.Round(v)) }

func fillStyle(c color.Color) string {
	if c == nil {
		return "none"
	}
	hex, op := cssColor(c)
	if op < 1 {
		return fmt.Sprintf("%s;fill-opacity:%.3g", hex, op)
	}
	return hex
}

func strokeStyle(c color.Color, width float64) string {
	if c == nil {
		return "stroke:none"
	}
	hex, op := cssColor(c)
	s := fmt.Sprintf("stroke:%s;stroke-width:%.3g", hex, width)
	if op < 1 {
		s += fmt.Sprintf(";stroke-opacity:%.3g", op)
	}
	return s
}

func (s *svgSurface) line(a, b point, stroke color.Color, width float64) {
	if stroke == nil {
		return
	}
	s.canvas.Line(px(a.X), px(a.Y), px(b.X), px(b.Y),
		strokeStyle(stroke, width)+";stroke-linecap:round")
}

func (s *svgSurface) polygon(pts []point, fill, stroke color.Color, width float64) {
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = px(p.X), px(p.Y)
	}
	s.canvas.Polygon(xs, ys, "fill:"+fillStyle(fill)+";"+strokeStyle(stroke, width))
}

func (s *svgSurface) circle(c point, r float64, fill, stroke color.Color, width float64) {
	s.canvas.Circle(px(c.X), px(c.Y), px(math.Max(r, 1)),
		"fill:"+fillStyle(fill)+";"+strokeStyle(stroke, width))
}

func (s *svgSurface) text(p point, str string, c color.Color, align anchor) {
	a := "start"
	switch align {
	case anchorMiddle:
		a = "middle"
	case anchorEnd:
		a = "end"
	}
	hex, _ := cssColor(c)
	s.canvas.Text(px(p.X), px(p.Y), str,
		fmt.Sprintf("font-family:sans-serif;font-size:12px;fill:%s;text-anchor:%s", hex, a))
}

func (s *svgSurface) encode(w io.Writer) error {
	s.canvas.End()
	_, err := w.Write(s.buf.Bytes())
	return err
}
