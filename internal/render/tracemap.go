package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/ironsheep/fracpaq-go/internal/analysis"
	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

// Trace-map layout in pixels.
const (
	marginLeft   = 70.0
	marginRight  = 30.0
	marginTop    = 45.0
	marginBottom = 55.0
	tickLength   = 5.0
	markerSize   = 3.5
)

// MapOptions controls trace-map rendering. The zero value draws an
// 800x800 PNG with default colours.
type MapOptions struct {
	Format Format // output format, PNG when empty
	Width  int    // image width in pixels, 800 when <= 0
	Height int    // image height in pixels, 800 when <= 0
	Title  string // defaults to the map name

	// TraceColor is the segment colour as "#RRGGBB".
	TraceColor string
	// LineWidth is the segment stroke width in pixels, 1.5 when <= 0.
	LineWidth float64
	// Background is the canvas colour as "#RRGGBB".
	Background string

	// ShowNodes overlays endpoints (circles), segment midpoints (squares)
	// and trace midpoints (triangles).
	ShowNodes bool
	// ColorByOrientation colours each segment by its orientation measured
	// against Reference.
	ColorByOrientation bool
	Reference          analysis.Reference

	// FlipX and FlipY reverse the axes. Set FlipY for image coordinates.
	FlipX bool
	FlipY bool

	// Scale, when set, colours segments by a per-segment value and adds a
	// colour bar below the plot. It takes precedence over
	// ColorByOrientation.
	Scale *ColorScale
}

func (o MapOptions) withDefaults() MapOptions {
	if o.Format == "" {
		o.Format = PNG
	}
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	if o.LineWidth <= 0 {
		o.LineWidth = 1.5
	}
	return o
}

// viewport maps data coordinates into the plot rectangle at equal aspect.
type viewport struct {
	left, top, w, h        float64
	minX, maxX, minY, maxY float64
	flipX, flipY           bool
}

func newViewport(b fracture.Bounds, o MapOptions) viewport {
	bottom := marginBottom
	if o.Scale != nil {
		bottom += colorBarSpace
	}
	v := viewport{
		left:  marginLeft,
		top:   marginTop,
		w:     math.Max(float64(o.Width)-marginLeft-marginRight, 10),
		h:     math.Max(float64(o.Height)-marginTop-bottom, 10),
		flipX: o.FlipX,
		flipY: o.FlipY,
	}

	dw, dh := b.Width(), b.Height()
	switch {
	case dw == 0 && dh == 0:
		dw, dh = 2, 2
	case dw == 0:
		dw = dh
	case dh == 0:
		dh = dw
	}
	// 5% padding around the data.
	dw *= 1.1
	dh *= 1.1

	scale := math.Min(v.w/dw, v.h/dh)
	cx := (b.MinX + b.MaxX) / 2
	cy := (b.MinY + b.MaxY) / 2
	halfW := v.w / scale / 2
	halfH := v.h / scale / 2
	v.minX, v.maxX = cx-halfW, cx+halfW
	v.minY, v.maxY = cy-halfH, cy+halfH
	return v
}

func (v viewport) screenX(x float64) float64 {
	u := (x - v.minX) / (v.maxX - v.minX)
	if v.flipX {
		u = 1 - u
	}
	return v.left + u*v.w
}

func (v viewport) screenY(y float64) float64 {
	u := (y - v.minY) / (v.maxY - v.minY)
	if !v.flipY {
		u = 1 - u
	}
	return v.top + u*v.h
}

func (v viewport) project(p fracture.Point) point {
	return point{v.screenX(p.X), v.screenY(p.Y)}
}

// TraceMap draws tm and writes the encoded image to w.
func TraceMap(w io.Writer, tm fracture.TraceMap, opts MapOptions) error {
	o := opts.withDefaults()
	bg := colorOr(o.Background, white)
	s, err := newSurface(o.Format, o.Width, o.Height, bg)
	if err != nil {
		return err
	}

	v := newViewport(tm.Bounds(), o)
	drawAxes(s, v, "X, pixels", "Y, pixels")

	traceColor := colorOr(o.TraceColor, colorOr(DefaultTraceColor, black))
	for i := 0; i < tm.Len(); i++ {
		seg := tm.Segment(i)
		c := color.Color(traceColor)
		if o.Scale != nil {
			if sc, ok := o.Scale.segmentColor(i); ok {
				c = sc
			}
		} else if o.ColorByOrientation {
			if g := analysis.GeometryIn(seg, o.Reference); !g.Degenerate {
				c = OrientationColor(g.Orientation.Degrees)
			}
		}
		a, b := v.project(seg.Start()), v.project(seg.End())
		if seg.IsDegenerate() {
			s.circle(a, o.LineWidth, c, nil, 0)
			continue
		}
		s.line(a, b, c, o.LineWidth)
	}

	if o.ShowNodes {
		drawNodes(s, v, analysis.NodeSetOf(tm))
	}
	if o.Scale != nil {
		drawColorBar(s, v, o.Scale)
	}

	title := o.Title
	if title == "" {
		title = tm.Name()
	}
	if title == "" {
		title = "Trace map"
	}
	s.text(point{v.left + v.w/2, marginTop / 2}, fmt.Sprintf("%s (n=%d)", title, tm.Len()), black, anchorMiddle)

	return s.encode(w)
}

func drawAxes(s surface, v viewport, xLabel, yLabel string) {
	right, bottom := v.left+v.w, v.top+v.h

	for _, t := range axisTicks(v.minX, v.maxX) {
		x := v.screenX(t)
		s.line(point{x, v.top}, point{x, bottom}, gridGray, 0.5)
		s.line(point{x, bottom}, point{x, bottom + tickLength}, axisGray, 1)
		s.text(point{x, bottom + tickLength + 13}, tickLabel(t), axisGray, anchorMiddle)
	}
	for _, t := range axisTicks(v.minY, v.maxY) {
		y := v.screenY(t)
		s.line(point{v.left, y}, point{right, y}, gridGray, 0.5)
		s.line(point{v.left - tickLength, y}, point{v.left, y}, axisGray, 1)
		s.text(point{v.left - tickLength - 3, y + 4}, tickLabel(t), axisGray, anchorEnd)
	}

	frame := []point{{v.left, v.top}, {right, v.top}, {right, bottom}, {v.left, bottom}}
	s.polygon(frame, nil, axisGray, 1)

	s.text(point{v.left + v.w/2, bottom + 42}, xLabel, black, anchorMiddle)
	s.text(point{v.left - 60, v.top - 8}, yLabel, black, anchorStart)
}

func drawNodes(s surface, v viewport, nodes analysis.NodeSet) {
	for _, p := range nodes.Endpoints {
		s.circle(v.project(p), markerSize, nil, black, 1)
	}
	for _, p := range nodes.SegmentMidpoints {
		c := v.project(p)
		sq := []point{
			{c.X - markerSize, c.Y - markerSize},
			{c.X + markerSize, c.Y - markerSize},
			{c.X + markerSize, c.Y + markerSize},
			{c.X - markerSize, c.Y + markerSize},
		}
		s.polygon(sq, nil, nodeRed, 1)
	}
	for _, p := range nodes.TraceMidpoints {
		c := v.project(p)
		tri := []point{
			{c.X, c.Y - markerSize*1.2},
			{c.X + markerSize, c.Y + markerSize*0.8},
			{c.X - markerSize, c.Y + markerSize*0.8},
		}
		s.polygon(tri, nil, nodeGreen, 1)
	}
}

// SaveTraceMap renders tm to path. The format comes from the file
// extension and overrides opts.Format.
func SaveTraceMap(path string, tm fracture.TraceMap, opts MapOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	opts.Format = format
	return saveTo(path, func(w io.Writer) error { return TraceMap(w, tm, opts) })
}

func saveTo(path string, draw func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := draw(f); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}
