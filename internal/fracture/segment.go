package fracture

import "math"

// Point is a 2-D point with floating-point coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is a straight line between two endpoints (X1, Y1) and (X2, Y2).
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// NewSegment creates a Segment from two endpoints.
func NewSegment(x1, y1, x2, y2 float64) Segment {
	return Segment{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Start returns the first endpoint.
func (s Segment) Start() Point {
	return Point{X: s.X1, Y: s.Y1}
}

// End returns the second endpoint.
func (s Segment) End() Point {
	return Point{X: s.X2, Y: s.Y2}
}

// Delta returns the vector from the first endpoint to the second.
func (s Segment) Delta() (dx, dy float64) {
	return s.X2 - s.X1, s.Y2 - s.Y1
}

// Midpoint returns the point halfway between the endpoints.
func (s Segment) Midpoint() Point {
	return Point{X: (s.X1 + s.X2) / 2, Y: (s.Y1 + s.Y2) / 2}
}

// Reversed returns the same segment with its endpoints swapped.
func (s Segment) Reversed() Segment {
	return Segment{X1: s.X2, Y1: s.Y2, X2: s.X1, Y2: s.Y1}
}

// IsDegenerate reports whether both endpoints coincide.
func (s Segment) IsDegenerate() bool {
	return s.X1 == s.X2 && s.Y1 == s.Y2
}

// IsFinite reports whether all four coordinates are finite numbers.
func (s Segment) IsFinite() bool {
	for _, v := range [...]float64{s.X1, s.Y1, s.X2, s.Y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// PointAt returns the point at fraction t along the segment, where 0 is the
// first endpoint and 1 the second.
func (s Segment) PointAt(t float64) Point {
	return Point{X: s.X1 + t*(s.X2-s.X1), Y: s.Y1 + t*(s.Y2-s.Y1)}
}
