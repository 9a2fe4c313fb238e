package analysis

import (
	"encoding/json"
	"math"

	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

// Orientation is an axial angle in degrees within [0, 180), or undefined.
type Orientation struct {
	Degrees float64
	Defined bool
}

// Undefined is the orientation of a degenerate segment and the mean
// orientation of a map without measurable segments.
var Undefined = Orientation{Degrees: math.NaN()}

// DefinedOrientation returns a defined orientation of deg degrees.
func DefinedOrientation(deg float64) Orientation {
	return Orientation{Degrees: deg, Defined: true}
}

// MarshalJSON encodes the angle as a number, or null when undefined.
func (o Orientation) MarshalJSON() ([]byte, error) {
	if !o.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(o.Degrees)
}

// UnmarshalJSON accepts a number or null.
func (o *Orientation) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = Undefined
		return nil
	}
	var deg float64
	if err := json.Unmarshal(b, &deg); err != nil {
		return err
	}
	*o = DefinedOrientation(deg)
	return nil
}

// SegmentGeometry is the length and orientation of one segment.
type SegmentGeometry struct {
	Length      float64     `json:"length"`
	Orientation Orientation `json:"orientation"`
	Degenerate  bool        `json:"degenerate"`
}

// Geometry returns the length and orientation of s, measured from
// DefaultReference.
func Geometry(s fracture.Segment) SegmentGeometry {
	return GeometryIn(s, DefaultReference)
}

// GeometryIn returns the length and orientation of s measured from ref.
// A segment with coincident endpoints is degenerate: Length 0, Degenerate
// set, Orientation undefined.
func GeometryIn(s fracture.Segment, ref Reference) SegmentGeometry {
	dx, dy := s.Delta()
	length := math.Hypot(dx, dy)
	if length == 0 {
		return SegmentGeometry{Orientation: Undefined, Degenerate: true}
	}
	return SegmentGeometry{
		Length:      length,
		Orientation: DefinedOrientation(toReference(axialDegrees(dx, dy), ref)),
	}
}

// MapGeometry returns the geometry of every segment of tm in input order.
// Only WithReference is relevant.
func MapGeometry(tm fracture.TraceMap, opts ...Option) []SegmentGeometry {
	c := newConfig(opts...)
	out := make([]SegmentGeometry, tm.Len())
	for i := range out {
		out[i] = GeometryIn(tm.Segment(i), c.ref)
	}
	return out
}

// axialRadians returns the angle of (dx, dy) from the positive X axis in
// [0, π]. The vector is first turned into the upper half plane, so a
// segment and its reverse produce bit-identical results.
func axialRadians(dx, dy float64) float64 {
	if dy < 0 || (dy == 0 && dx < 0) {
		dx, dy = -dx, -dy
	}
	return math.Atan2(dy, dx)
}

// axialDegrees is axialRadians in degrees, folded into [0, 180).
func axialDegrees(dx, dy float64) float64 {
	return fold180(axialRadians(dx, dy) * 180 / math.Pi)
}

// fold180 maps any angle in degrees into [0, 180): negative values gain
// 180 and an exact 180 becomes 0.
func fold180(deg float64) float64 {
	deg = math.Mod(deg, 180)
	if deg < 0 {
		deg += 180
	}
	if deg >= 180 || deg == 0 {
		// Rounding can land exactly on 180; also clears -0.
		return 0
	}
	return deg
}

// toReference converts an angle measured from the X axis to ref.
func toReference(degX float64, ref Reference) float64 {
	if ref == ReferenceNorth {
		return fold180(90 - degX)
	}
	return degX
}

// doubledRadians returns twice the orientation of (dx, dy) in radians,
// measured from ref. Doubling maps axial data onto the full circle.
func doubledRadians(dx, dy float64, ref Reference) float64 {
	r := axialRadians(dx, dy)
	if ref == ReferenceNorth {
		return math.Pi - 2*r
	}
	return 2 * r
}
