package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

// OrientationHistogram is rose diagram data: n bins of width 180/n degrees
// covering [0°, 180°). Bin i spans [i*BinWidth, (i+1)*BinWidth).
type OrientationHistogram struct {
	BinCount  int       `json:"bin_count"`
	BinWidth  float64   `json:"bin_width"`
	Values    []float64 `json:"values"`
	Weighted  bool      `json:"weighted"`
	Reference Reference `json:"reference"`
	// Excluded counts degenerate segments left out of every bin.
	Excluded int `json:"excluded"`
}

// RoseHistogram bins the orientations of the non-degenerate segments of tm
// into binCount equal bins over [0°, 180°).
//
// By default each segment adds its length to its bin; WithLengthWeighting
// (false) makes each segment add 1. The choice is recorded in the result's
// Weighted field.
//
// # Errors
//
// binCount <= 0 returns an error wrapping ErrInvalidParameter.
func RoseHistogram(tm fracture.TraceMap, binCount int, opts ...Option) (OrientationHistogram, error) {
	if binCount <= 0 {
		return OrientationHistogram{}, fmt.Errorf("%w: bin count must be positive, got %d", ErrInvalidParameter, binCount)
	}
	c := newConfig(opts...)

	h := OrientationHistogram{
		BinCount:  binCount,
		BinWidth:  180 / float64(binCount),
		Values:    make([]float64, binCount),
		Weighted:  c.weightByLength,
		Reference: c.ref,
	}

	// Contributions are summed in sorted order per bin, which makes the
	// result independent of segment order down to the last bit.
	contrib := make([][]float64, binCount)
	for i := 0; i < tm.Len(); i++ {
		g := GeometryIn(tm.Segment(i), c.ref)
		if g.Degenerate {
			h.Excluded++
			continue
		}
		w := 1.0
		if c.weightByLength {
			w = g.Length
		}
		b := BinIndex(g.Orientation.Degrees, binCount)
		contrib[b] = append(contrib[b], w)
	}
	for b, ws := range contrib {
		if len(ws) == 0 {
			continue
		}
		sort.Float64s(ws)
		h.Values[b] = floats.Sum(ws)
	}
	return h, nil
}

// BinIndex returns the bin of an orientation in [0, 180) for binCount bins:
// floor(deg / (180/binCount)), clamped into [0, binCount-1] so that rounding
// at the last boundary cannot overflow.
func BinIndex(deg float64, binCount int) int {
	idx := int(math.Floor(deg / (180 / float64(binCount))))
	if idx >= binCount {
		return binCount - 1
	}
	if idx < 0 {
		return 0
	}
	return idx
}

// Total returns the sum of all bins: the total length of the binned
// segments when Weighted, otherwise their number.
func (h OrientationHistogram) Total() float64 {
	if len(h.Values) == 0 {
		return 0
	}
	return floats.Sum(h.Values)
}

// Max returns the largest bin value, or 0 for an empty histogram.
func (h OrientationHistogram) Max() float64 {
	if len(h.Values) == 0 {
		return 0
	}
	return floats.Max(h.Values)
}

// Bin returns the lower and upper edge of bin i in degrees.
func (h OrientationHistogram) Bin(i int) (lo, hi float64) {
	return float64(i) * h.BinWidth, float64(i+1) * h.BinWidth
}

// Edges returns the BinCount+1 bin edges from 0 to 180.
func (h OrientationHistogram) Edges() []float64 {
	edges := make([]float64, h.BinCount+1)
	for i := range edges {
		edges[i] = float64(i) * h.BinWidth
	}
	edges[h.BinCount] = 180
	return edges
}

// Centers returns the centre angle of each bin.
func (h OrientationHistogram) Centers() []float64 {
	centers := make([]float64, h.BinCount)
	for i := range centers {
		centers[i] = (float64(i) + 0.5) * h.BinWidth
	}
	return centers
}

// Fractions returns each bin as a fraction of Total. All zeros when Total is 0.
func (h OrientationHistogram) Fractions() []float64 {
	out := make([]float64, len(h.Values))
	total := h.Total()
	if total == 0 {
		return out
	}
	for i, v := range h.Values {
		out[i] = v / total
	}
	return out
}

// Mirrored returns the bins repeated onto the full circle: 2*BinCount values
// where bin i and bin i+BinCount both hold Values[i]. Rose plots draw this
// so that each axial direction appears at θ and θ+180°.
func (h OrientationHistogram) Mirrored() []float64 {
	out := make([]float64, 2*len(h.Values))
	copy(out, h.Values)
	copy(out[len(h.Values):], h.Values)
	return out
}
