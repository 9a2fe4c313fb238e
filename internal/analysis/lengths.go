package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

// LengthStats describes the length distribution of the non-degenerate
// segments of a map. All fields are zero when there are none.
type LengthStats struct {
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	// StdDev is the sample standard deviation; 0 for fewer than two segments.
	StdDev float64 `json:"std_dev"`
}

// Lengths computes LengthStats for tm.
func Lengths(tm fracture.TraceMap) LengthStats {
	xs := make([]float64, 0, tm.Len())
	for i := 0; i < tm.Len(); i++ {
		if g := Geometry(tm.Segment(i)); !g.Degenerate {
			xs = append(xs, g.Length)
		}
	}
	if len(xs) == 0 {
		return LengthStats{}
	}
	sort.Float64s(xs)

	ls := LengthStats{
		Count: len(xs),
		Total: floats.Sum(xs),
		Min:   xs[0],
		Max:   xs[len(xs)-1],
	}
	if len(xs) > 1 {
		ls.Mean, ls.StdDev = stat.MeanStdDev(xs, nil)
	} else {
		ls.Mean = xs[0]
	}
	mid := len(xs) / 2
	if len(xs)%2 == 1 {
		ls.Median = xs[mid]
	} else {
		ls.Median = (xs[mid-1] + xs[mid]) / 2
	}
	return ls
}

// TraceLengths returns the summed segment length of every trace of tm.
func TraceLengths(tm fracture.TraceMap) []float64 {
	out := make([]float64, tm.NumTraces())
	for t := range out {
		for _, s := range tm.TraceSegments(t) {
			out[t] += Geometry(s).Length
		}
	}
	return out
}
