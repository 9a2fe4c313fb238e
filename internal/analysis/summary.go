package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

// SummaryStats aggregates a trace map.
type SummaryStats struct {
	// Count is the number of segments, degenerate ones included.
	Count int `json:"count"`
	// DegenerateCount is the number of zero-length segments excluded from
	// every other field.
	DegenerateCount int     `json:"degenerate_count"`
	TotalLength     float64 `json:"total_length"`
	// MeanLength is TotalLength over the non-degenerate segments, or 0.
	MeanLength float64 `json:"mean_length"`
	// MeanOrientation is the circular mean of the axial orientations; it
	// is Undefined when no segment has an orientation.
	MeanOrientation Orientation `json:"mean_orientation"`
	// ResultantLength is the mean resultant length of the doubled-angle
	// unit vectors, from 0 (no preferred orientation) to 1 (all parallel).
	ResultantLength float64   `json:"resultant_length"`
	Reference       Reference `json:"reference"`
}

// Measured returns the number of non-degenerate segments.
func (s SummaryStats) Measured() int {
	return s.Count - s.DegenerateCount
}

// Summarize classifies every segment of tm in a single pass and aggregates
// count, length and circular mean orientation. An empty map yields zero
// counts and an Undefined mean orientation. Only WithReference is relevant.
func Summarize(tm fracture.TraceMap, opts ...Option) SummaryStats {
	c := newConfig(opts...)
	sum := SummaryStats{
		Count:           tm.Len(),
		MeanOrientation: Undefined,
		Reference:       c.ref,
	}

	lengths := make([]float64, 0, tm.Len())
	doubled := make([]float64, 0, tm.Len())
	for i := 0; i < tm.Len(); i++ {
		s := tm.Segment(i)
		dx, dy := s.Delta()
		length := math.Hypot(dx, dy)
		if length == 0 {
			sum.DegenerateCount++
			continue
		}
		lengths = append(lengths, length)
		doubled = append(doubled, doubledRadians(dx, dy, c.ref))
	}
	if len(lengths) == 0 {
		return sum
	}

	sum.TotalLength = floats.Sum(lengths)
	sum.MeanLength = sum.TotalLength / float64(len(lengths))

	// atan2 of the summed vectors equals atan2 of their means.
	mean2 := stat.CircularMean(doubled, nil)
	sum.MeanOrientation = DefinedOrientation(fold180(mean2 / 2 * 180 / math.Pi))

	var sx, sy float64
	for _, a := range doubled {
		sx += math.Cos(a)
		sy += math.Sin(a)
	}
	sum.ResultantLength = math.Hypot(sx, sy) / float64(len(doubled))
	return sum
}
