package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ironsheep/fracpaq-go/internal/analysis"
	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

// CSVHeader is the header row written by WriteSegmentsCSV.
var CSVHeader = []string{"index", "trace", "x1", "y1", "x2", "y2", "length", "orientation", "degenerate"}

// WriteSegmentsCSV writes one row per segment of tm with its trace index,
// coordinates, length and orientation measured from ref. The orientation
// cell is empty for degenerate segments.
func WriteSegmentsCSV(w io.Writer, tm fracture.TraceMap, ref analysis.Reference) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i := 0; i < tm.Len(); i++ {
		s := tm.Segment(i)
		g := analysis.GeometryIn(s, ref)
		orientation := ""
		if !g.Degenerate {
			orientation = f(g.Orientation.Degrees)
		}
		row := []string{
			strconv.Itoa(i),
			strconv.Itoa(tm.TraceOf(i)),
			f(s.X1), f(s.Y1), f(s.X2), f(s.Y2),
			f(g.Length),
			orientation,
			strconv.FormatBool(g.Degenerate),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
