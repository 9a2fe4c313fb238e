package traceio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

// Write stores tm in the text format. Maps whose traces are all single
// segments are written one segment per line; otherwise each trace is written
// as a polyline, which ReadFile reads back with Options.Polylines.
func Write(w io.Writer, tm fracture.TraceMap) error {
	bw := bufio.NewWriter(w)

	polyline := false
	for _, tr := range tm.Traces() {
		if tr.Count > 1 {
			polyline = true
			break
		}
	}

	if tm.Name() != "" {
		fmt.Fprintf(bw, "# %s\n", tm.Name())
	}
	if polyline {
		fmt.Fprintln(bw, "# x1 y1 x2 y2 ... xn yn")
		for t := 0; t < tm.NumTraces(); t++ {
			segs := tm.TraceSegments(t)
			bw.WriteString(formatFloat(segs[0].X1))
			bw.WriteByte(' ')
			bw.WriteString(formatFloat(segs[0].Y1))
			for _, s := range segs {
				bw.WriteByte(' ')
				bw.WriteString(formatFloat(s.X2))
				bw.WriteByte(' ')
				bw.WriteString(formatFloat(s.Y2))
			}
			bw.WriteByte('\n')
		}
	} else {
		fmt.Fprintln(bw, "# x1 y1 x2 y2")
		for _, s := range tm.Segments() {
			fmt.Fprintf(bw, "%s %s %s %s\n",
				formatFloat(s.X1), formatFloat(s.Y1), formatFloat(s.X2), formatFloat(s.Y2))
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write traces: %w", err)
	}
	return nil
}

// WriteFile writes tm to path, creating or truncating it.
func WriteFile(path string, tm fracture.TraceMap) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	if err := Write(f, tm); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
