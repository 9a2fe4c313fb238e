package traceio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

// ErrMalformedLine is wrapped by every LineError.
var ErrMalformedLine = errors.New("malformed line")

// maxLineBytes bounds a single input line; polylines can be long.
const maxLineBytes = 4 * 1024 * 1024

// LineError describes one malformed input line.
type LineError struct {
	// Line is the 1-based line number.
	Line int
	// Text is the offending line with surrounding space trimmed.
	Text string
	// Reason says what is wrong with it.
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Unwrap returns ErrMalformedLine.
func (e *LineError) Unwrap() error { return ErrMalformedLine }

// Options controls parsing.
type Options struct {
	// Lenient skips malformed lines instead of failing the read.
	Lenient bool
	// Polylines reads each line as a polyline trace instead of a single
	// segment.
	Polylines bool
}

// Result is the outcome of a successful read.
type Result struct {
	Map fracture.TraceMap
	// Warnings lists the lines skipped in lenient mode, in input order.
	Warnings []*LineError
}

// ReadFile reads the trace map stored at path. The map is named after the
// file's base name.
func ReadFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer f.Close()

	return Read(filepath.Base(path), f, opts)
}

// Read parses a trace map named name from r.
//
// # Errors
//
//   - In strict mode, the first malformed line is returned as an error for
//     which errors.As(*LineError) and errors.Is(ErrMalformedLine) hold.
//   - Read errors from r are returned wrapped.
func Read(name string, r io.Reader, opts Options) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	res := &Result{}
	var polylines [][]fracture.Segment

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		segs, lerr := parseLine(line, lineNo, opts.Polylines)
		if lerr != nil {
			if !opts.Lenient {
				return nil, fmt.Errorf("%s: %w", name, lerr)
			}
			res.Warnings = append(res.Warnings, lerr)
			continue
		}
		polylines = append(polylines, segs)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to read traces: %w", name, err)
	}

	res.Map = fracture.NewPolylineMap(name, polylines)
	return res, nil
}

// parseLine turns one data line into the segments of one trace.
func parseLine(line string, lineNo int, polyline bool) ([]fracture.Segment, *LineError) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	malformed := func(format string, a ...any) *LineError {
		return &LineError{Line: lineNo, Text: line, Reason: fmt.Sprintf(format, a...)}
	}

	switch {
	case !polyline && len(fields) != 4:
		return nil, malformed("expected 4 values, found %d", len(fields))
	case polyline && (len(fields) < 4 || len(fields)%2 != 0):
		return nil, malformed("expected an even number of at least 4 values, found %d", len(fields))
	}

	vals := make([]float64, len(fields))
	for i, tok := range fields {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, malformed("value %d %q is not a number", i+1, tok)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, malformed("value %d %q is not finite", i+1, tok)
		}
		vals[i] = v
	}

	if !polyline {
		return []fracture.Segment{fracture.NewSegment(vals[0], vals[1], vals[2], vals[3])}, nil
	}
	return polylineSegments(vals), nil
}

// polylineSegments joins consecutive distinct points. When every point
// coincides the trace is kept as one degenerate segment so it is still
// counted.
func polylineSegments(vals []float64) []fracture.Segment {
	prev := fracture.Point{X: vals[0], Y: vals[1]}
	var segs []fracture.Segment
	for i := 2; i < len(vals); i += 2 {
		cur := fracture.Point{X: vals[i], Y: vals[i+1]}
		if cur == prev {
			continue
		}
		segs = append(segs, fracture.NewSegment(prev.X, prev.Y, cur.X, cur.Y))
		prev = cur
	}
	if len(segs) == 0 {
		segs = append(segs, fracture.NewSegment(prev.X, prev.Y, prev.X, prev.Y))
	}
	return segs
}
