package fracture

import "math"

// Trace is a run of contiguous segments within a TraceMap, identified by the
// index of its first segment and the number of segments it spans.
type Trace struct {
	First int `json:"first"`
	Count int `json:"count"`
}

// Bounds is the axis-aligned extent of a set of segments.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// TraceMap is a named, ordered collection of segments grouped into traces.
// The zero value is an empty, unnamed map.
type TraceMap struct {
	name     string
	segments []Segment
	traces   []Trace
}

// NewTraceMap builds a TraceMap in which every segment is its own trace.
// The segments are copied; input order is preserved.
func NewTraceMap(name string, segments []Segment) TraceMap {
	segs := make([]Segment, len(segments))
	copy(segs, segments)
	traces := make([]Trace, len(segs))
	for i := range segs {
		traces[i] = Trace{First: i, Count: 1}
	}
	return TraceMap{name: name, segments: segs, traces: traces}
}

// NewPolylineMap builds a TraceMap from polylines, one trace per polyline.
// Empty polylines are skipped.
func NewPolylineMap(name string, polylines [][]Segment) TraceMap {
	tm := TraceMap{name: name}
	for _, pl := range polylines {
		if len(pl) == 0 {
			continue
		}
		tm.traces = append(tm.traces, Trace{First: len(tm.segments), Count: len(pl)})
		tm.segments = append(tm.segments, pl...)
	}
	return tm
}

// Name returns the identifier of the map, usually its source file name.
func (tm TraceMap) Name() string { return tm.name }

// Len returns the number of segments.
func (tm TraceMap) Len() int { return len(tm.segments) }

// IsEmpty reports whether the map holds no segments.
func (tm TraceMap) IsEmpty() bool { return len(tm.segments) == 0 }

// Segment returns the i'th segment in input order.
func (tm TraceMap) Segment(i int) Segment { return tm.segments[i] }

// Segments returns a copy of the segments in input order.
func (tm TraceMap) Segments() []Segment {
	out := make([]Segment, len(tm.segments))
	copy(out, tm.segments)
	return out
}

// NumTraces returns the number of traces.
func (tm TraceMap) NumTraces() int { return len(tm.traces) }

// Traces returns a copy of the trace spans.
func (tm TraceMap) Traces() []Trace {
	out := make([]Trace, len(tm.traces))
	copy(out, tm.traces)
	return out
}

// TraceSegments returns a copy of the segments of trace t.
func (tm TraceMap) TraceSegments(t int) []Segment {
	tr := tm.traces[t]
	out := make([]Segment, tr.Count)
	copy(out, tm.segments[tr.First:tr.First+tr.Count])
	return out
}

// TraceOf returns the index of the trace containing segment i, or -1.
func (tm TraceMap) TraceOf(i int) int {
	for t, tr := range tm.traces {
		if i >= tr.First && i < tr.First+tr.Count {
			return t
		}
	}
	return -1
}

// WithName returns a copy of the map under a different name.
func (tm TraceMap) WithName(name string) TraceMap {
	tm.name = name
	return tm
}

// Bounds returns the extent of all endpoints. An empty map has zero bounds.
func (tm TraceMap) Bounds() Bounds {
	if len(tm.segments) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}
	for _, s := range tm.segments {
		b.MinX = math.Min(b.MinX, math.Min(s.X1, s.X2))
		b.MaxX = math.Max(b.MaxX, math.Max(s.X1, s.X2))
		b.MinY = math.Min(b.MinY, math.Min(s.Y1, s.Y2))
		b.MaxY = math.Max(b.MaxY, math.Max(s.Y1, s.Y2))
	}
	return b
}
