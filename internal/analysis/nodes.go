package analysis

import (
	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

// NodeStats counts the structural elements of a trace map.
type NodeStats struct {
	Traces   int `json:"traces"`
	Segments int `json:"segments"`
	// Nodes counts segment endpoints shared within a trace once: every
	// trace of k segments has k+1 nodes.
	Nodes  int             `json:"nodes"`
	Bounds fracture.Bounds `json:"bounds"`
}

// Nodes computes NodeStats for tm.
func Nodes(tm fracture.TraceMap) NodeStats {
	return NodeStats{
		Traces:   tm.NumTraces(),
		Segments: tm.Len(),
		Nodes:    tm.Len() + tm.NumTraces(),
		Bounds:   tm.Bounds(),
	}
}

// NodeSet holds the marker positions drawn on a trace map with nodes shown.
type NodeSet struct {
	Endpoints        []fracture.Point `json:"endpoints"`
	SegmentMidpoints []fracture.Point `json:"segment_midpoints"`
	// TraceMidpoints lie halfway along each trace's cumulative length.
	TraceMidpoints []fracture.Point `json:"trace_midpoints"`
}

// NodeSetOf collects the endpoints and midpoints of tm.
func NodeSetOf(tm fracture.TraceMap) NodeSet {
	ns := NodeSet{
		Endpoints:        make([]fracture.Point, 0, 2*tm.Len()),
		SegmentMidpoints: make([]fracture.Point, 0, tm.Len()),
		TraceMidpoints:   make([]fracture.Point, 0, tm.NumTraces()),
	}
	for i := 0; i < tm.Len(); i++ {
		s := tm.Segment(i)
		ns.Endpoints = append(ns.Endpoints, s.Start(), s.End())
		ns.SegmentMidpoints = append(ns.SegmentMidpoints, s.Midpoint())
	}
	for t := 0; t < tm.NumTraces(); t++ {
		if p, ok := traceMidpoint(tm.TraceSegments(t)); ok {
			ns.TraceMidpoints = append(ns.TraceMidpoints, p)
		}
	}
	return ns
}

func traceMidpoint(segs []fracture.Segment) (fracture.Point, bool) {
	if len(segs) == 0 {
		return fracture.Point{}, false
	}
	var total float64
	for _, s := range segs {
		total += Geometry(s).Length
	}
	if total <= 0 {
		first, last := segs[0].Start(), segs[len(segs)-1].End()
		return fracture.Point{X: (first.X + last.X) / 2, Y: (first.Y + last.Y) / 2}, true
	}

	half := total / 2
	var acc float64
	for _, s := range segs {
		l := Geometry(s).Length
		if l > 0 && acc+l >= half {
			return s.PointAt((half - acc) / l), true
		}
		acc += l
	}
	return segs[len(segs)-1].End(), true
}
