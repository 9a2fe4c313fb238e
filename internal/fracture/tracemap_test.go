package fracture

import (
	"math"
	"testing"
)

func TestSegment_IsDegenerate(t *testing.T) {
	tests := []struct {
		name string
		seg  Segment
		want bool
	}{
		{"point", NewSegment(2, 2, 2, 2), true},
		{"horizontal", NewSegment(0, 0, 1, 0), false},
		{"vertical", NewSegment(0, 0, 0, 1), false},
		{"negative zero", NewSegment(0, 0, math.Copysign(0, -1), 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seg.IsDegenerate(); got != tt.want {
				t.Errorf("IsDegenerate: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegment_IsFinite(t *testing.T) {
	if !NewSegment(0, 1, 2, 3).IsFinite() {
		t.Error("finite segment reported non-finite")
	}
	if NewSegment(math.NaN(), 0, 1, 1).IsFinite() {
		t.Error("NaN coordinate reported finite")
	}
	if NewSegment(0, 0, math.Inf(1), 1).IsFinite() {
		t.Error("Inf coordinate reported finite")
	}
}

func TestSegment_Helpers(t *testing.T) {
	s := NewSegment(0, 0, 4, 2)

	if m := s.Midpoint(); m != (Point{X: 2, Y: 1}) {
		t.Errorf("Midpoint: got %+v", m)
	}
	if p := s.PointAt(0.25); p != (Point{X: 1, Y: 0.5}) {
		t.Errorf("PointAt(0.25): got %+v", p)
	}
	if r := s.Reversed(); r.Start() != s.End() || r.End() != s.Start() {
		t.Errorf("Reversed: got %+v", r)
	}
	if dx, dy := s.Delta(); dx != 4 || dy != 2 {
		t.Errorf("Delta: got (%v, %v)", dx, dy)
	}
}

func TestNewTraceMap_CopiesAndOrders(t *testing.T) {
	segs := []Segment{NewSegment(0, 0, 1, 0), NewSegment(5, 5, 6, 7)}
	tm := NewTraceMap("a.txt", segs)

	segs[0] = NewSegment(9, 9, 9, 9)
	if tm.Segment(0) != NewSegment(0, 0, 1, 0) {
		t.Error("TraceMap shares storage with the caller's slice")
	}

	out := tm.Segments()
	out[1] = Segment{}
	if tm.Segment(1) != NewSegment(5, 5, 6, 7) {
		t.Error("Segments() did not return a copy")
	}

	if tm.Name() != "a.txt" {
		t.Errorf("Name: got %q", tm.Name())
	}
	if tm.NumTraces() != 2 {
		t.Errorf("NumTraces: got %d, want 2", tm.NumTraces())
	}
}

func TestNewPolylineMap(t *testing.T) {
	tm := NewPolylineMap("poly", [][]Segment{
		{NewSegment(0, 0, 1, 0), NewSegment(1, 0, 1, 1)},
		nil,
		{NewSegment(5, 5, 6, 6)},
	})

	if tm.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", tm.Len())
	}
	if tm.NumTraces() != 2 {
		t.Fatalf("NumTraces: got %d, want 2", tm.NumTraces())
	}
	if got := tm.TraceSegments(0); len(got) != 2 {
		t.Errorf("TraceSegments(0): got %d segments, want 2", len(got))
	}
	if got := tm.TraceOf(2); got != 1 {
		t.Errorf("TraceOf(2): got %d, want 1", got)
	}
	if got := tm.TraceOf(7); got != -1 {
		t.Errorf("TraceOf(7): got %d, want -1", got)
	}
}

func TestTraceMap_Bounds(t *testing.T) {
	var empty TraceMap
	if b := empty.Bounds(); b != (Bounds{}) {
		t.Errorf("empty Bounds: got %+v", b)
	}
	if !empty.IsEmpty() {
		t.Error("zero TraceMap should be empty")
	}

	tm := NewTraceMap("b", []Segment{
		NewSegment(-1, 3, 4, 2),
		NewSegment(0, -5, 2, 8),
	})
	want := Bounds{MinX: -1, MaxX: 4, MinY: -5, MaxY: 8}
	if b := tm.Bounds(); b != want {
		t.Errorf("Bounds: got %+v, want %+v", b, want)
	}
	if tm.Bounds().Width() != 5 || tm.Bounds().Height() != 13 {
		t.Errorf("Width/Height: got %v/%v", tm.Bounds().Width(), tm.Bounds().Height())
	}
}
