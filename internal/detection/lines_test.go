package detection

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ironsheep/fracpaq-go/internal/analysis"
)

// createTestImage returns a white RGBA image.
func createTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

// drawLine draws a one-pixel black line by sampling along it.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int) {
	dx, dy := float64(x2-x1), float64(y2-y1)
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(float64(x1) + t*dx))
		y := int(math.Round(float64(y1) + t*dy))
		img.Set(x, y, color.Black)
	}
}

func TestDetectSegments_Horizontal(t *testing.T) {
	img := createTestImage(200, 100)
	drawLine(img, 20, 50, 179, 50)

	tm, err := DetectSegments(img, DetectOptions{Name: "scan"})
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}
	if tm.Len() != 1 {
		t.Fatalf("expected 1 segment, got %d", tm.Len())
	}
	if tm.Name() != "scan" {
		t.Errorf("Name: got %q, want scan", tm.Name())
	}

	g := analysis.Geometry(tm.Segment(0))
	t.Logf("segment %+v length=%.2f orientation=%.2f", tm.Segment(0), g.Length, g.Orientation.Degrees)
	if g.Degenerate {
		t.Fatal("detected segment is degenerate")
	}
	if d := g.Orientation.Degrees; d > 1 && d < 179 {
		t.Errorf("orientation: got %.2f, want ~0", d)
	}
	if math.Abs(g.Length-159) > 3 {
		t.Errorf("length: got %.2f, want ~159", g.Length)
	}
	if s := tm.Segment(0); math.Abs(s.Y1-50) > 0.5 || math.Abs(s.Y2-50) > 0.5 {
		t.Errorf("segment not on row 50: %+v", s)
	}
}

func TestDetectSegments_Orientations(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		want           float64
	}{
		{"vertical", 60, 10, 60, 110, 90},
		{"diagonal", 10, 10, 100, 100, 45},
		{"anti-diagonal", 10, 100, 100, 10, 135},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createTestImage(120, 120)
			drawLine(img, tt.x1, tt.y1, tt.x2, tt.y2)

			tm, err := DetectSegments(img, DetectOptions{})
			if err != nil {
				t.Fatalf("DetectSegments failed: %v", err)
			}
			if tm.Len() != 1 {
				t.Fatalf("expected 1 segment, got %d", tm.Len())
			}
			got := analysis.Geometry(tm.Segment(0)).Orientation.Degrees
			if math.Abs(got-tt.want) > 1.5 {
				t.Errorf("orientation: got %.2f, want ~%.0f", got, tt.want)
			}
		})
	}
}

func TestDetectSegments_CollinearGap(t *testing.T) {
	img := createTestImage(300, 60)
	drawLine(img, 10, 30, 110, 30)
	drawLine(img, 170, 30, 290, 30)

	tm, err := DetectSegments(img, DetectOptions{})
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}
	if tm.Len() != 2 {
		t.Fatalf("expected 2 segments across the gap, got %d", tm.Len())
	}
}

func TestDetectSegments_Crossing(t *testing.T) {
	img := createTestImage(160, 160)
	drawLine(img, 10, 80, 150, 80)
	drawLine(img, 80, 10, 80, 150)

	tm, err := DetectSegments(img, DetectOptions{})
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}
	if tm.Len() < 2 {
		t.Fatalf("expected at least 2 segments, got %d", tm.Len())
	}
	for i := 0; i < tm.Len(); i++ {
		g := analysis.Geometry(tm.Segment(i))
		t.Logf("segment %d: %+v orientation=%.1f length=%.1f", i, tm.Segment(i), g.Orientation.Degrees, g.Length)
	}
}

func TestDetectSegments_Limits(t *testing.T) {
	img := createTestImage(200, 200)
	drawLine(img, 10, 40, 190, 40)
	drawLine(img, 10, 120, 190, 120)
	drawLine(img, 50, 160, 60, 160)

	tm, err := DetectSegments(img, DetectOptions{MaxLines: 1})
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}
	if tm.Len() != 1 {
		t.Errorf("MaxLines=1: got %d segments", tm.Len())
	}

	tm, err = DetectSegments(img, DetectOptions{MinLength: 50})
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}
	if tm.Len() != 2 {
		t.Errorf("MinLength=50 should drop the short line: got %d segments", tm.Len())
	}
}

func TestDetectSegments_Downsampled(t *testing.T) {
	img := createTestImage(400, 200)
	for dy := 0; dy < 3; dy++ {
		drawLine(img, 40, 99+dy, 360, 99+dy)
	}

	tm, err := DetectSegments(img, DetectOptions{MaxSide: 200})
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}
	if tm.Len() == 0 {
		t.Fatal("expected a segment from the downsampled image")
	}
	g := analysis.Geometry(tm.Segment(0))
	t.Logf("downsampled segment %+v length=%.1f", tm.Segment(0), g.Length)
	if g.Length < 280 {
		t.Errorf("length should be in source pixels: got %.1f", g.Length)
	}
}

func TestDetectSegments_Blank(t *testing.T) {
	tm, err := DetectSegments(createTestImage(50, 50), DetectOptions{})
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}
	if !tm.IsEmpty() {
		t.Errorf("blank image produced %d segments", tm.Len())
	}
}

func TestDetectSegments_EmptyImage(t *testing.T) {
	_, err := DetectSegments(image.NewRGBA(image.Rect(0, 0, 0, 0)), DetectOptions{})
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
}
