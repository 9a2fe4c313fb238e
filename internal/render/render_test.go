package render

import (
	"bytes"
	"errors"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/fracpaq-go/internal/analysis"
	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

func sampleMap() fracture.TraceMap {
	return fracture.NewTraceMap("sample", []fracture.Segment{
		fracture.NewSegment(0, 0, 10, 0),
		fracture.NewSegment(0, 0, 0, 10),
		fracture.NewSegment(2, 2, 8, 8),
		fracture.NewSegment(5, 5, 5, 5),
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"png", PNG},
		{".PNG", PNG},
		{"jpg", JPEG},
		{"jpeg", JPEG},
		{"tif", TIFF},
		{"svg", SVG},
		{".svg", SVG},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("xyz")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("out/rose.jpg")
	require.NoError(t, err)
	assert.Equal(t, JPEG, f)
	assert.Equal(t, ".jpg", f.Ext())
	assert.Equal(t, "image/jpeg", f.MimeType())

	_, err = FormatFromPath("noext")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTraceMap_PNGSize(t *testing.T) {
	var buf bytes.Buffer
	err := TraceMap(&buf, sampleMap(), MapOptions{Width: 400, Height: 300, ShowNodes: true})
	require.NoError(t, err)

	img, format, err := image.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())

	// Corner is outside the plot and stays background.
	r, g, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})
}

func TestTraceMap_DrawsSegment(t *testing.T) {
	tm := fracture.NewTraceMap("", []fracture.Segment{fracture.NewSegment(0, 0, 10, 0)})
	var buf bytes.Buffer
	require.NoError(t, TraceMap(&buf, tm, MapOptions{Width: 400, Height: 400}))

	img, _, err := image.Decode(&buf)
	require.NoError(t, err)

	// The plot area is 300x300 starting at (70,45); the line runs through
	// its vertical centre.
	r, g, b, _ := img.At(220, 194).RGBA()
	assert.False(t, r == 0xffff && g == 0xffff && b == 0xffff, "expected ink on the segment")
}

func TestTraceMap_EmptyMap(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TraceMap(&buf, fracture.NewTraceMap("", nil), MapOptions{Width: 200, Height: 200}))
	img, _, err := image.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestTraceMap_SVGOptions(t *testing.T) {
	var buf bytes.Buffer
	err := TraceMap(&buf, sampleMap(), MapOptions{
		Format:             SVG,
		ColorByOrientation: true,
		Reference:          analysis.ReferenceNorth,
		FlipY:              true,
		ShowNodes:          true,
	})
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "X, pixels")
	assert.Contains(t, out, "sample (n=4)")
	assert.Equal(t, 3, strings.Count(out, "<line")-countGridLines(out))
}

// countGridLines counts the thin grid and tick lines so that the segment
// lines can be isolated.
func countGridLines(svg string) int {
	n := 0
	for _, l := range strings.Split(svg, "\n") {
		if strings.HasPrefix(l, "<line") && (strings.Contains(l, "stroke:#c8c8c8") || strings.Contains(l, "stroke:#5a5a5a")) {
			n++
		}
	}
	return n
}

func TestRose_SVGOneWedgePerBin(t *testing.T) {
	tm := fracture.NewTraceMap("", []fracture.Segment{
		fracture.NewSegment(0, 0, 1, 0),
		fracture.NewSegment(0, 0, 0, 2),
		fracture.NewSegment(0, 0, 0, 3),
	})
	h, err := analysis.RoseHistogram(tm, 18)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Rose(&buf, h, RoseOptions{Format: SVG}))

	// Two non-empty bins, each drawn at θ and θ+180°.
	assert.Equal(t, 4, strings.Count(buf.String(), "<polygon"))
	assert.Contains(t, buf.String(), "length-weighted")
}

func TestRose_EmptyHistogram(t *testing.T) {
	h, err := analysis.RoseHistogram(fracture.NewTraceMap("", nil), 12, analysis.WithLengthWeighting(false))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Rose(&buf, h, RoseOptions{Format: SVG}))
	assert.Equal(t, 0, strings.Count(buf.String(), "<polygon"))
	assert.Contains(t, buf.String(), "frequency")

	buf.Reset()
	require.NoError(t, Rose(&buf, h, RoseOptions{Size: 256, EqualArea: true}))
	img, _, err := image.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestSaveRose_FormatFromExtension(t *testing.T) {
	h, err := analysis.RoseHistogram(sampleMap(), 9)
	require.NoError(t, err)

	dir := t.TempDir()
	svgPath := filepath.Join(dir, "rose.svg")
	require.NoError(t, SaveRose(svgPath, h, RoseOptions{Format: PNG}))
	data, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	pngPath := filepath.Join(dir, "map.png")
	require.NoError(t, SaveTraceMap(pngPath, sampleMap(), MapOptions{Width: 120, Height: 100}))
	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)

	err = SaveRose(filepath.Join(dir, "rose.xyz"), h, RoseOptions{})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestAxisTicks(t *testing.T) {
	assert.Equal(t, []float64{0, 20, 40, 60, 80, 100}, axisTicks(0, 100))
	assert.Equal(t, []float64{3}, axisTicks(3, 3))
	assert.LessOrEqual(t, len(axisTicks(-0.37, 12.9)), maxTicks)
	assert.Equal(t, "0", tickLabel(1e-12))
	assert.Equal(t, "0.3", tickLabel(0.1+0.2))
}

func TestOrientationColor_Wraps(t *testing.T) {
	assert.Equal(t, OrientationColor(0), OrientationColor(180))
	assert.NotEqual(t, OrientationColor(0), OrientationColor(90))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#FF0000")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)

	c, err = ParseColor("#00FF0080")
	require.NoError(t, err)
	assert.Equal(t, uint8(255), c.G)
	assert.Equal(t, uint8(0x80), c.A)

	_, err = ParseColor("red")
	assert.Error(t, err)
}
