package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/fracpaq-go/internal/analysis"
)

// writeFile writes content to name inside dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleTraces = `# x1 y1 x2 y2
0 0 10 0
0 0 0 5
0 0 3 4
`

func run(t *testing.T, opt Options) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	if opt.Bins == 0 {
		opt.Bins = 18
		opt.Weighted = true
	}
	if opt.Format == "" {
		opt.Format = "png"
	}
	if opt.Size == 0 {
		opt.Size = 200
	}
	err = Run(context.Background(), opt, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestRun_Text(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "field-a.txt", sampleTraces)

	out, stderr, err := run(t, Options{Inputs: []string{in}})
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, out, "field-a.txt")
	assert.Contains(t, out, "Segments:")
	assert.Contains(t, out, "3 (0 degenerate)")
	assert.Contains(t, out, "Rose histogram (18 bins of 10°, length-weighted, reference x):")
}

func TestRun_JSONSingle(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "field-a.txt", sampleTraces)

	out, _, err := run(t, Options{Inputs: []string{in}, JSON: true})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "field-a.txt", decoded["name"])
	assert.Equal(t, in, decoded["source"])
}

func TestRun_JSONKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for _, name := range []string{"c.txt", "a.txt", "b.txt", "d.txt"} {
		inputs = append(inputs, writeFile(t, dir, name, sampleTraces))
	}

	out, _, err := run(t, Options{Inputs: inputs, JSON: true, Jobs: 2})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 4)
	for i, name := range []string{"c.txt", "a.txt", "b.txt", "d.txt"} {
		assert.Equal(t, name, decoded[i]["name"])
	}
}

func TestRun_SavePrefix(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "field-a.txt", sampleTraces)
	prefix := filepath.Join(dir, "out", "run")

	out, _, err := run(t, Options{Inputs: []string{in}, SavePrefix: prefix, CSV: true})
	require.NoError(t, err)

	for _, suffix := range []string{"_tracemap.png", "_rose.png", "_segments.csv"} {
		path := prefix + suffix
		assert.FileExists(t, path)
		assert.Contains(t, out, "wrote: "+path)
	}

	f, err := os.Open(prefix + "_tracemap.png")
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)

	csvData, err := os.ReadFile(prefix + "_segments.csv")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(csvData)), "\n"), 4)
}

func TestRun_SavePrefixSVGMultipleInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", sampleTraces)
	b := writeFile(t, dir, "b.txt", "1 1 4 5\n")
	prefix := filepath.Join(dir, "plots") + string(filepath.Separator)

	_, _, err := run(t, Options{Inputs: []string{a, b}, SavePrefix: prefix, Format: "svg"})
	require.NoError(t, err)

	for _, name := range []string{"a_tracemap.svg", "a_rose.svg", "b_tracemap.svg", "b_rose.svg"} {
		data, err := os.ReadFile(filepath.Join(dir, "plots", name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "<svg")
	}
}

func TestRun_FailedInputDoesNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", sampleTraces)
	bad := writeFile(t, dir, "bad.txt", "0 0 1 1\nnot numbers here !\n")
	missing := filepath.Join(dir, "missing.txt")

	out, stderr, err := run(t, Options{Inputs: []string{bad, good, missing}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputsFailed)
	assert.Contains(t, err.Error(), "2 of 3")

	assert.Contains(t, out, "good.txt")
	assert.Contains(t, stderr, "error: "+bad)
	assert.Contains(t, stderr, "line 2")
	assert.Contains(t, stderr, "error: "+missing)
}

func TestRun_LenientWarnings(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "messy.txt", "0 0 1 1\nbad line\n2 2 3 3\n")

	out, stderr, err := run(t, Options{Inputs: []string{in}, Lenient: true})
	require.NoError(t, err)
	assert.Contains(t, out, "2 (0 degenerate)")
	assert.Contains(t, stderr, "warning: "+in+": skipped line 2")

	_, stderr, err = run(t, Options{Inputs: []string{in}, Lenient: true, Quiet: true})
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestRun_EmptyInput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "empty.txt", "# nothing here\n\n")

	out, stderr, err := run(t, Options{Inputs: []string{in}})
	require.NoError(t, err)
	assert.Contains(t, out, "0 (0 degenerate)")
	assert.Contains(t, out, "undefined")
	assert.Contains(t, stderr, noSegments)
}

func TestRun_FromImage(t *testing.T) {
	dir := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 200, 100))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for x := 20; x < 180; x++ {
		img.SetGray(x, 50, color.Gray{Y: 0})
	}
	path := filepath.Join(dir, "scan.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	prefix := filepath.Join(dir, "scan")
	out, _, err := run(t, Options{
		Inputs:     []string{path},
		FromImage:  true,
		InkLevel:   128,
		MinLength:  20,
		MaxLines:   10,
		SavePrefix: prefix,
		JSON:       true,
	})
	require.NoError(t, err)

	var decoded struct {
		Summary struct {
			Count int `json:"count"`
		} `json:"summary"`
		Outputs []string `json:"outputs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.GreaterOrEqual(t, decoded.Summary.Count, 1)
	assert.Contains(t, decoded.Outputs, prefix+"_segments.txt")

	data, err := os.ReadFile(prefix + "_segments.txt")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(string(data)))
}

func TestRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "a.txt", sampleTraces)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	err := Run(ctx, Options{Inputs: []string{in}, Bins: 18, Format: "png"}, &out, &errOut)
	assert.ErrorIs(t, err, ErrInputsFailed)
	assert.Contains(t, errOut.String(), "context canceled")
}

func TestOutputBases(t *testing.T) {
	single := Options{Inputs: []string{"data/a.txt"}, SavePrefix: "out/run"}
	assert.Equal(t, []string{"out/run"}, outputBases(single))

	multi := Options{Inputs: []string{"data/a.txt", "data/b.txt"}, SavePrefix: "out/run"}
	assert.Equal(t, []string{"out/run_a", "out/run_b"}, outputBases(multi))

	dirPrefix := Options{Inputs: []string{"a.txt", "b.txt"}, SavePrefix: "out/"}
	assert.Equal(t, []string{"out/a", "out/b"}, outputBases(dirPrefix))

	sameStem := Options{Inputs: []string{"a/map.txt", "b/map.txt", "c/other.txt"}, SavePrefix: "out/"}
	assert.Equal(t, []string{"out/map_1", "out/map_2", "out/other"}, outputBases(sameStem))

	clash := Options{Inputs: []string{"x/map_2.txt", "a/map.txt", "b/map.txt"}, SavePrefix: "out/"}
	assert.Equal(t, []string{"out/map_2", "out/map_2_2", "out/map_3"}, outputBases(clash))
}

func TestRun_SameStemInputsKeepSeparateOutputs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	a := writeFile(t, dir, filepath.Join("a", "map.txt"), sampleTraces)
	b := writeFile(t, dir, filepath.Join("b", "map.txt"), "1 1 4 5\n")
	prefix := filepath.Join(dir, "plots") + string(filepath.Separator)

	out, _, err := run(t, Options{Inputs: []string{a, b}, SavePrefix: prefix, CSV: true})
	require.NoError(t, err)

	for i, want := range []int{4, 2} {
		path := filepath.Join(dir, "plots", fmt.Sprintf("map_%d_segments.csv", i+1))
		assert.Contains(t, out, "wrote: "+path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), want)
	}
}

func TestRun_Stress(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "field-a.txt", sampleTraces)
	prefix := filepath.Join(dir, "run")

	so := analysis.DefaultStressOptions()
	so.PorePressure = 60
	out, _, err := run(t, Options{
		Inputs:       []string{in},
		SavePrefix:   prefix,
		Format:       "svg",
		Stress:       []analysis.StressMeasure{analysis.MeasureSlip, analysis.MeasureCritical},
		StressParams: so,
	})
	require.NoError(t, err)

	assert.Contains(t, out, "Stress (σ1=100 MPa")
	for _, suffix := range []string{"_slip.svg", "_csf.svg", "_mohr.svg"} {
		assert.FileExists(t, prefix+suffix)
		assert.Contains(t, out, "wrote: "+prefix+suffix)
	}
	assert.NoFileExists(t, prefix+"_dilation.svg")

	data, err := os.ReadFile(prefix + "_mohr.svg")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "<circle"))
}

func TestRun_StressFlipsFollowMap(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "diag.txt", "0 0 10 10\n")

	so := analysis.DefaultStressOptions()
	out, _, err := run(t, Options{
		Inputs:       []string{in},
		JSON:         true,
		FlipY:        true,
		Stress:       []analysis.StressMeasure{analysis.MeasureSlip},
		StressParams: so,
	})
	require.NoError(t, err)

	var decoded struct {
		Stress struct {
			Segments []struct {
				Azimuth float64 `json:"azimuth"`
				Shear   float64 `json:"shear_stress"`
			} `json:"segments"`
		} `json:"stress"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Stress.Segments, 1)
	assert.InDelta(t, 135, decoded.Stress.Segments[0].Azimuth, 1e-9)
	assert.InDelta(t, -25, decoded.Stress.Segments[0].Shear, 1e-9)
}

func TestWarnf(t *testing.T) {
	var buf bytes.Buffer
	Warnf(&buf, false, "%d lines skipped", 3)
	assert.Equal(t, "warning: 3 lines skipped\n", buf.String())

	buf.Reset()
	Warnf(&buf, true, "hidden")
	assert.Empty(t, buf.String())
}
