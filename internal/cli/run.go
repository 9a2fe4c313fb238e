package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ironsheep/fracpaq-go/internal/analysis"
	"github.com/ironsheep/fracpaq-go/internal/detection"
	"github.com/ironsheep/fracpaq-go/internal/fracture"
	"github.com/ironsheep/fracpaq-go/internal/imaging"
	"github.com/ironsheep/fracpaq-go/internal/render"
	"github.com/ironsheep/fracpaq-go/internal/report"
	"github.com/ironsheep/fracpaq-go/internal/traceio"
)

// ErrInputsFailed is returned by Run when at least one input could not be
// processed. The per-input errors have already been written to stderr.
var ErrInputsFailed = errors.New("inputs failed")

// noSegments is the warning attached to a map with nothing to analyse.
const noSegments = "no valid segments found"

type result struct {
	rep report.Report
	err error
}

// Run processes every input in opt and writes the reports to stdout in
// input order. Warnings and per-input errors go to stderr.
func Run(ctx context.Context, opt Options, stdout, stderr io.Writer) error {
	jobs := opt.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	p := &pipeline{opt: opt, cache: imaging.NewImageCache()}
	bases := outputBases(opt)
	results := make([]result, len(opt.Inputs))
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup

	for i, input := range opt.Inputs {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i].err = ctx.Err()
				return
			}
			defer func() { <-sem }()

			start := time.Now()
			rep, err := p.process(ctx, input, bases[i])
			results[i] = result{rep: rep, err: err}
			if opt.Debug {
				log.Printf("processed %s in %v (err=%v)", input, time.Since(start), err)
			}
		}(i, input)
	}
	wg.Wait()

	var reports []report.Report
	failed := 0
	for i, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(stderr, "error: %s: %v\n", opt.Inputs[i], res.err)
			continue
		}
		for _, w := range res.rep.Warnings {
			Warnf(stderr, opt.Quiet, "%s: %s", opt.Inputs[i], w)
		}
		if opt.JSON {
			reports = append(reports, res.rep)
			continue
		}
		rep := res.rep
		rep.Warnings = nil
		if len(reports) > 0 {
			fmt.Fprintln(stdout)
		}
		if err := report.WriteText(stdout, rep); err != nil {
			return err
		}
		reports = append(reports, rep)
	}

	if opt.JSON {
		var err error
		if len(opt.Inputs) == 1 && len(reports) == 1 {
			err = report.WriteJSON(stdout, reports[0])
		} else {
			err = report.WriteJSONList(stdout, reports)
		}
		if err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrInputsFailed, failed, len(opt.Inputs))
	}
	return nil
}

// pipeline holds the state shared by all inputs of one Run.
type pipeline struct {
	opt   Options
	cache *imaging.ImageCache
}

// process loads, analyses and plots a single input. Files are written
// under base when -save-prefix is set.
func (p *pipeline) process(ctx context.Context, input, base string) (report.Report, error) {
	tm, warnings, err := p.load(input)
	if err != nil {
		return report.Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return report.Report{}, err
	}

	rep, err := report.Build(tm, p.opt.Bins, p.opt.analysisOptions()...)
	if err != nil {
		return report.Report{}, err
	}
	rep.Source = input
	rep.Warnings = warnings
	if tm.IsEmpty() {
		rep.Warnings = append(rep.Warnings, noSegments)
	}
	if len(p.opt.Stress) > 0 {
		a, err := analysis.StressTendency(tm, p.stressOptions())
		if err != nil {
			return report.Report{}, err
		}
		rep.Stress = &a
	}

	if p.opt.SavePrefix != "" {
		outputs, err := p.save(base, tm, rep)
		rep.Outputs = outputs
		if err != nil {
			return rep, err
		}
	}
	return rep, nil
}

// load reads a trace file, or digitises an image with -from-image.
func (p *pipeline) load(input string) (fracture.TraceMap, []string, error) {
	if p.opt.FromImage {
		img, err := p.cache.Load(input)
		if err != nil {
			return fracture.TraceMap{}, nil, err
		}
		tm, err := detection.DetectSegments(img, detection.DetectOptions{
			Name:       filepath.Base(input),
			InkLevel:   uint8(p.opt.InkLevel),
			BlurRadius: p.opt.BlurRadius,
			MinLength:  p.opt.MinLength,
			MaxLines:   p.opt.MaxLines,
		})
		if err != nil {
			return fracture.TraceMap{}, nil, fmt.Errorf("failed to detect segments: %w", err)
		}
		return tm, nil, nil
	}

	res, err := traceio.ReadFile(input, traceio.Options{
		Lenient:   p.opt.Lenient,
		Polylines: p.opt.Polylines,
	})
	if err != nil {
		return fracture.TraceMap{}, nil, err
	}
	var warnings []string
	for _, le := range res.Warnings {
		warnings = append(warnings, "skipped "+le.Error())
	}
	return res.Map, warnings, nil
}

// flipY reports whether the trace map's Y axis is drawn reversed.
// Detected segments are in image coordinates with y down.
func (p *pipeline) flipY() bool {
	return p.opt.FlipY || p.opt.FromImage
}

// stressOptions returns the stress state with azimuths mirrored to match
// the plotted map.
func (p *pipeline) stressOptions() analysis.StressOptions {
	so := p.opt.StressParams
	so.FlipX = p.opt.FlipX
	so.FlipY = p.flipY()
	return so
}

// save writes the plots and optional data files for one input and
// returns the paths written so far.
func (p *pipeline) save(base string, tm fracture.TraceMap, rep report.Report) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	opt := p.opt
	ext := opt.Format.Ext()
	var outputs []string

	mapOpts := render.MapOptions{
		Width:              opt.Size,
		Height:             opt.Size,
		ShowNodes:          opt.ShowNodes,
		ColorByOrientation: opt.ColorByOrientation,
		Reference:          opt.Reference,
		FlipX:              opt.FlipX,
		FlipY:              p.flipY(),
	}
	mapPath := base + "_tracemap" + ext
	if err := render.SaveTraceMap(mapPath, tm, mapOpts); err != nil {
		return outputs, err
	}
	outputs = append(outputs, mapPath)

	rosePath := base + "_rose" + ext
	err := render.SaveRose(rosePath, rep.Histogram, render.RoseOptions{
		Size:      opt.Size,
		EqualArea: opt.EqualArea,
	})
	if err != nil {
		return outputs, err
	}
	outputs = append(outputs, rosePath)

	if a := rep.Stress; a != nil {
		for _, m := range opt.Stress {
			path := base + "_" + string(m) + ext
			if err := render.SaveStressMap(path, tm, *a, m, mapOpts); err != nil {
				return outputs, err
			}
			outputs = append(outputs, path)
		}
		mohrPath := base + "_mohr" + ext
		if err := render.SaveMohr(mohrPath, *a, render.MohrOptions{Size: opt.Size}); err != nil {
			return outputs, err
		}
		outputs = append(outputs, mohrPath)
	}

	if opt.CSV {
		csvPath := base + "_segments.csv"
		if err := writeCSV(csvPath, tm, opt); err != nil {
			return outputs, err
		}
		outputs = append(outputs, csvPath)
	}

	if opt.FromImage {
		txtPath := base + "_segments.txt"
		if err := traceio.WriteFile(txtPath, tm); err != nil {
			return outputs, err
		}
		outputs = append(outputs, txtPath)
	}
	return outputs, nil
}

func writeCSV(path string, tm fracture.TraceMap, opt Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return report.WriteSegmentsCSV(f, tm, opt.Reference)
}

// outputBases returns the path prefix for each input's files. A single
// input uses -save-prefix as is. With several inputs the input's stem is
// appended, and stems shared by more than one input also get the input's
// position so that no two inputs write the same files.
func outputBases(opt Options) []string {
	bases := make([]string, len(opt.Inputs))
	if len(opt.Inputs) <= 1 {
		for i := range bases {
			bases[i] = opt.SavePrefix
		}
		return bases
	}

	sep := "_"
	if opt.SavePrefix == "" || strings.HasSuffix(opt.SavePrefix, string(filepath.Separator)) || strings.HasSuffix(opt.SavePrefix, "/") {
		sep = ""
	}
	stems := make([]string, len(opt.Inputs))
	count := make(map[string]int)
	for i, input := range opt.Inputs {
		stems[i] = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		count[stems[i]]++
	}

	used := make(map[string]bool)
	for i, stem := range stems {
		name := stem
		if count[stem] > 1 {
			name = fmt.Sprintf("%s_%d", stem, i+1)
		}
		for k, first := 2, name; used[name]; k++ {
			name = fmt.Sprintf("%s_%d", first, k)
		}
		used[name] = true
		bases[i] = opt.SavePrefix + sep + name
	}
	return bases
}
