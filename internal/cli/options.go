package cli

import (
	"errors"
	"flag"
	"fmt"

	"github.com/ironsheep/fracpaq-go/internal/analysis"
	"github.com/ironsheep/fracpaq-go/internal/render"
)

// Version is reported in the usage text; main sets it from ldflags.
var Version = "dev"

// Options holds all CLI flags and arguments.
type Options struct {
	Inputs []string

	// Analysis
	Bins      int
	Weighted  bool
	Reference analysis.Reference

	// Input
	Lenient    bool
	Polylines  bool
	FromImage  bool
	InkLevel   int
	BlurRadius float64
	MinLength  float64
	MaxLines   int

	// Plots and files
	SavePrefix         string
	Format             render.Format
	Size               int
	ShowNodes          bool
	ColorByOrientation bool
	FlipX              bool
	FlipY              bool
	EqualArea          bool
	CSV                bool

	// Stress lists the stress measures to report and plot; empty disables
	// the stress analysis.
	Stress       []analysis.StressMeasure
	StressParams analysis.StressOptions

	// Output
	JSON  bool
	Quiet bool

	// Performance
	Jobs int

	// Debug enables debug logging; set from the environment, not a flag.
	Debug bool

	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: fracture trace analysis

Version: %s

Usage:
  %s [flags] input...     analyse trace files (or images with -from-image)
  %s serve                run the MCP tool server on stdin/stdout

Input files hold one segment "x1 y1 x2 y2" per line; '#' starts a comment.

Environment variables:
  FRACPAQ_LOG_LEVEL=debug    enable debug logging

Flags:
`, name, Version, name, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var format, stress string
	opt.StressParams = analysis.DefaultStressOptions()

	// Analysis
	fs.IntVar(&opt.Bins, "bins", analysis.DefaultBinCount, "number of rose diagram bins over 0-180°")
	fs.BoolVar(&opt.Weighted, "weight", true, "weight rose bins by segment length (false counts segments)")
	fs.TextVar(&opt.Reference, "reference", analysis.DefaultReference, "angle reference: x (counter-clockwise from +X) | north (azimuth)")

	// Input
	fs.BoolVar(&opt.Lenient, "lenient", false, "skip malformed lines with a warning instead of failing")
	fs.BoolVar(&opt.Polylines, "polylines", false, "each line is a polyline trace x1 y1 x2 y2 ... xn yn")
	fs.BoolVar(&opt.FromImage, "from-image", false, "inputs are trace images; digitise segments first")
	fs.IntVar(&opt.InkLevel, "ink-level", 128, "with -from-image: gray level below which pixels are ink (1-255)")
	fs.Float64Var(&opt.BlurRadius, "blur", 0, "with -from-image: Gaussian blur radius before thresholding")
	fs.Float64Var(&opt.MinLength, "min-length", 20, "with -from-image: shortest segment kept, in pixels")
	fs.IntVar(&opt.MaxLines, "max-lines", 100, "with -from-image: maximum segments per image")

	// Plots and files
	fs.StringVar(&opt.SavePrefix, "save-prefix", "", "write plots to PREFIX_tracemap.EXT, PREFIX_rose.EXT and, with -stress, PREFIX_<measure>.EXT and PREFIX_mohr.EXT")
	fs.StringVar(&format, "format", "png", "plot format: png | jpeg | svg | gif | tiff | bmp")
	fs.IntVar(&opt.Size, "size", 800, "plot size in pixels")
	fs.BoolVar(&opt.ShowNodes, "nodes", false, "mark endpoints and midpoints on the trace map")
	fs.BoolVar(&opt.ColorByOrientation, "color-by-orientation", false, "colour trace map segments by orientation")
	fs.BoolVar(&opt.FlipX, "flip-x", false, "reverse the trace map X axis")
	fs.BoolVar(&opt.FlipY, "flip-y", false, "reverse the trace map Y axis (image coordinates)")
	fs.BoolVar(&opt.EqualArea, "equal-area", false, "scale rose bars by the square root of the bin value")
	fs.BoolVar(&opt.CSV, "csv", false, "also write per-segment geometry to PREFIX_segments.csv")

	// Stress
	fs.StringVar(&stress, "stress", "", "resolve a stress state onto the segments and plot: all, or a list of slip,dilation,susceptibility,csf")
	fs.Float64Var(&opt.StressParams.Sigma1, "sigma1", opt.StressParams.Sigma1, "with -stress: maximum principal stress, MPa")
	fs.Float64Var(&opt.StressParams.Sigma2, "sigma2", opt.StressParams.Sigma2, "with -stress: minimum principal stress, MPa")
	fs.Float64Var(&opt.StressParams.Sigma1Azimuth, "sigma1-azimuth", opt.StressParams.Sigma1Azimuth, "with -stress: direction of sigma1, degrees clockwise from +Y")
	fs.Float64Var(&opt.StressParams.Friction, "friction", opt.StressParams.Friction, "with -stress: coefficient of sliding friction")
	fs.Float64Var(&opt.StressParams.Cohesion, "cohesion", opt.StressParams.Cohesion, "with -stress: cohesion C0, MPa")
	fs.Float64Var(&opt.StressParams.PorePressure, "pore-pressure", opt.StressParams.PorePressure, "with -stress: pore fluid pressure, MPa")

	// Output
	fs.BoolVar(&opt.JSON, "json", false, "print reports as JSON instead of text")
	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress warnings")

	// Performance
	fs.IntVar(&opt.Jobs, "jobs", 0, "inputs processed in parallel (0 = all CPUs)")

	fs.BoolVar(&opt.Version, "version", false, "print version and exit")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if opt.Version {
		return opt, nil
	}
	opt.Inputs = fs.Args()

	f, err := render.ParseFormat(format)
	if err != nil {
		return opt, fmt.Errorf("invalid -format: %w", err)
	}
	opt.Format = f

	if stress != "" {
		ms, err := analysis.ParseStressMeasures(stress)
		if err != nil {
			return opt, fmt.Errorf("invalid -stress: %w", err)
		}
		if len(ms) == 0 {
			return opt, errors.New("-stress needs at least one measure")
		}
		opt.Stress = ms
	}

	return opt, opt.Validate()
}

// Validate checks flag combinations and ranges.
func (o Options) Validate() error {
	if len(o.Inputs) == 0 {
		return errors.New("at least one input file is required")
	}
	if o.Bins <= 0 {
		return fmt.Errorf("-bins must be positive, got %d", o.Bins)
	}
	if o.Size < 64 {
		return fmt.Errorf("-size must be at least 64, got %d", o.Size)
	}
	if o.Jobs < 0 {
		return errors.New("-jobs must be ≥ 0")
	}
	if o.CSV && o.SavePrefix == "" {
		return errors.New("-csv requires -save-prefix")
	}
	if len(o.Stress) > 0 {
		if err := o.StressParams.Validate(); err != nil {
			return fmt.Errorf("invalid stress parameters: %w", err)
		}
	}
	if o.FromImage {
		if o.Polylines || o.Lenient {
			return errors.New("-polylines and -lenient apply to trace files, not -from-image")
		}
		if o.InkLevel < 1 || o.InkLevel > 255 {
			return fmt.Errorf("-ink-level must be 1-255, got %d", o.InkLevel)
		}
		if o.MinLength < 0 || o.MaxLines < 0 || o.BlurRadius < 0 {
			return errors.New("-min-length, -max-lines and -blur must be ≥ 0")
		}
	}
	return nil
}

// analysisOptions returns the engine options selected by o.
func (o Options) analysisOptions() []analysis.Option {
	return []analysis.Option{
		analysis.WithLengthWeighting(o.Weighted),
		analysis.WithReference(o.Reference),
	}
}
