package analysis

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

// StressOptions describes a two-dimensional far-field stress state and the
// frictional strength of the fractures. Stresses are in MPa, compressive
// positive.
type StressOptions struct {
	Sigma1 float64 `json:"sigma1"` // maximum principal stress
	Sigma2 float64 `json:"sigma2"` // minimum principal stress
	// Sigma1Azimuth is the direction of Sigma1 in degrees, clockwise from
	// the +Y axis.
	Sigma1Azimuth float64 `json:"sigma1_azimuth"`
	Friction      float64 `json:"friction"` // coefficient of sliding friction, μ
	Cohesion      float64 `json:"cohesion"` // C0
	PorePressure  float64 `json:"pore_pressure"`

	// FlipX and FlipY mirror segment azimuths, matching a map drawn with
	// the same axis flips.
	FlipX bool `json:"flip_x,omitempty"`
	FlipY bool `json:"flip_y,omitempty"`
}

// DefaultStressOptions returns σ1 = 100 MPa, σ2 = 50 MPa with σ1 along +Y,
// μ = 0.6, no cohesion and no pore pressure.
func DefaultStressOptions() StressOptions {
	return StressOptions{Sigma1: 100, Sigma2: 50, Friction: 0.6}
}

// Validate checks that the stress state is usable.
func (o StressOptions) Validate() error {
	for _, v := range []float64{o.Sigma1, o.Sigma2, o.Sigma1Azimuth, o.Friction, o.Cohesion, o.PorePressure} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: stress parameters must be finite", ErrInvalidParameter)
		}
	}
	if o.Sigma1 < o.Sigma2 {
		return fmt.Errorf("%w: sigma1 (%g) must not be less than sigma2 (%g)", ErrInvalidParameter, o.Sigma1, o.Sigma2)
	}
	if o.Friction <= 0 {
		return fmt.Errorf("%w: friction must be positive, got %g", ErrInvalidParameter, o.Friction)
	}
	return nil
}

// SegmentStress is the resolved stress on one segment.
type SegmentStress struct {
	// Azimuth is the segment orientation clockwise from +Y in [0, 180),
	// after any flips.
	Azimuth float64 `json:"azimuth"`
	Normal  float64 `json:"normal_stress"`
	Shear   float64 `json:"shear_stress"`
	// SlipTendency is |τ|/|σn| normalised by the largest value any
	// orientation can reach, in [0, 1].
	SlipTendency float64 `json:"slip_tendency"`
	// DilationTendency is (σ1-σn)/(σ1-σ2) in [0, 1].
	DilationTendency float64 `json:"dilation_tendency"`
	// Susceptibility is the pore-pressure increase, in MPa, that brings
	// the segment onto the failure envelope: |σn| - Pf - (|τ| - C0)/μ.
	Susceptibility float64 `json:"susceptibility"`
	// CriticallyStressed is set when |τ| ≥ μ(|σn| - Pf) + C0.
	CriticallyStressed bool `json:"critically_stressed"`
	// Degenerate segments have no orientation; all other fields are zero.
	Degenerate bool `json:"degenerate,omitempty"`
}

// StressAnalysis is the result of StressTendency.
type StressAnalysis struct {
	Options  StressOptions   `json:"options"`
	Segments []SegmentStress `json:"segments"`
	// MaxSlipRatio is the |τ|/|σn| that maps to a slip tendency of 1.
	MaxSlipRatio  float64 `json:"max_slip_ratio"`
	Measured      int     `json:"measured"`
	CriticalCount int     `json:"critical_count"`
}

// MohrCenter is the centre of the Mohr circle, (σ1+σ2)/2.
func (a StressAnalysis) MohrCenter() float64 {
	return (a.Options.Sigma1 + a.Options.Sigma2) / 2
}

// MohrRadius is the radius of the Mohr circle, (σ1-σ2)/2.
func (a StressAnalysis) MohrRadius() float64 {
	return math.Abs(a.Options.Sigma1-a.Options.Sigma2) / 2
}

// Envelope returns the shear stress on the Coulomb failure envelope at
// normal stress sn, never below zero.
func (a StressAnalysis) Envelope(sn float64) float64 {
	o := a.Options
	return math.Max(0, o.Friction*(sn-o.PorePressure)+o.Cohesion)
}

// StressSummary condenses the per-segment results. All fields are zero
// when no segment was measured.
type StressSummary struct {
	MeanSlip          float64 `json:"mean_slip_tendency"`
	MaxSlip           float64 `json:"max_slip_tendency"`
	MeanDilation      float64 `json:"mean_dilation_tendency"`
	MaxDilation       float64 `json:"max_dilation_tendency"`
	MinSusceptibility float64 `json:"min_susceptibility"`
}

// Summary returns means and extremes over the measured segments.
func (a StressAnalysis) Summary() StressSummary {
	var ts, td, sf []float64
	for _, s := range a.Segments {
		if s.Degenerate {
			continue
		}
		ts = append(ts, s.SlipTendency)
		td = append(td, s.DilationTendency)
		sf = append(sf, s.Susceptibility)
	}
	if len(ts) == 0 {
		return StressSummary{}
	}
	return StressSummary{
		MeanSlip:          stat.Mean(ts, nil),
		MaxSlip:           floats.Max(ts),
		MeanDilation:      stat.Mean(td, nil),
		MaxDilation:       floats.Max(td),
		MinSusceptibility: floats.Min(sf),
	}
}

// StressTendency resolves the stress state described by opts onto every
// segment of tm.
//
// # Errors
//
// Returns an error wrapping ErrInvalidParameter when opts fails Validate.
func StressTendency(tm fracture.TraceMap, opts StressOptions) (StressAnalysis, error) {
	if err := opts.Validate(); err != nil {
		return StressAnalysis{}, err
	}
	res := StressAnalysis{
		Options:  opts,
		Segments: make([]SegmentStress, tm.Len()),
	}

	ratios := make([]float64, tm.Len())
	observedMax := 0.0
	for i := range res.Segments {
		g := GeometryIn(tm.Segment(i), ReferenceNorth)
		if g.Degenerate {
			res.Segments[i] = SegmentStress{Degenerate: true}
			continue
		}
		az := g.Orientation.Degrees
		if opts.FlipX {
			az = fold180(180 - az)
		}
		if opts.FlipY {
			az = fold180(180 - az)
		}
		sn, tau := resolveStress(opts, az)
		absN, absT := math.Abs(sn), math.Abs(tau)
		res.Segments[i] = SegmentStress{
			Azimuth:            az,
			Normal:             sn,
			Shear:              tau,
			DilationTendency:   dilationTendency(opts, sn),
			Susceptibility:     absN - opts.PorePressure - (absT-opts.Cohesion)/opts.Friction,
			CriticallyStressed: absT >= opts.Friction*(absN-opts.PorePressure)+opts.Cohesion,
		}
		if absN > 0 {
			ratios[i] = absT / absN
		}
		observedMax = math.Max(observedMax, ratios[i])
		res.Measured++
		if res.Segments[i].CriticallyStressed {
			res.CriticalCount++
		}
	}

	res.MaxSlipRatio = maxSlipRatio(opts, observedMax)
	for i := range res.Segments {
		if !res.Segments[i].Degenerate {
			res.Segments[i].SlipTendency = clamp01(ratios[i] / res.MaxSlipRatio)
		}
	}
	return res, nil
}

// resolveStress returns the normal and shear stress on a plane whose
// trace has the given azimuth.
func resolveStress(o StressOptions, azimuth float64) (sn, tau float64) {
	// alpha is the angle between σ1 and the plane's normal.
	alpha := (azimuth + 90 - o.Sigma1Azimuth) * math.Pi / 180
	c := (o.Sigma1 + o.Sigma2) / 2
	r := (o.Sigma1 - o.Sigma2) / 2
	return c + r*math.Cos(2*alpha), -r * math.Sin(2*alpha)
}

func dilationTendency(o StressOptions, sn float64) float64 {
	d := o.Sigma1 - o.Sigma2
	if math.Abs(d) <= 1e-12 {
		d = 1
	}
	return clamp01((o.Sigma1 - sn) / d)
}

// maxSlipRatio is the largest |τ|/σn over all orientations. It is finite
// only when both principal stresses are compressive; otherwise the
// largest ratio among the segments is used.
func maxSlipRatio(o StressOptions, observed float64) float64 {
	if o.Sigma2 > 0 {
		if m := (o.Sigma1 - o.Sigma2) / (2 * math.Sqrt(o.Sigma1*o.Sigma2)); m > 0 {
			return m
		}
	}
	if observed > 0 {
		return observed
	}
	return 1
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// StressMeasure names one per-segment quantity of a StressAnalysis.
type StressMeasure string

// Stress measures.
const (
	MeasureSlip           StressMeasure = "slip"
	MeasureDilation       StressMeasure = "dilation"
	MeasureSusceptibility StressMeasure = "susceptibility"
	MeasureCritical       StressMeasure = "csf"
)

// StressMeasures lists every measure in a stable order.
var StressMeasures = []StressMeasure{MeasureSlip, MeasureDilation, MeasureSusceptibility, MeasureCritical}

// ParseStressMeasure accepts the measure names plus a few long forms.
func ParseStressMeasure(s string) (StressMeasure, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "slip", "slip-tendency", "ts":
		return MeasureSlip, nil
	case "dilation", "dilation-tendency", "td":
		return MeasureDilation, nil
	case "susceptibility", "fs":
		return MeasureSusceptibility, nil
	case "csf", "critical", "critically-stressed":
		return MeasureCritical, nil
	}
	return "", fmt.Errorf("%w: unknown stress measure %q", ErrInvalidParameter, s)
}

// ParseStressMeasures parses a comma-separated list; "all" selects every
// measure. Duplicates are dropped.
func ParseStressMeasures(s string) ([]StressMeasure, error) {
	if strings.TrimSpace(strings.ToLower(s)) == "all" {
		return append([]StressMeasure(nil), StressMeasures...), nil
	}
	var out []StressMeasure
	seen := make(map[StressMeasure]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m, err := ParseStressMeasure(part)
		if err != nil {
			return nil, err
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out, nil
}

// Label is a human-readable name for the measure.
func (m StressMeasure) Label() string {
	switch m {
	case MeasureSlip:
		return "Normalised slip tendency"
	case MeasureDilation:
		return "Dilation tendency"
	case MeasureSusceptibility:
		return "Fracture susceptibility (ΔPf), MPa"
	case MeasureCritical:
		return "Critically stressed fractures"
	}
	return string(m)
}

// Values returns the measure for every segment in input order. Degenerate
// segments get NaN. Critically stressed is 1, otherwise 0.
func (a StressAnalysis) Values(m StressMeasure) []float64 {
	out := make([]float64, len(a.Segments))
	for i, s := range a.Segments {
		if s.Degenerate {
			out[i] = math.NaN()
			continue
		}
		switch m {
		case MeasureSlip:
			out[i] = s.SlipTendency
		case MeasureDilation:
			out[i] = s.DilationTendency
		case MeasureSusceptibility:
			out[i] = s.Susceptibility
		case MeasureCritical:
			if s.CriticallyStressed {
				out[i] = 1
			}
		default:
			out[i] = math.NaN()
		}
	}
	return out
}
