package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ironsheep/fracpaq-go/internal/analysis"
	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

// Report is the full analysis of one trace map.
type Report struct {
	Name      string                        `json:"name"`
	Source    string                        `json:"source,omitempty"`
	Summary   analysis.SummaryStats         `json:"summary"`
	Lengths   analysis.LengthStats          `json:"lengths"`
	Nodes     analysis.NodeStats            `json:"nodes"`
	Histogram analysis.OrientationHistogram `json:"histogram"`
	// Stress is set when a stress state was resolved onto the map.
	Stress *analysis.StressAnalysis `json:"stress,omitempty"`
	// Warnings holds skipped input lines and similar non-fatal problems.
	Warnings []string `json:"warnings,omitempty"`
	// Outputs lists files written for this map.
	Outputs []string `json:"outputs,omitempty"`
}

// Build analyses tm with binCount rose bins. opts apply to both the
// histogram and the summary.
func Build(tm fracture.TraceMap, binCount int, opts ...analysis.Option) (Report, error) {
	hist, err := analysis.RoseHistogram(tm, binCount, opts...)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Name:      tm.Name(),
		Summary:   analysis.Summarize(tm, opts...),
		Lengths:   analysis.Lengths(tm),
		Nodes:     analysis.Nodes(tm),
		Histogram: hist,
	}, nil
}

// WriteJSON writes r as indented JSON followed by a newline.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteJSONList writes rs as one indented JSON array.
func WriteJSONList(w io.Writer, rs []Report) error {
	if rs == nil {
		rs = []Report{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rs)
}

// histBarWidth is the width of the longest histogram bar in WriteText.
const histBarWidth = 40

// WriteText writes r in a human-readable layout.
func WriteText(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	s := r.Summary

	name := r.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(tw, "Trace map:\t%s\n", name)
	if r.Source != "" && r.Source != r.Name {
		fmt.Fprintf(tw, "Source:\t%s\n", r.Source)
	}
	fmt.Fprintf(tw, "Segments:\t%d (%d degenerate)\n", s.Count, s.DegenerateCount)
	fmt.Fprintf(tw, "Traces:\t%d\n", r.Nodes.Traces)
	fmt.Fprintf(tw, "Nodes:\t%d\n", r.Nodes.Nodes)
	b := r.Nodes.Bounds
	fmt.Fprintf(tw, "X range:\t%s .. %s\n", num(b.MinX), num(b.MaxX))
	fmt.Fprintf(tw, "Y range:\t%s .. %s\n", num(b.MinY), num(b.MaxY))
	fmt.Fprintf(tw, "Total length:\t%s\n", num(s.TotalLength))
	fmt.Fprintf(tw, "Mean length:\t%s\n", num(s.MeanLength))
	l := r.Lengths
	if l.Count > 0 {
		fmt.Fprintf(tw, "Length min/median/max:\t%s / %s / %s\n", num(l.Min), num(l.Median), num(l.Max))
		fmt.Fprintf(tw, "Length std dev:\t%s\n", num(l.StdDev))
	}
	if s.MeanOrientation.Defined {
		fmt.Fprintf(tw, "Mean orientation:\t%.2f° (reference %s, resultant %.3f)\n",
			s.MeanOrientation.Degrees, s.Reference, s.ResultantLength)
	} else {
		fmt.Fprintf(tw, "Mean orientation:\tundefined\n")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := writeHistogram(w, r.Histogram); err != nil {
		return err
	}
	if r.Stress != nil {
		if err := writeStress(w, *r.Stress); err != nil {
			return err
		}
	}
	for _, warn := range r.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warn); err != nil {
			return err
		}
	}
	for _, out := range r.Outputs {
		if _, err := fmt.Fprintf(w, "wrote: %s\n", out); err != nil {
			return err
		}
	}
	return nil
}

func writeHistogram(w io.Writer, h analysis.OrientationHistogram) error {
	if h.BinCount == 0 {
		return nil
	}
	weighting := "frequency"
	if h.Weighted {
		weighting = "length-weighted"
	}
	fmt.Fprintf(w, "\nRose histogram (%d bins of %s°, %s, reference %s):\n",
		h.BinCount, num(h.BinWidth), weighting, h.Reference)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	maxV := h.Max()
	edges := h.Edges()
	for i, v := range h.Values {
		bar := 0
		if maxV > 0 {
			bar = int(v / maxV * histBarWidth)
		}
		fmt.Fprintf(tw, "%s\t-\t%s\t%s\t\t%s\n", num(edges[i]), num(edges[i+1]), num(v), strings.Repeat("#", bar))
	}
	return tw.Flush()
}

func writeStress(w io.Writer, a analysis.StressAnalysis) error {
	o := a.Options
	fmt.Fprintf(w, "\nStress (σ1=%s MPa, σ2=%s MPa, σ1 azimuth %s°, μ=%s, C0=%s MPa, Pf=%s MPa):\n",
		num(o.Sigma1), num(o.Sigma2), num(o.Sigma1Azimuth), num(o.Friction), num(o.Cohesion), num(o.PorePressure))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Critically stressed:\t%d of %d\n", a.CriticalCount, a.Measured)
	if a.Measured > 0 {
		sum := a.Summary()
		fmt.Fprintf(tw, "Slip tendency mean/max:\t%s / %s\n", num(sum.MeanSlip), num(sum.MaxSlip))
		fmt.Fprintf(tw, "Dilation tendency mean/max:\t%s / %s\n", num(sum.MeanDilation), num(sum.MaxDilation))
		fmt.Fprintf(tw, "Min susceptibility:\t%s MPa\n", num(sum.MinSusceptibility))
	}
	return tw.Flush()
}

// num formats a statistic with up to six significant digits.
func num(v float64) string {
	return fmt.Sprintf("%.6g", v)
}
