package detection

import (
	"errors"
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/fracpaq-go/internal/fracture"
	"github.com/ironsheep/fracpaq-go/internal/imaging"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Detection defaults.
const (
	DefaultMinLength = 20.0
	DefaultMaxLines  = 100
	DefaultMaxGap    = 3.0
	DefaultMaxSide   = 1024
)

// lineTolerance is how far, in pixels, an ink pixel may lie from a Hough
// line and still belong to it.
const lineTolerance = 2.0

const numAngles = 180

// DetectOptions tunes DetectSegments. Zero fields take the defaults.
type DetectOptions struct {
	// Name is given to the returned trace map.
	Name string
	// InkLevel is the gray level below which pixels are ink (1-255).
	InkLevel uint8
	// BlurRadius smooths the image before thresholding; 0 disables it.
	BlurRadius float64
	// MinLength is the shortest segment kept, in source pixels.
	MinLength float64
	// MaxLines caps the number of segments returned.
	MaxLines int
	// MaxGap is the largest break, in pixels, bridged within one segment.
	MaxGap float64
	// MaxSide downsamples larger images before detection. Negative
	// disables downsampling.
	MaxSide int
}

func (o DetectOptions) withDefaults() DetectOptions {
	if o.MinLength <= 0 {
		o.MinLength = DefaultMinLength
	}
	if o.MaxLines <= 0 {
		o.MaxLines = DefaultMaxLines
	}
	if o.MaxGap <= 0 {
		o.MaxGap = DefaultMaxGap
	}
	if o.MaxSide == 0 {
		o.MaxSide = DefaultMaxSide
	}
	return o
}

type inkPixel struct{ x, y int }

type peak struct {
	rho   int
	theta int
	votes int
}

// DetectSegments finds straight ink lines in img and returns them as
// segments in source-image pixel coordinates, strongest line first.
//
// An image without ink yields an empty trace map, not an error.
//
// # Errors
//
// Returns ErrEmptyImage when img has zero width or height.
func DetectSegments(img image.Image, opts DetectOptions) (fracture.TraceMap, error) {
	o := opts.withDefaults()
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return fracture.TraceMap{}, ErrEmptyImage
	}

	work, scale := imaging.Fit(img, o.MaxSide)
	mask := imaging.InkMask(work, o.InkLevel, o.BlurRadius)
	minLen := o.MinLength * scale

	var ink []inkPixel
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.GrayAt(x, y).Y > 0 {
				ink = append(ink, inkPixel{x - b.Min.X, y - b.Min.Y})
			}
		}
	}
	if len(ink) == 0 {
		return fracture.NewTraceMap(o.Name, nil), nil
	}

	cosT, sinT := angleTables()
	peaks := houghPeaks(ink, b.Dx(), b.Dy(), cosT, sinT, int(minLen/2))

	claimed := make([]bool, len(ink))
	var segments []fracture.Segment
	for _, p := range peaks {
		if len(segments) >= o.MaxLines {
			break
		}
		for _, run := range peakRuns(ink, claimed, p, cosT, sinT, o.MaxGap) {
			if len(segments) >= o.MaxLines {
				break
			}
			seg, ok := fitRun(ink, run)
			if !ok || math.Hypot(seg.X2-seg.X1, seg.Y2-seg.Y1) < minLen {
				continue
			}
			for _, i := range run {
				claimed[i] = true
			}
			segments = append(segments, fracture.NewSegment(
				seg.X1/scale, seg.Y1/scale, seg.X2/scale, seg.Y2/scale))
		}
	}

	return fracture.NewTraceMap(o.Name, segments), nil
}

func angleTables() (cosT, sinT [numAngles]float64) {
	for t := 0; t < numAngles; t++ {
		a := float64(t) * math.Pi / 180
		cosT[t], sinT[t] = math.Cos(a), math.Sin(a)
	}
	return cosT, sinT
}

// houghPeaks votes every ink pixel into a (rho, theta) accumulator and
// returns the local maxima with at least threshold votes, strongest first.
func houghPeaks(ink []inkPixel, width, height int, cosT, sinT [numAngles]float64, threshold int) []peak {
	maxDist := int(math.Ceil(math.Sqrt(float64(width*width + height*height))))
	rows := 2*maxDist + 1
	acc := make([]int, rows*numAngles)
	for _, p := range ink {
		for t := 0; t < numAngles; t++ {
			rho := float64(p.x)*cosT[t] + float64(p.y)*sinT[t]
			acc[(int(math.Round(rho))+maxDist)*numAngles+t]++
		}
	}

	if threshold < 2 {
		threshold = 2
	}
	var peaks []peak
	for r := 0; r < rows; r++ {
		for t := 0; t < numAngles; t++ {
			v := acc[r*numAngles+t]
			if v < threshold {
				continue
			}
			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -2; dt <= 2 && isMax; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nr := r + dr
					nt := (t + dt + numAngles) % numAngles
					if nr >= 0 && nr < rows && acc[nr*numAngles+nt] > v {
						isMax = false
					}
				}
			}
			if isMax {
				peaks = append(peaks, peak{rho: r - maxDist, theta: t, votes: v})
			}
		}
	}

	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].votes != peaks[j].votes {
			return peaks[i].votes > peaks[j].votes
		}
		if peaks[i].theta != peaks[j].theta {
			return peaks[i].theta < peaks[j].theta
		}
		return peaks[i].rho < peaks[j].rho
	})
	return peaks
}

// peakRuns gathers the unclaimed ink pixels near the line of p, orders them
// along it and splits them into runs at gaps wider than maxGap. Runs are
// returned as indices into ink.
func peakRuns(ink []inkPixel, claimed []bool, p peak, cosT, sinT [numAngles]float64, maxGap float64) [][]int {
	c, s := cosT[p.theta], sinT[p.theta]
	rho := float64(p.rho)

	type onLine struct {
		idx int
		t   float64
	}
	var pts []onLine
	for i, px := range ink {
		if claimed[i] {
			continue
		}
		x, y := float64(px.x), float64(px.y)
		if math.Abs(x*c+y*s-rho) < lineTolerance {
			pts = append(pts, onLine{idx: i, t: -x*s + y*c})
		}
	}
	if len(pts) == 0 {
		return nil
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].t != pts[j].t {
			return pts[i].t < pts[j].t
		}
		return pts[i].idx < pts[j].idx
	})

	var runs [][]int
	current := []int{pts[0].idx}
	for k := 1; k < len(pts); k++ {
		if pts[k].t-pts[k-1].t > maxGap {
			runs = append(runs, current)
			current = nil
		}
		current = append(current, pts[k].idx)
	}
	return append(runs, current)
}

// fitRun fits a line through the run's pixels by principal axis and returns
// the segment spanning them.
func fitRun(ink []inkPixel, run []int) (fracture.Segment, bool) {
	if len(run) < 2 {
		return fracture.Segment{}, false
	}
	xs := make([]float64, len(run))
	ys := make([]float64, len(run))
	for k, i := range run {
		xs[k], ys[k] = float64(ink[i].x), float64(ink[i].y)
	}

	mx, my := stat.Mean(xs, nil), stat.Mean(ys, nil)
	sxx := stat.Variance(xs, nil)
	syy := stat.Variance(ys, nil)
	sxy := stat.Covariance(xs, ys, nil)
	phi := 0.5 * math.Atan2(2*sxy, sxx-syy)
	dx, dy := math.Cos(phi), math.Sin(phi)

	tMin, tMax := math.Inf(1), math.Inf(-1)
	for k := range xs {
		t := (xs[k]-mx)*dx + (ys[k]-my)*dy
		tMin = math.Min(tMin, t)
		tMax = math.Max(tMax, t)
	}
	if tMax <= tMin {
		return fracture.Segment{}, false
	}
	return fracture.NewSegment(mx+tMin*dx, my+tMin*dy, mx+tMax*dx, my+tMax*dy), true
}
