package render

import (
	"math"
	"strconv"

	"github.com/aclements/go-moremath/scale"
)

// maxTicks bounds the number of major ticks on a trace-map axis.
const maxTicks = 7

// tickStep returns the tick spacing at level. Levels step through the
// 1-2-5 sequence: level 0 is 1, level 1 is 2, level 2 is 5, level 3 is 10.
func tickStep(level int) float64 {
	exp := level / 3
	rem := level % 3
	if rem < 0 {
		rem += 3
		exp--
	}
	return []float64{1, 2, 5}[rem] * math.Pow(10, float64(exp))
}

func ticksAt(lo, hi float64, level int) []float64 {
	step := tickStep(level)
	first := math.Ceil(lo / step)
	last := math.Floor(hi / step)
	var out []float64
	for k := first; k <= last; k++ {
		out = append(out, k*step)
	}
	return out
}

// axisTicker enumerates 1-2-5 ticks within [lo, hi] for scale.TickOptions.
type axisTicker struct {
	lo, hi float64
}

var _ scale.Ticker = axisTicker{}

func (t axisTicker) CountTicks(level int) int {
	step := tickStep(level)
	return int(math.Floor(t.hi/step)-math.Ceil(t.lo/step)) + 1
}

func (t axisTicker) TicksAtLevel(level int) interface{} {
	return ticksAt(t.lo, t.hi, level)
}

// axisTicks returns "nice" tick values within [lo, hi].
func axisTicks(lo, hi float64) []float64 {
	if !(hi > lo) {
		return []float64{lo}
	}
	ticker := axisTicker{lo, hi}

	// Start near the level whose step is a tenth of the range.
	guess := 3 * int(math.Floor(math.Log10((hi-lo)/10)))
	opts := scale.TickOptions{Max: maxTicks}
	level, ok := opts.FindLevel(ticker, guess)
	if !ok {
		return []float64{lo, hi}
	}
	return ticker.TicksAtLevel(level).([]float64)
}

// tickLabel formats a tick value compactly, clearing float noise such as
// 0.30000000000000004.
func tickLabel(v float64) string {
	if math.Abs(v) < 1e-9 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
