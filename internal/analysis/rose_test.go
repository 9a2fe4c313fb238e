package analysis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/fracpaq-go/internal/fracture"
)

func randomMap(rng *rand.Rand, n int) []fracture.Segment {
	segs := make([]fracture.Segment, n)
	for i := range segs {
		if i%17 == 0 {
			segs[i] = fracture.NewSegment(3, 3, 3, 3)
			continue
		}
		segs[i] = fracture.NewSegment(
			rng.Float64()*500, rng.Float64()*500,
			rng.Float64()*500, rng.Float64()*500,
		)
	}
	return segs
}

func TestRoseHistogram_InvalidBinCount(t *testing.T) {
	tm := fracture.NewTraceMap("x", []fracture.Segment{fracture.NewSegment(0, 0, 1, 0)})
	for _, n := range []int{0, -1, -18} {
		_, err := RoseHistogram(tm, n)
		assert.ErrorIs(t, err, ErrInvalidParameter, "bin count %d", n)
	}
}

func TestRoseHistogram_NinetyLandsInBinNine(t *testing.T) {
	tm := fracture.NewTraceMap("v", []fracture.Segment{fracture.NewSegment(0, 0, 0, 1)})

	h, err := RoseHistogram(tm, 18)
	require.NoError(t, err)

	assert.Equal(t, 9, BinIndex(90, 18))
	assert.Equal(t, 1.0, h.Values[9])
	lo, hi := h.Bin(9)
	assert.Equal(t, 90.0, lo)
	assert.Equal(t, 100.0, hi)
	assert.Equal(t, 10.0, h.BinWidth)
}

func TestBinIndex_Clamps(t *testing.T) {
	assert.Equal(t, 0, BinIndex(0, 18))
	assert.Equal(t, 17, BinIndex(179.9999999999, 18))
	assert.Equal(t, 17, BinIndex(180, 18))
	assert.Equal(t, 0, BinIndex(-1e-12, 18))
	assert.Equal(t, 0, BinIndex(42, 1))
	assert.Equal(t, 3, BinIndex(100, 7))
}

func TestRoseHistogram_Weighting(t *testing.T) {
	tm := fracture.NewTraceMap("w", []fracture.Segment{
		fracture.NewSegment(0, 0, 4, 0),  // 0°, length 4
		fracture.NewSegment(0, 0, 0, 2),  // 90°, length 2
		fracture.NewSegment(0, 0, -3, 0), // 0°, length 3
		fracture.NewSegment(5, 5, 5, 5),  // degenerate
	})

	weighted, err := RoseHistogram(tm, 4)
	require.NoError(t, err)
	assert.True(t, weighted.Weighted)
	assert.Equal(t, []float64{7, 0, 2, 0}, weighted.Values)
	assert.Equal(t, 1, weighted.Excluded)
	assert.InDelta(t, 9, weighted.Total(), eps)

	counts, err := RoseHistogram(tm, 4, WithLengthWeighting(false))
	require.NoError(t, err)
	assert.False(t, counts.Weighted)
	assert.Equal(t, []float64{2, 0, 1, 0}, counts.Values)
	assert.Equal(t, 3.0, counts.Total())
}

func TestRoseHistogram_TotalsAndOrderInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	segs := randomMap(rng, 400)
	tm := fracture.NewTraceMap("r", segs)
	sum := Summarize(tm)

	for _, bins := range []int{1, 7, 18, 36, 180} {
		weighted, err := RoseHistogram(tm, bins)
		require.NoError(t, err)
		counts, err := RoseHistogram(tm, bins, WithLengthWeighting(false))
		require.NoError(t, err)

		assert.InDelta(t, sum.TotalLength, weighted.Total(), 1e-6, "bins=%d", bins)
		assert.Equal(t, float64(sum.Measured()), counts.Total(), "bins=%d", bins)

		for p := 0; p < 5; p++ {
			shuffled := make([]fracture.Segment, len(segs))
			copy(shuffled, segs)
			rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

			again, err := RoseHistogram(fracture.NewTraceMap("r", shuffled), bins)
			require.NoError(t, err)
			require.Equal(t, weighted.Values, again.Values, "bins=%d permutation %d", bins, p)
		}
	}
}

func TestRoseHistogram_Empty(t *testing.T) {
	h, err := RoseHistogram(fracture.TraceMap{}, DefaultBinCount)
	require.NoError(t, err)
	assert.Len(t, h.Values, 18)
	assert.Equal(t, 0.0, h.Total())
	assert.Equal(t, 0.0, h.Max())
	assert.Equal(t, make([]float64, 18), h.Fractions())
}

func TestRoseHistogram_Helpers(t *testing.T) {
	tm := fracture.NewTraceMap("h", []fracture.Segment{
		fracture.NewSegment(0, 0, 1, 0),
		fracture.NewSegment(0, 0, 0, 1),
		fracture.NewSegment(0, 0, 0, 2),
	})
	h, err := RoseHistogram(tm, 3, WithLengthWeighting(false))
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 60, 120, 180}, h.Edges())
	assert.Equal(t, []float64{30, 90, 150}, h.Centers())
	assert.Equal(t, []float64{1, 2, 0, 1, 2, 0}, h.Mirrored())
	assert.Equal(t, 2.0, h.Max())
	assert.InDeltaSlice(t, []float64{1.0 / 3, 2.0 / 3, 0}, h.Fractions(), eps)
}

func TestRoseHistogram_NorthReference(t *testing.T) {
	tm := fracture.NewTraceMap("n", []fracture.Segment{fracture.NewSegment(0, 0, 1, 0)})
	h, err := RoseHistogram(tm, 18, WithReference(ReferenceNorth))
	require.NoError(t, err)
	assert.Equal(t, ReferenceNorth, h.Reference)
	assert.Equal(t, 1.0, h.Values[9])
}
