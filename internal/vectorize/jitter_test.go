package vectorize

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler_ZeroJitterMatchesPlace(t *testing.T) {
	t.Parallel()

	p := DefaultGeometryParams()
	center := DefaultCenter()
	want, err := Place(p, center)
	require.NoError(t, err)

	for _, seed := range []uint64{0, 1, 42, math.MaxUint64} {
		s := NewSampler(seed)
		for i := 0; i < 3; i++ {
			got, err := s.Sample(p, center, Jitter{})
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("seed %d draw %d differs from Place (-want +got):\n%s", seed, i, diff)
			}
		}
	}
}

func TestSampler_SeedDeterminism(t *testing.T) {
	t.Parallel()

	p := DefaultGeometryParams()
	center := DefaultCenter()
	j := DefaultJitter()

	a, b := NewSampler(7), NewSampler(7)
	for i := 0; i < 10; i++ {
		ga, err := a.Sample(p, center, j)
		require.NoError(t, err)
		gb, err := b.Sample(p, center, j)
		require.NoError(t, err)
		if diff := cmp.Diff(ga, gb); diff != "" {
			t.Fatalf("draw %d differs for equal seeds:\n%s", i, diff)
		}
	}
}

func TestSampler_StreamsDiffer(t *testing.T) {
	t.Parallel()

	p := DefaultGeometryParams()
	center := DefaultCenter()
	j := DefaultJitter()

	a, b := NewSamplerStream(7, 0), NewSamplerStream(7, 1)
	same := 0
	const draws = 20
	for i := 0; i < draws; i++ {
		ga, err := a.Sample(p, center, j)
		require.NoError(t, err)
		gb, err := b.Sample(p, center, j)
		require.NoError(t, err)
		if cmp.Equal(ga, gb) {
			same++
		}
	}
	assert.Less(t, same, draws, "independent streams produced identical sequences")
}

func TestSampler_TranslationBounded(t *testing.T) {
	t.Parallel()

	p := DefaultGeometryParams()
	center := DefaultCenter()
	base, err := Place(p, center)
	require.NoError(t, err)

	s := NewSampler(99)
	j := Jitter{MaxOffset: 4}
	for i := 0; i < 200; i++ {
		g, err := s.Sample(p, center, j)
		require.NoError(t, err)

		dx := g[0][0].X - base[0][0].X
		dy := g[0][0].Y - base[0][0].Y
		require.LessOrEqual(t, math.Abs(float64(dx)), 4.0)
		require.LessOrEqual(t, math.Abs(float64(dy)), 4.0)
		// Pure translation: every point moves by the same offset.
		if diff := cmp.Diff(base.Translate(dx, dy), g); diff != "" {
			t.Fatalf("draw %d is not a pure translation:\n%s", i, diff)
		}
	}
}

func TestSampler_TranslationUniform(t *testing.T) {
	t.Parallel()

	p := DefaultGeometryParams()
	center := DefaultCenter()
	s := NewSampler(5)
	j := Jitter{MaxOffset: 4}

	const draws = 80000
	rows := map[int]int{}
	cols := map[int]int{}
	for i := 0; i < draws; i++ {
		g, err := s.Sample(p, center, j)
		require.NoError(t, err)
		rows[g[0][0].X-center.Row]++
		cols[g[0][0].Y-center.Col]++
	}

	// Eight whole offsets, -4 through 3, each expected 10000 times.
	for name, hist := range map[string]map[int]int{"row": rows, "col": cols} {
		require.Len(t, hist, 8, "%s offsets %v", name, hist)
		for d := -4; d <= 3; d++ {
			n := hist[d]
			assert.InDelta(t, draws/8, n, 600, "%s offset %d drawn %d times: %v", name, d, n, hist)
		}
	}
}

func TestSampler_RotationOnlyKeepsCenter(t *testing.T) {
	t.Parallel()

	p := DefaultGeometryParams()
	center := DefaultCenter()
	s := NewSampler(3)
	g, err := s.Sample(p, center, Jitter{MaxRotationDegrees: 10})
	require.NoError(t, err)
	for i, line := range g {
		assert.Equal(t, Point{X: center.Row, Y: center.Col}, line[0], "line %d origin", i)
	}
}

func TestSampler_InvalidJitter(t *testing.T) {
	t.Parallel()

	s := NewSampler(1)
	p := DefaultGeometryParams()
	for _, j := range []Jitter{
		{MaxRotationDegrees: -1},
		{MaxOffset: -0.5},
		{MaxOffset: math.NaN()},
		{MaxRotationDegrees: math.Inf(1)},
	} {
		_, err := s.Sample(p, DefaultCenter(), j)
		assert.ErrorIs(t, err, ErrInvalidConfiguration, "jitter %+v", j)
	}

	p.LineCount = 1
	_, err := s.Sample(p, DefaultCenter(), Jitter{})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
