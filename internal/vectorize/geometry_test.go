package vectorize

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Shape(t *testing.T) {
	t.Parallel()

	for _, count := range []int{2, 3, 7, 12} {
		for _, length := range []int{0, 1, 20, 33} {
			p := DefaultGeometryParams()
			p.LineCount = count
			p.LineLength = length

			g, err := Generate(p)
			require.NoError(t, err)
			require.Len(t, g, count)
			for i, line := range g {
				assert.Lenf(t, line, length, "line %d of %dx%d", i, count, length)
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	p := DefaultGeometryParams()
	p.ExtraRotationDegrees = 7.3
	first, err := Generate(p)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Generate(p)
		require.NoError(t, err)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("Generate not deterministic (-first +again):\n%s", diff)
		}
	}
}

func TestGeometryParams_Angles(t *testing.T) {
	t.Parallel()

	p := DefaultGeometryParams()
	assert.Equal(t, 30.0, p.SpacingDegrees())
	assert.Equal(t, 180.0, p.AngleDegrees(0))
	assert.Equal(t, 270.0, p.AngleDegrees(3))
	assert.Equal(t, 360.0, p.AngleDegrees(6))
	assert.Equal(t, 0.0, math.Mod(p.AngleDegrees(6), 360))

	p.ExtraRotationDegrees = -5
	assert.Equal(t, 175.0, p.AngleDegrees(0))
}

func TestGenerate_ReferenceLines(t *testing.T) {
	t.Parallel()

	g, err := Generate(DefaultGeometryParams())
	require.NoError(t, err)

	for j := 0; j < DefaultLineLength; j++ {
		// 180°: straight back along -Y.
		assert.Equal(t, Point{X: 0, Y: -j}, g[0][j], "line 0 sample %d", j)
		// 270°: along -X.
		assert.Equal(t, Point{X: -j, Y: 0}, g[3][j], "line 3 sample %d", j)
		// 360°: along +Y.
		assert.Equal(t, Point{X: 0, Y: j}, g[6][j], "line 6 sample %d", j)
	}

	// 210°: sin = -0.5, cos ≈ -0.866.
	assert.Equal(t, Point{X: -5, Y: -9}, g[1][10])
}

func TestGenerate_RoundsHalfToEven(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2.0, math.RoundToEven(2.5))
	assert.Equal(t, -2.0, math.RoundToEven(-2.5))

	p := GeometryParams{LineCount: 2, LineLength: 5, SpanDegrees: 90, RotationOffsetDegrees: 0}
	g, err := Generate(p)
	require.NoError(t, err)
	want := Geometry{
		{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}},
		{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}},
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_InvalidConfiguration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*GeometryParams)
	}{
		{"single line", func(p *GeometryParams) { p.LineCount = 1 }},
		{"no lines", func(p *GeometryParams) { p.LineCount = 0 }},
		{"negative length", func(p *GeometryParams) { p.LineLength = -1 }},
		{"nan span", func(p *GeometryParams) { p.SpanDegrees = math.NaN() }},
		{"infinite rotation", func(p *GeometryParams) { p.ExtraRotationDegrees = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := DefaultGeometryParams()
			tt.mutate(&p)
			_, err := Generate(p)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestGeometry_TranslateAndBounds(t *testing.T) {
	t.Parallel()

	rel, err := Generate(DefaultGeometryParams())
	require.NoError(t, err)

	abs := rel.Translate(40, 40)
	assert.Equal(t, Point{X: 40, Y: 40}, abs[0][0])
	assert.Equal(t, Point{X: 40, Y: 21}, abs[0][19])
	// Translate copies.
	assert.Equal(t, Point{X: 0, Y: 0}, rel[0][0])

	assert.NoError(t, abs.CheckBounds(DefaultImageSize, DefaultImageSize))
	assert.ErrorIs(t, rel.CheckBounds(DefaultImageSize, DefaultImageSize), ErrOutOfRange)
	assert.ErrorIs(t, rel.Translate(70, 70).CheckBounds(DefaultImageSize, DefaultImageSize), ErrOutOfRange)
}

func TestGeometry_LineLength(t *testing.T) {
	t.Parallel()

	n, err := Geometry{}.LineLength()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = Geometry{{{0, 0}, {0, 1}}, {{1, 1}, {2, 2}}}.LineLength()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = Geometry{{{0, 0}}, {{1, 1}, {2, 2}}}.LineLength()
	assert.ErrorIs(t, err, ErrShape)
}
