package vectorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/articulation/internal/testutil"
)

func rampVolume(t *testing.T, frames int) *Volume {
	t.Helper()
	v, err := NewCanonicalVolume(frames, DefaultImageSize, DefaultImageSize,
		testutil.RampData(frames, DefaultImageSize, DefaultImageSize))
	require.NoError(t, err)
	return v
}

func TestExtract_ShapeAndValues(t *testing.T) {
	t.Parallel()

	v := rampVolume(t, 12)
	g, err := Place(DefaultGeometryParams(), DefaultCenter())
	require.NoError(t, err)

	iv := Interval{Label: "a", FirstFrame: 2, LastFrame: 7}
	out, err := Extract(v, g, iv)
	require.NoError(t, err)
	assert.Equal(t, [3]int{DefaultLineCount, 5, DefaultLineLength}, out.Shape)

	for l, line := range g {
		for f := 0; f < iv.Len(); f++ {
			for s, pt := range line {
				want := testutil.RampValue(iv.FirstFrame+f, pt.X, pt.Y)
				require.Equal(t, want, out.At(l, f, s), "line %d frame %d sample %d", l, f, s)
			}
		}
	}
}

func TestExtract_ShapeForManyIntervals(t *testing.T) {
	t.Parallel()

	v := rampVolume(t, 30)
	g, err := Place(DefaultGeometryParams(), DefaultCenter())
	require.NoError(t, err)

	for first := 0; first < 29; first += 4 {
		for last := first + 1; last <= 30; last += 5 {
			out, err := Extract(v, g, Interval{FirstFrame: first, LastFrame: last})
			require.NoError(t, err)
			require.Equal(t, [3]int{DefaultLineCount, last - first, DefaultLineLength}, out.Shape)
		}
	}
}

func TestExtract_Errors(t *testing.T) {
	t.Parallel()

	v := rampVolume(t, 10)
	g, err := Place(DefaultGeometryParams(), DefaultCenter())
	require.NoError(t, err)

	_, err = Extract(v, g, Interval{FirstFrame: 5, LastFrame: 11})
	assert.ErrorIs(t, err, ErrOutOfRange, "interval past end")

	_, err = Extract(v, g, Interval{FirstFrame: -1, LastFrame: 3})
	assert.ErrorIs(t, err, ErrOutOfRange, "negative first frame")

	_, err = Extract(v, g, Interval{FirstFrame: 4, LastFrame: 4})
	assert.ErrorIs(t, err, ErrInvalidTimestamp, "empty interval")

	corner, err := Place(DefaultGeometryParams(), Center{Row: 5, Col: 5})
	require.NoError(t, err)
	_, err = Extract(v, corner, Interval{FirstFrame: 0, LastFrame: 2})
	assert.ErrorIs(t, err, ErrOutOfRange, "geometry outside image")

	_, err = Extract(v, Geometry{}, Interval{FirstFrame: 0, LastFrame: 2})
	assert.ErrorIs(t, err, ErrInvalidConfiguration, "empty geometry")

	_, err = Extract(v, Geometry{{{1, 1}}, {{1, 1}, {2, 2}}}, Interval{FirstFrame: 0, LastFrame: 2})
	assert.ErrorIs(t, err, ErrShape, "ragged geometry")

	raw, err := NewVolume(10, DefaultImageSize, DefaultImageSize,
		testutil.RampData(10, DefaultImageSize, DefaultImageSize))
	require.NoError(t, err)
	_, err = Extract(raw, g, Interval{FirstFrame: 0, LastFrame: 2})
	assert.ErrorIs(t, err, ErrInvalidConfiguration, "unoriented volume")
}

func TestTensor3_Rot90(t *testing.T) {
	t.Parallel()

	// (1 line, 2 frames, 3 samples)
	in := &Tensor3{Shape: [3]int{1, 2, 3}, Data: []float64{
		1, 2, 3,
		4, 5, 6,
	}}
	out := in.Rot90()
	assert.Equal(t, [3]int{1, 3, 2}, out.Shape)
	// Counter-clockwise: the last sample becomes the first row.
	assert.Equal(t, []float64{
		3, 6,
		2, 5,
		1, 4,
	}, out.Data)
}

func TestTensor3_Rot90OnExtraction(t *testing.T) {
	t.Parallel()

	v := rampVolume(t, 6)
	g, err := Place(DefaultGeometryParams(), DefaultCenter())
	require.NoError(t, err)
	ext, err := Extract(v, g, Interval{FirstFrame: 1, LastFrame: 5})
	require.NoError(t, err)

	rot := ext.Rot90()
	require.Equal(t, [3]int{DefaultLineCount, DefaultLineLength, 4}, rot.Shape)
	for l := 0; l < DefaultLineCount; l++ {
		for s := 0; s < DefaultLineLength; s++ {
			for f := 0; f < 4; f++ {
				require.Equal(t, ext.At(l, f, DefaultLineLength-1-s), rot.At(l, s, f))
			}
		}
	}
}
