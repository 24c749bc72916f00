package vectorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	t.Parallel()

	g, err := Place(DefaultGeometryParams(), DefaultCenter())
	require.NoError(t, err)

	m, err := Mask(g, DefaultImageSize, DefaultImageSize)
	require.NoError(t, err)

	sampled := map[Point]bool{}
	for _, line := range g {
		for _, pt := range line {
			sampled[pt] = true
		}
	}

	zeros := 0
	for r := 0; r < DefaultImageSize; r++ {
		for c := 0; c < DefaultImageSize; c++ {
			v := m.At(r, c)
			if sampled[Point{X: r, Y: c}] {
				require.Zero(t, v, "sampled pixel (%d,%d)", r, c)
				zeros++
			} else {
				require.Equal(t, 1.0, v, "unsampled pixel (%d,%d)", r, c)
			}
		}
	}
	assert.Equal(t, len(sampled), zeros)
	assert.Equal(t, 0.0, m.At(DefaultCenterRow, DefaultCenterCol))
}

func TestMask_Errors(t *testing.T) {
	t.Parallel()

	g, err := Place(DefaultGeometryParams(), DefaultCenter())
	require.NoError(t, err)

	_, err = Mask(g, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = Mask(g, 50, 50)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
