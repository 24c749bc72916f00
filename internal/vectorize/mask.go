package vectorize

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Mask returns a rows×cols occupancy grid that is 1 everywhere except at
// the coordinates sampled by g, which are 0. It is meant for visual
// inspection of the sampling fan.
func Mask(g Geometry, rows, cols int) (*mat.Dense, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: mask needs a positive size, got %dx%d", ErrInvalidConfiguration, rows, cols)
	}
	if err := g.CheckBounds(rows, cols); err != nil {
		return nil, err
	}
	ones := make([]float64, rows*cols)
	for i := range ones {
		ones[i] = 1
	}
	m := mat.NewDense(rows, cols, ones)
	for _, line := range g {
		for _, pt := range line {
			m.Set(pt.X, pt.Y, 0)
		}
	}
	return m, nil
}
