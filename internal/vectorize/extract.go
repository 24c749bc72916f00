package vectorize

import "fmt"

// Extract samples v along every line of the absolute geometry g for each
// frame of iv. The result has shape (lines, iv.Len(), samples per line):
// out[l][f][s] = v.At(iv.FirstFrame+f, g[l][s].X, g[l][s].Y).
//
// The volume must be oriented, the interval must lie within the volume and
// every point of g within the image; otherwise nothing is sampled.
func Extract(v *Volume, g Geometry, iv Interval) (*Tensor3, error) {
	if !v.Oriented() {
		return nil, fmt.Errorf("%w: volume has not been oriented", ErrInvalidConfiguration)
	}
	if len(g) == 0 {
		return nil, fmt.Errorf("%w: geometry has no lines", ErrInvalidConfiguration)
	}
	samples, err := g.LineLength()
	if err != nil {
		return nil, err
	}
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	if iv.LastFrame > v.Frames() {
		return nil, fmt.Errorf("%w: label %q frames %d..%d exceed volume of %d frames",
			ErrOutOfRange, iv.Label, iv.FirstFrame, iv.LastFrame, v.Frames())
	}
	if err := g.CheckBounds(v.Rows(), v.Cols()); err != nil {
		return nil, err
	}

	out := NewTensor3(len(g), iv.Len(), samples)
	for l, line := range g {
		for f := 0; f < iv.Len(); f++ {
			frame := v.Frame(iv.FirstFrame + f)
			for s, pt := range line {
				out.Set(l, f, s, float64(frame[pt.X*v.Cols()+pt.Y]))
			}
		}
	}
	return out, nil
}
