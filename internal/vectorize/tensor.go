package vectorize

// Tensor3 is a dense row-major 3-D array of float64.
type Tensor3 struct {
	Shape [3]int
	Data  []float64
}

// NewTensor3 allocates a zeroed a×b×c tensor.
func NewTensor3(a, b, c int) *Tensor3 {
	return &Tensor3{Shape: [3]int{a, b, c}, Data: make([]float64, a*b*c)}
}

func (t *Tensor3) index(i, j, k int) int {
	return (i*t.Shape[1]+j)*t.Shape[2] + k
}

// At returns element (i, j, k).
func (t *Tensor3) At(i, j, k int) float64 {
	return t.Data[t.index(i, j, k)]
}

// Set stores v at (i, j, k).
func (t *Tensor3) Set(i, j, k int, v float64) {
	t.Data[t.index(i, j, k)] = v
}

// Rot90 rotates every (axis 1, axis 2) plane 90° counter-clockwise:
// out[i][k][j] = t[i][j][n-1-k] where n is the length of axis 2. Applied to
// an extracted (lines, frames, samples) tensor this yields the
// (lines, samples, frames) layout the batch assembler expects, with the
// sample axis running from the far end of each line back to the centre.
func (t *Tensor3) Rot90() *Tensor3 {
	a, b, c := t.Shape[0], t.Shape[1], t.Shape[2]
	out := NewTensor3(a, c, b)
	for i := 0; i < a; i++ {
		for j := 0; j < b; j++ {
			for k := 0; k < c; k++ {
				out.Set(i, k, j, t.At(i, j, c-1-k))
			}
		}
	}
	return out
}
