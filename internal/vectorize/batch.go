package vectorize

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Batch is a stack of (lines, samples, frames) tensors zero-padded along
// the frame axis to MaxLength. Data is laid out as
// (Size, Lines, Samples, MaxLength) row-major, which is also the
// (Size, Lines, Samples*MaxLength) flattened view consumers train on.
type Batch struct {
	Size      int
	Lines     int
	Samples   int
	MaxLength int
	// FrameCounts holds each row's unpadded frame count.
	FrameCounts []int
	Data        []float64
}

// MaxFrames returns the longest frame axis (axis 2) among tensors.
func MaxFrames(tensors []*Tensor3) int {
	longest := 0
	for _, t := range tensors {
		longest = max(longest, t.Shape[2])
	}
	return longest
}

// Assemble stacks tensors in (lines, samples, frames) layout into a Batch.
// Each tensor is copied left-aligned; slots past its frame count stay zero.
// All tensors must share lines and samples, and none may be longer than
// maxLength.
func Assemble(tensors []*Tensor3, maxLength int) (*Batch, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("%w: no tensors to assemble", ErrShape)
	}
	if maxLength < 1 {
		return nil, fmt.Errorf("%w: max length must be positive, got %d", ErrShape, maxLength)
	}
	lines, samples := tensors[0].Shape[0], tensors[0].Shape[1]
	if lines < 1 || samples < 1 {
		return nil, fmt.Errorf("%w: tensors need at least one line and sample, got %dx%d", ErrShape, lines, samples)
	}
	for i, t := range tensors {
		if t.Shape[0] != lines || t.Shape[1] != samples {
			return nil, fmt.Errorf("%w: tensor %d is %dx%d, expected %dx%d",
				ErrShape, i, t.Shape[0], t.Shape[1], lines, samples)
		}
		if t.Shape[2] > maxLength {
			return nil, fmt.Errorf("%w: tensor %d has %d frames, max length is %d",
				ErrShape, i, t.Shape[2], maxLength)
		}
	}

	b := &Batch{
		Size:        len(tensors),
		Lines:       lines,
		Samples:     samples,
		MaxLength:   maxLength,
		FrameCounts: make([]int, len(tensors)),
		Data:        make([]float64, len(tensors)*lines*samples*maxLength),
	}
	for i, t := range tensors {
		frames := t.Shape[2]
		b.FrameCounts[i] = frames
		for l := 0; l < lines; l++ {
			for s := 0; s < samples; s++ {
				src := t.Data[(l*samples+s)*frames : (l*samples+s+1)*frames]
				copy(b.Data[b.offset(i, l, s, 0):], src)
			}
		}
	}
	return b, nil
}

func (b *Batch) offset(i, l, s, f int) int {
	return ((i*b.Lines+l)*b.Samples+s)*b.MaxLength + f
}

// Shape returns the flattened (batch, lines, samples*max_length) shape.
func (b *Batch) Shape() [3]int {
	return [3]int{b.Size, b.Lines, b.Samples * b.MaxLength}
}

// Shape4 returns the padded (batch, lines, samples, max_length) shape.
func (b *Batch) Shape4() [4]int {
	return [4]int{b.Size, b.Lines, b.Samples, b.MaxLength}
}

// At returns the padded value at (row, line, sample, frame).
func (b *Batch) At(i, l, s, f int) float64 {
	return b.Data[b.offset(i, l, s, f)]
}

// Row returns row i's flattened features without copying.
func (b *Batch) Row(i int) []float64 {
	n := b.Lines * b.Samples * b.MaxLength
	return b.Data[i*n : (i+1)*n]
}

// Matrix returns row i as a Lines × (Samples*MaxLength) matrix sharing the
// batch's storage.
func (b *Batch) Matrix(i int) *mat.Dense {
	return mat.NewDense(b.Lines, b.Samples*b.MaxLength, b.Row(i))
}

// Unpad copies row i back to its original (lines, samples, frames) tensor.
func (b *Batch) Unpad(i int) *Tensor3 {
	frames := b.FrameCounts[i]
	out := NewTensor3(b.Lines, b.Samples, frames)
	for l := 0; l < b.Lines; l++ {
		for s := 0; s < b.Samples; s++ {
			start := b.offset(i, l, s, 0)
			copy(out.Data[(l*b.Samples+s)*frames:], b.Data[start:start+frames])
		}
	}
	return out
}

// FromMatrices rebuilds a Batch from per-row Lines × (Samples*MaxLength)
// matrices, e.g. after loading a stored dataset.
func FromMatrices(rows []*mat.Dense, samples, maxLength int, frameCounts []int) (*Batch, error) {
	if len(rows) != len(frameCounts) {
		return nil, fmt.Errorf("%w: %d rows but %d frame counts", ErrShape, len(rows), len(frameCounts))
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrShape)
	}
	if samples < 1 || maxLength < 1 {
		return nil, fmt.Errorf("%w: samples and max length must be positive", ErrShape)
	}
	lines, width := rows[0].Dims()
	if width != samples*maxLength {
		return nil, fmt.Errorf("%w: row width %d != %d samples x %d frames", ErrShape, width, samples, maxLength)
	}
	b := &Batch{
		Size:        len(rows),
		Lines:       lines,
		Samples:     samples,
		MaxLength:   maxLength,
		FrameCounts: append([]int(nil), frameCounts...),
		Data:        make([]float64, len(rows)*lines*width),
	}
	for i, m := range rows {
		r, c := m.Dims()
		if r != lines || c != width {
			return nil, fmt.Errorf("%w: row %d is %dx%d, expected %dx%d", ErrShape, i, r, c, lines, width)
		}
		if frameCounts[i] < 0 || frameCounts[i] > maxLength {
			return nil, fmt.Errorf("%w: row %d frame count %d outside 0..%d", ErrShape, i, frameCounts[i], maxLength)
		}
		b.Matrix(i).Copy(m)
	}
	return b, nil
}
