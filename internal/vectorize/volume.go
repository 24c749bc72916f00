package vectorize

import "fmt"

// DefaultImageSize is the edge length of the reference 84×84 recon frames.
const DefaultImageSize = 84

// Volume is a read-only stack of frames indexed by (frame, row, col).
//
// Decoded recon data needs a one-off orientation fix before its rows and
// columns match the annotation coordinate frame; Orient applies it and
// marks the volume so it cannot be applied twice. Extract refuses volumes
// that have not been oriented.
type Volume struct {
	frames, rows, cols int
	data               []float32
	oriented           bool
}

// NewVolume wraps decoded recon data as stored on disk, before orientation.
// data is laid out frame-major then row-major and is not copied.
func NewVolume(frames, rows, cols int, data []float32) (*Volume, error) {
	if frames < 0 || rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative volume dimensions %dx%dx%d", ErrShape, frames, rows, cols)
	}
	if len(data) != frames*rows*cols {
		return nil, fmt.Errorf("%w: volume %dx%dx%d needs %d values, got %d",
			ErrShape, frames, rows, cols, frames*rows*cols, len(data))
	}
	return &Volume{frames: frames, rows: rows, cols: cols, data: data}, nil
}

// NewCanonicalVolume wraps data that is already in the annotation
// orientation (synthetic data, or volumes re-read from an oriented cache).
func NewCanonicalVolume(frames, rows, cols int, data []float32) (*Volume, error) {
	v, err := NewVolume(frames, rows, cols, data)
	if err != nil {
		return nil, err
	}
	v.oriented = true
	return v, nil
}

// Frames returns the number of frames.
func (v *Volume) Frames() int { return v.frames }

// Rows returns the number of image rows.
func (v *Volume) Rows() int { return v.rows }

// Cols returns the number of image columns.
func (v *Volume) Cols() int { return v.cols }

// Oriented reports whether the orientation fix has been applied.
func (v *Volume) Oriented() bool { return v.oriented }

// At returns the intensity at (frame, row, col). It panics on
// out-of-range indices like a slice access.
func (v *Volume) At(frame, row, col int) float32 {
	return v.data[(frame*v.rows+row)*v.cols+col]
}

// Frame returns the row-major pixels of one frame without copying.
func (v *Volume) Frame(frame int) []float32 {
	n := v.rows * v.cols
	return v.data[frame*n : (frame+1)*n]
}

// Orient applies the recon orientation fix: rotate each frame 90°
// clockwise, then flip it horizontally. The composition maps
// out[f][i][j] = in[f][j][i], so rows and columns swap. The input volume is
// left untouched.
func (v *Volume) Orient() (*Volume, error) {
	if v.oriented {
		return nil, fmt.Errorf("%w: volume is already oriented", ErrInvalidConfiguration)
	}
	out := make([]float32, len(v.data))
	for f := 0; f < v.frames; f++ {
		src := v.Frame(f)
		dst := out[f*v.rows*v.cols : (f+1)*v.rows*v.cols]
		for i := 0; i < v.cols; i++ {
			for j := 0; j < v.rows; j++ {
				dst[i*v.rows+j] = src[j*v.cols+i]
			}
		}
	}
	return &Volume{frames: v.frames, rows: v.cols, cols: v.rows, data: out, oriented: true}, nil
}
