package vectorize

import (
	"errors"

	"github.com/banshee-data/articulation/internal/timeutil"
)

var (
	// ErrInvalidConfiguration reports degenerate geometry, jitter or
	// frame-rate parameters.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidTimestamp reports an unparseable, inverted or zero-length
	// annotation interval.
	ErrInvalidTimestamp = timeutil.ErrInvalidTimestamp

	// ErrOutOfRange reports a frame interval beyond the volume or a sampling
	// coordinate outside the image.
	ErrOutOfRange = errors.New("out of range")

	// ErrShape reports tensors that cannot be stacked into one batch.
	ErrShape = errors.New("shape mismatch")
)
