//go:build hdf5
// +build hdf5

package ingest

import (
	"fmt"

	"gonum.org/v1/hdf5"

	"github.com/banshee-data/articulation/internal/vectorize"
)

// readReconRaw reads the recon dataset as float32, converting on read if
// the file stores another numeric type.
func readReconRaw(path string) (*vectorize.Volume, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("failed to open recon %s: %w", path, err)
	}
	defer f.Close()

	dset, err := f.OpenDataset(ReconDataset)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open dataset %q: %w", path, ReconDataset, err)
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read dataset shape: %w", path, err)
	}
	if len(dims) != 3 {
		return nil, fmt.Errorf("%w: %s dataset %q has %d dimensions, want 3", vectorize.ErrShape, path, ReconDataset, len(dims))
	}

	frames, rows, cols := int(dims[0]), int(dims[1]), int(dims[2])
	data := make([]float32, frames*rows*cols)
	if err := dset.Read(&data); err != nil {
		return nil, fmt.Errorf("%s: failed to read dataset %q: %w", path, ReconDataset, err)
	}
	return vectorize.NewVolume(frames, rows, cols, data)
}
