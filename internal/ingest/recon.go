package ingest

import (
	"errors"
	"fmt"

	"github.com/banshee-data/articulation/internal/vectorize"
)

// ReconDataset is the dataset holding the (frames, rows, cols) recon stack
// inside each HDF5 file.
const ReconDataset = "recon"

// ErrNoHDF5 is returned by ReadRecon in builds without the hdf5 tag.
var ErrNoHDF5 = errors.New("hdf5 support not compiled in (rebuild with -tags hdf5)")

// VolumeReader loads an oriented recon volume from path.
type VolumeReader func(path string) (*vectorize.Volume, error)

// ReadRecon decodes the recon dataset at path and applies the orientation
// fix so the volume matches annotation coordinates.
func ReadRecon(path string) (*vectorize.Volume, error) {
	raw, err := readReconRaw(path)
	if err != nil {
		return nil, err
	}
	v, err := raw.Orient()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
