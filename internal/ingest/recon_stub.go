//go:build !hdf5
// +build !hdf5

package ingest

import (
	"fmt"

	"github.com/banshee-data/articulation/internal/vectorize"
)

func readReconRaw(path string) (*vectorize.Volume, error) {
	return nil, fmt.Errorf("%s: %w", path, ErrNoHDF5)
}
