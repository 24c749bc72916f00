//go:build !hdf5
// +build !hdf5

package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadRecon_StubReportsMissingSupport(t *testing.T) {
	v, err := ReadRecon("anything.h5")
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrNoHDF5)

	l := NewLoader(t.TempDir())
	assert.NotNil(t, l.ReadVolume)
}
