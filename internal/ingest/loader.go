package ingest

import (
	"fmt"

	"github.com/banshee-data/articulation/internal/dataset"
	"github.com/banshee-data/articulation/internal/monitoring"
)

// Loader turns mapper entries into recordings ready for dataset assembly.
type Loader struct {
	Layout Layout
	// ReadVolume loads the recon file of each entry. Defaults to ReadRecon.
	ReadVolume VolumeReader
}

// NewLoader returns a Loader reading HDF5 recon files under base.
func NewLoader(base string) *Loader {
	return &Loader{Layout: Layout{Base: base}, ReadVolume: ReadRecon}
}

// LoadMapper reads the mapper at path, or at the layout's default location
// when path is empty, and loads every entry.
func (l *Loader) LoadMapper(path string) ([]dataset.Recording, error) {
	if path == "" {
		path = l.Layout.MapperPath()
	}
	entries, err := ReadMapper(path)
	if err != nil {
		return nil, err
	}
	return l.Load(entries)
}

// Load reads the volume and timestamp table of every entry, in order.
func (l *Loader) Load(entries []MapperEntry) ([]dataset.Recording, error) {
	read := l.ReadVolume
	if read == nil {
		read = ReadRecon
	}

	recs := make([]dataset.Recording, 0, len(entries))
	for _, e := range entries {
		tsPath, err := l.Layout.TimestampPath(e.CSV)
		if err != nil {
			return nil, fmt.Errorf("recording %s: %w", e.Name(), err)
		}
		reconPath, err := l.Layout.ReconPath(e.H5)
		if err != nil {
			return nil, fmt.Errorf("recording %s: %w", e.Name(), err)
		}

		table, err := ReadTimestamps(tsPath)
		if err != nil {
			return nil, fmt.Errorf("recording %s: %w", e.Name(), err)
		}
		vol, err := read(reconPath)
		if err != nil {
			return nil, fmt.Errorf("recording %s: %w", e.Name(), err)
		}
		monitoring.Logf("[ingest] %s: %d frames of %dx%d, %d records",
			e.Name(), vol.Frames(), vol.Rows(), vol.Cols(), len(table))
		recs = append(recs, dataset.Recording{Name: e.Name(), Volume: vol, Table: table})
	}
	return recs, nil
}
