package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/banshee-data/articulation/internal/security"
)

// DefaultBase is the data folder of the reference subject.
const DefaultBase = "data/sub001"

// MapperEntry pairs a recording's recon file with its timestamp table.
type MapperEntry struct {
	H5  string `csv:"h5"`
	CSV string `csv:"csv"`
}

// Name returns the recording name: the recon file name without extension.
func (e MapperEntry) Name() string {
	base := filepath.Base(e.H5)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadMapper reads a comma-separated mapper file with h5 and csv columns.
func ReadMapper(path string) ([]MapperEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapper: %w", err)
	}
	defer f.Close()

	var entries []MapperEntry
	if err := gocsv.UnmarshalFile(f, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse mapper %s: %w", path, err)
	}
	for i, e := range entries {
		if strings.TrimSpace(e.H5) == "" || strings.TrimSpace(e.CSV) == "" {
			return nil, fmt.Errorf("mapper %s row %d: h5 and csv must both be set", path, i+1)
		}
	}
	return entries, nil
}

// Layout resolves input files under a subject's data folder:
//
//	<base>/timestamps/mapper.csv
//	<base>/timestamps/<csv or xlsx>
//	<base>/2drt/recon/<h5>
type Layout struct {
	Base string
}

// MapperPath returns the default mapper location.
func (l Layout) MapperPath() string {
	return filepath.Join(l.Base, "timestamps", "mapper.csv")
}

// TimestampPath resolves a timestamp table named in the mapper. Names
// that escape the timestamps folder are rejected.
func (l Layout) TimestampPath(name string) (string, error) {
	return security.ResolveWithin(filepath.Join(l.Base, "timestamps"), name)
}

// ReconPath resolves a recon file named in the mapper. Names that escape
// the recon folder are rejected.
func (l Layout) ReconPath(name string) (string, error) {
	return security.ResolveWithin(filepath.Join(l.Base, "2drt", "recon"), name)
}
