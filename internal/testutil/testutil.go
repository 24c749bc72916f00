// Package testutil provides shared test helpers and synthetic fixtures for
// recon volumes and timestamp tables.
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorIs fails the test unless err wraps target.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

// RampValue is the intensity RampData stores at (frame, row, col). Every
// voxel of a volume up to 999 frames of 100×100 gets a distinct value that
// float32 represents exactly.
func RampValue(frame, row, col int) float64 {
	return float64(frame*10000 + row*100 + col)
}

// RampData returns frame-major, row-major voxel data filled with RampValue.
func RampData(frames, rows, cols int) []float32 {
	data := make([]float32, 0, frames*rows*cols)
	for f := 0; f < frames; f++ {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				data = append(data, float32(RampValue(f, r, c)))
			}
		}
	}
	return data
}

// TimestampCSV is a ';'-separated timestamp table in the annotation tool's
// export format, mixing full, partial and raw-seconds times.
const TimestampCSV = `Buchstabe;Buchstabennr;Timestamp start;Timestamp ende
a;1;00:00:01.000;00:00:02.000
b;2;00:02.5000;00:03.0000
c;3;3.25;3.75
`

// WriteFile writes content to name inside a fresh temporary directory and
// returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
