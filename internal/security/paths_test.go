package security

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidatePathWithinDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	safeDir := filepath.Join(tmpDir, "safe")
	unsafeDir := filepath.Join(tmpDir, "unsafe")
	if err := os.MkdirAll(safeDir, 0755); err != nil {
		t.Fatalf("Failed to create safe directory: %v", err)
	}
	if err := os.MkdirAll(unsafeDir, 0755); err != nil {
		t.Fatalf("Failed to create unsafe directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(unsafeDir, "rec.h5"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create unsafe file: %v", err)
	}

	// A symlink inside the safe directory pointing out of it.
	symlinkPath := filepath.Join(safeDir, "evil-symlink")
	if err := os.Symlink(unsafeDir, symlinkPath); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	tests := []struct {
		name      string
		filePath  string
		dir       string
		wantError bool
	}{
		{"file in directory", filepath.Join(safeDir, "rec.h5"), safeDir, false},
		{"nested file", filepath.Join(safeDir, "2drt", "recon", "rec.h5"), safeDir, false},
		{"directory itself", safeDir, safeDir, false},
		{"dot dot", filepath.Join(safeDir, "..", "unsafe", "rec.h5"), safeDir, true},
		{"absolute outside", "/etc/passwd", safeDir, true},
		{"through symlink", filepath.Join(symlinkPath, "rec.h5"), safeDir, true},
		{"symlink itself", symlinkPath, safeDir, true},
		{"missing tail through symlink", filepath.Join(symlinkPath, "new", "rec.h5"), safeDir, true},
		{"missing base directory", filepath.Join(tmpDir, "absent", "a.csv"), filepath.Join(tmpDir, "absent"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathWithinDirectory(tt.filePath, tt.dir)
			if tt.wantError {
				if !errors.Is(err, ErrPathTraversal) {
					t.Errorf("ValidatePathWithinDirectory(%q, %q) = %v, want ErrPathTraversal", tt.filePath, tt.dir, err)
				}
			} else if err != nil {
				t.Errorf("ValidatePathWithinDirectory(%q, %q) unexpected error: %v", tt.filePath, tt.dir, err)
			}
		})
	}
}

func TestResolveWithin(t *testing.T) {
	dir := t.TempDir()

	got, err := ResolveWithin(dir, "rec_01.csv")
	if err != nil {
		t.Fatalf("ResolveWithin: %v", err)
	}
	if want := filepath.Join(dir, "rec_01.csv"); got != want {
		t.Errorf("ResolveWithin = %q, want %q", got, want)
	}

	for _, name := range []string{"../rec_01.csv", "a/../../b.csv", "/etc/passwd"} {
		if _, err := ResolveWithin(dir, name); !errors.Is(err, ErrPathTraversal) {
			t.Errorf("ResolveWithin(%q) = %v, want ErrPathTraversal", name, err)
		}
	}
}
