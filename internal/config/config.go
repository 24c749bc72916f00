package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/articulation/internal/vectorize"
)

// DefaultConfigPath is the path to the canonical vectorizer defaults file.
const DefaultConfigPath = "config/vectorizer.defaults.json"

// Config holds the tunable parameters of a vectorization session. Every
// field is optional; the Get* accessors fall back to the reference values
// for anything the JSON file leaves out.
type Config struct {
	// Frame alignment
	FrameRate *float64 `json:"frame_rate,omitempty"`

	// Sampling geometry
	LineCount             *int     `json:"line_count,omitempty"`
	LineLength            *int     `json:"line_length,omitempty"`
	SpanDegrees           *float64 `json:"span_degrees,omitempty"`
	RotationOffsetDegrees *float64 `json:"rotation_offset_degrees,omitempty"`
	CenterRow             *int     `json:"center_row,omitempty"`
	CenterCol             *int     `json:"center_col,omitempty"`
	ImageSize             *int     `json:"image_size,omitempty"`

	// Augmentation
	MaxOffset          *float64 `json:"max_offset,omitempty"`
	MaxRotationDegrees *float64 `json:"max_rotation_degrees,omitempty"`
	Randomizations     *int     `json:"randomizations,omitempty"`
	Seed               *uint64  `json:"seed,omitempty"`
	Workers            *int     `json:"workers,omitempty"`

	// SkipInvalidIntervals drops malformed or out-of-range annotation rows
	// (with a log line) instead of failing the whole recording.
	SkipInvalidIntervals *bool `json:"skip_invalid_intervals,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrUint64(v uint64) *uint64    { return &v }
func ptrBool(v bool) *bool          { return &v }

// EmptyConfig returns a Config with every field unset.
func EmptyConfig() *Config {
	return &Config{}
}

// DefaultConfig returns a Config with every field set to its reference value.
func DefaultConfig() *Config {
	c := EmptyConfig()
	return &Config{
		FrameRate:             ptrFloat64(c.GetFrameRate()),
		LineCount:             ptrInt(c.GetLineCount()),
		LineLength:            ptrInt(c.GetLineLength()),
		SpanDegrees:           ptrFloat64(c.GetSpanDegrees()),
		RotationOffsetDegrees: ptrFloat64(c.GetRotationOffsetDegrees()),
		CenterRow:             ptrInt(c.GetCenterRow()),
		CenterCol:             ptrInt(c.GetCenterCol()),
		ImageSize:             ptrInt(c.GetImageSize()),
		MaxOffset:             ptrFloat64(c.GetMaxOffset()),
		MaxRotationDegrees:    ptrFloat64(c.GetMaxRotationDegrees()),
		Randomizations:        ptrInt(c.GetRandomizations()),
		Seed:                  ptrUint64(c.GetSeed()),
		Workers:               ptrInt(c.GetWorkers()),
		SkipInvalidIntervals:  ptrBool(c.GetSkipInvalidIntervals()),
	}
}

// LoadConfig loads a Config from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted
// from the file keep their defaults, so partial configs are safe.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching parent
// directories so it works from any package directory. Panics if the file
// cannot be loaded; intended for test setup.
func MustLoadDefaultConfig() *Config {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values describe a usable session.
// The geometry and jitter are checked by the same routines that consume
// them, and the unperturbed fan must lie on the image.
func (c *Config) Validate() error {
	if c.FrameRate != nil && (!(*c.FrameRate > 0) || math.IsInf(*c.FrameRate, 0)) {
		return fmt.Errorf("frame_rate must be positive and finite, got %f", *c.FrameRate)
	}
	if err := c.GeometryParams().Validate(); err != nil {
		return err
	}
	if err := c.Jitter().Validate(); err != nil {
		return err
	}
	if c.ImageSize != nil && *c.ImageSize < 1 {
		return fmt.Errorf("image_size must be positive, got %d", *c.ImageSize)
	}
	center := c.Center()
	if size := c.GetImageSize(); center.Row < 0 || center.Row >= size || center.Col < 0 || center.Col >= size {
		return fmt.Errorf("center (%d, %d) outside %dx%d image", center.Row, center.Col, size, size)
	}
	g, err := vectorize.Place(c.GeometryParams(), center)
	if err != nil {
		return err
	}
	if err := g.CheckBounds(c.GetImageSize(), c.GetImageSize()); err != nil {
		return fmt.Errorf("sampling fan at (%d, %d): %w", center.Row, center.Col, err)
	}
	if c.Randomizations != nil && *c.Randomizations < 0 {
		return fmt.Errorf("randomizations must be non-negative, got %d", *c.Randomizations)
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}
	return nil
}

// GetFrameRate returns the frame_rate value or the default.
func (c *Config) GetFrameRate() float64 {
	if c.FrameRate == nil {
		return vectorize.ReferenceFrameRate
	}
	return *c.FrameRate
}

// GetLineCount returns the line_count value or the default.
func (c *Config) GetLineCount() int {
	if c.LineCount == nil {
		return vectorize.DefaultLineCount
	}
	return *c.LineCount
}

// GetLineLength returns the line_length value or the default.
func (c *Config) GetLineLength() int {
	if c.LineLength == nil {
		return vectorize.DefaultLineLength
	}
	return *c.LineLength
}

// GetSpanDegrees returns the span_degrees value or the default.
func (c *Config) GetSpanDegrees() float64 {
	if c.SpanDegrees == nil {
		return vectorize.DefaultSpanDegrees
	}
	return *c.SpanDegrees
}

// GetRotationOffsetDegrees returns the rotation_offset_degrees value or the default.
func (c *Config) GetRotationOffsetDegrees() float64 {
	if c.RotationOffsetDegrees == nil {
		return vectorize.DefaultRotationOffsetDegrees
	}
	return *c.RotationOffsetDegrees
}

// GetCenterRow returns the center_row value or the default.
func (c *Config) GetCenterRow() int {
	if c.CenterRow == nil {
		return vectorize.DefaultCenterRow
	}
	return *c.CenterRow
}

// GetCenterCol returns the center_col value or the default.
func (c *Config) GetCenterCol() int {
	if c.CenterCol == nil {
		return vectorize.DefaultCenterCol
	}
	return *c.CenterCol
}

// GetImageSize returns the image_size value or the default.
func (c *Config) GetImageSize() int {
	if c.ImageSize == nil {
		return vectorize.DefaultImageSize
	}
	return *c.ImageSize
}

// GetMaxOffset returns the max_offset value or the default.
func (c *Config) GetMaxOffset() float64 {
	if c.MaxOffset == nil {
		return vectorize.DefaultMaxOffset
	}
	return *c.MaxOffset
}

// GetMaxRotationDegrees returns the max_rotation_degrees value or the default.
func (c *Config) GetMaxRotationDegrees() float64 {
	if c.MaxRotationDegrees == nil {
		return vectorize.DefaultMaxRotationDegrees
	}
	return *c.MaxRotationDegrees
}

// GetRandomizations returns the randomizations value or the default.
func (c *Config) GetRandomizations() int {
	if c.Randomizations == nil {
		return 10
	}
	return *c.Randomizations
}

// GetSeed returns the seed value or the default.
func (c *Config) GetSeed() uint64 {
	if c.Seed == nil {
		return 1
	}
	return *c.Seed
}

// GetWorkers returns the workers value or the default.
func (c *Config) GetWorkers() int {
	if c.Workers == nil {
		return 4
	}
	return *c.Workers
}

// GetSkipInvalidIntervals returns the skip_invalid_intervals value or the default.
func (c *Config) GetSkipInvalidIntervals() bool {
	if c.SkipInvalidIntervals == nil {
		return true
	}
	return *c.SkipInvalidIntervals
}

// GeometryParams returns the unjittered sampling geometry parameters.
func (c *Config) GeometryParams() vectorize.GeometryParams {
	return vectorize.GeometryParams{
		LineCount:             c.GetLineCount(),
		LineLength:            c.GetLineLength(),
		SpanDegrees:           c.GetSpanDegrees(),
		RotationOffsetDegrees: c.GetRotationOffsetDegrees(),
	}
}

// Center returns the base anchor of the sampling fan.
func (c *Config) Center() vectorize.Center {
	return vectorize.Center{Row: c.GetCenterRow(), Col: c.GetCenterCol()}
}

// Jitter returns the augmentation limits.
func (c *Config) Jitter() vectorize.Jitter {
	return vectorize.Jitter{MaxRotationDegrees: c.GetMaxRotationDegrees(), MaxOffset: c.GetMaxOffset()}
}
