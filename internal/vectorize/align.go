package vectorize

import (
	"fmt"
	"math"
	"time"

	"github.com/banshee-data/articulation/internal/timeutil"
)

// ReferenceFrameRate is the recon frame rate of the reference study, in
// frames per second.
const ReferenceFrameRate = 83.28

// Record is one annotated unit in canonical form.
type Record struct {
	Label string
	// Index is the annotator's running number for the label.
	Index int
	Start time.Duration
	End   time.Duration
}

// Table is an ordered sequence of records.
type Table []Record

// ParseRecordText builds a Record from the textual start and end times of a
// timestamp table row. Only unparseable text fails; the time order is left
// to Validate.
func ParseRecordText(label string, index int, start, end string) (Record, error) {
	s, err := timeutil.ParseElapsed(start)
	if err != nil {
		return Record{}, fmt.Errorf("label %q start: %w", label, err)
	}
	e, err := timeutil.ParseElapsed(end)
	if err != nil {
		return Record{}, fmt.Errorf("label %q end: %w", label, err)
	}
	return Record{Label: label, Index: index, Start: s, End: e}, nil
}

// ParseRecord is ParseRecordText followed by Validate.
func ParseRecord(label string, index int, start, end string) (Record, error) {
	r, err := ParseRecordText(label, index, start, end)
	if err != nil {
		return Record{}, err
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Validate checks start < end.
func (r Record) Validate() error {
	if r.Start < 0 {
		return fmt.Errorf("%w: label %q starts before zero (%v)", ErrInvalidTimestamp, r.Label, r.Start)
	}
	if r.End <= r.Start {
		return fmt.Errorf("%w: label %q ends at %v, not after start %v", ErrInvalidTimestamp, r.Label, r.End, r.Start)
	}
	return nil
}

// Interval is a labeled half-open frame range [FirstFrame, LastFrame).
type Interval struct {
	Label      string
	Index      int
	FirstFrame int
	LastFrame  int
}

// Len returns the number of frames in the interval.
func (iv Interval) Len() int {
	return iv.LastFrame - iv.FirstFrame
}

// Validate checks the interval is non-empty and non-negative.
func (iv Interval) Validate() error {
	if iv.FirstFrame < 0 {
		return fmt.Errorf("%w: label %q first frame %d is negative", ErrOutOfRange, iv.Label, iv.FirstFrame)
	}
	if iv.LastFrame <= iv.FirstFrame {
		return fmt.Errorf("%w: label %q covers no frames (%d..%d)", ErrInvalidTimestamp, iv.Label, iv.FirstFrame, iv.LastFrame)
	}
	return nil
}

func checkFrameRate(frameRate float64) error {
	if !(frameRate > 0) || math.IsInf(frameRate, 0) {
		return fmt.Errorf("%w: frame rate must be positive and finite, got %v", ErrInvalidConfiguration, frameRate)
	}
	return nil
}

// FrameIndex returns floor(elapsed / frameDuration) with frameDuration =
// 1/frameRate.
func FrameIndex(elapsed time.Duration, frameRate float64) int {
	frameDuration := 1 / frameRate
	return int(math.Floor(elapsed.Seconds() / frameDuration))
}

// AlignRecord maps r onto frame indices. A record that is inverted or
// shorter than one frame fails with ErrInvalidTimestamp.
func AlignRecord(r Record, frameRate float64) (Interval, error) {
	if err := checkFrameRate(frameRate); err != nil {
		return Interval{}, err
	}
	if err := r.Validate(); err != nil {
		return Interval{}, err
	}
	iv := Interval{
		Label:      r.Label,
		Index:      r.Index,
		FirstFrame: FrameIndex(r.Start, frameRate),
		LastFrame:  FrameIndex(r.End, frameRate),
	}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Align maps every record of t onto frame indices, stopping at the first
// invalid record. Callers that want to skip bad rows use AlignRecord.
func Align(t Table, frameRate float64) ([]Interval, error) {
	out := make([]Interval, 0, len(t))
	for i, r := range t {
		iv, err := AlignRecord(r, frameRate)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, iv)
	}
	return out, nil
}
