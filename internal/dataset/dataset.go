// Package dataset assembles training sets from many recordings: it aligns
// each recording's timestamp table once, then runs default and jittered
// sampling passes over the recon volumes and stacks the results into a
// vectorize.Batch.
package dataset

import (
	"errors"
	"fmt"

	"github.com/banshee-data/articulation/internal/config"
	"github.com/banshee-data/articulation/internal/monitoring"
	"github.com/banshee-data/articulation/internal/vectorize"
)

// Recording is one recon volume with its annotation table.
type Recording struct {
	Name   string
	Volume *vectorize.Volume
	Table  vectorize.Table
}

// Options configures every vectorizer of a build.
type Options struct {
	Params    vectorize.GeometryParams
	Center    vectorize.Center
	FrameRate float64
	// SkipInvalid drops records that fail alignment or fall outside the
	// volume, logging each one, instead of failing the recording.
	SkipInvalid bool
}

// OptionsFromConfig maps a session config onto build options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Params:      cfg.GeometryParams(),
		Center:      cfg.Center(),
		FrameRate:   cfg.GetFrameRate(),
		SkipInvalid: cfg.GetSkipInvalidIntervals(),
	}
}

// Sample is one extracted label interval in (lines, samples, frames) layout.
type Sample struct {
	Recording string
	Label     string
	// Pass numbers the sampling passes over a recording; the default pass
	// is 0.
	Pass   int
	Tensor *vectorize.Tensor3
}

// Vectorizer samples one recording. Its intervals are aligned and checked
// against the volume when it is created.
type Vectorizer struct {
	name      string
	volume    *vectorize.Volume
	intervals []vectorize.Interval
	opts      Options
}

// NewVectorizer aligns rec's table against its volume.
func NewVectorizer(rec Recording, opts Options) (*Vectorizer, error) {
	if rec.Volume == nil {
		return nil, fmt.Errorf("recording %s: no volume", rec.Name)
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, fmt.Errorf("recording %s: %w", rec.Name, err)
	}

	v := &Vectorizer{name: rec.Name, volume: rec.Volume, opts: opts}
	for i, r := range rec.Table {
		iv, err := vectorize.AlignRecord(r, opts.FrameRate)
		if err == nil && iv.LastFrame > rec.Volume.Frames() {
			err = fmt.Errorf("%w: label %q frames %d..%d exceed volume of %d frames",
				vectorize.ErrOutOfRange, iv.Label, iv.FirstFrame, iv.LastFrame, rec.Volume.Frames())
		}
		if err != nil {
			if opts.SkipInvalid && !errors.Is(err, vectorize.ErrInvalidConfiguration) {
				monitoring.Logf("[dataset] %s: skipping record %d (%q): %v", rec.Name, i, r.Label, err)
				continue
			}
			return nil, fmt.Errorf("recording %s record %d: %w", rec.Name, i, err)
		}
		v.intervals = append(v.intervals, iv)
	}
	return v, nil
}

// Name returns the recording name.
func (v *Vectorizer) Name() string { return v.name }

// Intervals returns the aligned intervals in table order.
func (v *Vectorizer) Intervals() []vectorize.Interval { return v.intervals }

// Vectors draws a single geometry from s with jitter j and samples every
// interval with it.
func (v *Vectorizer) Vectors(s *vectorize.Sampler, j vectorize.Jitter, pass int) ([]Sample, error) {
	g, err := s.Sample(v.opts.Params, v.opts.Center, j)
	if err != nil {
		return nil, fmt.Errorf("recording %s: %w", v.name, err)
	}
	out := make([]Sample, 0, len(v.intervals))
	for _, iv := range v.intervals {
		t, err := vectorize.Extract(v.volume, g, iv)
		if err != nil {
			return nil, fmt.Errorf("recording %s label %q: %w", v.name, iv.Label, err)
		}
		out = append(out, Sample{Recording: v.name, Label: iv.Label, Pass: pass, Tensor: t.Rot90()})
	}
	return out, nil
}

// MaxFrames returns the longest interval of the recording.
func (v *Vectorizer) MaxFrames() int {
	longest := 0
	for _, iv := range v.intervals {
		longest = max(longest, iv.Len())
	}
	return longest
}

// Set is an ordered collection of samples.
type Set struct {
	Samples []Sample
}

// Len returns the number of samples.
func (s *Set) Len() int { return len(s.Samples) }

// Append adds o's samples after s's.
func (s *Set) Append(o *Set) {
	s.Samples = append(s.Samples, o.Samples...)
}

// Labels returns the label of every sample, parallel to Tensors.
func (s *Set) Labels() []string {
	out := make([]string, len(s.Samples))
	for i, smp := range s.Samples {
		out[i] = smp.Label
	}
	return out
}

// Tensors returns every sample tensor in order.
func (s *Set) Tensors() []*vectorize.Tensor3 {
	out := make([]*vectorize.Tensor3, len(s.Samples))
	for i, smp := range s.Samples {
		out[i] = smp.Tensor
	}
	return out
}

// Assemble stacks the set into a Batch padded to maxLength. A maxLength of
// 0 pads to the longest sample in the set.
func (s *Set) Assemble(maxLength int) (*vectorize.Batch, error) {
	tensors := s.Tensors()
	if maxLength == 0 {
		maxLength = vectorize.MaxFrames(tensors)
	}
	return vectorize.Assemble(tensors, maxLength)
}
