package dataset

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/articulation/internal/vectorize"
)

// Builder runs sampling passes over a fixed list of recordings.
//
// Every recording owns its own sampler stream, derived from (seed,
// recording index), so Randomized and RandomizedParallel return identical
// sets for the same seed.
type Builder struct {
	vectorizers []*Vectorizer
	opts        Options
}

// NewBuilder creates a vectorizer per recording.
func NewBuilder(recs []Recording, opts Options) (*Builder, error) {
	b := &Builder{opts: opts}
	for _, rec := range recs {
		v, err := NewVectorizer(rec, opts)
		if err != nil {
			return nil, err
		}
		b.vectorizers = append(b.vectorizers, v)
	}
	return b, nil
}

// Vectorizers returns the per-recording vectorizers in input order.
func (b *Builder) Vectorizers() []*Vectorizer { return b.vectorizers }

// DefaultGeometry returns the unjittered absolute geometry shared by all
// default passes.
func (b *Builder) DefaultGeometry() (vectorize.Geometry, error) {
	return vectorize.Place(b.opts.Params, b.opts.Center)
}

// Default samples every recording once with the unjittered geometry.
func (b *Builder) Default() (*Set, error) {
	set := &Set{}
	for _, v := range b.vectorizers {
		samples, err := v.Vectors(vectorize.NewSampler(0), vectorize.Jitter{}, 0)
		if err != nil {
			return nil, err
		}
		set.Samples = append(set.Samples, samples...)
	}
	return set, nil
}

// Randomized runs n jittered passes over every recording. Passes are
// numbered from 1 so they never collide with the default pass.
func (b *Builder) Randomized(seed uint64, n int, j vectorize.Jitter) (*Set, error) {
	set := &Set{}
	for idx := range b.vectorizers {
		samples, err := b.randomizeOne(context.Background(), idx, seed, n, j)
		if err != nil {
			return nil, err
		}
		set.Samples = append(set.Samples, samples...)
	}
	return set, nil
}

// RandomizedParallel is Randomized spread over at most workers goroutines,
// one recording per task. The result does not depend on scheduling.
func (b *Builder) RandomizedParallel(ctx context.Context, seed uint64, n int, j vectorize.Jitter, workers int) (*Set, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: workers must be at least 1, got %d", vectorize.ErrInvalidConfiguration, workers)
	}
	results := make([][]Sample, len(b.vectorizers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for idx := range b.vectorizers {
		g.Go(func() error {
			samples, err := b.randomizeOne(ctx, idx, seed, n, j)
			if err != nil {
				return err
			}
			results[idx] = samples
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := &Set{}
	for _, samples := range results {
		set.Samples = append(set.Samples, samples...)
	}
	return set, nil
}

func (b *Builder) randomizeOne(ctx context.Context, idx int, seed uint64, n int, j vectorize.Jitter) ([]Sample, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: randomizations must be non-negative, got %d", vectorize.ErrInvalidConfiguration, n)
	}
	v := b.vectorizers[idx]
	s := vectorize.NewSamplerStream(seed, uint64(idx))
	var out []Sample
	for pass := 1; pass <= n; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		samples, err := v.Vectors(s, j, pass)
		if err != nil {
			return nil, err
		}
		out = append(out, samples...)
	}
	return out, nil
}

// MaxFrames returns the longest interval across all recordings.
func (b *Builder) MaxFrames() int {
	longest := 0
	for _, v := range b.vectorizers {
		longest = max(longest, v.MaxFrames())
	}
	return longest
}

// Labels returns the sorted set of labels across all recordings.
func (b *Builder) Labels() []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range b.vectorizers {
		for _, iv := range v.intervals {
			if !seen[iv.Label] {
				seen[iv.Label] = true
				out = append(out, iv.Label)
			}
		}
	}
	sort.Strings(out)
	return out
}

// LabelStats summarises the interval lengths, in frames, of one label.
type LabelStats struct {
	Label  string  `json:"label"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean_frames"`
	StdDev float64 `json:"stddev_frames"`
	Min    float64 `json:"min_frames"`
	Max    float64 `json:"max_frames"`
}

// Summary returns per-label interval statistics, sorted by label.
func (b *Builder) Summary() []LabelStats {
	lengths := map[string][]float64{}
	for _, v := range b.vectorizers {
		for _, iv := range v.intervals {
			lengths[iv.Label] = append(lengths[iv.Label], float64(iv.Len()))
		}
	}

	out := make([]LabelStats, 0, len(lengths))
	for _, label := range b.Labels() {
		xs := lengths[label]
		mean, std := stat.MeanStdDev(xs, nil)
		if len(xs) < 2 {
			std = 0
		}
		out = append(out, LabelStats{
			Label:  label,
			Count:  len(xs),
			Mean:   mean,
			StdDev: std,
			Min:    floats.Min(xs),
			Max:    floats.Max(xs),
		})
	}
	return out
}
