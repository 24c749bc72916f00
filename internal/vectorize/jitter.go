package vectorize

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Reference centre and augmentation limits.
const (
	DefaultCenterRow          = 40
	DefaultCenterCol          = 40
	DefaultMaxOffset          = 4.0
	DefaultMaxRotationDegrees = 10.0
)

// Center is the base anchor of the sampling fan on the image.
type Center struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// DefaultCenter returns the reference anchor (40, 40).
func DefaultCenter() Center {
	return Center{Row: DefaultCenterRow, Col: DefaultCenterCol}
}

// Jitter bounds the random perturbation applied per sampling pass. The zero
// value yields the deterministic, unperturbed geometry.
type Jitter struct {
	MaxRotationDegrees float64 `json:"max_rotation_degrees"`
	MaxOffset          float64 `json:"max_offset"`
}

// DefaultJitter returns the reference augmentation limits.
func DefaultJitter() Jitter {
	return Jitter{MaxRotationDegrees: DefaultMaxRotationDegrees, MaxOffset: DefaultMaxOffset}
}

// Validate rejects negative or non-finite limits.
func (j Jitter) Validate() error {
	if !(j.MaxRotationDegrees >= 0) || math.IsInf(j.MaxRotationDegrees, 0) {
		return fmt.Errorf("%w: max rotation must be a finite non-negative value, got %v", ErrInvalidConfiguration, j.MaxRotationDegrees)
	}
	if !(j.MaxOffset >= 0) || math.IsInf(j.MaxOffset, 0) {
		return fmt.Errorf("%w: max offset must be a finite non-negative value, got %v", ErrInvalidConfiguration, j.MaxOffset)
	}
	return nil
}

// Sampler draws jittered absolute geometries from its own seeded
// generator. A Sampler is not safe for concurrent use; give each worker
// its own, derived with NewSamplerStream.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a Sampler seeded with seed on stream 0.
func NewSampler(seed uint64) *Sampler {
	return NewSamplerStream(seed, 0)
}

// NewSamplerStream returns a Sampler whose sequence is fixed by (seed,
// stream). Distinct streams are independent for the same seed.
func NewSamplerStream(seed, stream uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, stream))}
}

// uniform draws from [-limit, +limit).
func (s *Sampler) uniform(limit float64) float64 {
	return s.rng.Float64()*2*limit - limit
}

// Sample draws one rotation perturbation and one translation, then returns
// the absolute geometry anchored at center. The rotation is added to
// p.ExtraRotationDegrees before generation and the translation is
// floored into [-ceil(m), ceil(m)); for a whole m each offset is equally
// likely. With the zero Jitter the result equals Place(p, center).
func (s *Sampler) Sample(p GeometryParams, center Center, j Jitter) (Geometry, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}
	p.ExtraRotationDegrees += s.uniform(j.MaxRotationDegrees)
	dRow := int(math.Floor(s.uniform(j.MaxOffset)))
	dCol := int(math.Floor(s.uniform(j.MaxOffset)))
	return Place(p, Center{Row: center.Row + dRow, Col: center.Col + dCol})
}

// Place returns the unperturbed absolute geometry anchored at center.
func Place(p GeometryParams, center Center) (Geometry, error) {
	rel, err := Generate(p)
	if err != nil {
		return nil, err
	}
	return rel.Translate(center.Row, center.Col), nil
}
