package vectorize

import (
	"fmt"
	"math"
)

// Reference sampling geometry.
const (
	DefaultLineCount             = 7
	DefaultLineLength            = 20
	DefaultSpanDegrees           = 180.0
	DefaultRotationOffsetDegrees = 180.0
)

// Point is an integer pixel position. X indexes image rows and Y image
// columns, matching how frames are addressed as frame[x, y].
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Line is one sampling line, ordered by distance from the centre.
type Line []Point

// Geometry is a fan of sampling lines. Relative geometry is anchored at
// the origin; absolute geometry has been translated onto the image.
type Geometry []Line

// GeometryParams fully determines a relative Geometry.
type GeometryParams struct {
	LineCount             int
	LineLength            int
	SpanDegrees           float64
	RotationOffsetDegrees float64
	// ExtraRotationDegrees is added on top of RotationOffsetDegrees; the
	// jitter sampler uses it for its random rotation.
	ExtraRotationDegrees float64
}

// DefaultGeometryParams returns the reference 7×20 fan spanning 180°
// and pointing backwards.
func DefaultGeometryParams() GeometryParams {
	return GeometryParams{
		LineCount:             DefaultLineCount,
		LineLength:            DefaultLineLength,
		SpanDegrees:           DefaultSpanDegrees,
		RotationOffsetDegrees: DefaultRotationOffsetDegrees,
	}
}

// Validate checks the parameters produce a well-defined geometry.
func (p GeometryParams) Validate() error {
	if p.LineCount < 2 {
		return fmt.Errorf("%w: line count must be at least 2, got %d", ErrInvalidConfiguration, p.LineCount)
	}
	if p.LineLength < 0 {
		return fmt.Errorf("%w: line length must be non-negative, got %d", ErrInvalidConfiguration, p.LineLength)
	}
	angles := []struct {
		name string
		v    float64
	}{
		{"span", p.SpanDegrees},
		{"rotation offset", p.RotationOffsetDegrees},
		{"extra rotation", p.ExtraRotationDegrees},
	}
	for _, a := range angles {
		if math.IsNaN(a.v) || math.IsInf(a.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidConfiguration, a.name, a.v)
		}
	}
	return nil
}

// SpacingDegrees returns the angle between neighbouring lines.
func (p GeometryParams) SpacingDegrees() float64 {
	return p.SpanDegrees / float64(p.LineCount-1)
}

// AngleDegrees returns the direction of line i.
func (p GeometryParams) AngleDegrees(i int) float64 {
	return float64(i)*p.SpacingDegrees() + p.RotationOffsetDegrees + p.ExtraRotationDegrees
}

// Generate computes the relative geometry for p. Sample j of line i sits at
// (round(sin θ·j), round(cos θ·j)) with θ = AngleDegrees(i); rounding is
// half-to-even.
func Generate(p GeometryParams) (Geometry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	g := make(Geometry, p.LineCount)
	for i := range g {
		rad := p.AngleDegrees(i) * math.Pi / 180
		sin, cos := math.Sin(rad), math.Cos(rad)
		line := make(Line, p.LineLength)
		for j := range line {
			d := float64(j)
			line[j] = Point{
				X: int(math.RoundToEven(sin * d)),
				Y: int(math.RoundToEven(cos * d)),
			}
		}
		g[i] = line
	}
	return g, nil
}

// Translate returns a copy of g shifted by (dx, dy).
func (g Geometry) Translate(dx, dy int) Geometry {
	out := make(Geometry, len(g))
	for i, line := range g {
		moved := make(Line, len(line))
		for j, pt := range line {
			moved[j] = Point{X: pt.X + dx, Y: pt.Y + dy}
		}
		out[i] = moved
	}
	return out
}

// LineLength returns the common length of g's lines, or ErrShape when the
// lines are ragged.
func (g Geometry) LineLength() (int, error) {
	if len(g) == 0 {
		return 0, nil
	}
	n := len(g[0])
	for i, line := range g {
		if len(line) != n {
			return 0, fmt.Errorf("%w: line %d has %d points, line 0 has %d", ErrShape, i, len(line), n)
		}
	}
	return n, nil
}

// CheckBounds returns ErrOutOfRange if any point lies outside a
// rows×cols image.
func (g Geometry) CheckBounds(rows, cols int) error {
	for i, line := range g {
		for j, pt := range line {
			if pt.X < 0 || pt.X >= rows || pt.Y < 0 || pt.Y >= cols {
				return fmt.Errorf("%w: line %d point %d at (%d, %d) outside %dx%d image",
					ErrOutOfRange, i, j, pt.X, pt.Y, rows, cols)
			}
		}
	}
	return nil
}
