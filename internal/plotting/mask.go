// Package plotting renders diagnostic images and reports for a
// vectorization run: the sampling fan over a recon frame, and per-label
// interval statistics.
package plotting

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/articulation/internal/vectorize"
)

// MaskedFrame returns frame f of v multiplied element-wise by the
// occupancy mask of g, so sampled pixels read zero.
func MaskedFrame(v *vectorize.Volume, f int, g vectorize.Geometry) (*mat.Dense, error) {
	if f < 0 || f >= v.Frames() {
		return nil, fmt.Errorf("%w: frame %d outside 0..%d", vectorize.ErrOutOfRange, f, v.Frames()-1)
	}
	mask, err := vectorize.Mask(g, v.Rows(), v.Cols())
	if err != nil {
		return nil, err
	}

	pixels := v.Frame(f)
	values := make([]float64, len(pixels))
	for i, p := range pixels {
		values[i] = float64(p)
	}
	out := mat.NewDense(v.Rows(), v.Cols(), values)
	out.MulElem(out, mask)
	return out, nil
}

// imageGrid adapts a row-major image to plotter.GridXYZ with row 0 drawn
// at the top.
type imageGrid struct {
	m *mat.Dense
}

func (g imageGrid) Dims() (c, r int) {
	rows, cols := g.m.Dims()
	return cols, rows
}

func (g imageGrid) Z(c, r int) float64 {
	rows, _ := g.m.Dims()
	return g.m.At(rows-1-r, c)
}

func (g imageGrid) X(c int) float64 { return float64(c) }

func (g imageGrid) Y(r int) float64 { return float64(r) }

// SaveMaskPNG draws frame f of v with the sampling geometry g masked out
// and each line traced in its own colour. The image format follows the
// file extension.
func SaveMaskPNG(path string, v *vectorize.Volume, f int, g vectorize.Geometry) error {
	masked, err := MaskedFrame(v, f, g)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Frame %d - %d sampling lines", f, len(g))
	p.X.Label.Text = "Column"
	p.Y.Label.Text = "Row (flipped)"

	p.Add(plotter.NewHeatMap(imageGrid{m: masked}, palette.Heat(64, 1)))

	rows := v.Rows()
	colors := generateColors(len(g))
	for i, line := range g {
		pts := make(plotter.XYs, len(line))
		for k, pt := range line {
			pts[k] = plotter.XY{X: float64(pt.Y), Y: float64(rows - 1 - pt.X)}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		s.GlyphStyle.Color = colors[i]
		s.GlyphStyle.Radius = vg.Points(1.5)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// generateColors creates a palette of distinct colours, one per line.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}
