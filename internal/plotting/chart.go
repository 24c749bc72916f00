package plotting

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/articulation/internal/dataset"
)

// WriteLabelChart renders an HTML page with the mean interval length and
// sample count of every label.
func WriteLabelChart(w io.Writer, stats []dataset.LabelStats, subtitle string) error {
	if len(stats) == 0 {
		return fmt.Errorf("no label statistics to chart")
	}

	x := make([]string, len(stats))
	means := make([]opts.BarData, len(stats))
	counts := make([]opts.BarData, len(stats))
	for i, s := range stats {
		x[i] = s.Label
		means[i] = opts.BarData{Value: fmt.Sprintf("%.1f", s.Mean), Name: s.Label}
		counts[i] = opts.BarData{Value: s.Count, Name: s.Label}
	}

	frames := charts.NewBar()
	frames.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Label intervals", Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Mean frames per label", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "frames"}),
	)
	frames.SetXAxis(x).
		AddSeries("mean frames", means,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	occurrences := charts.NewBar()
	occurrences.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Intervals per label"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	occurrences.SetXAxis(x).AddSeries("count", counts)

	page := components.NewPage()
	page.AddCharts(frames, occurrences)
	return page.Render(w)
}
