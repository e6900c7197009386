package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/graindata/sandqc.report/internal/psd"
)

// CurveChart builds a go-echarts line chart of the cumulative passing
// curve, finest sieve on the left.
func CurveChart(t psd.Table) *charts.Line {
	x := make([]string, 0, len(t))
	y := make([]opts.LineData, 0, len(t))
	for i := len(t) - 1; i >= 0; i-- {
		x = append(x, fmt.Sprintf("%g", t[i].SizeMM))
		y = append(y, opts.LineData{Value: t[i].PassingPct})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "PSD Curve", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Cumulative Passing Curve", Subtitle: fmt.Sprintf("%d sieves", len(t))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Sieve (mm)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Passing (%)", Min: 0, Max: 100}),
	)
	line.SetXAxis(x).AddSeries("passing", y)
	return line
}

// RenderCurveHTML writes the curve chart as a standalone HTML page.
func RenderCurveHTML(t psd.Table, w io.Writer) error {
	if err := CurveChart(t).Render(w); err != nil {
		return fmt.Errorf("report: rendering psd chart: %w", err)
	}
	return nil
}
