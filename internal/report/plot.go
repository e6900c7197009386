package report

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/graindata/sandqc.report/internal/psd"
)

// CurvePNG writes a PNG rendering of the cumulative passing curve to w,
// for embedding in exported reports.
func CurvePNG(t psd.Table, w io.Writer) error {
	pts := make(plotter.XYs, 0, len(t))
	for i := len(t) - 1; i >= 0; i-- {
		pts = append(pts, plotter.XY{X: t[i].SizeMM, Y: t[i].PassingPct})
	}

	p := plot.New()
	p.Title.Text = "Cumulative Passing Curve"
	p.X.Label.Text = "Sieve size (mm)"
	p.Y.Label.Text = "Passing (%)"
	p.Y.Min, p.Y.Max = 0, 100
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("report: building curve line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	wt, err := p.WriterTo(8*vg.Inch, 5*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("report: encoding curve png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("report: writing curve png: %w", err)
	}
	return nil
}
