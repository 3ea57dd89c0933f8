// Package report renders training results as tables, JSON, YAML and plots.
package report

import (
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/glucorisk/linear"
	"github.com/YuminosukeSato/glucorisk/pkg/errors"
)

const plotSize = 5 * vg.Inch

// lossPlot draws the loss history as a line with point markers.
func lossPlot(history []linear.LossPoint) (*plot.Plot, error) {
	if len(history) == 0 {
		return nil, errors.NewValueError("report.LossCurve", "no loss history recorded; enable loss tracking")
	}

	p := plot.New()
	p.Title.Text = "Training loss"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "MSE (probability vs label)"

	pts := make(plotter.XYs, len(history))
	for i, h := range history {
		pts[i] = plotter.XY{X: float64(h.Iteration), Y: h.Loss}
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, errors.Wrap(err, "build loss line")
	}
	line.LineStyle.Width = vg.Points(2)
	points.Radius = vg.Points(2)
	p.Add(line, points, plotter.NewGrid())
	return p, nil
}

// SaveLossCurve writes the loss history to filename. The image format follows
// the extension (png, svg, pdf, ...).
func SaveLossCurve(history []linear.LossPoint, filename string) error {
	p, err := lossPlot(history)
	if err != nil {
		return err
	}
	if err := p.Save(plotSize, plotSize, filename); err != nil {
		return errors.Wrapf(err, "save loss curve to %s", filename)
	}
	return nil
}

// WriteLossCurve writes the loss history as a PNG image to w.
func WriteLossCurve(w io.Writer, history []linear.LossPoint) error {
	p, err := lossPlot(history)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(plotSize, plotSize, "png")
	if err != nil {
		return errors.Wrap(err, "render loss curve")
	}
	_, err = wt.WriteTo(w)
	return err
}
