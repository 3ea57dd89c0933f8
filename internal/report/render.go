package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/glucorisk/metrics"
	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"github.com/YuminosukeSato/glucorisk/pretrained"
	"github.com/YuminosukeSato/glucorisk/risk"
)

// Formats accepted by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Render writes v as JSON or YAML, or calls text for the text format.
func Render(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	case FormatText, "":
		return text(w)
	default:
		return errors.NewValidationError("output", "must be one of text, json, yaml", format)
	}
}

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

// ModelTable renders the model weights and normalization parameters.
func ModelTable(w io.Writer, m *risk.Model) error {
	_, _ = fmt.Fprintf(w, "Model %s (variant %s, target %q)\n", m.ID(), m.Variant(), m.TargetColumn())

	t := newTable(w, "Weights")
	t.AppendHeader(table.Row{"Feature", "Weight", "Mean", "Std"})
	norm, weights := m.Normalization(), m.Weights()
	for i, f := range m.Features() {
		t.AppendRow(table.Row{f, fmt.Sprintf("%.6f", weights[i]), fmt.Sprintf("%.4f", norm[i].Mean), fmt.Sprintf("%.4f", norm[i].Std)})
	}
	t.AppendFooter(table.Row{"bias", fmt.Sprintf("%.6f", m.Bias()), "", ""})
	t.Render()

	r := m.Metrics()
	return MetricsTable(w, &r)
}

// MetricsTable renders an evaluation report and its confusion matrix.
func MetricsTable(w io.Writer, r *metrics.Report) error {
	t := newTable(w, "Holdout metrics")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"accuracy", fmt.Sprintf("%.4f", r.Accuracy)},
		{"precision", fmt.Sprintf("%.4f", r.Precision)},
		{"recall", fmt.Sprintf("%.4f", r.Recall)},
		{"f1", fmt.Sprintf("%.4f", r.F1)},
	})
	t.Render()

	cm := newTable(w, "Confusion matrix")
	cm.AppendHeader(table.Row{"", "pred 0", "pred 1"})
	cm.AppendRow(table.Row{"actual 0", r.Confusion.TN(), r.Confusion.FP()})
	cm.AppendRow(table.Row{"actual 1", r.Confusion.FN(), r.Confusion.TP()})
	cm.Render()
	return nil
}

// Prediction is the output of a single model prediction.
type Prediction struct {
	ModelID     string    `json:"model_id" yaml:"model_id"`
	Features    []string  `json:"features" yaml:"features"`
	Values      []float64 `json:"values" yaml:"values"`
	Probability float64   `json:"probability" yaml:"probability"`
	Prediction  int       `json:"prediction" yaml:"prediction"`
}

// PredictionTable renders a single prediction.
func PredictionTable(w io.Writer, p *Prediction) error {
	t := newTable(w, "Prediction")
	t.AppendHeader(table.Row{"Feature", "Value"})
	for i, f := range p.Features {
		t.AppendRow(table.Row{f, p.Values[i]})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"probability", fmt.Sprintf("%.4f (class %d)", p.Probability, p.Prediction)})
	t.Render()
	return nil
}

// ScoreTable renders a static scorer result.
func ScoreTable(w io.Writer, r *pretrained.Result) error {
	t := newTable(w, "Static risk score")
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"risk", strings.ToUpper(r.Risk)},
		{"probability", fmt.Sprintf("%.4f", r.Probability)},
		{"prediction", r.Prediction},
		{"confidence", fmt.Sprintf("%.2f", r.Confidence)},
	})
	if len(r.Defaulted) > 0 {
		t.AppendSeparator()
		t.AppendRow(table.Row{"defaulted", strings.Join(r.Defaulted, ", ")})
	}
	t.Render()
	return nil
}
