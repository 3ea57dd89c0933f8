package risk

import (
	"fmt"
	"time"

	"github.com/YuminosukeSato/glucorisk/core/model"
	"github.com/YuminosukeSato/glucorisk/dataset"
	"github.com/YuminosukeSato/glucorisk/linear"
	"github.com/YuminosukeSato/glucorisk/metrics"
	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"github.com/YuminosukeSato/glucorisk/preprocessing"
)

// Model is a trained risk classifier. It is read-only after Train returns
// and safe for concurrent use; accessors return copies.
type Model struct {
	id       string
	variant  dataset.Variant
	features []string
	target   string
	coef     *linear.Coefficients
	scaler   *preprocessing.StandardScaler
	report   metrics.Report
	hyper    map[string]interface{}
	trainN   int
	holdoutN int
	created  time.Time
}

var (
	_ model.RiskPredictor = (*Model)(nil)
	_ model.Snapshotter   = (*Model)(nil)
)

// PredictProbability normalizes raw feature values with the training
// parameters and returns the probability of the positive class.
// features must follow the order of Features().
func (m *Model) PredictProbability(features []float64) (float64, error) {
	k := len(m.features)
	if len(features) != k {
		return 0, errors.NewDimensionError("Model.PredictProbability", k, len(features), 1)
	}
	for i, v := range features {
		if !errors.IsFinite(v) {
			return 0, errors.NewValidationError(m.features[i], "must be a finite number", v)
		}
	}
	x, err := m.scaler.TransformRow(features)
	if err != nil {
		return 0, err
	}
	return m.coef.Probability(x)
}

// Predict returns 1 when PredictProbability(features) >= 0.5, else 0.
func (m *Model) Predict(features []float64) (int, error) {
	p, err := m.PredictProbability(features)
	if err != nil {
		return 0, err
	}
	return linear.Classify(p), nil
}

// ID returns the UUID assigned at training time.
func (m *Model) ID() string { return m.id }

// Variant returns the dataset variant the model was trained on.
func (m *Model) Variant() dataset.Variant { return m.variant }

// Features returns the raw feature column names in weight order.
func (m *Model) Features() []string { return append([]string(nil), m.features...) }

// TargetColumn returns the raw name of the label column.
func (m *Model) TargetColumn() string { return m.target }

// Metrics returns the holdout evaluation.
func (m *Model) Metrics() metrics.Report { return m.report }

// Weights returns a copy of the weights (same length as Features).
func (m *Model) Weights() []float64 { return append([]float64(nil), m.coef.Weights...) }

// Bias returns the intercept.
func (m *Model) Bias() float64 { return m.coef.Bias }

// Normalization returns a copy of the per-feature normalization parameters.
func (m *Model) Normalization() []preprocessing.NormalizationParameters {
	return m.scaler.Params()
}

// LossHistory returns the loss values recorded during training, if any.
func (m *Model) LossHistory() []linear.LossPoint {
	return append([]linear.LossPoint(nil), m.coef.LossHistory...)
}

// Snapshot returns a serializable view of the model for display.
func (m *Model) Snapshot() *model.ModelWeights {
	params := m.scaler.Params()
	means := make([]float64, len(params))
	stds := make([]float64, len(params))
	for i, p := range params {
		means[i], stds[i] = p.Mean, p.Std
	}

	hyper := make(map[string]interface{}, len(m.hyper))
	for k, v := range m.hyper {
		hyper[k] = v
	}

	return &model.ModelWeights{
		ID:              m.id,
		ModelType:       "LogisticRegression",
		Version:         model.SnapshotVersion,
		Coefficients:    m.Weights(),
		Intercept:       m.coef.Bias,
		Features:        m.Features(),
		Target:          m.target,
		Means:           means,
		Stds:            stds,
		Hyperparameters: hyper,
		Metadata: map[string]interface{}{
			"variant":       m.variant.String(),
			"train_samples": m.trainN,
			"holdout":       m.holdoutN,
			"created_at":    m.created.Format(time.RFC3339),
			"metrics":       m.report,
		},
		IsFitted: true,
	}
}

// String returns a one-line description of the model.
func (m *Model) String() string {
	return fmt.Sprintf("risk.Model(id=%s, variant=%s, features=%d, accuracy=%.4f)",
		m.id, m.variant, len(m.features), m.report.Accuracy)
}
