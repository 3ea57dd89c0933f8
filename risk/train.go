// Package risk trains and serves diabetes risk models.
//
// Train runs the whole pipeline on a table: feature extraction for the given
// variant, an in-order 80/20 split, z-score normalization fitted on the
// training rows, gradient descent logistic regression and holdout
// evaluation. The result is an immutable *Model owned by the caller.
package risk

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/glucorisk/dataset"
	"github.com/YuminosukeSato/glucorisk/linear"
	"github.com/YuminosukeSato/glucorisk/metrics"
	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"github.com/YuminosukeSato/glucorisk/pkg/log"
	"github.com/YuminosukeSato/glucorisk/preprocessing"
)

// Train builds a Model from t using variant v.
//
// Errors:
//   - ConfigurationError: the table does not match the variant
//   - NoDataError: no valid rows, or the training partition is empty
//   - ValidationError: invalid hyperparameters
func Train(t dataset.Table, v dataset.Variant, opts ...Option) (m *Model, err error) {
	defer errors.Recover(&err, "risk.Train")

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLogger()
	}
	id := uuid.NewString()
	logger := cfg.logger.With(log.EstimatorIDKey, id, log.ComponentKey, "risk")
	start := time.Now()

	e, err := dataset.Extract(t, v)
	if err != nil {
		return nil, err
	}

	train, test := dataset.Split(e)
	if train.Len() == 0 {
		return nil, errors.NewNoDataError("risk.Train", e.Len())
	}
	logger.Debug("dataset split",
		log.VariantKey, v.String(),
		log.TargetKey, e.Target,
		log.SamplesKey, train.Len(),
		log.HoldoutKey, test.Len(),
	)

	scaler := preprocessing.NewStandardScaler()
	Xtrain, err := scaler.FitTransform(train.X)
	if err != nil {
		return nil, err
	}

	trainer := linear.NewLogisticRegression(
		linear.WithLearningRate(cfg.learningRate),
		linear.WithIterations(cfg.iterations),
		linear.WithLossCallback(cfg.lossEvery, cfg.lossFn),
		linear.WithLogger(logger),
	)
	coef, err := trainer.Fit(Xtrain, train.Y)
	if err != nil {
		return nil, err
	}

	m = &Model{
		id:       id,
		variant:  v,
		features: append([]string(nil), e.Features...),
		target:   e.Target,
		coef:     coef,
		scaler:   scaler,
		hyper:    trainer.Hyperparameters(),
		trainN:   train.Len(),
		holdoutN: test.Len(),
		created:  time.Now().UTC(),
	}

	report, err := m.evaluate(test)
	if err != nil {
		return nil, err
	}
	m.report = *report

	logger.Debug("model trained",
		log.OperationKey, log.OperationEvaluate,
		log.PhaseKey, log.PhaseValidation,
		log.AccuracyKey, report.Accuracy,
		log.F1Key, report.F1,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return m, nil
}

// evaluate predicts every holdout row and scores the predictions.
func (m *Model) evaluate(test *dataset.Extraction) (*metrics.Report, error) {
	n := test.Len()
	preds := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		p, err := m.Predict(test.X.RawRowView(i))
		if err != nil {
			return nil, err
		}
		preds.SetVec(i, float64(p))
	}
	return metrics.Evaluate(test.Y, preds)
}
