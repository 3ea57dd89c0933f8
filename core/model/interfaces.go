package model

import "gonum.org/v1/gonum/mat"

// Transformer learns parameters from training data and applies them afterwards.
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)
}

// RiskPredictor scores a single raw feature vector.
type RiskPredictor interface {
	// Predict returns 1 when PredictProbability is at least 0.5, else 0.
	Predict(features []float64) (int, error)

	// PredictProbability returns the sigmoid output in [0, 1].
	PredictProbability(features []float64) (float64, error)
}

// Snapshotter exposes a serializable view of a trained model.
type Snapshotter interface {
	Snapshot() *ModelWeights
}
