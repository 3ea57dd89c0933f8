// Package log defines standard attribute keys for risk-model operations.
//
// Keys follow a hierarchical naming convention ("model.name", "data.samples")
// so that log lines from the trainer, the CLI and the HTTP service can be
// filtered the same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model.
	// Examples: "LogisticRegression", "StandardScaler", "PretrainedScorer"
	ModelNameKey = "model.name"

	// EstimatorIDKey is the UUID assigned to a trained risk model.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "linear", "dataset", "server"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows).
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns).
	FeaturesKey = "data.features"

	// DroppedRowsKey counts rows excluded because a feature or the label was not finite-numeric.
	DroppedRowsKey = "data.dropped_rows"

	// VariantKey names the dataset variant ("basic", "comprehensive").
	VariantKey = "data.variant"

	// TargetKey names the resolved target column.
	TargetKey = "data.target"

	// HoldoutKey indicates the number of rows in the holdout partition.
	HoldoutKey = "data.holdout"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records holdout accuracy.
	AccuracyKey = "metrics.accuracy"

	// F1Key records holdout F1 score.
	F1Key = "metrics.f1"

	// LossKey records the mean squared error between probability and label.
	LossKey = "metrics.loss"

	// IterationKey records the current gradient descent iteration.
	IterationKey = "training.iteration"
)

// Prediction Context
const (
	// ProbabilityKey records a predicted probability.
	ProbabilityKey = "preds.probability"

	// ConfidenceKey records the static scorer confidence.
	ConfidenceKey = "preds.confidence"
)

// Hyperparameters
const (
	// LearningRateKey records the gradient descent learning rate.
	LearningRateKey = "hyperparams.learning_rate"

	// IterationsKey records the configured number of gradient descent steps.
	IterationsKey = "hyperparams.iterations"
)

// HTTP
const (
	HTTPMethodKey = "http.method"
	HTTPPathKey   = "http.path"
	HTTPStatusKey = "http.status"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationExtract   = "extract"
	OperationEvaluate  = "evaluate"
	OperationScore     = "score"

	PhaseTraining      = "training"
	PhaseValidation    = "validation"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"
)

// StacktraceKey carries the stack recorded by cockroachdb/errors.
const StacktraceKey = "error.stacktrace"
