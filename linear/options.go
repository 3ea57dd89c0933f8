package linear

import "github.com/YuminosukeSato/glucorisk/pkg/log"

// Option is a function that configures LogisticRegression
type Option func(*LogisticRegression)

// LossCallback receives the mean squared error between predicted probability
// and label after the given (1-based) iteration.
type LossCallback func(iteration int, loss float64)

// WithLearningRate sets the gradient descent step size
func WithLearningRate(rate float64) Option {
	return func(lr *LogisticRegression) {
		lr.learningRate = rate
	}
}

// WithIterations sets the exact number of full-batch gradient steps
func WithIterations(n int) Option {
	return func(lr *LogisticRegression) {
		lr.iterations = n
	}
}

// WithLossCallback records the loss every `every` iterations and passes it to fn.
// fn may be nil when only Coefficients.LossHistory is wanted.
func WithLossCallback(every int, fn LossCallback) Option {
	return func(lr *LogisticRegression) {
		lr.lossEvery = every
		lr.lossFn = fn
	}
}

// WithLogger sets the logger used for debug-level training events
func WithLogger(logger log.Logger) Option {
	return func(lr *LogisticRegression) {
		lr.logger = logger
	}
}
