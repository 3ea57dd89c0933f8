package risk

import (
	"github.com/YuminosukeSato/glucorisk/linear"
	"github.com/YuminosukeSato/glucorisk/pkg/log"
)

type config struct {
	learningRate float64
	iterations   int
	lossEvery    int
	lossFn       linear.LossCallback
	logger       log.Logger
}

func defaultConfig() config {
	return config{
		learningRate: linear.DefaultLearningRate,
		iterations:   linear.DefaultIterations,
	}
}

// Option configures Train.
type Option func(*config)

// WithLearningRate sets the gradient descent step size (default 0.01).
func WithLearningRate(rate float64) Option {
	return func(c *config) { c.learningRate = rate }
}

// WithIterations sets the number of gradient descent steps (default 1000).
func WithIterations(n int) Option {
	return func(c *config) { c.iterations = n }
}

// WithLossCallback reports the training loss every `every` iterations.
func WithLossCallback(every int, fn linear.LossCallback) Option {
	return func(c *config) {
		c.lossEvery = every
		c.lossFn = fn
	}
}

// WithLogger sets the logger for debug-level pipeline events.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}
