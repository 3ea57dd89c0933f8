// Package pretrained provides a training-free diabetes risk scorer built from
// fixed, offline-derived constants.
package pretrained

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/glucorisk/dataset"
	"github.com/YuminosukeSato/glucorisk/linear"
	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"github.com/YuminosukeSato/glucorisk/pkg/log"
)

// Risk labels.
const (
	RiskLow  = "low"
	RiskHigh = "high"
)

const (
	bias = -0.85

	glucoseBMICoef     = 0.10
	agePregnanciesCoef = 0.05
	insulinGlucoseCoef = 0.05
	minConfidence      = 0.6
	maxConfidence      = 0.95
)

// field holds the fixed constants of one input.
type field struct {
	name     string
	weight   float64
	mean     float64
	std      float64
	fallback float64
	// zeroInvalid marks fields where 0 is a missing-value placeholder.
	zeroInvalid bool
}

var fields = []field{
	{name: "pregnancies", weight: 0.39, mean: 3.85, std: 3.37, fallback: 0},
	{name: "glucose", weight: 1.08, mean: 120.9, std: 31.97, fallback: 100, zeroInvalid: true},
	{name: "bloodpressure", weight: -0.25, mean: 69.1, std: 19.36, fallback: 70, zeroInvalid: true},
	{name: "skinthickness", weight: 0.01, mean: 20.5, std: 15.95, fallback: 20},
	{name: "insulin", weight: -0.13, mean: 79.8, std: 115.2, fallback: 80},
	{name: "bmi", weight: 0.69, mean: 32.0, std: 7.88, fallback: 25, zeroInvalid: true},
	{name: "diabetespedigreefunction", weight: 0.30, mean: 0.472, std: 0.331, fallback: 0.5},
	{name: "age", weight: 0.18, mean: 33.24, std: 11.76, fallback: 30, zeroInvalid: true},
}

var knownFields = func() map[string]bool {
	m := make(map[string]bool, len(fields))
	for _, f := range fields {
		m[f.name] = true
	}
	return m
}()

// Fields returns the normalized names of the scorer inputs.
func Fields() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// Result is the outcome of a static score.
type Result struct {
	Prediction  int     `json:"prediction" yaml:"prediction"`
	Probability float64 `json:"probability" yaml:"probability"`
	Risk        string  `json:"risk" yaml:"risk"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
	// Defaulted lists the inputs replaced by fallback values.
	Defaulted []string `json:"defaulted,omitempty" yaml:"defaulted,omitempty"`
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithStrictValidation makes invalid or unknown inputs a ValidationError
// instead of replacing them with fallback values.
func WithStrictValidation() Option {
	return func(s *Scorer) { s.strict = true }
}

// WithLogger sets the logger used for debug events.
func WithLogger(logger log.Logger) Option {
	return func(s *Scorer) { s.logger = logger }
}

// Scorer computes risk from the fixed constants. The zero configuration is
// lenient: missing, non-finite or negative values, and 0 for glucose, blood
// pressure, BMI and age, are replaced by fallback values.
type Scorer struct {
	strict bool
	logger log.Logger
}

// NewScorer creates a Scorer.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.GetLogger()
	}
	return s
}

// Strict reports whether strict validation is enabled.
func (s *Scorer) Strict() bool { return s.strict }

// Score scores the given inputs with a lenient scorer.
func Score(inputs map[string]float64) (Result, error) {
	return NewScorer().Score(inputs)
}

// Score evaluates the inputs. Keys are matched after
// dataset.NormalizeColumnName, so "BloodPressure" and "blood_pressure" both
// address the blood pressure field.
func (s *Scorer) Score(inputs map[string]float64) (Result, error) {
	normalized := make(map[string]float64, len(inputs))
	for k, v := range inputs {
		n := dataset.NormalizeColumnName(k)
		if !knownFields[n] {
			if s.strict {
				return Result{}, errors.NewValidationError(k, "unknown field", v)
			}
			continue
		}
		normalized[n] = v
	}

	values := make(map[string]float64, len(fields))
	var defaulted []string
	z := bias
	for _, f := range fields {
		v, ok := normalized[f.name]
		if !ok || !f.valid(v) {
			if s.strict {
				if !ok {
					return Result{}, errors.NewValidationError(f.name, "is required", nil)
				}
				return Result{}, errors.NewValidationError(f.name, f.rule(), v)
			}
			v = f.fallback
			defaulted = append(defaulted, f.name)
		}
		values[f.name] = v
		z += f.weight * (v - f.mean) / f.std
	}
	z += interactions(values)

	p := linear.Sigmoid(z)
	r := Result{
		Prediction:  linear.Classify(p),
		Probability: p,
		Risk:        RiskLow,
		Confidence:  errors.ClipValue(math.Abs(p-0.5)*2, minConfidence, maxConfidence),
		Defaulted:   defaulted,
	}
	if r.Prediction == 1 {
		r.Risk = RiskHigh
	}
	sort.Strings(r.Defaulted)

	s.logger.Debug("static score",
		log.OperationKey, log.OperationScore,
		log.PhaseKey, log.PhaseInference,
		log.ProbabilityKey, p,
		log.ConfidenceKey, r.Confidence,
		"defaulted", len(defaulted),
	)
	return r, nil
}

func interactions(v map[string]float64) float64 {
	glucose, bmi := v["glucose"], v["bmi"]
	z := glucoseBMICoef * (glucose / 100) * (bmi / 30)
	z += agePregnanciesCoef * (v["age"] / 30) * (v["pregnancies"] / 5)
	if insulin := v["insulin"]; insulin > 0 {
		z += insulinGlucoseCoef * (insulin / 100) * (glucose / 100)
	}
	return z
}

func (f field) valid(v float64) bool {
	if !errors.IsFinite(v) || v < 0 {
		return false
	}
	return !(f.zeroInvalid && v == 0)
}

func (f field) rule() string {
	if f.zeroInvalid {
		return "must be a finite positive number"
	}
	return "must be a finite non-negative number"
}
