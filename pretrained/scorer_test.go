package pretrained

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/glucorisk/pkg/errors"
)

func neutral() map[string]float64 {
	return map[string]float64{
		"pregnancies":              1,
		"glucose":                  120,
		"bloodpressure":            80,
		"skinthickness":            20,
		"insulin":                  80,
		"bmi":                      25,
		"diabetespedigreefunction": 0.5,
		"age":                      30,
	}
}

func TestScore_NeutralInputIsLowRisk(t *testing.T) {
	r, err := Score(neutral())
	require.NoError(t, err)

	assert.Less(t, r.Probability, 0.5)
	assert.Equal(t, 0, r.Prediction)
	assert.Equal(t, RiskLow, r.Risk)
	assert.InDelta(t, 0.1382, r.Probability, 1e-3)
	assert.Empty(t, r.Defaulted)
}

func TestScore_HighRisk(t *testing.T) {
	r, err := Score(map[string]float64{
		"Pregnancies":              6,
		"Glucose":                  180,
		"BloodPressure":            72,
		"SkinThickness":            35,
		"Insulin":                  0,
		"BMI":                      38,
		"DiabetesPedigreeFunction": 0.9,
		"Age":                      55,
	})
	require.NoError(t, err)

	assert.Greater(t, r.Probability, 0.9)
	assert.Equal(t, 1, r.Prediction)
	assert.Equal(t, RiskHigh, r.Risk)
	assert.InDelta(t, 2*r.Probability-1, r.Confidence, 1e-12)
}

func TestScore_Confidence(t *testing.T) {
	r, err := Score(neutral())
	require.NoError(t, err)

	want := math.Max(minConfidence, math.Min(maxConfidence, math.Abs(r.Probability-0.5)*2))
	assert.Equal(t, want, r.Confidence)
	assert.GreaterOrEqual(t, r.Confidence, minConfidence)
	assert.LessOrEqual(t, r.Confidence, maxConfidence)
}

func TestScore_LenientDefaults(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(map[string]float64)
		defaulted []string
	}{
		{"missing glucose", func(m map[string]float64) { delete(m, "glucose") }, []string{"glucose"}},
		{"zero bmi", func(m map[string]float64) { m["bmi"] = 0 }, []string{"bmi"}},
		{"negative insulin", func(m map[string]float64) { m["insulin"] = -5 }, []string{"insulin"}},
		{"NaN age", func(m map[string]float64) { m["age"] = math.NaN() }, []string{"age"}},
		{"zero pregnancies is valid", func(m map[string]float64) { m["pregnancies"] = 0 }, nil},
		{"unknown key ignored", func(m map[string]float64) { m["cholesterol"] = 200 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := neutral()
			tt.mutate(in)
			r, err := Score(in)
			require.NoError(t, err)
			assert.Equal(t, tt.defaulted, r.Defaulted)
		})
	}
}

func TestScore_FallbackMatchesExplicitValue(t *testing.T) {
	in := neutral()
	delete(in, "glucose")
	defaulted, err := Score(in)
	require.NoError(t, err)

	in["glucose"] = 100
	explicit, err := Score(in)
	require.NoError(t, err)

	assert.Equal(t, explicit.Probability, defaulted.Probability)
}

func TestScore_Strict(t *testing.T) {
	s := NewScorer(WithStrictValidation())
	assert.True(t, s.Strict())

	_, err := s.Score(neutral())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(map[string]float64)
		param  string
	}{
		{"missing", func(m map[string]float64) { delete(m, "age") }, "age"},
		{"zero glucose", func(m map[string]float64) { m["glucose"] = 0 }, "glucose"},
		{"infinite bmi", func(m map[string]float64) { m["bmi"] = math.Inf(1) }, "bmi"},
		{"unknown", func(m map[string]float64) { m["Cholesterol"] = 1 }, "Cholesterol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := neutral()
			tt.mutate(in)
			_, err := s.Score(in)
			var ve *errors.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.param, ve.ParamName)
		})
	}
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{
		"pregnancies", "glucose", "bloodpressure", "skinthickness",
		"insulin", "bmi", "diabetespedigreefunction", "age",
	}, Fields())
}
