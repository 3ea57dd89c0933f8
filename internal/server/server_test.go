package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/glucorisk/core/model"
	"github.com/YuminosukeSato/glucorisk/dataset"
	"github.com/YuminosukeSato/glucorisk/internal/report"
	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"github.com/YuminosukeSato/glucorisk/pkg/log"
	"github.com/YuminosukeSato/glucorisk/pretrained"
	"github.com/YuminosukeSato/glucorisk/risk"
)

func trainModel(t *testing.T) *risk.Model {
	t.Helper()
	tbl := dataset.Table{Columns: []string{"Glucose", "BMI", "Age", "Outcome"}}
	for i := 0; i < 30; i++ {
		tbl.Rows = append(tbl.Rows, dataset.Row{
			"Glucose": 100 + 40*(i%2) + i%5,
			"BMI":     25 + 6*(i%2) + i%3,
			"Age":     30 + i%10,
			"Outcome": i % 2,
		})
	}
	m, err := risk.Train(tbl, dataset.VariantBasic)
	require.NoError(t, err)
	return m
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newTestServer(t *testing.T, m *risk.Model, scorer *pretrained.Scorer) http.Handler {
	t.Helper()
	logger, _ := log.NewTestLogger(log.LevelDebug)
	return New(Config{Addr: ":0", Model: m, Scorer: scorer, Logger: logger}).Handler()
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t, nil, nil), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.False(t, body.ModelLoaded)

	rec = do(t, newTestServer(t, trainModel(t), nil), http.MethodGet, "/healthz", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.ModelLoaded)
}

func TestScore(t *testing.T) {
	h := newTestServer(t, nil, nil)

	rec := do(t, h, http.MethodPost, "/v1/score", `{
		"pregnancies": 1, "glucose": 120, "bloodPressure": 80, "skinThickness": 20,
		"insulin": 80, "bmi": 25, "diabetesPedigreeFunction": 0.5, "age": 30
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var res pretrained.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, pretrained.RiskLow, res.Risk)
	assert.Less(t, res.Probability, 0.5)

	// null is treated as missing and defaulted
	rec = do(t, h, http.MethodPost, "/v1/score", `{"glucose": null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res.Defaulted, "glucose")
}

func TestScore_Errors(t *testing.T) {
	strict := newTestServer(t, nil, pretrained.NewScorer(pretrained.WithStrictValidation()))

	rec := do(t, strict, http.MethodPost, "/v1/score", `{"glucose": 0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ValidationError", body.Type)

	rec = do(t, strict, http.MethodPost, "/v1/score", `{"glucose": "high"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, strict, http.MethodGet, "/v1/score", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPredict(t *testing.T) {
	m := trainModel(t)
	h := newTestServer(t, m, nil)

	rec := do(t, h, http.MethodPost, "/v1/predict", `{"features": [160, 34, 45]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got report.Prediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	want, err := m.PredictProbability([]float64{160, 34, 45})
	require.NoError(t, err)
	assert.InDelta(t, want, got.Probability, 1e-12)
	assert.Equal(t, m.ID(), got.ModelID)
	assert.Equal(t, []string{"Glucose", "BMI", "Age"}, got.Features)
	assert.Equal(t, got.Probability >= 0.5, got.Prediction == 1)
}

func TestPredict_Errors(t *testing.T) {
	t.Run("no model", func(t *testing.T) {
		rec := do(t, newTestServer(t, nil, nil), http.MethodPost, "/v1/predict", `{"features": [1, 2, 3]}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	h := newTestServer(t, trainModel(t), nil)

	t.Run("dimension mismatch", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/v1/predict", `{"features": [1, 2]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var body errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "DimensionError", body.Type)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/v1/predict", `{"values": [1, 2, 3]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestModelSnapshot(t *testing.T) {
	rec := do(t, newTestServer(t, nil, nil), http.MethodGet, "/v1/model", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	m := trainModel(t)
	rec = do(t, newTestServer(t, m, nil), http.MethodGet, "/v1/model", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap model.ModelWeights
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, m.ID(), snap.ID)
	assert.Equal(t, m.Weights(), snap.Coefficients)
	assert.Equal(t, m.Features(), snap.Features)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{errors.NewConfigurationError("op", "missing target column"), http.StatusBadRequest},
		{errors.NewNoDataError("op", 3), http.StatusBadRequest},
		{errors.NewDimensionError("op", 3, 2, 1), http.StatusUnprocessableEntity},
		{errors.NewValidationError("glucose", "bad", 0), http.StatusUnprocessableEntity},
		{errors.NewValueError("op", "bad"), http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		status, _ := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	logger, _ := log.NewTestLogger(log.LevelDebug)
	s := New(Config{Addr: "127.0.0.1:0", Logger: logger})

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
