package server

import (
	"encoding/json"
	"net/http"

	"github.com/YuminosukeSato/glucorisk/internal/report"
	"github.com/YuminosukeSato/glucorisk/pkg/errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", ModelLoaded: s.model != nil})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var body map[string]*float64
	if !decode(w, r, &body) {
		return
	}
	inputs := make(map[string]float64, len(body))
	for k, v := range body {
		if v != nil {
			inputs[k] = *v
		}
	}

	res, err := s.scorer.Score(inputs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if s.model == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no model trained; start the server with --data"})
		return
	}
	var req predictRequest
	if !decode(w, r, &req) {
		return
	}

	var (
		p    float64
		pred int
	)
	err := errors.SafeExecute("predict", func() error {
		var err error
		if p, err = s.model.PredictProbability(req.Features); err != nil {
			return err
		}
		pred, err = s.model.Predict(req.Features)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Prediction{
		ModelID:     s.model.ID(),
		Features:    s.model.Features(),
		Values:      req.Features,
		Probability: p,
		Prediction:  pred,
	})
}

func (s *Server) handleModel(w http.ResponseWriter, _ *http.Request) {
	if s.model == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no model trained; start the server with --data"})
		return
	}
	writeJSON(w, http.StatusOK, s.model.Snapshot())
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error(), Type: "DecodeError"})
		return false
	}
	return true
}

// writeError maps typed errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, typ := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Type: typ})
}

func statusFor(err error) (int, string) {
	var (
		cfgErr  *errors.ConfigurationError
		noData  *errors.NoDataError
		valErr  *errors.ValidationError
		dimErr  *errors.DimensionError
		valueEr *errors.ValueError
	)
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest, "ConfigurationError"
	case errors.As(err, &noData):
		return http.StatusBadRequest, "NoDataError"
	case errors.As(err, &dimErr):
		return http.StatusUnprocessableEntity, "DimensionError"
	case errors.As(err, &valErr):
		return http.StatusUnprocessableEntity, "ValidationError"
	case errors.As(err, &valueEr):
		return http.StatusUnprocessableEntity, "ValueError"
	default:
		return http.StatusInternalServerError, "InternalError"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
