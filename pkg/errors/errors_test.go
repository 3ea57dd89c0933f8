package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "glucorisk: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "glucorisk: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			// 基本的なエラーメッセージの確認
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewConfigurationError(t *testing.T) {
	err := NewConfigurationError("dataset.Extract", "missing target column")

	want := "glucorisk: dataset.Extract: missing target column"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var cfgErr *ConfigurationError
	if !As(err, &cfgErr) {
		t.Fatal("Error should be castable to *ConfigurationError")
	}
	if cfgErr.Reason != "missing target column" {
		t.Errorf("Reason = %q", cfgErr.Reason)
	}
}

func TestNewNoDataError(t *testing.T) {
	err := NewNoDataError("dataset.Extract", 12)

	want := "glucorisk: dataset.Extract: no valid rows (0 of 12 usable)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var noData *NoDataError
	if !As(err, &noData) {
		t.Error("Error should be castable to *NoDataError")
	}

	// 空データの共通エラーとしても判定できること
	if !Is(err, ErrEmptyData) {
		t.Error("NoDataError should match ErrEmptyData")
	}
}

func TestNewDimensionError(t *testing.T) {
	tests := []struct {
		name string
		axis int
		want string
	}{
		{"rows", 0, "glucorisk: Predict: dimension mismatch on axis 0 (rows). Expected 10, got 9"},
		{"features", 1, "glucorisk: Predict: dimension mismatch on axis 1 (features). Expected 10, got 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError("Predict", 10, 9, tt.axis)
			if err.Error() != tt.want {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.want)
			}

			var dimErr *DimensionError
			if !As(err, &dimErr) {
				t.Error("Error should be castable to *DimensionError")
			}
		})
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("StandardScaler", "Transform")

	want := "glucorisk: StandardScaler: this model is not fitted yet. Call Fit() before using Transform()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("learning_rate", "must be positive and finite", -0.5)

	want := "glucorisk: validation failed for parameter 'learning_rate': must be positive and finite (got: -0.5)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValidationError")
	}
}

func TestNumericalInstabilityError(t *testing.T) {
	err := NewNumericalInstabilityError("gradient_update", []float64{1, 2, 3, 4, 5, 6, 7}, 42)

	msg := err.Error()
	if !strings.Contains(msg, "gradient_update") || !strings.Contains(msg, "iteration 42") {
		t.Errorf("unexpected message: %s", msg)
	}
	if !strings.Contains(msg, "...") {
		t.Error("long value lists should be truncated")
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("weights", []float64{0.1, -2, 3}, 0); err != nil {
		t.Errorf("finite values should pass, got %v", err)
	}

	nan := 0.0
	nan = nan / nan
	err := CheckNumericalStability("weights", []float64{0.1, nan}, 7)
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
	if numErr.Iteration != 7 {
		t.Errorf("Iteration = %d, want 7", numErr.Iteration)
	}
}

func TestClipValueAndSafeDivide(t *testing.T) {
	if got := ClipValue(300, -250, 250); got != 250 {
		t.Errorf("ClipValue upper = %v", got)
	}
	if got := ClipValue(-300, -250, 250); got != -250 {
		t.Errorf("ClipValue lower = %v", got)
	}
	if got := ClipValue(1.5, -250, 250); got != 1.5 {
		t.Errorf("ClipValue passthrough = %v", got)
	}
	if got := SafeDivide(3, 0); got != 0 {
		t.Errorf("SafeDivide by zero = %v", got)
	}
	if got := SafeDivide(3, 4); got != 0.75 {
		t.Errorf("SafeDivide = %v", got)
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Predict", 10, 5)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Predict: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestStackTrace(t *testing.T) {
	if StackTrace(nil) != "" {
		t.Error("nil error should have no stack trace")
	}
	if StackTrace(NewValueError("Op", "msg")) == "" {
		t.Error("errors built with WithStack should expose a stack trace")
	}
}

func TestWarnRoutesToZerologFunc(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	SetZerologWarnFunc(func(w error) {
		event := logger.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			event = event.Object("warning", m)
		}
		event.Msg(w.Error())
	})
	defer SetZerologWarnFunc(nil)

	Warn(NewUndefinedMetricWarning("precision", "no predicted samples", 0))

	out := buf.String()
	if !strings.Contains(out, `"metric":"precision"`) {
		t.Errorf("expected structured warning, got %s", out)
	}
	if !strings.Contains(out, "UndefinedMetricWarning") {
		t.Errorf("expected warning type in output, got %s", out)
	}
}
