package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLogger_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("hidden debug")
	logger.Info("training completed", OperationKey, OperationFit, SamplesKey, 614)

	out := buf.String()
	assert.NotContains(t, out, "hidden debug")
	require.Contains(t, out, "training completed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, OperationFit, entry[OperationKey])
	assert.Equal(t, 614.0, entry[SamplesKey])
}

func TestZerologLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug).With(ModelNameKey, "LogisticRegression")

	logger.Debug("step", IterationKey, 10)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "LogisticRegression", entry[ModelNameKey])
	assert.Equal(t, 10.0, entry[IterationKey])
}

func TestZerologLogger_ErrorCarriesStructureAndStack(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	err := errors.NewDimensionError("Model.Predict", 4, 3, 1)
	logger.Error("prediction failed", err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	obj, ok := entry["error"].(map[string]interface{})
	require.True(t, ok, "typed errors should be logged as objects, got %v", entry["error"])
	assert.Equal(t, "DimensionError", obj["type"])
	assert.NotEmpty(t, entry[StacktraceKey])
}

func TestZerologLogger_PlainError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	logger.Warn("read failed", "cause", fmt.Errorf("boom"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["cause"])
}

func TestZerologLogger_Enabled(t *testing.T) {
	logger := NewZerologLogger(&bytes.Buffer{}, LevelWarn)
	ctx := context.Background()

	assert.False(t, logger.Enabled(ctx, LevelDebug))
	assert.False(t, logger.Enabled(ctx, LevelInfo))
	assert.True(t, logger.Enabled(ctx, LevelWarn))
	assert.True(t, logger.Enabled(ctx, LevelError))
	assert.False(t, Nop().Enabled(ctx, LevelError))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"", LevelInfo, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				var valErr *errors.ValidationError
				assert.True(t, errors.As(err, &valErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetup_RoutesWarnings(t *testing.T) {
	previous := GetLogger()
	defer func() {
		SetLogger(previous)
		errors.SetZerologWarnFunc(nil)
	}()

	var buf bytes.Buffer
	logger, err := Setup("warn", "json", &buf)
	require.NoError(t, err)
	assert.Same(t, logger, GetLogger())

	errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true samples", 0))
	assert.Contains(t, buf.String(), `"metric":"recall"`)

	_, err = Setup("info", "xml", &buf)
	assert.Error(t, err)
}

func TestTestLogger(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelInfo)

	testLogger.Debug("not captured")
	testLogger.With(ComponentKey, "linear").Info("fit done", SamplesKey, 10, "cause", fmt.Errorf("x"))

	assert.NotContains(t, buffer.String(), "not captured")
	assert.True(t, testLogger.ContainsMessage("fit done"))
	assert.True(t, testLogger.ContainsField(ComponentKey, "linear"))
	assert.True(t, testLogger.ContainsField(SamplesKey, 10.0))
	assert.True(t, testLogger.ContainsField("cause", "x"))

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0]["level"])

	testLogger.Clear()
	assert.Empty(t, buffer.String())
}
