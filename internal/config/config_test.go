package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/glucorisk/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glucorisk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Float64("learning-rate", 0.01, "")
	fs.Int("iterations", 1000, "")
	fs.String("log-level", "warn", "")
	fs.StringP("output", "o", "text", "")
	fs.Bool("strict", false, "")
	fs.String("data", "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	testChdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 0.01, cfg.Training.LearningRate)
	assert.Equal(t, 1000, cfg.Training.Iterations)
	assert.Equal(t, 0, cfg.Training.LossEvery)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.False(t, cfg.Scorer.Strict)
	assert.Equal(t, "text", cfg.Output)
	assert.Empty(t, cfg.FileUsed)
}

func TestLoad_Precedence(t *testing.T) {
	testChdir(t, t.TempDir())
	path := writeConfig(t, `
training:
  learning_rate: 0.05
  iterations: 200
log:
  level: info
output: json
`)

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 0.05, cfg.Training.LearningRate)
		assert.Equal(t, 200, cfg.Training.Iterations)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Output)
		assert.Equal(t, path, cfg.FileUsed)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("GLUCORISK_TRAINING__ITERATIONS", "300")
		t.Setenv("GLUCORISK_SCORER__STRICT", "true")
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, 300, cfg.Training.Iterations)
		assert.True(t, cfg.Scorer.Strict)
		assert.Equal(t, 0.05, cfg.Training.LearningRate)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("GLUCORISK_TRAINING__ITERATIONS", "300")
		fs := testFlags()
		require.NoError(t, fs.Parse([]string{"--iterations", "400", "-o", "yaml", "--data", "x.csv"}))

		cfg, err := Load(path, fs)
		require.NoError(t, err)
		assert.Equal(t, 400, cfg.Training.Iterations)
		assert.Equal(t, "yaml", cfg.Output)
		// unchanged flags keep lower-precedence values
		assert.Equal(t, 0.05, cfg.Training.LearningRate)
		assert.Equal(t, "info", cfg.Log.Level)
	})
}

func TestLoad_DiscoversFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glucorisk.yaml"), []byte("server:\n  addr: \":9090\"\n"), 0o600))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "glucorisk.yaml", cfg.FileUsed)
}

func TestLoad_Errors(t *testing.T) {
	testChdir(t, t.TempDir())

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		var ce *errors.ConfigurationError
		assert.True(t, errors.As(err, &ce))
	})

	t.Run("invalid output", func(t *testing.T) {
		_, err := Load(writeConfig(t, "output: xml\n"), nil)
		var ve *errors.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "output", ve.ParamName)
	})

	t.Run("invalid iterations", func(t *testing.T) {
		t.Setenv("GLUCORISK_TRAINING__ITERATIONS", "0")
		_, err := Load("", nil)
		var ve *errors.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "training.iterations", ve.ParamName)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "training: [\n"), nil)
		assert.Error(t, err)
	})
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "training.learning_rate", envKey("GLUCORISK_TRAINING__LEARNING_RATE"))
	assert.Equal(t, "output", envKey("GLUCORISK_OUTPUT"))
}

// testChdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
