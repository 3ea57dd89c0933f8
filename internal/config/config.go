// Package config loads glucorisk settings from defaults, a YAML file,
// GLUCORISK_ environment variables and command-line flags.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/YuminosukeSato/glucorisk/linear"
	"github.com/YuminosukeSato/glucorisk/pkg/errors"
)

// EnvPrefix prefixes every environment override. A double underscore
// separates nested keys: GLUCORISK_TRAINING__LEARNING_RATE.
const EnvPrefix = "GLUCORISK_"

// DefaultAddr is the listen address of the HTTP service.
const DefaultAddr = ":8080"

// configFiles are searched in the working directory when --config is unset.
var configFiles = []string{"glucorisk.yaml", "glucorisk.yml"}

// flagKeys maps CLI flag names to config keys. Flags not listed here are not
// configuration.
var flagKeys = map[string]string{
	"learning-rate": "training.learning_rate",
	"iterations":    "training.iterations",
	"loss-every":    "training.loss_every",
	"log-level":     "log.level",
	"log-format":    "log.format",
	"addr":          "server.addr",
	"strict":        "scorer.strict",
	"output":        "output",
}

// Config is the resolved configuration.
type Config struct {
	Training TrainingConfig `koanf:"training"`
	Log      LogConfig      `koanf:"log"`
	Server   ServerConfig   `koanf:"server"`
	Scorer   ScorerConfig   `koanf:"scorer"`
	Output   string         `koanf:"output"`

	// FileUsed is the config file that was loaded, if any.
	FileUsed string `koanf:"-"`
}

// TrainingConfig holds gradient descent settings.
type TrainingConfig struct {
	LearningRate float64 `koanf:"learning_rate"`
	Iterations   int     `koanf:"iterations"`
	LossEvery    int     `koanf:"loss_every"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// ScorerConfig holds static scorer settings.
type ScorerConfig struct {
	Strict bool `koanf:"strict"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"training.learning_rate": linear.DefaultLearningRate,
		"training.iterations":    linear.DefaultIterations,
		"training.loss_every":    0,
		"log.level":              "warn",
		"log.format":             "console",
		"server.addr":            DefaultAddr,
		"scorer.strict":          false,
		"output":                 "text",
	}
}

// Load resolves the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// cfgFile may be empty, in which case glucorisk.yaml in the working
// directory is used when present. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "load defaults")
	}

	used, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", used)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "load env vars")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(err, "load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.FileUsed = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps GLUCORISK_TRAINING__LEARNING_RATE to training.learning_rate.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.NewConfigurationError("config.Load", "config file "+explicit+" not found")
		}
		return explicit, nil
	}
	for _, name := range configFiles {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Training.LearningRate <= 0 || !errors.IsFinite(c.Training.LearningRate) {
		return errors.NewValidationError("training.learning_rate", "must be a finite positive number", c.Training.LearningRate)
	}
	if c.Training.Iterations < 1 {
		return errors.NewValidationError("training.iterations", "must be at least 1", c.Training.Iterations)
	}
	if c.Training.LossEvery < 0 {
		return errors.NewValidationError("training.loss_every", "must not be negative", c.Training.LossEvery)
	}
	switch c.Output {
	case "text", "json", "yaml":
	default:
		return errors.NewValidationError("output", "must be one of text, json, yaml", c.Output)
	}
	switch c.Log.Format {
	case "console", "text", "json":
	default:
		return errors.NewValidationError("log.format", "must be one of console, json", c.Log.Format)
	}
	if c.Server.Addr == "" {
		return errors.NewValidationError("server.addr", "is required", c.Server.Addr)
	}
	return nil
}
