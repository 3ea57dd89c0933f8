package cli

import (
	"os"
	"strings"

	"github.com/YuminosukeSato/glucorisk/dataset"
	"github.com/YuminosukeSato/glucorisk/internal/config"
	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"github.com/YuminosukeSato/glucorisk/pkg/log"
	"github.com/YuminosukeSato/glucorisk/risk"
)

// loadTable reads a CSV dataset from path.
func loadTable(path string) (dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset.Table{}, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()
	return dataset.ReadCSV(f)
}

// resolveVariant returns the named variant, or detects it from the header for "auto".
func resolveVariant(name string, columns []string) (dataset.Variant, error) {
	if strings.EqualFold(strings.TrimSpace(name), "auto") || name == "" {
		return dataset.Detect(columns)
	}
	return dataset.ParseVariant(name)
}

// trainFromFile reads path and trains a model with the configured hyperparameters.
func trainFromFile(path, variant string, cfg *config.Config) (*risk.Model, error) {
	tbl, err := loadTable(path)
	if err != nil {
		return nil, err
	}
	v, err := resolveVariant(variant, tbl.Columns)
	if err != nil {
		return nil, err
	}

	logger := log.GetLogger()
	logger.Info("training model",
		"path", path,
		log.VariantKey, v.String(),
		log.LearningRateKey, cfg.Training.LearningRate,
		log.IterationsKey, cfg.Training.Iterations,
	)
	return risk.Train(tbl, v,
		risk.WithLearningRate(cfg.Training.LearningRate),
		risk.WithIterations(cfg.Training.Iterations),
		risk.WithLossCallback(cfg.Training.LossEvery, nil),
		risk.WithLogger(logger),
	)
}
