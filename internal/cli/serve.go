package cli

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/glucorisk/internal/server"
	"github.com/YuminosukeSato/glucorisk/pkg/log"
	"github.com/YuminosukeSato/glucorisk/pretrained"
	"github.com/YuminosukeSato/glucorisk/risk"
)

func newServeCommand() *cobra.Command {
	var (
		dataPath string
		variant  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scoring API over HTTP",
		Long: `Start an HTTP server exposing:

  GET  /healthz      liveness and model status
  POST /v1/score     static scorer
  POST /v1/predict   trained model ({"features": [...]}), requires --data
  GET  /v1/model     trained model snapshot, requires --data`,
		Example: `  glucorisk serve --addr :8080 --data diabetes.csv`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			logger := log.GetLogger()

			var m *risk.Model
			if dataPath != "" {
				if m, err = trainFromFile(dataPath, variant, cfg); err != nil {
					return err
				}
				logger.Info("model ready", log.EstimatorIDKey, m.ID(), log.AccuracyKey, m.Metrics().Accuracy)
			}

			opts := []pretrained.Option{pretrained.WithLogger(logger)}
			if cfg.Scorer.Strict {
				opts = append(opts, pretrained.WithStrictValidation())
			}

			srv := server.New(server.Config{
				Addr:   cfg.Server.Addr,
				Model:  m,
				Scorer: pretrained.NewScorer(opts...),
				Logger: logger,
			})
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&dataPath, "data", "", "CSV dataset to train a model from at start-up")
	cmd.Flags().StringVar(&variant, "variant", "auto", "Dataset variant (auto|basic|comprehensive)")
	cmd.Flags().Bool("strict", false, "Reject missing or invalid scorer inputs")
	cmd.Flags().Float64("learning-rate", 0.01, "Gradient descent learning rate")
	cmd.Flags().Int("iterations", 1000, "Number of gradient descent iterations")

	return cmd
}
