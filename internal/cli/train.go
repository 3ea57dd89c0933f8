package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/glucorisk/core/model"
	"github.com/YuminosukeSato/glucorisk/internal/report"
	"github.com/YuminosukeSato/glucorisk/risk"
)

// defaultPlotPoints is the number of loss samples taken when --loss-plot is
// set without --loss-every.
const defaultPlotPoints = 50

type trainOutput struct {
	Model      *model.ModelWeights `json:"model" yaml:"model"`
	Prediction *report.Prediction  `json:"prediction,omitempty" yaml:"prediction,omitempty"`
}

func newTrainCommand() *cobra.Command {
	var (
		dataPath string
		variant  string
		predict  []float64
		lossPlot string
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a risk model from a CSV dataset",
		Long: `Train a logistic regression model on the first 80% of the rows and
report accuracy, precision, recall, F1 and the confusion matrix on the rest.

Rows are used in file order without shuffling.`,
		Example: `  glucorisk train --data diabetes.csv
  glucorisk train --data diabetes.csv --predict 148,72,33.6,50 -o json
  glucorisk train --data survey.csv --variant comprehensive --loss-plot loss.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}
			if lossPlot != "" && cfg.Training.LossEvery == 0 {
				cfg.Training.LossEvery = max(1, cfg.Training.Iterations/defaultPlotPoints)
			}

			m, err := trainFromFile(dataPath, variant, cfg)
			if err != nil {
				return err
			}

			out := trainOutput{Model: m.Snapshot()}
			if len(predict) > 0 {
				out.Prediction, err = predictOne(m, predict)
				if err != nil {
					return err
				}
			}

			if lossPlot != "" {
				if err := report.SaveLossCurve(m.LossHistory(), lossPlot); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "loss curve written to %s\n", lossPlot)
			}

			return report.Render(cmd.OutOrStdout(), cfg.Output, out, func(w io.Writer) error {
				if err := report.ModelTable(w, m); err != nil {
					return err
				}
				if out.Prediction != nil {
					return report.PredictionTable(w, out.Prediction)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "CSV dataset with a header row")
	cmd.Flags().StringVar(&variant, "variant", "auto", "Dataset variant (auto|basic|comprehensive)")
	cmd.Flags().Float64SliceVar(&predict, "predict", nil, "Raw feature values to score with the trained model, in feature order")
	cmd.Flags().StringVar(&lossPlot, "loss-plot", "", "Write the training loss curve to this image file (.png, .svg, .pdf)")
	cmd.Flags().Int("loss-every", 0, "Record the training loss every N iterations")
	cmd.Flags().Float64("learning-rate", 0.01, "Gradient descent learning rate")
	cmd.Flags().Int("iterations", 1000, "Number of gradient descent iterations")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.RegisterFlagCompletionFunc("variant", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "basic", "comprehensive"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func predictOne(m *risk.Model, values []float64) (*report.Prediction, error) {
	p, err := m.PredictProbability(values)
	if err != nil {
		return nil, err
	}
	pred, err := m.Predict(values)
	if err != nil {
		return nil, err
	}
	return &report.Prediction{
		ModelID:     m.ID(),
		Features:    m.Features(),
		Values:      values,
		Probability: p,
		Prediction:  pred,
	}, nil
}
