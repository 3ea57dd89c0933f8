package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/glucorisk/internal/report"
	"github.com/YuminosukeSato/glucorisk/pretrained"
)

// scoreFlags maps flag names to scorer fields; names normalize to the field keys.
var scoreFlags = []struct {
	name  string
	usage string
}{
	{"pregnancies", "Number of pregnancies"},
	{"glucose", "Plasma glucose concentration (mg/dL)"},
	{"blood-pressure", "Diastolic blood pressure (mm Hg)"},
	{"skin-thickness", "Triceps skin fold thickness (mm)"},
	{"insulin", "2-hour serum insulin (mu U/ml)"},
	{"bmi", "Body mass index"},
	{"diabetes-pedigree-function", "Diabetes pedigree function"},
	{"age", "Age in years"},
}

func newScoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a record with the pretrained static model",
		Long: `Score a single record with fixed, offline-derived weights.

Unset flags are treated as missing. By default missing or invalid values are
replaced with fallback values and listed in the output; --strict rejects them.`,
		Example: `  glucorisk score --glucose 148 --blood-pressure 72 --bmi 33.6 --age 50
  glucorisk score --glucose 0 --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd)
			if err != nil {
				return err
			}

			inputs := make(map[string]float64, len(scoreFlags))
			for _, f := range scoreFlags {
				if !cmd.Flags().Changed(f.name) {
					continue
				}
				v, err := cmd.Flags().GetFloat64(f.name)
				if err != nil {
					return err
				}
				inputs[f.name] = v
			}

			opts := []pretrained.Option{}
			if cfg.Scorer.Strict {
				opts = append(opts, pretrained.WithStrictValidation())
			}
			res, err := pretrained.NewScorer(opts...).Score(inputs)
			if err != nil {
				return err
			}

			return report.Render(cmd.OutOrStdout(), cfg.Output, res, func(w io.Writer) error {
				return report.ScoreTable(w, &res)
			})
		},
	}

	for _, f := range scoreFlags {
		cmd.Flags().Float64(f.name, 0, f.usage)
	}
	cmd.Flags().Bool("strict", false, "Reject missing or invalid values instead of defaulting them")

	return cmd
}
