// Package cli provides the glucorisk command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/glucorisk/internal/config"
	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"github.com/YuminosukeSato/glucorisk/pkg/log"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "glucorisk",
		Short: "glucorisk - diabetes risk scoring",
		Long: `glucorisk trains a logistic regression risk model from a clinical or
survey dataset, scores individual records with a fixed pretrained scorer,
and serves both over HTTP.

The scores are illustrative and carry no medical validity.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if _, err := log.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr()); err != nil {
				return err
			}
			if cfg.FileUsed != "" {
				log.GetLogger().Debug("using config file", "path", cfg.FileUsed)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./glucorisk.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console|json)")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text|json|yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newTrainCommand())
	rootCmd.AddCommand(newScoreCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// getConfig retrieves the config stored by PersistentPreRunE.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if c, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return c, nil
	}
	return nil, errors.NewConfigurationError(cmd.Name(), "configuration not loaded")
}
