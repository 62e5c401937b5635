package main

import (
	"github.com/spf13/cobra"

	"github.com/graft-ml/graft/internal/config"
	"github.com/graft-ml/graft/internal/output"
)

var (
	// Global flags.
	configFlag  string
	verboseFlag bool

	// Resolved configuration, loaded during PersistentPreRunE.
	graftConfig *config.Config
)

// newRootCmd creates the root command for the graft CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "graft",
		Short:         "Compose transfer-learning image classifiers",
		Long:          `graft composes pretrained convolutional backbones with fresh classification heads and binds training configurations to them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			graftConfig = cfg

			output.SetupLogging(verboseFlag || cfg.Verbose)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: GRAFT_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output (env: GRAFT_VERBOSE)")

	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newArchsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
