// Package cmd implements the CLI commands for tripmock.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "tripmock",
	Short:        "Mock tourism marketplace backend",
	Long:         "Serves the marketplace listing, save, currency and profile endpoints from an in-memory catalog, for developing and testing tripctl and other clients.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: built-in defaults)")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
