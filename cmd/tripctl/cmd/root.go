// Package cmd implements the tripctl CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	domain "github.com/donaldgifford/trip-market/pkg/types"
)

var (
	cfgFile string
	rootCmd = newRootCmd()
)

// globalFlags are bound into viper under the same names.
var globalFlags = []string{"server", "output", "token", "role", "cookie", "page-size", "log-level"}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tripctl",
		Short: "CLI client for the tourism marketplace",
		Long: "tripctl browses marketplace activities, itineraries and products.\n" +
			"It filters, sorts and pages listings, converts prices into the\n" +
			"tourist's preferred currency and manages the tourist's saved items.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $HOME/.tripctl.yaml)")
	pf.String("server", "http://localhost:8080", "API server URL")
	pf.String("output", "table", "output format (table, json)")
	pf.String("token", "", "session token (the jwt cookie value)")
	pf.String("role", "guest", "role to browse as (guest, tourist, advertiser, seller, admin)")
	pf.String("cookie", "", `raw Cookie header, e.g. "jwt=...; role=tourist" (overrides --token and --role)`)
	pf.Int("page-size", 0, "listing rows per page (default from config, else 10)")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")

	for _, name := range globalFlags {
		cobra.CheckErr(viper.BindPFlag(name, pf.Lookup(name)))
	}

	root.AddCommand(
		resourceCmd(domain.ResourceActivity),
		resourceCmd(domain.ResourceItinerary),
		resourceCmd(domain.ResourceProduct),
		savedCmd(),
		ratesCmd(),
		convertCmd(),
		profileCmd(),
		browseCmd(),
	)

	return root
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command. An interrupt cancels the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// A .env file in the working directory may carry TRIPCTL_* settings.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tripctl")
	}

	viper.SetEnvPrefix("TRIPCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
