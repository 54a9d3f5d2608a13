package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmilne/telegrid/internal/config"
	"github.com/cmilne/telegrid/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "telegrid",
	Short: "Telegrid serves a TV guide grid built from an XMLTV feed",
	Long: `Telegrid downloads an XMLTV programme feed, keeps one day of listings
for the user's favorite channels in a local store, and serves the guide as a
positioned grid over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Telegrid",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Telegrid v0.1.0")
	},
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yml)")
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(refreshCmd)
}

func initConfig() {
	// Skip config loading for version command
	if len(os.Args) > 1 && os.Args[1] == "version" {
		return
	}

	if configFile != "" {
		config.SetConfigFile(configFile)
	}
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Get()
	logger.Initialize(cfg.GetAppLogLevel(), cfg.GetDatabaseLogLevel(), cfg.Logging.Format)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
