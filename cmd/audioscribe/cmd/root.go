package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"audioscribe/internal/config"
)

var (
	// Verbose enables development logging.
	Verbose bool
	// ConfigPath points at an optional YAML configuration file.
	ConfigPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "audioscribe",
	Short: "A transcription front end with a bounded history of recent results",
	Long: `audioscribe forwards audio to the AssemblyAI transcription API and keeps
a small bounded history of past transcriptions.
- serve runs the HTTP API the web UI talks to
- transcribe uploads a local file and waits for the transcript
- export and import move the history in and out as JSON or XLSX`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", "", "path to YAML config file")
}

// loadConfig loads the effective configuration for a subcommand.
func loadConfig() (*config.Config, error) {
	return config.Load(ConfigPath)
}
