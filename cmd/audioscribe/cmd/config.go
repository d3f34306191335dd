package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"audioscribe/internal/app"
	"audioscribe/internal/app/secret"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the transcription provider credential",
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <api-key>",
	Short: "Save the provider API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		secrets := app.ProvideSecretStore(cfg)
		if err := secrets.Set(args[0]); err != nil {
			return err
		}
		fmt.Println("API key saved")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured provider API key in masked form",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		secrets := app.ProvideSecretStore(cfg)
		key, err := secrets.Get()
		if err != nil {
			return err
		}
		if key == "" {
			fmt.Println("API key: not configured")
			return nil
		}
		fmt.Printf("API key: %s (%d characters)\n", secret.Mask(key), len(key))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
