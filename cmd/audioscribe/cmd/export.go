package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"audioscribe/internal/app"
	"audioscribe/internal/app/history/export"
)

var (
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the history collection to a JSON or XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := app.MustNewLogger(Verbose)
		defer logger.Sync()

		repo, err := app.ProvideRepository(cfg, logger)
		if err != nil {
			return err
		}
		defer repo.Close()

		items, err := repo.List(cmd.Context())
		if err != nil {
			return err
		}

		output := exportOutput
		if output == "" {
			output = fmt.Sprintf("transcriptions-%s.%s",
				time.Now().UTC().Format("2006-01-02"), exportFormat)
		}

		switch exportFormat {
		case "json":
			err = export.ToJSON(items, output)
		case "xlsx":
			err = export.ToExcel(items, output)
		default:
			return fmt.Errorf("unknown export format %q (want json or xlsx)", exportFormat)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Exported %d items to %s\n", len(items), output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file path")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "export format: json or xlsx")
	rootCmd.AddCommand(exportCmd)
}
