package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"audioscribe/internal/api/dto"
	"audioscribe/internal/app"
	"audioscribe/internal/app/model"
)

var importCmd = &cobra.Command{
	Use:   "import <json-file>",
	Short: "Merge a previously exported JSON file into the history",
	Args:  cobra.ExactArgs(1),
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

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}

		var items []dto.ImportItem
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("invalid import file: array of history items expected: %w", err)
		}

		progress := mpb.New(mpb.WithWidth(48))
		bar := progress.New(int64(len(items)),
			mpb.BarStyle(),
			mpb.PrependDecorators(decor.Name("importing")),
			mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")),
		)

		candidates := make([]model.HistoryItem, 0, len(items))
		for _, item := range items {
			candidates = append(candidates, item.ToModel())
			bar.Increment()
		}
		progress.Wait()

		if err := repo.ImportMerge(cmd.Context(), candidates); err != nil {
			return err
		}

		count, err := repo.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Merged %d items; history now holds %d of %d\n",
			len(candidates), count, repo.Capacity())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
