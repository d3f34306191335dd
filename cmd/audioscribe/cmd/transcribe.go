package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"audioscribe/internal/app"
	"audioscribe/internal/app/assemblyai"
	"audioscribe/internal/app/history"
	"audioscribe/internal/app/model"
)

var (
	transcribeLanguage      string
	transcribeLanguageCodes []string
	transcribeSpeakerLabels bool
	transcribePunctuate     bool
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Upload a local audio file, wait for the transcript and save it to history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := app.MustNewLogger(Verbose)
		defer logger.Sync()

		secrets := app.ProvideSecretStore(cfg)
		repo, err := app.ProvideRepository(cfg, logger)
		if err != nil {
			return err
		}
		defer repo.Close()

		client := app.ProvideClient(cfg, secrets, logger)
		poller := app.ProvidePoller(cfg, client)

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open audio file: %w", err)
		}
		defer file.Close()

		ctx := cmd.Context()

		fmt.Println("Uploading...")
		uploadURL, err := client.Upload(ctx, file)
		if err != nil {
			return err
		}

		req := assemblyai.TranscriptRequest{
			AudioURL:      uploadURL,
			LanguageCode:  transcribeLanguage,
			LanguageCodes: transcribeLanguageCodes,
		}
		if cmd.Flags().Changed("speaker-labels") {
			req.SpeakerLabels = &transcribeSpeakerLabels
		}
		if cmd.Flags().Changed("punctuate") {
			req.Punctuate = &transcribePunctuate
		}

		transcript, err := client.CreateTranscript(ctx, req)
		if err != nil {
			return err
		}

		result, err := waitWithProgress(ctx, poller, transcript.ID)
		if err != nil {
			return err
		}

		switch result.Outcome {
		case assemblyai.OutcomeCompleted:
		case assemblyai.OutcomeError:
			return fmt.Errorf("transcription failed: %s", result.Transcript.Error)
		case assemblyai.OutcomeCancelled:
			return fmt.Errorf("transcription cancelled")
		case assemblyai.OutcomeTimedOut:
			return fmt.Errorf("transcription timed out after %d polls", poller.MaxAttempts)
		}

		item, err := repo.Add(ctx, history.NewItem{
			Kind:     model.KindTranscription,
			Text:     result.Transcript.Text,
			Language: result.Transcript.LanguageCode,
			Metadata: &model.Metadata{Filename: filepath.Base(args[0])},
		})
		if err != nil {
			return fmt.Errorf("save transcript to history: %w", err)
		}

		fmt.Printf("Saved to history as %s\n\n%s\n", item.ID, item.Text)
		return nil
	},
}

// waitWithProgress drives the poll loop behind a progress bar that fills
// as the attempt budget is consumed.
func waitWithProgress(ctx context.Context, poller *assemblyai.Poller, id string) (assemblyai.Result, error) {
	progress := mpb.New(mpb.WithWidth(48))
	bar := progress.New(int64(poller.MaxAttempts),
		mpb.BarStyle(),
		mpb.PrependDecorators(decor.Name("transcribing")),
		mpb.AppendDecorators(decor.Elapsed(decor.ET_STYLE_MMSS)),
	)

	result, err := poller.Wait(ctx, id, func(t assemblyai.Transcript) {
		bar.Increment()
	})
	bar.Abort(true)
	progress.Wait()
	return result, err
}

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeLanguage, "language", "l", "", "single language code (fr or en)")
	transcribeCmd.Flags().StringSliceVar(&transcribeLanguageCodes, "language-codes", nil, "ordered set of language codes")
	transcribeCmd.Flags().BoolVar(&transcribeSpeakerLabels, "speaker-labels", false, "enable speaker diarization")
	transcribeCmd.Flags().BoolVar(&transcribePunctuate, "punctuate", true, "enable punctuation")
	rootCmd.AddCommand(transcribeCmd)
}
