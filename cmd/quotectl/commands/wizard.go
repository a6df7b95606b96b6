package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"

	"quoteforge/cmd/quotectl/tui"
	"quoteforge/config"
	"quoteforge/models"
	"quoteforge/services/draft"
	"quoteforge/services/pricing"
	"quoteforge/services/wizard"
)

const draftFileName = "quote-draft.json"

func wizardCmd() *cobra.Command {
	var (
		dir       string
		submitURL string
	)
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Fill in a quote interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig
			if dir == "" {
				dir = cfg.DraftDir
			}
			if dir == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				dir = filepath.Join(home, ".quoteforge")
			}
			if submitURL == "" {
				submitURL = cfg.SubmissionURL
			}

			storage, err := draft.NewFileStorage(dir, draftFileName)
			if err != nil {
				return err
			}
			// The terminal belongs to the UI, so logs go to a file next to the draft.
			logger, err := fileLogger(filepath.Join(dir, "wizard.log"))
			if err != nil {
				return err
			}
			defer logger.Sync()

			catalog := pricing.Default()
			unit := pricing.ParseCurrency(cfg.Currency)
			store := draft.New(storage, draft.WithCatalog(catalog), draft.WithLogger(logger))
			ctrl := wizard.NewController(store, nil,
				wizard.NewHTTPSubmitter(submitURL, cfg.SubmissionTimeout),
				wizard.WithControllerLogger(logger),
				wizard.WithCurrency(unit, language.AmericanEnglish),
				wizard.OnSubmitted(func(q models.PricedQuote) {
					logger.Info("Quote submitted from terminal", zap.String("quoteID", q.ID))
				}),
			)

			autosaver := wizard.NewAutosaver(cfg.AutosaveInterval, logger)
			defer autosaver.Stop()
			stopAutosave, err := autosaver.Schedule("terminal", ctrl)
			if err != nil {
				return err
			}
			defer stopAutosave()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if _, err := tea.NewProgram(tui.New(ctx, ctrl, catalog), tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("wizard: %w", err)
			}

			if store.Hydrated() && store.MemoryOnly() {
				fmt.Fprintln(cmd.ErrOrStderr(), "Your draft could not be saved to", storage.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory holding the saved draft (default ~/.quoteforge)")
	cmd.Flags().StringVar(&submitURL, "submit-url", "", "quote intake endpoint (default SUBMISSION_URL)")
	return cmd
}

func fileLogger(path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	return cfg.Build()
}
