package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/buildinfo"
	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/extract"
)

// rootOptions carries global flags and injectable collaborators.
type rootOptions struct {
	dir        string
	configPath string
	logLevel   string
	noColor    bool

	newExtractor func(ctx context.Context, cfg config.ExtractionConfig) (extract.Extractor, error)
}

func defaultExtractor(ctx context.Context, cfg config.ExtractionConfig) (extract.Extractor, error) {
	return extract.NewGemini(ctx, cfg.APIKey(), cfg.Model)
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&rootOptions{newExtractor: defaultExtractor})
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal bank statement ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.dir, "dir", ".", "project directory")
	flags.StringVar(&opts.configPath, "config", "", "config file (default <dir>/"+config.FileName+")")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log.level from config")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(opts),
		newLedgerCommand(opts),
		newSummaryCommand(opts),
		newStatementsCommand(opts),
		newRecategorizeCommand(opts),
		newCategoriesCommand(opts),
		newBackupCommand(opts),
		newClearCommand(opts),
		newActivityCommand(opts),
	)

	return rootCmd
}
