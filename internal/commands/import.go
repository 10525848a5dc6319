package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/activity"
	"github.com/tallyhq/tally/internal/extract"
	"github.com/tallyhq/tally/internal/importer"
	"github.com/tallyhq/tally/internal/model"
)

type importFlags struct {
	accountType string
	format      string
	name        string
}

type importSource struct {
	importer.FileInfo
	label     string // statement file name; --name overrides the base name
	importDir bool   // lives in <root>/import and moves to processed/ afterwards
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import bank statements (CSV, PDF or image)",
		Long: "Import one or more statements. With no arguments every statement in\n" +
			"<dir>/import/ is imported and moved to import/processed/.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				return runImport(s, opts, args, flags)
			})
		},
	}

	cmd.Flags().StringVar(&flags.accountType, "account-type", "", "checking or credit (default: config, then detect from header)")
	cmd.Flags().StringVar(&flags.format, "format", "", "parser name, e.g. chase-credit (overrides --account-type for CSV)")
	cmd.Flags().StringVar(&flags.name, "name", "", "file name to record (single file only)")

	return cmd
}

func runImport(s *session, opts *rootOptions, args []string, flags importFlags) error {
	if flags.accountType != "" && !model.AccountType(flags.accountType).Valid() {
		return fmt.Errorf("invalid account type %q: want checking or credit", flags.accountType)
	}

	var sources []importSource
	if len(args) == 0 {
		files, err := importer.Scan(s.root)
		if err != nil {
			return err
		}
		for _, f := range files {
			sources = append(sources, importSource{FileInfo: f, label: f.Name, importDir: true})
		}
	} else {
		for _, a := range args {
			p, err := filepath.Abs(a)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			f := importer.FileInfo{Name: filepath.Base(p), Path: p}
			sources = append(sources, importSource{FileInfo: f, label: f.Name})
		}
	}

	if len(sources) == 0 {
		fmt.Fprintln(s.out, "No statements to import.")
		return nil
	}
	if flags.name != "" {
		if len(sources) != 1 {
			return fmt.Errorf("--name requires exactly one file")
		}
		sources[0].label = flags.name
	}

	imp := &statementImporter{
		session:  s,
		opts:     opts,
		flags:    flags,
		registry: importer.DefaultRegistry(),
	}

	var importErr error
	var entries []activity.Entry
	for _, src := range sources {
		stmt, skipped, err := imp.read(src)
		if err != nil {
			importErr = fmt.Errorf("importing %s: %w", src.label, err)
			break
		}

		if s.store.AddStatement(stmt) {
			fmt.Fprintf(s.out, "Imported %s: %d transactions (%s to %s)",
				stmt.FileName, len(stmt.Transactions), stmt.Period.Start, stmt.Period.End)
			if skipped > 0 {
				fmt.Fprintf(s.out, ", %d rows skipped", skipped)
			}
			fmt.Fprintln(s.out)
			entries = append(entries, activity.Entry{
				Action:  activity.StatementAdded,
				Subject: stmt.FileName,
				Details: fmt.Sprintf("%s, %d transactions, %s to %s", stmt.AccountType, len(stmt.Transactions), stmt.Period.Start, stmt.Period.End),
			})
		} else {
			yellow.Fprintf(s.out, "Skipped %s: already imported\n", stmt.FileName)
			entries = append(entries, activity.Entry{Action: activity.StatementSkipped, Subject: stmt.FileName})
		}

		if src.importDir {
			if err := importer.MarkProcessed(s.root, src.Name); err != nil {
				importErr = err
				break
			}
		}
	}

	if err := s.save(); err != nil {
		return err
	}
	for _, e := range entries {
		s.record(e.Action, e.Subject, e.Details)
	}
	return importErr
}

type statementImporter struct {
	session   *session
	opts      *rootOptions
	flags     importFlags
	registry  *importer.Registry
	extractor extract.Extractor
}

// read parses one source into a statement and reports how many rows were
// dropped as malformed.
func (im *statementImporter) read(src importSource) (model.Statement, int, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return model.Statement{}, 0, fmt.Errorf("reading file: %w", err)
	}

	skipped := 0
	onSkip := func(rs importer.RowSkip) {
		skipped++
		im.session.log.Debug().
			Str("file", src.label).
			Int("line", rs.Line).
			Str("reason", rs.Reason).
			Str("raw", rs.Raw).
			Msg("row skipped")
	}
	parseOpts := []importer.Option{
		importer.WithFileName(src.label),
		importer.WithRowSkipped(onSkip),
	}

	if src.IsCSV() {
		p, err := im.parser(string(data))
		if err != nil {
			return model.Statement{}, 0, err
		}
		stmt, err := p.Parse(bytes.NewReader(data), parseOpts...)
		return stmt, skipped, err
	}

	if im.extractor == nil {
		ex, err := im.opts.newExtractor(im.session.ctx, im.session.cfg.Extraction)
		if err != nil {
			return model.Statement{}, 0, err
		}
		im.extractor = ex
	}
	res, err := im.extractor.Extract(im.session.ctx, src.Name, data)
	if err != nil {
		return model.Statement{}, 0, err
	}

	at := im.configuredAccountType()
	if at == "" {
		at = res.AccountType
	}
	stmt := importer.FromExtraction(res.Rows, at, parseOpts...)
	return stmt, skipped, nil
}

// parser picks the CSV parser: --format, then the configured account type,
// then header detection.
func (im *statementImporter) parser(text string) (importer.Parser, error) {
	if im.flags.format != "" {
		p := im.registry.Get(im.flags.format)
		if p == nil {
			return nil, fmt.Errorf("unknown format %q", im.flags.format)
		}
		return p, nil
	}

	at := im.configuredAccountType()
	if at == "" {
		at = importer.DetectAccountType(text)
		im.session.log.Debug().Str("account_type", string(at)).Msg("detected account type")
	}
	p := im.registry.ForAccountType(at)
	if p == nil {
		return nil, fmt.Errorf("no parser for account type %q", at)
	}
	return p, nil
}

func (im *statementImporter) configuredAccountType() model.AccountType {
	if im.flags.accountType != "" {
		return model.AccountType(im.flags.accountType)
	}
	at := model.AccountType(im.session.cfg.Import.DefaultAccountType)
	if at.Valid() {
		return at
	}
	return ""
}
