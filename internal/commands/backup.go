package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/activity"
)

func newBackupCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore all finance data",
	}
	cmd.AddCommand(newBackupExportCommand(opts), newBackupRestoreCommand(opts))
	return cmd
}

func newBackupExportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write a JSON backup (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				if args[0] == "-" {
					return s.store.Export(s.out)
				}
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating backup: %w", err)
				}
				if err := s.store.Export(f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("closing backup: %w", err)
				}
				fmt.Fprintf(s.out, "Exported %d statements to %s\n", len(s.store.Statements()), args[0])
				return nil
			})
		},
	}
}

func newBackupRestoreCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace all data with a JSON backup (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				var r io.Reader = cmd.InOrStdin()
				if args[0] != "-" {
					f, err := os.Open(args[0])
					if err != nil {
						return fmt.Errorf("opening backup: %w", err)
					}
					defer f.Close()
					r = f
				}
				if err := s.store.Import(r); err != nil {
					return err
				}
				if err := s.save(); err != nil {
					return err
				}
				n := len(s.store.Statements())
				s.record(activity.BackupRestored, args[0], fmt.Sprintf("%d statements", n))
				fmt.Fprintf(s.out, "Restored %d statements\n", n)
				return nil
			})
		},
	}
}
