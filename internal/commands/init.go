package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/gitops"
	"github.com/tallyhq/tally/internal/storage"
)

func newInitCommand() *cobra.Command {
	var backend string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tally project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(cmd.OutOrStdout(), absDir, backend); err != nil {
				return err
			}
			if !useGit {
				return nil
			}
			return initGit(cmd, absDir)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", storage.BackendFile, "storage backend: file, sqlite or redis")
	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and commit the project skeleton")

	return cmd
}

func runInit(out io.Writer, dir, backend string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default()
	switch backend {
	case storage.BackendFile:
	case storage.BackendSQLite:
		cfg.Storage.Backend = backend
		cfg.Storage.Path = filepath.Join("data", "finance.db")
	case storage.BackendRedis:
		cfg.Storage.Backend = backend
		cfg.Storage.Path = ""
		cfg.Storage.RedisAddr = "localhost:6379"
	default:
		return fmt.Errorf("unknown storage backend %q", backend)
	}

	// Create directory structure.
	dirs := []string{
		"data",
		"import",
		filepath.Join("import", "processed"),
		"exports",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Statements and the store hold account data; keep them out of git.
	gitignore := "data/\nimport/\nexports/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Fprintf(out, "Initialized tally project at %s (%s storage)\n", dir, cfg.Storage.Backend)
	return nil
}

func initGit(cmd *cobra.Command, dir string) error {
	repo := gitops.Repo{Dir: dir}
	if err := repo.Init(cmd.Context()); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := repo.CommitAll(cmd.Context(), "init: tally project")
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Committed project skeleton (%s)\n", hash)
	return nil
}
