package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/logger"
)

// File stores state as a single JSON document on disk.
type File struct {
	path string
}

// NewFile returns a File backend writing to path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the state file. A missing file is not an error.
func (f *File) Load(ctx context.Context) (*ledger.StoredState, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		log := logger.FromContext(ctx)
		log.Debug().Str("path", f.path).Msg("no state file")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	return decode(data)
}

// Save writes to a temp file and renames it over the old one.
func (f *File) Save(ctx context.Context, st ledger.StoredState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	data, err := encode(st)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("path", f.path).Int("bytes", len(data)).Msg("state written")
	return nil
}

// Close is a no-op.
func (f *File) Close() error { return nil }
