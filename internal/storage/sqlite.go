package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/logger"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS finance_state (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	version     INTEGER NOT NULL,
	payload     TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);`

// SQLite keeps the state document in a single-row table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps :memory: databases and writers consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load returns the stored document, or nil if none was saved.
func (s *SQLite) Load(ctx context.Context) (*ledger.StoredState, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM finance_state WHERE id = 1").Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying state: %w", err)
	}
	return decode([]byte(payload))
}

// Save upserts the document inside a transaction.
func (s *SQLite) Save(ctx context.Context, st ledger.StoredState) error {
	data, err := encode(st)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO finance_state (id, version, payload, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		st.Version, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing state: %w", err)
	}
	log := logger.FromContext(ctx)
	log.Debug().Int("version", st.Version).Int("bytes", len(data)).Msg("state row upserted")
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
