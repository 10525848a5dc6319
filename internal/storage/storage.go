// Package storage implements ledger.Persister backends.
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/tallyhq/tally/internal/ledger"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Backend is a Persister that holds resources.
type Backend interface {
	ledger.Persister
	io.Closer
}

// Options selects and configures a backend.
type Options struct {
	Backend   string
	Path      string
	RedisAddr string
	RedisKey  string
}

// Open returns the backend named by opts.Backend. An empty name means file.
func Open(opts Options) (Backend, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFile(opts.Path), nil
	case BackendSQLite:
		db, err := OpenSQLite(opts.Path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendRedis:
		r, err := OpenRedis(opts.RedisAddr, opts.RedisKey)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

func encode(st ledger.StoredState) ([]byte, error) {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling state: %w", err)
	}
	return data, nil
}

// decode parses a stored payload. Payloads written by another schema
// version are not decoded past the version field, so the store can discard
// them without tripping over shape changes. A version that is missing or not
// a plain integer reads as 0.
func decode(data []byte) (*ledger.StoredState, error) {
	var probe struct {
		Version json.RawMessage `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	version, err := strconv.Atoi(string(probe.Version))
	if err != nil {
		version = 0
	}
	if version != ledger.CurrentVersion {
		return &ledger.StoredState{Version: version}, nil
	}

	var st ledger.StoredState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	return &st, nil
}
