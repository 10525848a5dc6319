package ledger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Export writes the current state as indented JSON.
func (s *Store) Export(w io.Writer) error {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling backup: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

// Import replaces the store's contents with a backup read from r. The
// backup must have a statements array and pass ValidateState; otherwise
// ErrInvalidBackup is returned and the store is unchanged.
func (s *Store) Import(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading backup: %w", err)
	}

	var probe struct {
		Statements json.RawMessage `json:"statements"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(probe.Statements), []byte("[")) {
		return fmt.Errorf("%w: statements must be an array", ErrInvalidBackup)
	}

	var st StoredState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if verrs := ValidateState(st); len(verrs) > 0 {
		joined := make([]error, len(verrs))
		for i, v := range verrs {
			joined[i] = v
		}
		return fmt.Errorf("%w: %w", ErrInvalidBackup, errors.Join(joined...))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adopt(st)
	s.touch()
	s.log.Debug().Int("statements", len(s.statements)).Msg("backup imported")
	return nil
}
