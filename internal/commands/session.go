package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/activity"
	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/logger"
	"github.com/tallyhq/tally/internal/storage"
)

// session is a loaded store plus everything a command needs around it.
type session struct {
	root    string
	cfg     *config.Config
	ctx     context.Context
	log     zerolog.Logger
	out     io.Writer
	backend storage.Backend
	store   *ledger.Store
}

// open resolves the project, reads config and loads the store.
func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	root, err := filepath.Abs(o.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfgPath := o.configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(root, config.FileName)
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	log := logger.NewConsole(cmd.ErrOrStderr(), level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithContext(ctx, log)

	backend, err := storage.Open(storage.Options{
		Backend:   cfg.Storage.Backend,
		Path:      cfg.StoragePath(root),
		RedisAddr: cfg.Storage.RedisAddr,
		RedisKey:  cfg.Storage.RedisKey,
	})
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	store := ledger.New(backend, ledger.WithLogger(log))
	if err := store.Load(ctx); err != nil {
		backend.Close()
		return nil, err
	}
	log.Debug().Str("backend", cfg.Storage.Backend).Str("root", root).Msg("store loaded")

	return &session{
		root:    root,
		cfg:     cfg,
		ctx:     ctx,
		log:     log,
		out:     cmd.OutOrStdout(),
		backend: backend,
		store:   store,
	}, nil
}

func (s *session) save() error {
	return s.store.Save(s.ctx)
}

// record appends to the activity log. Failures are logged, not returned:
// the store has already been saved.
func (s *session) record(action, subject, details string) {
	e := activity.Entry{
		Timestamp: time.Now(),
		Action:    action,
		Subject:   subject,
		Details:   details,
	}
	if err := activity.Append(s.root, e); err != nil {
		s.log.Warn().Err(err).Msg("writing activity log")
	}
}

func (s *session) close() {
	if err := s.backend.Close(); err != nil {
		s.log.Warn().Err(err).Msg("closing storage")
	}
}

// withSession opens a session for the duration of fn.
func (o *rootOptions) withSession(cmd *cobra.Command, fn func(*session) error) error {
	s, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s)
}
