// Package refresh decides when the sample database is rebuilt. The default
// policy merges before every read; watch mode instead rebuilds when a source
// document changes on disk.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fcc-hep/samplecat/internal/samples"
	"github.com/fcc-hep/samplecat/pkg/lifecycle"
)

// Rebuild policies.
const (
	ModeAlways = "always"
	ModeWatch  = "watch"
)

// Service implements samples.Provider around a Merger.
type Service struct {
	merger  *samples.Merger
	mode    string
	watcher *Watcher
	logger  *slog.Logger

	mu sync.RWMutex
	db *samples.Database
}

// New creates a Service with the given rebuild policy. In watch mode the
// paths are monitored with fsnotify and merges happen on change; in always
// mode every Database call runs a fresh merge.
func New(merger *samples.Merger, mode string, watchPaths []string, logger *slog.Logger) (*Service, error) {
	s := &Service{
		merger: merger,
		mode:   mode,
		logger: logger.With("system", "refresh"),
	}

	switch mode {
	case ModeAlways:
	case ModeWatch:
		w, err := NewWatcher(watchPaths, s.rebuild, s.logger)
		if err != nil {
			return nil, fmt.Errorf("create source watcher: %w", err)
		}
		s.watcher = w
	default:
		return nil, fmt.Errorf("unknown refresh mode: %q", mode)
	}

	return s, nil
}

// Start registers lifecycle hooks. Watch mode performs an initial merge on
// startup and then rebuilds on source changes; always mode has nothing to do.
func (s *Service) Start(lc *lifecycle.Coordinator) error {
	if s.mode != ModeWatch {
		return nil
	}

	lc.OnStartup(func() {
		s.rebuild(lc.Context())
		s.watcher.Start(lc.Context())
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := s.watcher.Close(); err != nil {
			s.logger.Error("source watcher close failed", "error", err)
		}
	})

	return nil
}

// Database returns the current merged database according to the rebuild
// policy. A failed merge in watch mode falls back to the last good database
// when one exists.
func (s *Service) Database(ctx context.Context) (*samples.Database, error) {
	if s.mode == ModeAlways {
		db, _, err := s.merger.Run(ctx)
		return db, err
	}

	s.mu.RLock()
	db := s.db
	s.mu.RUnlock()

	if db == nil {
		db, _, err := s.merger.Run(ctx)
		if err != nil {
			return nil, err
		}
		s.setDatabase(db)
		return db, nil
	}
	return db, nil
}

// Refresh forces a merge pass regardless of policy.
func (s *Service) Refresh(ctx context.Context) (*samples.Database, samples.Stats, error) {
	db, stats, err := s.merger.Run(ctx)
	if err != nil {
		return nil, samples.Stats{}, err
	}
	s.setDatabase(db)
	return db, stats, nil
}

func (s *Service) rebuild(ctx context.Context) {
	db, _, err := s.merger.Run(ctx)
	if err != nil {
		s.logger.Error("source rebuild failed", "error", err)
		return
	}
	s.setDatabase(db)
}

func (s *Service) setDatabase(db *samples.Database) {
	s.mu.Lock()
	s.db = db
	s.mu.Unlock()
}
