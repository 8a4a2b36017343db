package mcp

import (
	"context"
	"io"
	"log"
	"sync"

	"coscindex/internal/application/commands"
	"coscindex/internal/domain"
	"coscindex/internal/ports"
)

// Session holds the snapshot the tools answer from. It is loaded from the
// store on first use and replaced after a crawl.
type Session struct {
	repo   ports.RemoteRepository
	store  ports.SnapshotStore
	logger *log.Logger

	mu      sync.Mutex
	catalog *domain.Catalog
}

// NewSession creates a new session. logger may be nil.
func NewSession(repo ports.RemoteRepository, store ports.SnapshotStore, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{repo: repo, store: store, logger: logger}
}

// Catalog returns the current catalog, loading the cached snapshot if needed
func (s *Session) Catalog(ctx context.Context) (*domain.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog != nil {
		return s.catalog, nil
	}
	snap, err := commands.NewLoadSnapshotCommand(s.store, s.logger).Execute(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := domain.NewCatalog(snap)
	if err != nil {
		return nil, err
	}
	s.catalog = catalog
	return catalog, nil
}

// Snapshot returns the current snapshot
func (s *Session) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Snapshot(), nil
}

// Replace swaps in a freshly crawled snapshot
func (s *Session) Replace(snap *domain.Snapshot) error {
	catalog, err := domain.NewCatalog(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()
	return nil
}
