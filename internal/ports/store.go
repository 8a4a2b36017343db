package ports

import (
	"context"

	"coscindex/internal/domain"
)

// SnapshotStore persists crawl results across sessions
type SnapshotStore interface {
	// Lifecycle
	Open(path string) error
	Close() error

	// Save replaces the stored snapshot
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Load returns the stored snapshot, or domain.ErrNoData if none is stored
	Load(ctx context.Context) (*domain.Snapshot, error)
}
