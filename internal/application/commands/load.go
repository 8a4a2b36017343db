package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"coscindex/internal/domain"
	"coscindex/internal/ports"
)

// LoadSnapshotCommand reads the cached crawl result
type LoadSnapshotCommand struct {
	store  ports.SnapshotStore
	logger *log.Logger
}

// NewLoadSnapshotCommand creates a new LoadSnapshotCommand
func NewLoadSnapshotCommand(store ports.SnapshotStore, logger *log.Logger) *LoadSnapshotCommand {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LoadSnapshotCommand{store: store, logger: logger}
}

// Execute loads the snapshot. A missing or unreadable cache is reported as
// a warning and domain.ErrNoData.
func (c *LoadSnapshotCommand) Execute(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Printf("Warning: no cached snapshot available: %v", err)
		if errors.Is(err, domain.ErrNoData) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrNoData, err)
	}
	if snap.IsEmpty() {
		c.logger.Printf("Warning: cached snapshot is empty")
		return nil, domain.ErrNoData
	}
	return snap, nil
}
