package commands

import (
	"context"
	"io"
	"log"

	"coscindex/internal/domain"
)

// CompositionCommand derives composition and processing temperature per sample
type CompositionCommand struct {
	catalog  *domain.Catalog
	elements *domain.ElementTable
	logger   *log.Logger
	Source   domain.Source
	Options  domain.CompositionOptions
}

// NewCompositionCommand creates a new CompositionCommand. Base entries are
// expanded by default.
func NewCompositionCommand(catalog *domain.Catalog, elements *domain.ElementTable, logger *log.Logger, src domain.Source) *CompositionCommand {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CompositionCommand{
		catalog:  catalog,
		elements: elements,
		logger:   logger,
		Source:   src,
		Options:  domain.CompositionOptions{ExpandBase: true},
	}
}

// Execute runs the composition command. Returns a nil table when the source
// selects no files.
func (c *CompositionCommand) Execute(ctx context.Context) (*domain.Table, error) {
	meta, err := NewMetadataCommand(c.catalog, c.logger, c.Source).Execute(ctx)
	if err != nil {
		return nil, err
	}
	if meta.Table == nil {
		return nil, nil
	}
	if meta.Scheme != domain.SampleScheme {
		c.logger.Printf("Warning: composition expects scheme %s, got %s", domain.SampleScheme, meta.Scheme)
	}
	return domain.DeriveComposition(c.elements, meta.Table, c.Options)
}
