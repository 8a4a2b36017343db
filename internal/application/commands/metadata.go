package commands

import (
	"context"
	"io"
	"log"

	"coscindex/internal/application"
	"coscindex/internal/domain"
)

// MetadataResult is a metadata table and the scheme its files belong to.
// Table is nil when the source selects no files.
type MetadataResult struct {
	Scheme string
	Table  *domain.Table
}

// MetadataCommand flattens the metadata of the files a source selects
type MetadataCommand struct {
	catalog *domain.Catalog
	logger  *log.Logger
	Source  domain.Source
	// ParseComments replaces the Comments column of Sample tables with its parsed fields
	ParseComments bool
}

// NewMetadataCommand creates a new MetadataCommand with comment parsing enabled
func NewMetadataCommand(catalog *domain.Catalog, logger *log.Logger, src domain.Source) *MetadataCommand {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &MetadataCommand{catalog: catalog, logger: logger, Source: src, ParseComments: true}
}

// Execute runs the metadata command
func (c *MetadataCommand) Execute(ctx context.Context) (*MetadataResult, error) {
	if err := application.ValidateSource(c.catalog.Snapshot(), c.Source); err != nil {
		return nil, err
	}
	scheme, table, err := c.catalog.BuildMetadataTable(c.Source)
	if err != nil {
		return nil, err
	}
	if table == nil {
		c.logger.Printf("Warning: %s does not contain files", c.Source)
		return &MetadataResult{}, nil
	}
	if c.ParseComments && scheme == domain.SampleScheme {
		table = domain.ExtendSampleComments(table)
	}
	return &MetadataResult{Scheme: scheme, Table: table}, nil
}
