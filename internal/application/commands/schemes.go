package commands

import (
	"context"

	"coscindex/internal/application"
	"coscindex/internal/domain"
)

// SchemeSummary describes one scheme of a snapshot
type SchemeSummary struct {
	Name      string
	Resources int
	Files     int
	Size      int64
	Fields    []string
}

// ListSchemesCommand lists the schemes of a snapshot in first-seen order
type ListSchemesCommand struct {
	catalog *domain.Catalog
}

// NewListSchemesCommand creates a new ListSchemesCommand
func NewListSchemesCommand(catalog *domain.Catalog) *ListSchemesCommand {
	return &ListSchemesCommand{catalog: catalog}
}

// Execute runs the list schemes command
func (c *ListSchemesCommand) Execute(ctx context.Context) ([]SchemeSummary, error) {
	snap := c.catalog.Snapshot()
	names := c.catalog.SchemeNames()
	summaries := make([]SchemeSummary, 0, len(names))
	for _, name := range names {
		resources, err := c.catalog.ResourcesForScheme(name, true)
		if err != nil {
			return nil, err
		}
		spec, err := c.catalog.FieldSpec(name)
		if err != nil {
			return nil, err
		}
		s := SchemeSummary{Name: name, Resources: len(resources), Fields: spec.Keys()}
		for _, ri := range resources {
			s.Files += len(snap.Resources[ri].Files)
			s.Size += snap.Resources[ri].TotalSize
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// ResourceItem is a resource with its snapshot index
type ResourceItem struct {
	Index  domain.ResourceIndex
	Scheme string
	domain.ResourceEntry
}

// ListResourcesCommand lists resources, optionally restricted to one scheme
type ListResourcesCommand struct {
	catalog      *domain.Catalog
	Scheme       string
	IncludeEmpty bool
}

// NewListResourcesCommand creates a new ListResourcesCommand. An empty scheme lists all resources.
func NewListResourcesCommand(catalog *domain.Catalog, scheme string, includeEmpty bool) *ListResourcesCommand {
	return &ListResourcesCommand{catalog: catalog, Scheme: scheme, IncludeEmpty: includeEmpty}
}

// Execute runs the list resources command
func (c *ListResourcesCommand) Execute(ctx context.Context) ([]ResourceItem, error) {
	snap := c.catalog.Snapshot()
	var idxs []domain.ResourceIndex
	if c.Scheme == "" {
		for i, res := range snap.Resources {
			if c.IncludeEmpty || len(res.Files) > 0 {
				idxs = append(idxs, domain.ResourceIndex(i))
			}
		}
	} else {
		var err error
		idxs, err = c.catalog.ResourcesForScheme(c.Scheme, c.IncludeEmpty)
		if err != nil {
			return nil, err
		}
	}

	items := make([]ResourceItem, 0, len(idxs))
	for _, ri := range idxs {
		res := snap.Resources[ri]
		items = append(items, ResourceItem{Index: ri, Scheme: domain.SchemeName(res.Profile), ResourceEntry: res})
	}
	return items, nil
}

// FileItem is a file with its snapshot index
type FileItem struct {
	Index domain.FileIndex
	domain.FileEntry
}

// ResolveFilesCommand resolves a source to the files it selects
type ResolveFilesCommand struct {
	catalog *domain.Catalog
	Source  domain.Source
}

// NewResolveFilesCommand creates a new ResolveFilesCommand
func NewResolveFilesCommand(catalog *domain.Catalog, src domain.Source) *ResolveFilesCommand {
	return &ResolveFilesCommand{catalog: catalog, Source: src}
}

// Execute runs the resolve files command
func (c *ResolveFilesCommand) Execute(ctx context.Context) ([]FileItem, error) {
	snap := c.catalog.Snapshot()
	if err := application.ValidateSource(snap, c.Source); err != nil {
		return nil, err
	}
	idxs, err := c.catalog.ResolveFileIndices(c.Source)
	if err != nil {
		return nil, err
	}
	items := make([]FileItem, 0, len(idxs))
	for _, fi := range idxs {
		f, err := snap.File(fi)
		if err != nil {
			return nil, err
		}
		items = append(items, FileItem{Index: fi, FileEntry: *f})
	}
	return items, nil
}
