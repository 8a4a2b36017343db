package application

import "coscindex/internal/domain"

// Re-export domain types for use by adapters
type (
	Snapshot    = domain.Snapshot
	Catalog     = domain.Catalog
	Table       = domain.Table
	Column      = domain.Column
	Row         = domain.Row
	Source      = domain.Source
	TreeNode    = domain.TreeNode
	ErrorRecord = domain.ErrorRecord
	CrawlStats  = domain.CrawlStats
)

// ParseSource interprets a user argument as a scheme name, a resource index
// or a comma separated list of resource indices
func ParseSource(arg string) domain.Source {
	return domain.ParseSource(arg)
}
