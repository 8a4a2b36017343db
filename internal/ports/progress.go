package ports

import "coscindex/internal/domain"

// CrawlProgress receives crawl events
type CrawlProgress interface {
	OnCrawlStart()
	OnProject(path string)
	OnResource(path string)
	OnFile(path string)
	OnError(record domain.ErrorRecord)
	OnCrawlComplete(stats domain.CrawlStats)
	// OnCrawlAborted ends a crawl stopped by err
	OnCrawlAborted(stats domain.CrawlStats, err error)
}
