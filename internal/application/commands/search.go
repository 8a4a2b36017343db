package commands

import (
	"context"
	"sort"
	"strings"

	"coscindex/internal/domain"
)

// Kinds of entities a search can match
const (
	MatchProject  = "project"
	MatchResource = "resource"
	MatchFile     = "file"
)

// SearchResult is a snapshot entity matching a query, with a relevance score
type SearchResult struct {
	Kind  string
	Index int
	Name  string
	Path  string
	Score int
}

// SearchCommand searches project, resource and file names with fuzzy matching
type SearchCommand struct {
	snap  *domain.Snapshot
	Query string
	Limit int
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(snap *domain.Snapshot, query string) *SearchCommand {
	return &SearchCommand{
		snap:  snap,
		Query: query,
	}
}

// Execute runs the search command and returns scored, sorted results
func (c *SearchCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if len(c.Query) < 2 {
		return nil, nil
	}

	var candidates []SearchResult
	for i, p := range c.snap.Projects {
		candidates = append(candidates, SearchResult{Kind: MatchProject, Index: i, Name: p.Name, Path: p.FullPath()})
	}
	for i, r := range c.snap.Resources {
		candidates = append(candidates, SearchResult{Kind: MatchResource, Index: i, Name: r.Name, Path: r.Path})
	}
	for i, f := range c.snap.Files {
		candidates = append(candidates, SearchResult{Kind: MatchFile, Index: i, Name: f.Name, Path: f.Path})
	}

	results := FuzzySort(candidates, c.Query)
	if c.Limit > 0 && len(results) > c.Limit {
		results = results[:c.Limit]
	}
	return results, nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Check for exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		// Bonus if it starts with query
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: check if chars appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && (target[i-1] == ' ' || target[i-1] == '.' || target[i-1] == '-' || target[i-1] == '/' || target[i-1] == '_') {
				score += 10 // after separator
			}
			score += 1
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

// FuzzySort scores candidates against the query by name and path and
// returns the matching ones, best first
func FuzzySort(candidates []SearchResult, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(candidates))

	for _, r := range candidates {
		best := max(FuzzyScore(r.Name, query), FuzzyScore(r.Path, query))
		if best > 0 {
			r.Score = best
			scored = append(scored, r)
		}
	}

	// Sort by score descending, keeping snapshot order on ties
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
