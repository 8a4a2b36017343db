package commands

import (
	"context"
	"testing"
)

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		query     string
		wantScore int
		wantMin   int // use this for relative comparisons
	}{
		{
			name:      "exact match",
			target:    "Samples",
			query:     "Samples",
			wantScore: 150, // 100 for contains + 50 for prefix
		},
		{
			name:      "prefix match",
			target:    "Samples 2024",
			query:     "Samples",
			wantScore: 150,
		},
		{
			name:      "substring match",
			target:    "Old Samples",
			query:     "Samples",
			wantScore: 100, // contains only
		},
		{
			name:    "fuzzy match all chars at start",
			target:  "Samples",
			query:   "sam",
			wantMin: 100,
		},
		{
			name:      "no match",
			target:    "Samples",
			query:     "xyz",
			wantScore: 0,
		},
		{
			name:      "empty query",
			target:    "Samples",
			query:     "",
			wantScore: 0,
		},
		{
			name:    "case insensitive",
			target:  "SAMPLES",
			query:   "samples",
			wantMin: 100,
		},
		{
			name:    "path match",
			target:  "/Alloys/Batch1/Samples2",
			query:   "batch1/sam",
			wantMin: 100,
		},
		{
			name:    "fuzzy over path separators",
			target:  "/Alloys/Batch1",
			query:   "ab",
			wantMin: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := FuzzyScore(tt.target, tt.query)

			if tt.wantScore > 0 {
				if score != tt.wantScore {
					t.Errorf("expected score %d, got %d", tt.wantScore, score)
				}
			} else if tt.wantMin > 0 {
				if score < tt.wantMin {
					t.Errorf("expected score >= %d, got %d", tt.wantMin, score)
				}
			} else {
				if score != 0 {
					t.Errorf("expected score 0, got %d", score)
				}
			}
		})
	}
}

func TestFuzzyScore_Ordering(t *testing.T) {
	query := "furnace"

	exactScore := FuzzyScore("furnace", query)
	prefixScore := FuzzyScore("furnace logs", query)
	containsScore := FuzzyScore("old furnace", query)
	fuzzyScore := FuzzyScore("f.u.r.n.a.c.e", query)

	if exactScore < prefixScore {
		t.Errorf("exact match should score >= prefix: %d < %d", exactScore, prefixScore)
	}
	if prefixScore < containsScore {
		t.Errorf("prefix match should score >= contains: %d < %d", prefixScore, containsScore)
	}
	if containsScore <= fuzzyScore {
		t.Errorf("contains match should score higher than fuzzy: %d <= %d", containsScore, fuzzyScore)
	}
}

func TestFuzzySort(t *testing.T) {
	candidates := []SearchResult{
		{Kind: MatchFile, Name: "random.txt", Path: "/X/Y/random.txt"},
		{Kind: MatchResource, Name: "Furnace Logs", Path: "/Alloys/Furnace Logs"},
		{Kind: MatchResource, Name: "Cooking", Path: "/Misc/Cooking"},
		{Kind: MatchResource, Name: "Old Furnace", Path: "/Alloys/Old Furnace"},
	}

	sorted := FuzzySort(candidates, "furnace")

	if len(sorted) != 2 {
		t.Fatalf("expected 2 results, got %d", len(sorted))
	}
	if sorted[0].Name != "Furnace Logs" {
		t.Errorf("expected prefix match first, got %s", sorted[0].Name)
	}

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Score > sorted[i-1].Score {
			t.Errorf("results not sorted by score: %d > %d at index %d",
				sorted[i].Score, sorted[i-1].Score, i)
		}
	}
}

func TestSearchCommand_Execute(t *testing.T) {
	snap := crawlTestRepo()

	tests := []struct {
		name      string
		query     string
		wantFirst string
		wantKind  string
		wantNone  bool
	}{
		{name: "too short", query: "a", wantNone: true},
		{name: "resource by name", query: "Furnace", wantFirst: "Furnace", wantKind: MatchResource},
		{name: "project by name", query: "Batch1", wantFirst: "Batch1", wantKind: MatchProject},
		{name: "file by name", query: "log.csv", wantFirst: "log.csv", wantKind: MatchFile},
		{name: "no match", query: "zzz", wantNone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := NewSearchCommand(snap, tt.query).Execute(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNone {
				if len(results) != 0 {
					t.Errorf("expected no results, got %v", results)
				}
				return
			}
			if len(results) == 0 {
				t.Fatal("expected results")
			}
			if results[0].Name != tt.wantFirst || results[0].Kind != tt.wantKind {
				t.Errorf("expected %s %s first, got %s %s", tt.wantKind, tt.wantFirst, results[0].Kind, results[0].Name)
			}
		})
	}
}
