package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"coscindex/internal/application"
	"coscindex/internal/domain"
	"coscindex/internal/ports"
)

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	catalog, err := domain.NewCatalog(crawlTestRepo())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return catalog
}

func TestLoadSnapshotCommand_Execute(t *testing.T) {
	t.Run("cached snapshot", func(t *testing.T) {
		snap := crawlTestRepo()
		got, err := NewLoadSnapshotCommand(&fakeStore{saved: snap}, nil).Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != snap {
			t.Error("expected the stored snapshot")
		}
	})

	t.Run("missing cache warns", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := NewLoadSnapshotCommand(&fakeStore{}, log.New(&buf, "", 0)).Execute(context.Background())
		if !errors.Is(err, domain.ErrNoData) {
			t.Errorf("expected ErrNoData, got %v", err)
		}
		if !strings.Contains(buf.String(), "Warning") {
			t.Errorf("expected warning, got %q", buf.String())
		}
	})

	t.Run("corrupt cache is no data", func(t *testing.T) {
		store := &fakeStore{loadErr: errors.New("malformed JSON")}
		_, err := NewLoadSnapshotCommand(store, nil).Execute(context.Background())
		if !errors.Is(err, domain.ErrNoData) {
			t.Errorf("expected ErrNoData, got %v", err)
		}
	})
}

func TestListSchemesCommand_Execute(t *testing.T) {
	summaries, err := NewListSchemesCommand(testCatalog(t)).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 schemes, got %d", len(summaries))
	}

	sample, process := summaries[0], summaries[1]
	if sample.Name != "Sample" || process.Name != "Process" {
		t.Errorf("expected [Sample Process], got [%s %s]", sample.Name, process.Name)
	}
	if sample.Resources != 3 || sample.Files != 3 || sample.Size != 35 {
		t.Errorf("unexpected Sample summary %+v", sample)
	}
	// Process has no form; its spec is backfilled from the file metadata
	if len(process.Fields) != 1 || process.Fields[0] != "Oven" {
		t.Errorf("expected backfilled fields [Oven], got %v", process.Fields)
	}
}

func TestListResourcesCommand_Execute(t *testing.T) {
	tests := []struct {
		name         string
		scheme       string
		includeEmpty bool
		want         []string
		wantErr      error
	}{
		{name: "all non-empty", want: []string{"Samples", "Furnace", "Samples2"}},
		{name: "all", includeEmpty: true, want: []string{"Samples", "Furnace", "Samples2", "Empty"}},
		{name: "one scheme", scheme: "Sample", want: []string{"Samples", "Samples2"}},
		{name: "one scheme with empty", scheme: "Sample", includeEmpty: true, want: []string{"Samples", "Samples2", "Empty"}},
		{name: "unknown scheme", scheme: "Nope", wantErr: domain.ErrUnknownScheme},
	}

	catalog := testCatalog(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := NewListResourcesCommand(catalog, tt.scheme, tt.includeEmpty).Execute(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("expected %v, got %d items", tt.want, len(items))
			}
			for i, want := range tt.want {
				if items[i].Name != want {
					t.Errorf("item %d: expected %s, got %s", i, want, items[i].Name)
				}
			}
		})
	}
}

func TestResolveFilesCommand_Execute(t *testing.T) {
	catalog := testCatalog(t)
	snap := catalog.Snapshot()

	tests := []struct {
		name    string
		src     domain.Source
		want    []string
		wantErr bool
	}{
		{name: "scheme", src: domain.SchemeSource("Sample"), want: []string{"a.txt", "b.txt", "c.txt"}},
		{name: "index", src: domain.IndexSource(1), want: []string{"log.csv"}},
		{name: "index list", src: domain.IndexListSource{2, 0}, want: []string{"c.txt", "a.txt", "b.txt"}},
		{name: "resource", src: domain.ResourceSource(snap.Resources[0]), want: []string{"a.txt", "b.txt"}},
		{name: "resource list", src: domain.ResourceListSource{snap.Resources[1], snap.Resources[2]}, want: []string{"log.csv", "c.txt"}},
		{name: "index out of range", src: domain.IndexSource(9), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := NewResolveFilesCommand(catalog, tt.src).Execute(context.Background())
			if tt.wantErr {
				var valErr *application.ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != len(tt.want) {
				t.Fatalf("expected %v, got %d items", tt.want, len(items))
			}
			for i, want := range tt.want {
				if items[i].Name != want {
					t.Errorf("item %d: expected %s, got %s", i, want, items[i].Name)
				}
			}
		})
	}
}

func TestMetadataCommand_Execute(t *testing.T) {
	catalog := testCatalog(t)

	t.Run("mixed schemes fail", func(t *testing.T) {
		_, err := NewMetadataCommand(catalog, nil, domain.IndexListSource{0, 1}).Execute(context.Background())
		if !errors.Is(err, domain.ErrSchemaMismatch) {
			t.Errorf("expected ErrSchemaMismatch, got %v", err)
		}
	})

	t.Run("empty source warns", func(t *testing.T) {
		var buf bytes.Buffer
		result, err := NewMetadataCommand(catalog, log.New(&buf, "", 0), domain.IndexSource(3)).Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Table != nil {
			t.Error("expected nil table")
		}
		if !strings.Contains(buf.String(), "does not contain files") {
			t.Errorf("expected warning, got %q", buf.String())
		}
	})

	t.Run("sample table", func(t *testing.T) {
		result, err := NewMetadataCommand(catalog, nil, domain.SchemeSource("Sample")).Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Scheme != "Sample" || result.Table.Len() != 3 {
			t.Fatalf("unexpected result %s with %d rows", result.Scheme, result.Table.Len())
		}
		if result.Table.Columns[0] != domain.ColFileName {
			t.Errorf("expected file name first, got %v", result.Table.Columns[0])
		}
		if got := result.Table.Rows[2][domain.ColProjectID]; got != "p2" {
			t.Errorf("expected projectId p2, got %v", got)
		}
	})
}

func sampleSnapshot() *domain.Snapshot {
	snap := domain.NewSnapshot()
	pi := snap.AppendProject(domain.ProjectNode{ID: "p", Name: "Alloys"})
	ri := snap.AppendResource(domain.ResourceEntry{ID: "r", Name: "Samples", Project: pi, Profile: sampleProfile})
	comments := []string{
		"Sample sheet\nexported\nDate: 2024-01-01T00:00:00\nTarget wt.% Fe: 70\nTarget wt.% Ni: base\nAnnealing Temp.[°C]: 800\n",
		"Sample sheet\nexported\nDate: NaT\nActual wt.% Fe: 68,5\nActual wt.% Div.: 0,5 Cr 1,0 Mo\nAnnealing Temp.[°C]: -\n",
	}
	for i, c := range comments {
		name := string(rune('a'+i)) + ".txt"
		fi := snap.AppendFile(domain.FileEntry{
			ID: name, Name: name, Project: pi, Resource: ri,
			Metadata: map[string]any{"ID": string(rune('A' + i)), "Comments": c},
		})
		snap.Resources[ri].Files = append(snap.Resources[ri].Files, fi)
	}
	snap.Projects[pi].Resources = []domain.ResourceIndex{ri}
	return snap
}

func TestCompositionCommand_Execute(t *testing.T) {
	catalog, err := domain.NewCatalog(sampleSnapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	table, err := NewCompositionCommand(catalog, domain.DefaultElements(), nil, domain.SchemeSource("Sample")).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}

	fe := domain.Column{Group: domain.GroupWtPercent, Sub: "Fe"}
	ni := domain.Column{Group: domain.GroupWtPercent, Sub: "Ni"}
	cr := domain.Column{Group: domain.GroupWtPercent, Sub: "Cr"}

	first := table.Rows[0]
	if first[domain.ColID] != "A" || first[fe] != 70.0 || first[ni] != 30.0 {
		t.Errorf("unexpected first row %v", first)
	}
	if first[domain.ColT] != 800.0 {
		t.Errorf("expected T 800, got %v", first[domain.ColT])
	}

	second := table.Rows[1]
	if second[cr] != 0.5 {
		t.Errorf("expected Cr 0.5 from Div. string, got %v", second[cr])
	}
	if _, ok := second[domain.ColT]; ok {
		t.Errorf("expected no temperature for '-', got %v", second[domain.ColT])
	}
}

func TestBuildTreeCommand_Execute(t *testing.T) {
	t.Run("consistent snapshot", func(t *testing.T) {
		cmd := NewBuildTreeCommand(crawlTestRepo())
		cmd.Expanded = true
		result, err := cmd.Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Problems) != 0 {
			t.Errorf("unexpected problems %v", result.Problems)
		}

		var names []string
		result.Root.Walk(func(n *domain.TreeNode, depth int) {
			names = append(names, strings.Repeat(" ", depth)+n.Name)
		})
		want := []string{"/", " Alloys", "  Samples", "  Furnace", "  Batch1", "   Samples2", "   Empty"}
		if strings.Join(names, "|") != strings.Join(want, "|") {
			t.Errorf("expected %v, got %v", want, names)
		}
	})

	t.Run("broken back-references are reported", func(t *testing.T) {
		snap := crawlTestRepo()
		snap.Resources[0].Project = 1
		snap.Projects[0].SubProjects = append(snap.Projects[0].SubProjects, 7)

		result, err := NewBuildTreeCommand(snap).Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		joined := strings.Join(result.Problems, "\n")
		if !strings.Contains(joined, "resource 0 belongs to project 1") {
			t.Errorf("expected resource back-reference problem, got:\n%s", joined)
		}
		if !strings.Contains(joined, "lists unknown sub-project 7") {
			t.Errorf("expected unknown sub-project problem, got:\n%s", joined)
		}
	})

	t.Run("empty snapshot", func(t *testing.T) {
		_, err := NewBuildTreeCommand(domain.NewSnapshot()).Execute(context.Background())
		if !errors.Is(err, domain.ErrNoData) {
			t.Errorf("expected ErrNoData, got %v", err)
		}
	})
}

func TestExportCommand(t *testing.T) {
	snap := crawlTestRepo()

	t.Run("query", func(t *testing.T) {
		got, err := NewExportCommand(snap, "").Query("$.resources[*].name")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 4 || got[0] != "Samples" || got[3] != "Empty" {
			t.Errorf("unexpected result %v", got)
		}
	})

	t.Run("invalid expression", func(t *testing.T) {
		_, err := NewExportCommand(snap, "$.resources[").Execute(context.Background())
		var valErr *application.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("full document", func(t *testing.T) {
		out, err := NewExportCommand(snap, "").Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, key := range []string{"downloadTime", "projects", "resources", "files", "errors", "meta_data_fields"} {
			if !strings.Contains(out, `"`+key+`"`) {
				t.Errorf("expected key %q in export", key)
			}
		}
	})
}

func TestFileContentCommand_Execute(t *testing.T) {
	repo := testRepo()
	snap := crawlTestRepo()

	t.Run("reads content", func(t *testing.T) {
		rc, err := NewFileContentCommand(repo, snap, 0).Execute(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close()
		body, _ := io.ReadAll(rc)
		if string(body) != "hello" {
			t.Errorf("expected hello, got %q", body)
		}
	})

	t.Run("remote failure", func(t *testing.T) {
		_, err := NewFileContentCommand(repo, snap, 1).Execute(context.Background())
		if !errors.Is(err, application.ErrRemoteCall) {
			t.Errorf("expected ErrRemoteCall, got %v", err)
		}
	})

	t.Run("bad index", func(t *testing.T) {
		_, err := NewFileContentCommand(repo, snap, 42).Ref()
		var valErr *application.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	var _ ports.RemoteRepository = repo
}
