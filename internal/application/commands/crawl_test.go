package commands

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"coscindex/internal/application"
	"coscindex/internal/domain"
	"coscindex/internal/ports"
)

func TestCrawlCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		verbose int
		ignore  []string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "defaults",
			wantErr: false,
		},
		{
			name:    "max verbosity",
			verbose: 3,
			wantErr: false,
		},
		{
			name:    "verbosity too high",
			verbose: 4,
			wantErr: true,
			errMsg:  "verbosity must be between 0 and 3",
		},
		{
			name:    "valid glob",
			ignore:  []string{"/Archive/**"},
			wantErr: false,
		},
		{
			name:    "invalid glob",
			ignore:  []string{"/Archive/[a"},
			wantErr: true,
			errMsg:  "invalid pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &CrawlCommand{Verbose: tt.verbose, Ignore: tt.ignore}
			err := cmd.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCrawlCommand_Execute(t *testing.T) {
	store := &fakeStore{}
	cmd := NewCrawlCommand(testRepo(), store, nil, nil)

	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := result.Snapshot

	if len(snap.Projects) != 2 || len(snap.Resources) != 4 || len(snap.Files) != 4 {
		t.Fatalf("expected 2/4/4 projects/resources/files, got %d/%d/%d",
			len(snap.Projects), len(snap.Resources), len(snap.Files))
	}
	if store.saved != snap {
		t.Error("expected snapshot to be saved")
	}

	t.Run("pre-order with resources before children", func(t *testing.T) {
		wantResources := []string{"Samples", "Furnace", "Samples2", "Empty"}
		for i, want := range wantResources {
			if snap.Resources[i].Name != want {
				t.Errorf("resource %d: expected %s, got %s", i, want, snap.Resources[i].Name)
			}
		}
	})

	t.Run("paths", func(t *testing.T) {
		if snap.Projects[1].Path != "/Alloys" || snap.Projects[1].FullPath() != "/Alloys/Batch1" {
			t.Errorf("unexpected project path %q", snap.Projects[1].FullPath())
		}
		if snap.Resources[2].Path != "/Alloys/Batch1/Samples2" {
			t.Errorf("unexpected resource path %q", snap.Resources[2].Path)
		}
		if snap.Files[3].Path != "/Alloys/Batch1/Samples2/c.txt" {
			t.Errorf("unexpected file path %q", snap.Files[3].Path)
		}
		if snap.Files[3].ID != "c.txt" {
			t.Errorf("expected file ID to be its name, got %q", snap.Files[3].ID)
		}
	})

	t.Run("parent links", func(t *testing.T) {
		child := snap.Projects[1]
		if child.Parent == nil || *child.Parent != 0 {
			t.Fatalf("expected parent 0, got %v", child.Parent)
		}
		if len(snap.Projects[0].SubProjects) != 1 || snap.Projects[0].SubProjects[0] != 1 {
			t.Errorf("expected sub-projects [1], got %v", snap.Projects[0].SubProjects)
		}
	})

	t.Run("total size is the sum of file sizes", func(t *testing.T) {
		for i, res := range snap.Resources {
			var sum int64
			for _, fi := range res.Files {
				sum += snap.Files[fi].Size
			}
			if sum != res.TotalSize {
				t.Errorf("resource %d: total size %d, files sum to %d", i, res.TotalSize, sum)
			}
		}
	})

	t.Run("resource back-reference", func(t *testing.T) {
		for i, res := range snap.Resources {
			listed := false
			for _, ri := range snap.Projects[res.Project].Resources {
				if ri == domain.ResourceIndex(i) {
					listed = true
				}
			}
			if !listed {
				t.Errorf("resource %d not listed by project %d", i, res.Project)
			}
		}
	})

	t.Run("failed form is recorded and leaves no spec", func(t *testing.T) {
		if len(snap.Errors) != 1 {
			t.Fatalf("expected 1 error record, got %d", len(snap.Errors))
		}
		rec := snap.Errors[0]
		if rec.Method != "MetadataForm" || rec.Resource == nil || *rec.Resource != 1 {
			t.Errorf("unexpected error record %+v", rec)
		}
		if snap.Resources[1].FieldSpec != nil {
			t.Errorf("expected nil field spec, got %v", snap.Resources[1].FieldSpec)
		}
		if !errors.Is(result.Errors[0], application.ErrRemoteCall) {
			t.Errorf("expected ErrRemoteCall, got %v", result.Errors[0])
		}
	})

	t.Run("field spec from form", func(t *testing.T) {
		spec := snap.Resources[0].FieldSpec
		if got := spec.Keys(); len(got) != 2 || got[0] != "ID" || got[1] != "Comments" {
			t.Errorf("unexpected keys %v", got)
		}
		if f, _ := spec.Field("ID"); !f.Required {
			t.Error("expected ID to be required")
		}
	})

	if result.Stats.Files != 4 || result.Stats.Errors != 1 {
		t.Errorf("unexpected stats %+v", result.Stats)
	}
}

func TestCrawlCommand_MetadataFallback(t *testing.T) {
	form := &fakeForm{keys: []string{"ID"}}
	tests := []struct {
		name       string
		file       *fakeFile
		resource   *fakeResource
		wantMeta   map[string]any
		wantErrors int
	}{
		{
			name:       "form accessor succeeds",
			file:       &fakeFile{name: "f", meta: map[string]any{"ID": "S1"}},
			wantMeta:   map[string]any{"ID": "S1"},
			wantErrors: 0,
		},
		{
			name:       "raw metadata re-parsed",
			file:       &fakeFile{name: "f", metaErr: errRemote, raw: "ID: S2"},
			wantMeta:   map[string]any{"ID": "S2"},
			wantErrors: 1,
		},
		{
			name:       "both stages fail",
			file:       &fakeFile{name: "f", metaErr: errRemote, rawErr: errRemote},
			wantMeta:   map[string]any{domain.MetadataErrorKey: domain.MetadataErrorMessage},
			wantErrors: 2,
		},
		{
			name:       "no form to re-parse against",
			file:       &fakeFile{name: "f", metaErr: errRemote, raw: "ID: S2"},
			resource:   &fakeResource{id: "r", name: "R", formErr: errRemote},
			wantMeta:   map[string]any{domain.MetadataErrorKey: domain.MetadataErrorMessage},
			wantErrors: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.resource
			if res == nil {
				res = &fakeResource{id: "r", name: "R", form: form}
			}
			res.files = []ports.FileHandle{tt.file}
			repo := &fakeRepo{projects: []ports.ProjectHandle{
				&fakeProject{id: "p", name: "P", resources: []ports.ResourceHandle{res}},
			}}

			result, err := NewCrawlCommand(repo, nil, nil, nil).Execute(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := result.Snapshot.Files[0].Metadata
			if len(got) != len(tt.wantMeta) {
				t.Fatalf("expected metadata %v, got %v", tt.wantMeta, got)
			}
			for k, v := range tt.wantMeta {
				if got[k] != v {
					t.Errorf("metadata[%s]: expected %v, got %v", k, v, got[k])
				}
			}
			if len(result.Snapshot.Errors) != tt.wantErrors {
				t.Errorf("expected %d error records, got %d", tt.wantErrors, len(result.Snapshot.Errors))
			}
		})
	}
}

func TestCrawlCommand_FailHard(t *testing.T) {
	t.Run("aborts on first failure with partial result", func(t *testing.T) {
		cmd := NewCrawlCommand(testRepo(), nil, nil, nil)
		cmd.Policy = FailHard

		result, err := cmd.Execute(context.Background())
		if !errors.Is(err, application.ErrRemoteCall) {
			t.Fatalf("expected ErrRemoteCall, got %v", err)
		}
		if result == nil || len(result.Snapshot.Resources) != 2 {
			t.Fatalf("expected partial result with 2 resources, got %+v", result)
		}
		if len(result.Snapshot.Files) != 2 {
			t.Errorf("expected crawl to stop before Furnace files, got %d files", len(result.Snapshot.Files))
		}
	})

	t.Run("progress is ended on abort", func(t *testing.T) {
		progress := &fakeProgress{}
		cmd := NewCrawlCommand(testRepo(), nil, nil, progress)
		cmd.Policy = FailHard

		_, err := cmd.Execute(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}
		if progress.started != 1 || progress.aborted != 1 || progress.completed != 0 {
			t.Errorf("unexpected progress events %+v", progress)
		}
		if !errors.Is(progress.abortErr, application.ErrRemoteCall) {
			t.Errorf("expected abort with ErrRemoteCall, got %v", progress.abortErr)
		}
	})

	t.Run("first metadata failure does not abort", func(t *testing.T) {
		form := &fakeForm{keys: []string{"ID"}}
		repo := &fakeRepo{projects: []ports.ProjectHandle{
			&fakeProject{id: "p", name: "P", resources: []ports.ResourceHandle{
				&fakeResource{id: "r", name: "R", form: form, files: []ports.FileHandle{
					&fakeFile{name: "f", metaErr: errRemote, raw: "ID: S2"},
				}},
			}},
		}}
		cmd := NewCrawlCommand(repo, nil, nil, nil)
		cmd.Policy = FailHard

		if _, err := cmd.Execute(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("second metadata failure aborts", func(t *testing.T) {
		form := &fakeForm{keys: []string{"ID"}}
		repo := &fakeRepo{projects: []ports.ProjectHandle{
			&fakeProject{id: "p", name: "P", resources: []ports.ResourceHandle{
				&fakeResource{id: "r", name: "R", form: form, files: []ports.FileHandle{
					&fakeFile{name: "f", metaErr: errRemote, rawErr: errRemote},
				}},
			}},
		}}
		cmd := NewCrawlCommand(repo, nil, nil, nil)
		cmd.Policy = FailHard

		result, err := cmd.Execute(context.Background())
		if !errors.Is(err, errRemote) {
			t.Fatalf("expected remote error, got %v", err)
		}
		if result.Snapshot.Files[0].HasMetadata() {
			t.Error("expected sentinel metadata on aborted file")
		}
	})
}

func TestCrawlCommand_ListProjectsFails(t *testing.T) {
	repo := &fakeRepo{err: errRemote}

	result, err := NewCrawlCommand(repo, nil, nil, nil).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Snapshot.IsEmpty() {
		t.Error("expected empty snapshot")
	}
	if len(result.Snapshot.Errors) != 1 || result.Snapshot.Errors[0].SourceKind != "repository" {
		t.Errorf("unexpected errors %v", result.Snapshot.Errors)
	}
}

func TestCrawlCommand_Ignore(t *testing.T) {
	cmd := NewCrawlCommand(testRepo(), nil, nil, nil)
	cmd.Ignore = []string{"/Alloys/Batch*"}

	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Snapshot.Projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(result.Snapshot.Projects))
	}
	if len(result.Snapshot.Projects[0].SubProjects) != 0 {
		t.Errorf("expected no sub-projects, got %v", result.Snapshot.Projects[0].SubProjects)
	}
}

func TestCrawlCommand_Verbose(t *testing.T) {
	tests := []struct {
		verbose  int
		contains []string
		excludes []string
	}{
		{verbose: 0, excludes: []string{"Project:", "Resource", "File"}},
		{verbose: 1, contains: []string{"Project: Alloys at /Alloys"}, excludes: []string{"Resource"}},
		{verbose: 2, contains: []string{"Resource Samples at /Alloys/Samples"}, excludes: []string{"File a.txt"}},
		{verbose: 3, contains: []string{"File a.txt in resource /Alloys/Samples"}},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		cmd := NewCrawlCommand(testRepo(), nil, log.New(&buf, "", 0), nil)
		cmd.Verbose = tt.verbose
		if _, err := cmd.Execute(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		for _, s := range tt.contains {
			if !strings.Contains(out, s) {
				t.Errorf("verbose %d: expected %q in log:\n%s", tt.verbose, s, out)
			}
		}
		for _, s := range tt.excludes {
			if strings.Contains(out, s) {
				t.Errorf("verbose %d: unexpected %q in log:\n%s", tt.verbose, s, out)
			}
		}
	}
}
