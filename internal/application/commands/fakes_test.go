package commands

import (
	"context"
	"errors"
	"io"
	"strings"

	"coscindex/internal/domain"
	"coscindex/internal/ports"
)

var errRemote = errors.New("remote unavailable")

type fakeRepo struct {
	projects []ports.ProjectHandle
	err      error
	contents map[string]string // "project/resource/file" -> content
}

func (r *fakeRepo) ListProjects(ctx context.Context) ([]ports.ProjectHandle, error) {
	return r.projects, r.err
}

func (r *fakeRepo) OpenFile(ctx context.Context, ref ports.FileRef) (io.ReadCloser, error) {
	body, ok := r.contents[ref.ProjectID+"/"+ref.ResourceID+"/"+ref.FileName]
	if !ok {
		return nil, errRemote
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

type fakeProject struct {
	id, name     string
	resources    []ports.ResourceHandle
	subprojects  []ports.ProjectHandle
	resourcesErr error
	subsErr      error
}

func (p *fakeProject) ID() string   { return p.id }
func (p *fakeProject) Name() string { return p.name }
func (p *fakeProject) ListResources(ctx context.Context) ([]ports.ResourceHandle, error) {
	return p.resources, p.resourcesErr
}
func (p *fakeProject) ListSubprojects(ctx context.Context) ([]ports.ProjectHandle, error) {
	return p.subprojects, p.subsErr
}

type fakeResource struct {
	id, name, profile string
	files             []ports.FileHandle
	form              *fakeForm
	filesErr          error
	formErr           error
}

func (r *fakeResource) ID() string      { return r.id }
func (r *fakeResource) Name() string    { return r.name }
func (r *fakeResource) Profile() string { return r.profile }
func (r *fakeResource) ListFiles(ctx context.Context) ([]ports.FileHandle, error) {
	return r.files, r.filesErr
}
func (r *fakeResource) MetadataForm(ctx context.Context) (ports.FormHandle, error) {
	if r.formErr != nil {
		return nil, r.formErr
	}
	if r.form == nil {
		return nil, errRemote
	}
	return r.form, nil
}

type fakeForm struct {
	keys       []string
	required   map[string]bool
	vocabulary map[string][]string
}

func (f *fakeForm) Keys() []string                       { return f.keys }
func (f *fakeForm) IsRequired(key string) bool           { return f.required[key] }
func (f *fakeForm) IsControlled(key string) bool         { return len(f.vocabulary[key]) > 0 }
func (f *fakeForm) ControlledValues(key string) []string { return f.vocabulary[key] }

// Parse reads "key: value" lines
func (f *fakeForm) Parse(raw []byte) (map[string]any, error) {
	out := map[string]any{}
	for _, line := range strings.Split(string(raw), "\n") {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if len(out) == 0 {
		return nil, errors.New("empty metadata")
	}
	return out, nil
}

type fakeFile struct {
	name    string
	size    int64
	meta    map[string]any
	metaErr error
	raw     string
	rawErr  error
}

func (f *fakeFile) Name() string { return f.name }
func (f *fakeFile) Size() int64  { return f.size }
func (f *fakeFile) FetchMetadataForm(ctx context.Context) (map[string]any, error) {
	return f.meta, f.metaErr
}
func (f *fakeFile) RawMetadata(ctx context.Context) ([]byte, error) {
	return []byte(f.raw), f.rawErr
}

type fakeStore struct {
	saved   *domain.Snapshot
	loadErr error
}

func (s *fakeStore) Open(path string) error { return nil }
func (s *fakeStore) Close() error           { return nil }
func (s *fakeStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	s.saved = snap
	return nil
}
func (s *fakeStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.saved == nil {
		return nil, domain.ErrNoData
	}
	return s.saved, nil
}

const (
	sampleProfile  = "https://purl.org/coscine/ap/Sample/"
	processProfile = "https://purl.org/coscine/ap/Process/"
)

// testRepo builds:
//
//	/Alloys
//	  Samples (Sample): a.txt, b.txt
//	  Furnace (Process): log.csv
//	  /Alloys/Batch1
//	    Samples2 (Sample): c.txt
//	    Empty (Sample)
func testRepo() *fakeRepo {
	form := &fakeForm{
		keys:       []string{"ID", "Comments"},
		required:   map[string]bool{"ID": true},
		vocabulary: map[string][]string{},
	}
	batch := &fakeProject{
		id: "p2", name: "Batch1",
		resources: []ports.ResourceHandle{
			&fakeResource{id: "r3", name: "Samples2", profile: sampleProfile, form: form, files: []ports.FileHandle{
				&fakeFile{name: "c.txt", size: 5, meta: map[string]any{"ID": "S3"}},
			}},
			&fakeResource{id: "r4", name: "Empty", profile: sampleProfile, form: form},
		},
	}
	return &fakeRepo{
		projects: []ports.ProjectHandle{
			&fakeProject{
				id: "p1", name: "Alloys",
				resources: []ports.ResourceHandle{
					&fakeResource{id: "r1", name: "Samples", profile: sampleProfile, form: form, files: []ports.FileHandle{
						&fakeFile{name: "a.txt", size: 10, meta: map[string]any{"ID": "S1"}},
						&fakeFile{name: "b.txt", size: 20, meta: map[string]any{"ID": "S2"}},
					}},
					&fakeResource{id: "r2", name: "Furnace", profile: processProfile, formErr: errRemote, files: []ports.FileHandle{
						&fakeFile{name: "log.csv", size: 7, meta: map[string]any{"Oven": "A"}},
					}},
				},
				subprojects: []ports.ProjectHandle{batch},
			},
		},
		contents: map[string]string{"p1/r1/a.txt": "hello"},
	}
}

// crawlTestRepo crawls testRepo with the soft policy
func crawlTestRepo() *domain.Snapshot {
	cmd := NewCrawlCommand(testRepo(), nil, nil, nil)
	result, err := cmd.Execute(context.Background())
	if err != nil {
		panic(err)
	}
	return result.Snapshot
}

type fakeProgress struct {
	started, completed, aborted int
	abortErr                    error
}

func (p *fakeProgress) OnCrawlStart()                           { p.started++ }
func (p *fakeProgress) OnProject(path string)                   {}
func (p *fakeProgress) OnResource(path string)                  {}
func (p *fakeProgress) OnFile(path string)                      {}
func (p *fakeProgress) OnError(record domain.ErrorRecord)       {}
func (p *fakeProgress) OnCrawlComplete(stats domain.CrawlStats) { p.completed++ }
func (p *fakeProgress) OnCrawlAborted(stats domain.CrawlStats, err error) {
	p.aborted++
	p.abortErr = err
}
