package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"coscindex/internal/ports"
)

// Marker files and directories of a repository mirror.
//
//	<root>/<project>/.project.json                {"id": ...}
//	<root>/<project>/<resource>/.resource.json    {"id", "applicationProfile", "form"}
//	<root>/<project>/<resource>/<file>
//	<root>/<project>/<resource>/.meta/<file>.json parsed metadata
//	<root>/<project>/<resource>/.meta/<file>.raw  raw "key: value" metadata
//	<root>/<project>/<sub-project>/.project.json
const (
	ProjectMarker  = ".project.json"
	ResourceMarker = ".resource.json"
	MetaDir        = ".meta"
	metaExt        = ".json"
	rawExt         = ".raw"
)

// ErrNoForm is returned for a resource that declares no metadata form
var ErrNoForm = errors.New("resource declares no metadata form")

// Repository implements ports.RemoteRepository over a local mirror directory
type Repository struct {
	rootPath string
}

// NewRepository creates a new filesystem repository
func NewRepository(rootPath string) *Repository {
	// Expand ~ to home directory
	if strings.HasPrefix(rootPath, "~") {
		home, _ := os.UserHomeDir()
		rootPath = filepath.Join(home, rootPath[1:])
	}
	return &Repository{rootPath: rootPath}
}

// Root returns the mirror directory
func (r *Repository) Root() string {
	return r.rootPath
}

type projectDoc struct {
	ID string `json:"id"`
}

type fieldDoc struct {
	Name       string   `json:"name"`
	Required   bool     `json:"required"`
	Vocabulary []string `json:"vocabulary,omitempty"`
}

type resourceDoc struct {
	ID      string      `json:"id"`
	Profile string      `json:"applicationProfile"`
	Form    *[]fieldDoc `json:"form"`
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func isMarked(dir, marker string) bool {
	info, err := os.Stat(filepath.Join(dir, marker))
	return err == nil && !info.IsDir()
}

// subdirs returns the directories under dir carrying marker, sorted by name
func subdirs(dir, marker string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if isMarked(path, marker) {
			dirs = append(dirs, path)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// openProject reads a project marker. An unreadable marker yields a project
// whose ListResources reports the error, so its siblings and sub-projects are
// still crawled.
func openProject(dir string) *project {
	p := &project{dir: dir}
	p.err = readJSON(filepath.Join(dir, ProjectMarker), &p.doc)
	return p
}

// openResource reads a resource marker. An unreadable marker yields a
// resource whose MetadataForm reports the error.
func openResource(dir string) *resource {
	r := &resource{dir: dir}
	r.err = readJSON(filepath.Join(dir, ResourceMarker), &r.doc)
	return r
}

// ListProjects returns the top-level projects of the mirror
func (r *Repository) ListProjects(ctx context.Context) ([]ports.ProjectHandle, error) {
	dirs, err := subdirs(r.rootPath, ProjectMarker)
	if err != nil {
		return nil, fmt.Errorf("failed to read repository: %w", err)
	}
	projects := make([]ports.ProjectHandle, 0, len(dirs))
	for _, dir := range dirs {
		projects = append(projects, openProject(dir))
	}
	return projects, nil
}

// OpenFile opens a file by project ID, resource ID and file name
func (r *Repository) OpenFile(ctx context.Context, ref ports.FileRef) (io.ReadCloser, error) {
	dir, err := r.findResource(ref.ProjectID, ref.ResourceID)
	if err != nil {
		return nil, err
	}
	if ref.FileName != filepath.Base(ref.FileName) || strings.HasPrefix(ref.FileName, ".") {
		return nil, fmt.Errorf("invalid file name %q", ref.FileName)
	}
	f, err := os.Open(filepath.Join(dir, ref.FileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// findResource locates the directory of a resource inside the directory of
// its project
func (r *Repository) findResource(projectID, resourceID string) (string, error) {
	var found string
	err := filepath.WalkDir(r.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || !isMarked(path, ProjectMarker) {
			return nil
		}
		var pdoc projectDoc
		if readJSON(filepath.Join(path, ProjectMarker), &pdoc) != nil || pdoc.ID != projectID {
			return nil
		}
		resources, err := subdirs(path, ResourceMarker)
		if err != nil {
			return err
		}
		for _, dir := range resources {
			var rdoc resourceDoc
			if readJSON(filepath.Join(dir, ResourceMarker), &rdoc) == nil && rdoc.ID == resourceID {
				found = dir
				return fs.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to search repository: %w", err)
	}
	if found == "" {
		return "", fmt.Errorf("resource %s in project %s: %w", resourceID, projectID, os.ErrNotExist)
	}
	return found, nil
}

type project struct {
	dir string
	doc projectDoc
	err error
}

// ID returns the marker's id, or the directory name if the marker is unreadable
func (p *project) ID() string {
	if p.err != nil {
		return p.Name()
	}
	return p.doc.ID
}

func (p *project) Name() string { return filepath.Base(p.dir) }

func (p *project) ListResources(ctx context.Context) ([]ports.ResourceHandle, error) {
	if p.err != nil {
		return nil, p.err
	}
	dirs, err := subdirs(p.dir, ResourceMarker)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}
	resources := make([]ports.ResourceHandle, 0, len(dirs))
	for _, dir := range dirs {
		resources = append(resources, openResource(dir))
	}
	return resources, nil
}

func (p *project) ListSubprojects(ctx context.Context) ([]ports.ProjectHandle, error) {
	dirs, err := subdirs(p.dir, ProjectMarker)
	if err != nil {
		return nil, fmt.Errorf("failed to read project: %w", err)
	}
	projects := make([]ports.ProjectHandle, 0, len(dirs))
	for _, dir := range dirs {
		projects = append(projects, openProject(dir))
	}
	return projects, nil
}

type resource struct {
	dir string
	doc resourceDoc
	err error
}

// ID returns the marker's id, or the directory name if the marker is unreadable
func (r *resource) ID() string {
	if r.err != nil {
		return r.Name()
	}
	return r.doc.ID
}

func (r *resource) Name() string    { return filepath.Base(r.dir) }
func (r *resource) Profile() string { return r.doc.Profile }

func (r *resource) ListFiles(ctx context.Context) ([]ports.FileHandle, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource: %w", err)
	}
	var files []ports.FileHandle
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, &file{resourceDir: r.dir, name: e.Name(), size: info.Size()})
	}
	return files, nil
}

func (r *resource) MetadataForm(ctx context.Context) (ports.FormHandle, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.doc.Form == nil {
		return nil, fmt.Errorf("%s: %w", r.Name(), ErrNoForm)
	}
	return &Form{fields: *r.doc.Form}, nil
}

type file struct {
	resourceDir string
	name        string
	size        int64
}

func (f *file) Name() string { return f.name }
func (f *file) Size() int64  { return f.size }

func (f *file) metaPath(ext string) string {
	return filepath.Join(f.resourceDir, MetaDir, f.name+ext)
}

func (f *file) FetchMetadataForm(ctx context.Context) (map[string]any, error) {
	var meta map[string]any
	if err := readJSON(f.metaPath(metaExt), &meta); err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, fmt.Errorf("no metadata for %s", f.name)
	}
	return meta, nil
}

func (f *file) RawMetadata(ctx context.Context) ([]byte, error) {
	return os.ReadFile(f.metaPath(rawExt))
}

// Form is a resource's declared metadata form
type Form struct {
	fields []fieldDoc
}

// Keys returns the field names in declaration order
func (f *Form) Keys() []string {
	keys := make([]string, len(f.fields))
	for i, fd := range f.fields {
		keys[i] = fd.Name
	}
	return keys
}

func (f *Form) field(key string) (fieldDoc, bool) {
	for _, fd := range f.fields {
		if fd.Name == key {
			return fd, true
		}
	}
	return fieldDoc{}, false
}

func (f *Form) IsRequired(key string) bool {
	fd, _ := f.field(key)
	return fd.Required
}

func (f *Form) IsControlled(key string) bool {
	fd, _ := f.field(key)
	return len(fd.Vocabulary) > 0
}

func (f *Form) ControlledValues(key string) []string {
	fd, _ := f.field(key)
	return fd.Vocabulary
}

// Parse reads "key: value" lines. Keys outside the form are ignored, a
// required key that is missing fails the parse, and a controlled value
// outside its vocabulary fails the parse. Numeric values become float64.
func (f *Form) Parse(raw []byte) (map[string]any, error) {
	values := make(map[string]any)
	for _, line := range strings.Split(string(raw), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		fd, known := f.field(key)
		if !known {
			continue
		}
		if len(fd.Vocabulary) > 0 && !contains(fd.Vocabulary, value) {
			return nil, fmt.Errorf("value %q of %s is not in its vocabulary", value, key)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			values[key] = n
		} else {
			values[key] = value
		}
	}
	for _, fd := range f.fields {
		if _, ok := values[fd.Name]; fd.Required && !ok {
			return nil, fmt.Errorf("required field %s is missing", fd.Name)
		}
	}
	return values, nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
