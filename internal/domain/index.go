package domain

import (
	"fmt"
	"time"
)

// ProjectIndex is a position in Snapshot.Projects
type ProjectIndex int

// ResourceIndex is a position in Snapshot.Resources
type ResourceIndex int

// FileIndex is a position in Snapshot.Files
type FileIndex int

// MetadataErrorKey is the key of the sentinel metadata stored when a file's
// metadata could not be retrieved by either accessor
const MetadataErrorKey = "error"

// MetadataErrorMessage is the value stored under MetadataErrorKey
const MetadataErrorMessage = "See log for details"

// ProjectNode is one remote project
type ProjectNode struct {
	ID          string          `json:"id"`
	Path        string          `json:"path"` // Path of the parent, "" for top-level projects
	Name        string          `json:"name"`
	Parent      *ProjectIndex   `json:"parent"`
	Resources   []ResourceIndex `json:"resources"`
	SubProjects []ProjectIndex  `json:"sub_projects"`
}

// FullPath returns the project's own path ("<path>/<name>")
func (p ProjectNode) FullPath() string {
	return p.Path + "/" + p.Name
}

// FieldSpec describes one field of a resource's metadata form
type FieldSpec struct {
	Name     string   `json:"name"`
	Required bool     `json:"required"`
	Options  []string `json:"options"` // Controlled vocabulary, empty if uncontrolled
}

// MetadataFieldSpec is the ordered field list of a metadata form.
// A nil spec means the form could not be retrieved.
type MetadataFieldSpec []FieldSpec

// Keys returns the field names in form order
func (s MetadataFieldSpec) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Name
	}
	return keys
}

// Field looks up a field by name
func (s MetadataFieldSpec) Field(name string) (FieldSpec, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// ResourceEntry is one remote resource
type ResourceEntry struct {
	ID        string            `json:"id"`
	Path      string            `json:"path"`
	Name      string            `json:"name"`
	Project   ProjectIndex      `json:"project"`
	Profile   string            `json:"profile"` // Application profile URI
	FieldSpec MetadataFieldSpec `json:"meta_data_fields"`
	Files     []FileIndex       `json:"files"`
	TotalSize int64             `json:"size"`
}

// FileEntry is one remote file
type FileEntry struct {
	ID       string         `json:"id"`
	Path     string         `json:"path"`
	Name     string         `json:"name"`
	Size     int64          `json:"size"`
	Project  ProjectIndex   `json:"project"`
	Resource ResourceIndex  `json:"resource"`
	Metadata map[string]any `json:"metadata"`
}

// HasMetadata reports whether the metadata was retrieved (no error sentinel)
func (f FileEntry) HasMetadata() bool {
	if f.Metadata == nil {
		return false
	}
	_, failed := f.Metadata[MetadataErrorKey]
	return !failed || len(f.Metadata) > 1
}

// ErrorRecord captures one failed remote call during a crawl
type ErrorRecord struct {
	SourceKind string         `json:"source_kind"` // "repository", "project", "resource", "file"
	Method     string         `json:"method"`
	Args       []string       `json:"args,omitempty"`
	Message    string         `json:"message"`
	Project    *ProjectIndex  `json:"project,omitempty"`
	Resource   *ResourceIndex `json:"resource,omitempty"`
	File       *FileIndex     `json:"file,omitempty"`
}

func (r ErrorRecord) String() string {
	return fmt.Sprintf("%s.%s(%v): %s", r.SourceKind, r.Method, r.Args, r.Message)
}

// Snapshot is the flat, index-linked result of a crawl.
// Collections are append-only; indices are assigned at append time.
type Snapshot struct {
	DownloadTime time.Time
	Projects     []ProjectNode
	Resources    []ResourceEntry
	Files        []FileEntry
	Errors       []ErrorRecord
}

// NewSnapshot returns an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// AppendProject adds a project and returns its index
func (s *Snapshot) AppendProject(p ProjectNode) ProjectIndex {
	s.Projects = append(s.Projects, p)
	return ProjectIndex(len(s.Projects) - 1)
}

// AppendResource adds a resource and returns its index
func (s *Snapshot) AppendResource(r ResourceEntry) ResourceIndex {
	s.Resources = append(s.Resources, r)
	return ResourceIndex(len(s.Resources) - 1)
}

// AppendFile adds a file and returns its index
func (s *Snapshot) AppendFile(f FileEntry) FileIndex {
	s.Files = append(s.Files, f)
	return FileIndex(len(s.Files) - 1)
}

// AppendError records a failed call
func (s *Snapshot) AppendError(r ErrorRecord) {
	s.Errors = append(s.Errors, r)
}

// Project returns a pointer to the project at idx
func (s *Snapshot) Project(idx ProjectIndex) (*ProjectNode, error) {
	if idx < 0 || int(idx) >= len(s.Projects) {
		return nil, fmt.Errorf("project %d: %w", idx, ErrIndexOutOfRange)
	}
	return &s.Projects[idx], nil
}

// Resource returns a pointer to the resource at idx
func (s *Snapshot) Resource(idx ResourceIndex) (*ResourceEntry, error) {
	if idx < 0 || int(idx) >= len(s.Resources) {
		return nil, fmt.Errorf("resource %d: %w", idx, ErrIndexOutOfRange)
	}
	return &s.Resources[idx], nil
}

// File returns a pointer to the file at idx
func (s *Snapshot) File(idx FileIndex) (*FileEntry, error) {
	if idx < 0 || int(idx) >= len(s.Files) {
		return nil, fmt.Errorf("file %d: %w", idx, ErrIndexOutOfRange)
	}
	return &s.Files[idx], nil
}

// IsEmpty reports whether nothing was crawled
func (s *Snapshot) IsEmpty() bool {
	return s == nil || (len(s.Projects) == 0 && len(s.Resources) == 0 && len(s.Files) == 0)
}

// SumFileSizes returns the sum of the sizes of the given files
func (s *Snapshot) SumFileSizes(files []FileIndex) int64 {
	var total int64
	for _, idx := range files {
		if int(idx) < len(s.Files) && idx >= 0 {
			total += s.Files[idx].Size
		}
	}
	return total
}

// CrawlStats holds statistics from a crawl
type CrawlStats struct {
	Projects  int
	Resources int
	Files     int
	Errors    int
	Bytes     int64
	Duration  time.Duration
}

// Stats summarizes the snapshot
func (s *Snapshot) Stats(d time.Duration) CrawlStats {
	var total int64
	for _, f := range s.Files {
		total += f.Size
	}
	return CrawlStats{
		Projects:  len(s.Projects),
		Resources: len(s.Resources),
		Files:     len(s.Files),
		Errors:    len(s.Errors),
		Bytes:     total,
		Duration:  d,
	}
}
