package ports

import (
	"context"
	"io"
)

// RemoteRepository is the client of the remote document repository.
// Any call may fail; the crawler treats every failure as a failed remote call.
type RemoteRepository interface {
	// ListProjects returns the top-level projects in document order
	ListProjects(ctx context.Context) ([]ProjectHandle, error)

	// OpenFile streams the content of a file
	OpenFile(ctx context.Context, ref FileRef) (io.ReadCloser, error)
}

// FileRef addresses a file by the remote identifiers of its container
type FileRef struct {
	ProjectID  string
	ResourceID string
	FileName   string
}

// ProjectHandle is a remote project
type ProjectHandle interface {
	ID() string
	Name() string
	ListResources(ctx context.Context) ([]ResourceHandle, error)
	ListSubprojects(ctx context.Context) ([]ProjectHandle, error)
}

// ResourceHandle is a remote resource
type ResourceHandle interface {
	ID() string
	Name() string
	// Profile returns the application profile URI of the resource's metadata schema
	Profile() string
	ListFiles(ctx context.Context) ([]FileHandle, error)
	MetadataForm(ctx context.Context) (FormHandle, error)
}

// FormHandle is the declared metadata form of a resource
type FormHandle interface {
	Keys() []string
	IsRequired(key string) bool
	IsControlled(key string) bool
	ControlledValues(key string) []string
	// Parse reads raw file metadata against the form
	Parse(raw []byte) (map[string]any, error)
}

// FileHandle is a remote file
type FileHandle interface {
	Name() string
	Size() int64
	// FetchMetadataForm returns the file's metadata as parsed by the repository
	FetchMetadataForm(ctx context.Context) (map[string]any, error)
	// RawMetadata returns the unparsed metadata, used when FetchMetadataForm fails
	RawMetadata(ctx context.Context) ([]byte, error)
}
