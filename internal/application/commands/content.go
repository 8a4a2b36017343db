package commands

import (
	"context"
	"fmt"
	"io"

	"coscindex/internal/application"
	"coscindex/internal/domain"
	"coscindex/internal/ports"
)

// FileContentCommand streams the content of a crawled file from the repository
type FileContentCommand struct {
	repo  ports.RemoteRepository
	snap  *domain.Snapshot
	Index domain.FileIndex
}

// NewFileContentCommand creates a new FileContentCommand
func NewFileContentCommand(repo ports.RemoteRepository, snap *domain.Snapshot, idx domain.FileIndex) *FileContentCommand {
	return &FileContentCommand{repo: repo, snap: snap, Index: idx}
}

// Ref resolves the file index to the identifiers the repository addresses it by
func (c *FileContentCommand) Ref() (ports.FileRef, error) {
	f, err := c.snap.File(c.Index)
	if err != nil {
		return ports.FileRef{}, &application.ValidationError{
			Field:   "fileIndex",
			Message: fmt.Sprintf("expected file index below %d, got: %d", len(c.snap.Files), c.Index),
		}
	}
	res, err := c.snap.Resource(f.Resource)
	if err != nil {
		return ports.FileRef{}, err
	}
	pr, err := c.snap.Project(f.Project)
	if err != nil {
		return ports.FileRef{}, err
	}
	return ports.FileRef{ProjectID: pr.ID, ResourceID: res.ID, FileName: f.Name}, nil
}

// Execute opens the file. The caller closes the reader.
func (c *FileContentCommand) Execute(ctx context.Context) (io.ReadCloser, error) {
	ref, err := c.Ref()
	if err != nil {
		return nil, err
	}
	rc, err := c.repo.OpenFile(ctx, ref)
	if err != nil {
		return nil, &application.RemoteCallError{
			Kind:   "file",
			Method: "OpenFile",
			Args:   []string{ref.ProjectID, ref.ResourceID, ref.FileName},
			Err:    err,
		}
	}
	return rc, nil
}
