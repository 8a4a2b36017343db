package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"coscindex/internal/application"
	"coscindex/internal/domain"
)

// ExportDocument is the JSON shape of an exported snapshot
type ExportDocument struct {
	DownloadTime string                 `json:"downloadTime"`
	Projects     []domain.ProjectNode   `json:"projects"`
	Resources    []domain.ResourceEntry `json:"resources"`
	Files        []domain.FileEntry     `json:"files"`
	Errors       []domain.ErrorRecord   `json:"errors"`
}

// NewExportDocument wraps a snapshot for export
func NewExportDocument(snap *domain.Snapshot) ExportDocument {
	return ExportDocument{
		DownloadTime: snap.DownloadTime.UTC().Format(time.RFC3339),
		Projects:     snap.Projects,
		Resources:    snap.Resources,
		Files:        snap.Files,
		Errors:       snap.Errors,
	}
}

// ExportCommand serialises a snapshot, optionally narrowed by a JSONPath
// expression such as "$.resources[*].name"
type ExportCommand struct {
	snap       *domain.Snapshot
	Expression string
	Indent     int
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(snap *domain.Snapshot, expression string) *ExportCommand {
	return &ExportCommand{snap: snap, Expression: expression, Indent: 2}
}

// Validate checks that the expression parses
func (c *ExportCommand) Validate() error {
	if c.Expression == "" {
		return nil
	}
	if _, err := jp.ParseString(c.Expression); err != nil {
		return &application.ValidationError{
			Field:   "expression",
			Message: fmt.Sprintf("invalid JSONPath expression %q: %v", c.Expression, err),
		}
	}
	return nil
}

// Execute returns the JSON text of the snapshot or of the expression's matches
func (c *ExportCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	doc, err := c.Document()
	if err != nil {
		return "", err
	}
	if c.Expression == "" {
		return oj.JSON(doc, c.Indent), nil
	}
	x, _ := jp.ParseString(c.Expression)
	return oj.JSON(x.Get(doc), c.Indent), nil
}

// Document returns the snapshot as generic JSON data
func (c *ExportCommand) Document() (any, error) {
	raw, err := json.Marshal(NewExportDocument(c.snap))
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	doc, err := oj.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return doc, nil
}

// Query evaluates a JSONPath expression against the snapshot
func (c *ExportCommand) Query(expression string) ([]any, error) {
	x, err := jp.ParseString(expression)
	if err != nil {
		return nil, &application.ValidationError{
			Field:   "expression",
			Message: fmt.Sprintf("invalid JSONPath expression %q: %v", expression, err),
		}
	}
	doc, err := c.Document()
	if err != nil {
		return nil, err
	}
	return x.Get(doc), nil
}
