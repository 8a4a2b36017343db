package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"coscindex/internal/domain"
)

// snapshotTx writes one snapshot
type snapshotTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *snapshotTx) write(snap *domain.Snapshot, repoPath string) error {
	if _, err := t.tx.ExecContext(t.ctx, `DELETE FROM collections`); err != nil {
		return err
	}
	docs := []struct {
		name string
		data any
	}{
		{collectionProjects, nonNil(snap.Projects)},
		{collectionResources, nonNil(snap.Resources)},
		{collectionFiles, nonNil(snap.Files)},
		{collectionErrors, nonNil(snap.Errors)},
	}
	for _, d := range docs {
		if err := t.putCollection(d.name, d.data); err != nil {
			return fmt.Errorf("failed to store %s: %w", d.name, err)
		}
	}

	meta := map[string]string{
		"schema_version":  schemaVersion,
		"repo_path_hash":  hashRepoPath(repoPath),
		"download_time":   snap.DownloadTime.UTC().Format(time.RFC3339Nano),
		"count_projects":  fmt.Sprint(len(snap.Projects)),
		"count_resources": fmt.Sprint(len(snap.Resources)),
		"count_files":     fmt.Sprint(len(snap.Files)),
	}
	for k, v := range meta {
		if err := t.setMeta(k, v); err != nil {
			return fmt.Errorf("failed to store metadata: %w", err)
		}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// putCollection inserts or replaces a collection document
func (t *snapshotTx) putCollection(name string, data any) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT OR REPLACE INTO collections (name, document)
		VALUES (?, ?)
	`, name, string(doc))
	return err
}

// setMeta inserts or replaces a metadata value
func (t *snapshotTx) setMeta(key, value string) error {
	_, err := t.tx.ExecContext(t.ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// Commit commits the transaction
func (t *snapshotTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *snapshotTx) Rollback() error {
	return t.tx.Rollback()
}
