package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"coscindex/internal/domain"
	"coscindex/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Collection names of a stored snapshot
const (
	collectionProjects  = "projects"
	collectionResources = "resources"
	collectionFiles     = "files"
	collectionErrors    = "errors"
)

// Store implements ports.SnapshotStore using SQLite. Each collection of a
// snapshot is kept as one JSON document next to the download time.
type Store struct {
	db       *sql.DB
	repoPath string
	dbPath   string
}

// Ensure Store implements SnapshotStore
var _ ports.SnapshotStore = (*Store)(nil)

// NewStore creates a new SQLite store. An empty dbPath places the database
// under the XDG data directory, keyed by the repository path given to Open.
func NewStore(dbPath string) *Store {
	return &Store{dbPath: dbPath}
}

// Open initializes the store for the given repository path
func (s *Store) Open(repoPath string) error {
	var err error
	if repoPath, err = expandHome(repoPath); err != nil {
		return err
	}
	s.repoPath = repoPath
	if s.dbPath == "" {
		s.dbPath = databasePath(repoPath)
	} else if s.dbPath, err = expandHome(s.dbPath); err != nil {
		return err
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			document TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}
	return nil
}

// Path returns the database file
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func expandHome(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}

// databasePath returns the path for the SQLite database
func databasePath(repoPath string) string {
	// XDG data directory
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "coscindex", hashRepoPath(repoPath)+".db")
}

// hashRepoPath returns a short hash of the repository path
func hashRepoPath(repoPath string) string {
	h := sha256.Sum256([]byte(repoPath))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// Save replaces the stored snapshot in one transaction
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stx := &snapshotTx{ctx: ctx, tx: tx}
	if err := stx.write(snap, s.repoPath); err != nil {
		stx.Rollback()
		return err
	}
	return stx.Commit()
}

// Load returns the stored snapshot. A missing, outdated or unreadable store
// yields domain.ErrNoData.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	meta, err := s.readMeta(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoData, err)
	}
	if meta["schema_version"] != schemaVersion {
		return nil, fmt.Errorf("%w: schema version %q, expected %s", domain.ErrNoData, meta["schema_version"], schemaVersion)
	}
	downloaded, ok := meta["download_time"]
	if !ok {
		return nil, domain.ErrNoData
	}

	snap := domain.NewSnapshot()
	if snap.DownloadTime, err = time.Parse(time.RFC3339Nano, downloaded); err != nil {
		return nil, fmt.Errorf("%w: download time: %v", domain.ErrNoData, err)
	}
	collections := []struct {
		name     string
		target   any
		optional bool
	}{
		{collectionProjects, &snap.Projects, false},
		{collectionResources, &snap.Resources, false},
		{collectionFiles, &snap.Files, false},
		{collectionErrors, &snap.Errors, true},
	}
	for _, c := range collections {
		if err := s.readCollection(ctx, c.name, c.target); err != nil {
			if c.optional && errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrNoData, c.name, err)
		}
	}
	return snap, nil
}

func (s *Store) readMeta(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

func (s *Store) readCollection(ctx context.Context, name string, target any) error {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM collections WHERE name = ?`, name).Scan(&doc)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(doc), target)
}

// DownloadTime returns the download time of the stored snapshot without
// loading its collections
func (s *Store) DownloadTime(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'download_time'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, domain.ErrNoData
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, value)
}
