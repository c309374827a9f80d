package pubgen

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoBuilds is returned by LatestBuild when nothing has been recorded.
var ErrNoBuilds = errors.New("no builds recorded")

// Manifest wraps a SQLite database recording every build and the files it
// wrote.
type Manifest struct {
	db *sql.DB
}

// BuildRecord is one recorded build.
type BuildRecord struct {
	ID        int64
	StartedAt time.Time
	Duration  time.Duration
	Artifacts int
	Bytes     int64
}

// ArtifactRecord is one file of a recorded build.
type ArtifactRecord struct {
	Path   string
	Kind   ArtifactKind
	Size   int64
	SHA256 string
}

// NewManifest opens (or creates) the SQLite database at path, ensures its
// directory exists, and creates the schema.
func NewManifest(path string) (*Manifest, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	m := &Manifest{db: db}
	if err := m.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// Close closes the underlying database connection.
func (m *Manifest) Close() error {
	return m.db.Close()
}

func (m *Manifest) ensureSchema() error {
	_, err := m.db.Exec(`
CREATE TABLE IF NOT EXISTS builds (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    artifacts INTEGER NOT NULL,
    bytes INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS artifacts (
    build_id INTEGER NOT NULL REFERENCES builds(id) ON DELETE CASCADE,
    path TEXT NOT NULL,
    kind TEXT NOT NULL,
    size INTEGER NOT NULL,
    sha256 TEXT NOT NULL,
    PRIMARY KEY (build_id, path)
);
`)
	return err
}

// RecordBuild stores one build and its artifacts in a single transaction
// and returns the new build id.
func (m *Manifest) RecordBuild(ctx context.Context, startedAt time.Time, duration time.Duration, artifacts []Artifact) (int64, error) {
	var total int64
	for _, a := range artifacts {
		total += int64(len(a.Body))
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO builds (started_at, duration_ms, artifacts, bytes) VALUES (?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), duration.Milliseconds(), len(artifacts), total)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO artifacts (build_id, path, kind, size, sha256) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, a := range artifacts {
		sum := sha256.Sum256(a.Body)
		if _, err := stmt.ExecContext(ctx, id, a.Path, string(a.Kind), len(a.Body), hex.EncodeToString(sum[:])); err != nil {
			return 0, fmt.Errorf("record %s: %w", a.Path, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// LatestBuild returns the most recently recorded build.
func (m *Manifest) LatestBuild(ctx context.Context) (BuildRecord, error) {
	var (
		rec       BuildRecord
		startedAt string
		ms        int64
	)
	err := m.db.QueryRowContext(ctx,
		`SELECT id, started_at, duration_ms, artifacts, bytes FROM builds ORDER BY id DESC LIMIT 1`).
		Scan(&rec.ID, &startedAt, &ms, &rec.Artifacts, &rec.Bytes)
	if errors.Is(err, sql.ErrNoRows) {
		return BuildRecord{}, ErrNoBuilds
	}
	if err != nil {
		return BuildRecord{}, err
	}
	rec.StartedAt, err = time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return BuildRecord{}, fmt.Errorf("parse build time %q: %w", startedAt, err)
	}
	rec.Duration = time.Duration(ms) * time.Millisecond
	return rec, nil
}

// ListArtifacts returns the artifacts of one build ordered by path.
func (m *Manifest) ListArtifacts(ctx context.Context, buildID int64) ([]ArtifactRecord, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT path, kind, size, sha256 FROM artifacts WHERE build_id = ? ORDER BY path`, buildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ArtifactRecord
	for rows.Next() {
		var (
			rec  ArtifactRecord
			kind string
		)
		if err := rows.Scan(&rec.Path, &kind, &rec.Size, &rec.SHA256); err != nil {
			return nil, err
		}
		rec.Kind = ArtifactKind(kind)
		out = append(out, rec)
	}
	return out, rows.Err()
}
