// Package store persists every Verify call to a sqlite-backed history
// so `natded history` can list past runs, generalizing the teacher's
// hash-keyed filesystem cache (internal/ext's Cache) into a real
// queryable store keyed on source content instead of a binary artifact.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/natded/natded/internal/driver"
)

const schema = `
CREATE TABLE IF NOT EXISTS verifications (
	request_id   TEXT PRIMARY KEY,
	file_path    TEXT NOT NULL,
	source_hash  TEXT NOT NULL,
	ok           INTEGER NOT NULL,
	diagnostics  INTEGER NOT NULL,
	goals        INTEGER NOT NULL,
	solved_goals INTEGER NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_verifications_source_hash ON verifications(source_hash);
`

// Store wraps a sqlite database holding one row per Verify call.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record is one row of verification history.
type Record struct {
	RequestID   string
	FilePath    string
	SourceHash  string
	OK          bool
	Diagnostics int
	Goals       int
	SolvedGoals int
	CreatedAt   time.Time
}

// SourceHash hashes source the same way the teacher's ext cache hashes
// its config content: sha256, hex-encoded.
func SourceHash(source string) string {
	h := sha256.Sum256([]byte(source))
	return hex.EncodeToString(h[:])
}

// Save inserts one history row for a completed Verify call, replacing
// any prior row with the same request ID (Verify mints a fresh uuid per
// call, so this is an insert in practice; ON CONFLICT guards callers
// that retry with the same result).
func (s *Store) Save(ctx context.Context, source, filePath string, result *driver.VerifyResult) error {
	solved := 0
	for _, g := range result.Goals {
		if g.Solvability == driver.Solvable {
			solved++
		}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO verifications (request_id, file_path, source_hash, ok, diagnostics, goals, solved_goals, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(request_id) DO UPDATE SET
			file_path = excluded.file_path, source_hash = excluded.source_hash,
			ok = excluded.ok, diagnostics = excluded.diagnostics,
			goals = excluded.goals, solved_goals = excluded.solved_goals,
			created_at = excluded.created_at
	`,
		result.RequestID.String(), filePath, SourceHash(source), boolToInt(result.OK()),
		len(result.Diagnostics), len(result.Goals), solved, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store: saving verification record: %w", err)
	}
	return nil
}

// History returns the most recent limit records, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT request_id, file_path, source_hash, ok, diagnostics, goals, solved_goals, created_at
		FROM verifications ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: querying history: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ByFile returns every history row recorded for filePath, newest first.
func (s *Store) ByFile(ctx context.Context, filePath string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT request_id, file_path, source_hash, ok, diagnostics, goals, solved_goals, created_at
		FROM verifications WHERE file_path = ? ORDER BY created_at DESC
	`, filePath)
	if err != nil {
		return nil, fmt.Errorf("store: querying history for %s: %w", filePath, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		var ok int
		var createdAt string
		if err := rows.Scan(&r.RequestID, &r.FilePath, &r.SourceHash, &ok, &r.Diagnostics, &r.Goals, &r.SolvedGoals, &createdAt); err != nil {
			return nil, fmt.Errorf("store: scanning row: %w", err)
		}
		r.OK = ok != 0
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = t
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterating rows: %w", err)
	}
	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
