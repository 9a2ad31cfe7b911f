// Package sqlite provides a single-file memorial store on the pure Go
// modernc.org/sqlite driver, for runs without a PostgreSQL server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/wasteland/internal/memorial"
)

const schema = `CREATE TABLE IF NOT EXISTS memorial_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	creature_id   TEXT    NOT NULL,
	creature_name TEXT    NOT NULL,
	effect_id     TEXT    NOT NULL,
	text          TEXT    NOT NULL,
	turn          INTEGER NOT NULL,
	recorded_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memorial_log_recorded_at ON memorial_log (recorded_at);`

// MemorialStore persists memorial entries in a SQLite database file.
// recorded_at is stored as Unix nanoseconds.
type MemorialStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// memorial schema exists.
//
// Postcondition: Returns a ready store or a non-nil error.
func Open(ctx context.Context, path string) (*MemorialStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// One writer; concurrent connections would contend on the file lock.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating memorial schema: %w", err)
	}
	return &MemorialStore{db: db}, nil
}

// InsertEntries writes entries in one transaction.
//
// Postcondition: either every entry is stored or none are.
func (s *MemorialStore) InsertEntries(ctx context.Context, entries []memorial.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning memorial insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO memorial_log (creature_id, creature_name, effect_id, text, turn, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing memorial insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.CreatureID, e.CreatureName, e.EffectID, e.Text, e.Turn, e.RecordedAt.UnixNano()); err != nil {
			return fmt.Errorf("inserting memorial entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing memorial insert: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
//
// Precondition: limit > 0.
func (s *MemorialStore) Recent(ctx context.Context, limit int) ([]memorial.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT creature_id, creature_name, effect_id, text, turn, recorded_at
		 FROM memorial_log
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying memorial log: %w", err)
	}
	defer rows.Close()

	var out []memorial.Entry
	for rows.Next() {
		var (
			e  memorial.Entry
			ns int64
		)
		if err := rows.Scan(&e.CreatureID, &e.CreatureName, &e.EffectID, &e.Text, &e.Turn, &ns); err != nil {
			return nil, fmt.Errorf("scanning memorial entry: %w", err)
		}
		e.RecordedAt = time.Unix(0, ns).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating memorial log: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (s *MemorialStore) Close() error {
	return s.db.Close()
}
