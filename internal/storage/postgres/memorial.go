package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/wasteland/internal/memorial"
)

// MemorialRepository persists memorial entries in the memorial_log table.
type MemorialRepository struct {
	db *pgxpool.Pool
}

// NewMemorialRepository creates a MemorialRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewMemorialRepository(db *pgxpool.Pool) *MemorialRepository {
	return &MemorialRepository{db: db}
}

var memorialColumns = []string{"creature_id", "creature_name", "effect_id", "text", "turn", "recorded_at"}

// InsertEntries writes entries with a single COPY.
//
// Postcondition: either every entry is stored or none are.
func (r *MemorialRepository) InsertEntries(ctx context.Context, entries []memorial.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	n, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"memorial_log"},
		memorialColumns,
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			return []any{e.CreatureID, e.CreatureName, e.EffectID, e.Text, e.Turn, e.RecordedAt}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copying memorial entries: %w", err)
	}
	if int(n) != len(entries) {
		return fmt.Errorf("copying memorial entries: wrote %d of %d", n, len(entries))
	}
	return nil
}

// Recent returns up to limit entries, newest first.
//
// Precondition: limit > 0.
func (r *MemorialRepository) Recent(ctx context.Context, limit int) ([]memorial.Entry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT creature_id, creature_name, effect_id, text, turn, recorded_at
		 FROM memorial_log
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying memorial log: %w", err)
	}
	defer rows.Close()

	var out []memorial.Entry
	for rows.Next() {
		var e memorial.Entry
		if err := rows.Scan(&e.CreatureID, &e.CreatureName, &e.EffectID, &e.Text, &e.Turn, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning memorial entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating memorial log: %w", err)
	}
	return out, nil
}
