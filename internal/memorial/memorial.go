// Package memorial records the player's notable moments, such as effects
// gained and lost, to a persistent log.
package memorial

import (
	"context"
	"time"
)

// Entry is one memorial log line.
type Entry struct {
	CreatureID   string
	CreatureName string
	EffectID     string
	Text         string
	Turn         int
	RecordedAt   time.Time
}

// Recorder accepts memorial entries. Record must not block the caller.
type Recorder interface {
	Record(e Entry)
}

// Store persists batches of entries.
type Store interface {
	InsertEntries(ctx context.Context, entries []Entry) error
}

// Discard drops every entry.
var Discard Recorder = discard{}

type discard struct{}

func (discard) Record(Entry) {}
