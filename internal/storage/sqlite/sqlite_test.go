package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wasteland/internal/memorial"
	"github.com/cory-johannsen/wasteland/internal/storage/sqlite"
)

func open(t *testing.T) *sqlite.MemorialStore {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "nested", "memorial.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMemorialStore_InsertAndRecent(t *testing.T) {
	store := open(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)

	require.NoError(t, store.InsertEntries(ctx, []memorial.Entry{
		{CreatureID: "p1", CreatureName: "you", EffectID: "onfire", Text: "Caught fire.", Turn: 4, RecordedAt: base},
		{CreatureID: "p1", CreatureName: "you", EffectID: "onfire", Text: "Put out the fire.", Turn: 7, RecordedAt: base.Add(time.Minute)},
	}))

	got, err := store.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Put out the fire.", got[0].Text)
	assert.Equal(t, 7, got[0].Turn)
	assert.Equal(t, "Caught fire.", got[1].Text)
	assert.Equal(t, "you", got[1].CreatureName)
	assert.True(t, got[1].RecordedAt.Equal(base), "nanoseconds survive the round trip")
}

func TestMemorialStore_RecentLimit(t *testing.T) {
	store := open(t)
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0).UTC()
	var batch []memorial.Entry
	for i := 0; i < 10; i++ {
		batch = append(batch, memorial.Entry{CreatureID: "p1", EffectID: "sap", Turn: i, RecordedAt: base.Add(time.Duration(i) * time.Second)})
	}
	require.NoError(t, store.InsertEntries(ctx, batch))

	got, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{9, 8, 7}, []int{got[0].Turn, got[1].Turn, got[2].Turn})
}

func TestMemorialStore_InsertEmpty(t *testing.T) {
	store := open(t)
	require.NoError(t, store.InsertEntries(context.Background(), nil))
	got, err := store.Recent(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemorialStore_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memorial.db")
	ctx := context.Background()

	store, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.InsertEntries(ctx, []memorial.Entry{{CreatureID: "p1", Text: "Fell asleep.", RecordedAt: time.Now()}}))
	require.NoError(t, store.Close())

	store, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()
	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Fell asleep.", got[0].Text)
}

func TestMemorialStore_BacksJournal(t *testing.T) {
	store := open(t)
	j := memorial.NewJournal(store, 16, time.Hour, zap.NewNop())
	for i := 0; i < 9; i++ {
		j.Record(memorial.Entry{CreatureID: "p1", EffectID: "zapped", Turn: i})
	}
	j.Close()

	got, err := store.Recent(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, got, 9)
}

func TestMemorialStore_JournalOverflowIsAccounted(t *testing.T) {
	store := open(t)
	core, logs := observer.New(zapcore.WarnLevel)
	j := memorial.NewJournal(store, 4, time.Hour, zap.New(core))
	for i := 0; i < 9; i++ {
		j.Record(memorial.Entry{CreatureID: "p1", EffectID: "zapped", Turn: i})
	}
	j.Close()

	got, err := store.Recent(context.Background(), 100)
	require.NoError(t, err)
	dropped := logs.FilterMessage("memorial buffer full; dropping entry").Len()
	assert.GreaterOrEqual(t, len(got), 4)
	assert.Equal(t, 9, len(got)+dropped)
}

func TestProperty_MemorialStore_RoundTripsText(t *testing.T) {
	store := open(t)
	ctx := context.Background()
	at := time.Unix(1_700_000_000, 0).UTC()
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[ -~]{0,80}`).Draw(rt, "text")
		turn := rapid.IntRange(0, 1<<20).Draw(rt, "turn")
		// strictly newer than anything already stored
		at = at.Add(time.Duration(rapid.Int64Range(1, 1e9).Draw(rt, "step")))
		e := memorial.Entry{CreatureID: "p1", CreatureName: "you", EffectID: "blind", Text: text, Turn: turn, RecordedAt: at}

		require.NoError(rt, store.InsertEntries(ctx, []memorial.Entry{e}))
		got, err := store.Recent(ctx, 1)
		require.NoError(rt, err)
		require.Len(rt, got, 1)
		assert.Equal(rt, text, got[0].Text)
		assert.Equal(rt, turn, got[0].Turn)
	})
}
