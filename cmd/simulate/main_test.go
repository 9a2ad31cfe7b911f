package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/config"
	"github.com/cory-johannsen/wasteland/internal/game/dice"
	"github.com/cory-johannsen/wasteland/internal/game/dice/dicetest"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
	"github.com/cory-johannsen/wasteland/internal/game/geo"
	"github.com/cory-johannsen/wasteland/internal/game/npc"
	"github.com/cory-johannsen/wasteland/internal/memorial"
)

func TestSpawn_UnknownTemplateReturnsError(t *testing.T) {
	roster := npc.NewManager(effect.NewRegistry(), dice.NewLoggedRoller(dicetest.Min{}, zap.NewNop()), zap.NewNop())
	c, err := spawn(roster, map[string]*npc.Template{}, "ghoul", geo.Tripoint{})
	assert.Nil(t, c)
	assert.ErrorContains(t, err, `unknown template "ghoul"`)
	assert.Empty(t, roster.All())
}

func TestOpenMemorial_None(t *testing.T) {
	store, closeFn, err := openMemorial(context.Background(), config.Config{Memorial: config.MemorialConfig{Backend: "none"}})
	require.NoError(t, err)
	assert.Nil(t, store)
	assert.NotPanics(t, closeFn)
}

func TestOpenMemorial_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{Memorial: config.MemorialConfig{
		Backend:    "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "memorial.db"),
	}}
	store, closeFn, err := openMemorial(ctx, cfg)
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, store.InsertEntries(ctx, []memorial.Entry{{CreatureID: "p1", EffectID: "onfire", Text: "Caught fire.", RecordedAt: time.Now().UTC()}}))
	got, err := store.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Caught fire.", got[0].Text)
}

func TestOpenMemorial_PostgresUnreachableFailsFast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cfg := config.Config{
		Memorial: config.MemorialConfig{Backend: "postgres"},
		Database: config.DatabaseConfig{
			Host: "127.0.0.1", Port: 1, User: "u", Password: "p", Name: "memorial",
			SSLMode: "disable", MaxConns: 1, MaxConnLifetime: time.Minute,
		},
	}
	store, closeFn, err := openMemorial(ctx, cfg)
	assert.Error(t, err)
	assert.Nil(t, store)
	assert.Nil(t, closeFn)
}

func TestProjectile_Tags(t *testing.T) {
	p := projectile(" incendiary, BEANBAG ,")
	assert.True(t, p.HasEffect("INCENDIARY"))
	assert.True(t, p.HasEffect("BEANBAG"))
	assert.Len(t, p.Effects, 2)
	assert.Equal(t, 60, p.Speed)
}
