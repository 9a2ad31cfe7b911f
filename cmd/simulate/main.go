// Package main runs a headless skirmish: the player and a truck-mounted
// turret against a wave of hostiles, with effects, Lua hooks and the
// memorial log all live.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/config"
	"github.com/cory-johannsen/wasteland/internal/game/ai"
	"github.com/cory-johannsen/wasteland/internal/game/combat"
	"github.com/cory-johannsen/wasteland/internal/game/creature"
	"github.com/cory-johannsen/wasteland/internal/game/damage"
	"github.com/cory-johannsen/wasteland/internal/game/dice"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
	"github.com/cory-johannsen/wasteland/internal/game/geo"
	"github.com/cory-johannsen/wasteland/internal/game/npc"
	"github.com/cory-johannsen/wasteland/internal/lifecycle"
	"github.com/cory-johannsen/wasteland/internal/memorial"
	"github.com/cory-johannsen/wasteland/internal/observability"
	"github.com/cory-johannsen/wasteland/internal/scripting"
	"github.com/cory-johannsen/wasteland/internal/simulation"
	"github.com/cory-johannsen/wasteland/internal/storage/postgres"
	"github.com/cory-johannsen/wasteland/internal/storage/sqlite"
)

// memorialStore is a memorial.Store that can also read entries back.
type memorialStore interface {
	memorial.Store
	Recent(ctx context.Context, limit int) ([]memorial.Entry, error)
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("simulate: %v", err)
	}
}

// run owns every deferred close, so a failure returns through them before
// main exits.
func run() error {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	playerID := flag.String("player", "survivor", "template id of the player")
	turretID := flag.String("turret", "turret", "template id of the mounted turret; empty = no turret")
	hostileIDs := flag.String("hostiles", "zombie,zombie,giant_ant,raider", "comma-separated template ids of the hostile wave")
	ammo := flag.String("ammo", "", "comma-separated projectile tags, e.g. INCENDIARY,BEANBAG")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	src := dice.NewCryptoSource()
	if cfg.Simulation.Seed != 0 {
		src = dice.NewSeededSource(cfg.Simulation.Seed)
	}
	roller := dice.NewLoggedRoller(src, logger)

	registry, err := effect.LoadDirectory(cfg.Content.EffectsDir)
	if err != nil {
		return fmt.Errorf("loading effects: %w", err)
	}
	templates, err := npc.LoadTemplates(cfg.Content.MonstersDir)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	logger.Info("content loaded",
		zap.Int("effects", len(registry.All())),
		zap.Int("templates", len(templates)),
	)

	store, closeStore, err := openMemorial(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening memorial store: %w", err)
	}
	defer closeStore()
	recorder := memorial.Discard
	var journal *memorial.Journal
	if store != nil {
		journal = memorial.NewJournal(store, cfg.Memorial.BufferSize, cfg.Memorial.FlushInterval, logger.Named("memorial"))
		// Close is idempotent; the lifecycle group closes it on the normal path.
		defer journal.Close()
		recorder = journal
	}

	sink := observability.NewMessageSink(logger)
	roster := npc.NewManager(registry, roller, logger)
	roster.SetMessageSink(sink)
	roster.SetRecorder(recorder)

	if cfg.Content.ScriptsDir != "" {
		scriptMgr := scripting.NewManager(roller, logger.Named("lua"))
		defer scriptMgr.Close()
		if err := loadScripts(scriptMgr, cfg.Content.ScriptsDir, cfg.Simulation.ScriptInstructionLimit, templates); err != nil {
			return fmt.Errorf("loading scripts: %w", err)
		}
		roster.SetHooks(scriptMgr)
		roster.BindScripting(scriptMgr)
	}

	player, err := spawn(roster, templates, *playerID, geo.Tripoint{})
	if err != nil {
		return fmt.Errorf("spawning player: %w", err)
	}

	resolver := combat.NewResolver(roller, logger.Named("combat"))
	resolver.SetSink(sink)
	resolver.SetViewer(player)

	// Pickup parked west of the player: bed at x=-1 and -2, cab at (-2, 1).
	truck := simulation.NewVehicle([]geo.Tripoint{{X: -1}, {X: -2}, {X: -2, Y: 1}}, 2)
	targeter := ai.NewHostileTargeter(simulation.NewField(truck), logger.Named("ai"))
	sim := simulation.New(roster, resolver, targeter, roller, logger.Named("simulation"))

	if *turretID != "" {
		turret, err := spawn(roster, templates, *turretID, geo.Tripoint{X: -1})
		if err != nil {
			return fmt.Errorf("spawning turret: %w", err)
		}
		sim.MountTurret(&simulation.Turret{
			Creature: turret,
			Range:    cfg.Simulation.TurretRange,
			Area:     cfg.Simulation.TurretArea,
			Ammo:     projectile(*ammo),
			Spread:   0.5,
		})
	}

	for n, id := range strings.Split(*hostileIDs, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		pos := geo.Tripoint{X: 8 + 2*n, Y: n%3 - 1}
		if _, err := spawn(roster, templates, id, pos); err != nil {
			return fmt.Errorf("spawning hostile: %w", err)
		}
	}

	group := lifecycle.NewGroup(logger)
	if journal != nil {
		stopped := make(chan struct{})
		group.Add("memorial-journal", &lifecycle.FuncService{
			StartFn: func() error { <-stopped; return nil },
			StopFn:  func() { journal.Close(); close(stopped) },
		})
	}
	simCtx, cancelSim := context.WithCancel(ctx)
	defer cancelSim()
	var summary simulation.Summary
	group.Add("simulation", &lifecycle.FuncService{
		StartFn: func() error {
			summary = sim.Run(simCtx, cfg.Simulation.Turns)
			return nil
		},
		StopFn: cancelSim,
	})

	logger.Info("simulation starting",
		zap.Int("creatures", len(roster.All())),
		zap.Duration("setup", time.Since(start)),
	)
	if err := group.Run(ctx); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if store != nil {
		entries, err := store.Recent(ctx, 10)
		if err != nil {
			logger.Error("reading memorial log", zap.Error(err))
		}
		for _, e := range entries {
			logger.Info("memorial", zap.Int("turn", e.Turn), zap.String("effect", e.EffectID), zap.String("text", e.Text))
		}
	}
	logger.Info("done",
		zap.Int("turns", summary.Turns),
		zap.Int("kills", summary.Kills),
		zap.Bool("player_dead", summary.PlayerDead),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// spawn places template id at pos.
func spawn(roster *npc.Manager, templates map[string]*npc.Template, id string, pos geo.Tripoint) (*creature.Creature, error) {
	tmpl, ok := templates[id]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", id)
	}
	return roster.Spawn(tmpl, pos)
}

// openMemorial opens the configured backend. A nil store means memorial
// entries are discarded.
func openMemorial(ctx context.Context, cfg config.Config) (memorialStore, func(), error) {
	switch cfg.Memorial.Backend {
	case "postgres":
		repo, closeFn, err := postgres.OpenMemorial(ctx, cfg.Database, postgres.DefaultHealthTimeout)
		if err != nil {
			return nil, nil, err
		}
		return repo, closeFn, nil
	case "sqlite":
		s, err := sqlite.Open(ctx, cfg.Memorial.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
	return nil, func() {}, nil
}

// loadScripts loads the global scope from dir and one scope per distinct
// template scripts name from dir/<name>.
func loadScripts(mgr *scripting.Manager, dir string, limit int, templates map[string]*npc.Template) error {
	if err := mgr.LoadGlobal(dir, limit); err != nil {
		return err
	}
	loaded := make(map[string]bool)
	for _, tmpl := range templates {
		if tmpl.Scripts == "" || loaded[tmpl.Scripts] {
			continue
		}
		if err := mgr.LoadScope(tmpl.Scripts, filepath.Join(dir, tmpl.Scripts), limit); err != nil {
			return fmt.Errorf("template %q: %w", tmpl.ID, err)
		}
		loaded[tmpl.Scripts] = true
	}
	return nil
}

// projectile builds the turret's round: a 5.56 with optional tags.
func projectile(tags string) damage.Projectile {
	p := damage.Projectile{
		Speed:   60,
		Impact:  *damage.New(damage.Stab, 18),
		Effects: make(map[string]bool),
	}
	for _, tag := range strings.Split(tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			p.Effects[strings.ToUpper(tag)] = true
		}
	}
	return p
}
