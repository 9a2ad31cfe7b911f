package npc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/body"
	"github.com/cory-johannsen/wasteland/internal/game/creature"
	"github.com/cory-johannsen/wasteland/internal/game/dice"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
	"github.com/cory-johannsen/wasteland/internal/game/geo"
	"github.com/cory-johannsen/wasteland/internal/game/message"
	"github.com/cory-johannsen/wasteland/internal/memorial"
	"github.com/cory-johannsen/wasteland/internal/scripting"
)

// ErrNotFound is returned for an id with no live creature.
var ErrNotFound = errors.New("creature not found")

// ErrPlayerExists is returned when a second player is spawned.
var ErrPlayerExists = errors.New("player already spawned")

// Manager is the roster of live creatures, in spawn order.
// All methods are safe for concurrent use; the creatures themselves are not.
type Manager struct {
	mu        sync.RWMutex
	creatures map[string]*creature.Creature
	order     []string
	player    *creature.Creature

	reg    *effect.Registry
	roller *dice.Roller
	logger *zap.Logger

	sink     message.Sink
	recorder memorial.Recorder
	hooks    creature.HookRunner
}

// NewManager creates an empty roster whose creatures share reg and roller.
//
// Precondition: reg, roller and logger must be non-nil.
func NewManager(reg *effect.Registry, roller *dice.Roller, logger *zap.Logger) *Manager {
	if reg == nil || roller == nil || logger == nil {
		panic("npc.NewManager: reg, roller and logger must not be nil")
	}
	return &Manager{
		creatures: make(map[string]*creature.Creature),
		reg:       reg,
		roller:    roller,
		logger:    logger,
		sink:      message.Discard,
		recorder:  memorial.Discard,
	}
}

// SetMessageSink routes the player's effect messages to s. Only creatures
// spawned afterwards are affected.
func (m *Manager) SetMessageSink(s message.Sink) { m.sink = s }

// SetRecorder routes the player's memorial entries to rec. Only creatures
// spawned afterwards are affected.
func (m *Manager) SetRecorder(rec memorial.Recorder) { m.recorder = rec }

// SetHooks runs effect apply hooks through h for creatures spawned afterwards.
func (m *Manager) SetHooks(h creature.HookRunner) { m.hooks = h }

// Spawn creates a creature from tmpl at pos under a fresh uuid.
//
// Precondition: tmpl must be a validated template.
// Postcondition: the creature is registered; a player template also becomes
// Player(). Returns ErrPlayerExists for a second player.
func (m *Manager) Spawn(tmpl *Template, pos geo.Tripoint) (*creature.Creature, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("npc.Manager.Spawn: tmpl must not be nil")
	}
	id := uuid.NewString()
	logger := m.logger.With(zap.String("template", tmpl.ID))
	inst := NewInstance(tmpl, logger.With(zap.String("creature", id)))
	c := creature.New(id, inst, m.reg, m.roller, logger)
	inst.self = c
	c.SetPos(pos)
	c.Stats().SpeedBase = tmpl.Speed
	c.Stats().DodgeBase = tmpl.Dodge

	m.mu.Lock()
	defer m.mu.Unlock()
	if tmpl.Kind == KindPlayer {
		if m.player != nil {
			return nil, ErrPlayerExists
		}
		m.player = c
		c.SetMessageSink(m.sink)
		c.BindMemorial(m.recorder)
	}
	if m.hooks != nil {
		scope := tmpl.Scripts
		if scope == "" {
			scope = scripting.GlobalScope
		}
		c.BindScripts(m.hooks, scope)
	}
	m.creatures[id] = c
	m.order = append(m.order, id)
	return c, nil
}

// Player returns the player, or nil before one is spawned.
func (m *Manager) Player() *creature.Creature {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.player
}

// Get returns the creature with the given id.
//
// Postcondition: Returns (c, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*creature.Creature, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.creatures[id]
	return c, ok
}

// Instance returns the npc body of the creature with the given id.
func (m *Manager) Instance(id string) (*Instance, bool) {
	c, ok := m.Get(id)
	if !ok {
		return nil, false
	}
	inst, ok := c.Body().(*Instance)
	return inst, ok
}

// Remove deletes the creature with the given id.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.creatures[id]
	if !ok {
		return fmt.Errorf("removing %q: %w", id, ErrNotFound)
	}
	delete(m.creatures, id)
	for n, v := range m.order {
		if v == id {
			m.order = append(m.order[:n], m.order[n+1:]...)
			break
		}
	}
	if m.player == c {
		m.player = nil
	}
	return nil
}

// All returns a snapshot of every live creature in spawn order.
func (m *Manager) All() []*creature.Creature {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*creature.Creature, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.creatures[id])
	}
	return out
}

// HostileCandidates returns the creatures a turret protecting the player may
// consider: wild monsters and NPCs set to kill, in spawn order. Creatures in
// their dead state are left out.
func (m *Manager) HostileCandidates() []*creature.Creature {
	var out []*creature.Creature
	for _, c := range m.All() {
		inst, ok := c.Body().(*Instance)
		if !ok || c.IsDeadState() {
			continue
		}
		switch inst.tmpl.Kind {
		case KindMonster:
			if inst.tmpl.Friendly == 0 {
				out = append(out, c)
			}
		case KindNPC:
			if inst.tmpl.Disposition == DispositionKill {
				out = append(out, c)
			}
		}
	}
	return out
}

// BindScripting wires mgr's engine.creature and engine.effect callbacks to
// this roster.
//
// Precondition: mgr must be non-nil.
func (m *Manager) BindScripting(mgr *scripting.Manager) {
	mgr.GetCreature = func(uid string) *scripting.CreatureInfo {
		c, ok := m.Get(uid)
		if !ok {
			return nil
		}
		return c.ScriptInfo()
	}
	mgr.AddEffect = func(uid, effectID string, dur, intensity int) error {
		c, ok := m.Get(uid)
		if !ok {
			return fmt.Errorf("%q: %w", uid, ErrNotFound)
		}
		return c.ScriptAddEffect(effectID, dur, intensity)
	}
	mgr.RemoveEffect = func(uid, effectID string) bool {
		c, ok := m.Get(uid)
		if !ok {
			return false
		}
		return c.RemoveEffect(effectID, body.NumBP)
	}
	mgr.ModStat = func(uid, stat string, n int) error {
		c, ok := m.Get(uid)
		if !ok {
			return fmt.Errorf("%q: %w", uid, ErrNotFound)
		}
		return c.ScriptModStat(stat, n)
	}
}
