// Package creature holds the actor state shared by the player, monsters and
// NPCs: position, stat ledger, pain, moves, the effect set, and the per-turn
// update that ties them together.
package creature

import (
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/body"
	"github.com/cory-johannsen/wasteland/internal/game/dice"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
	"github.com/cory-johannsen/wasteland/internal/game/geo"
	"github.com/cory-johannsen/wasteland/internal/game/message"
)

// Creature is one actor in the simulation. It is not safe for concurrent use;
// the turn scheduler serialises every mutation.
type Creature struct {
	id     string
	body   Body
	pos    geo.Tripoint
	stats  Ledger
	moves  int
	pain   int
	values map[string]string
	killer *Creature
	fake   bool
	died   bool

	effects *effect.Set
	roller  *dice.Roller
	vision  Vision
	logger  *zap.Logger
}

// New creates a creature backed by b.
//
// Precondition: b, reg, roller and logger must be non-nil.
// Postcondition: the creature has no effects, zero moves and zero pain.
func New(id string, b Body, reg *effect.Registry, roller *dice.Roller, logger *zap.Logger) *Creature {
	c := &Creature{
		id:     id,
		body:   b,
		stats:  NewLedger(),
		values: make(map[string]string),
		roller: roller,
		logger: logger.With(zap.String("creature", id)),
	}
	c.effects = effect.NewSet(reg, c, roller, c.logger)
	return c
}

// ID returns the creature's unique id.
func (c *Creature) ID() string { return c.id }

// Body returns the concrete actor.
func (c *Creature) Body() Body { return c.body }

// Pos returns the grid position.
func (c *Creature) Pos() geo.Tripoint { return c.pos }

// SetPos moves the creature.
func (c *Creature) SetPos(p geo.Tripoint) { c.pos = p }

// Stats returns the live stat ledger.
func (c *Creature) Stats() *Ledger { return &c.stats }

// Effects returns the creature's effect set.
func (c *Creature) Effects() *effect.Set { return c.effects }

// Roller returns the dice roller the creature draws from.
func (c *Creature) Roller() *dice.Roller { return c.roller }

// SetVision installs the line-of-sight collaborator.
func (c *Creature) SetVision(v Vision) { c.vision = v }

// SetMessageSink routes the creature's player-facing effect messages to s.
func (c *Creature) SetMessageSink(s message.Sink) { c.effects.SetSink(s) }

// IsPlayer reports whether the creature is the player.
func (c *Creature) IsPlayer() bool { return c.body.IsPlayer() }

// IsHallucination reports whether the creature exists only in the player's mind.
func (c *Creature) IsHallucination() bool { return c.body.IsHallucination() }

// Size returns the body's size class.
func (c *Creature) Size() body.Size { return c.body.Size() }

// ImmuneToEffect reports innate immunity to effect id.
func (c *Creature) ImmuneToEffect(id string) bool { return c.body.ImmuneToEffect(id) }

// HasTrait reports whether the body carries trait.
func (c *Creature) HasTrait(trait string) bool { return c.body.HasTrait(trait) }

// EnvResist returns environmental protection of bp.
func (c *Creature) EnvResist(bp body.Part) int { return c.body.EnvResist(bp) }

// IsDeadState reports the body's terminal-state predicate.
func (c *Creature) IsDeadState() bool { return c.body.IsDeadState() }

// IsWarm reports whether the creature is warm-blooded. Bodies that do not
// implement Warm are.
func (c *Creature) IsWarm() bool {
	if w, ok := c.body.(Warm); ok {
		return w.IsWarm()
	}
	return true
}

// Sees reports whether c can see target. Hallucinations are seen only by the
// player. Without a Vision collaborator, creatures on the same z-level see
// each other.
func (c *Creature) Sees(target *Creature) bool {
	if target.IsHallucination() {
		return c.IsPlayer()
	}
	if c.vision == nil {
		return c.pos.Z == target.pos.Z
	}
	return c.vision.Sees(c, target)
}

// Moves returns the move-point counter.
func (c *Creature) Moves() int { return c.moves }

// ModMoves adds n to the move points.
func (c *Creature) ModMoves(n int) { c.moves += n }

// SetMoves overwrites the move points.
func (c *Creature) SetMoves(n int) { c.moves = n }

// Pain returns the pain accumulator.
func (c *Creature) Pain() int { return c.pain }

// ModPain adds n to pain.
//
// Postcondition: Pain() >= 0.
func (c *Creature) ModPain(n int) {
	c.pain += n
	if c.pain < 0 {
		c.pain = 0
	}
}

// Stats accepted by ModStat.
var statNames = []string{"speed", "dodge", "block", "hit", "bash", "cut", "pain", "moves"}

// IsStat reports whether ModStat accepts name.
func IsStat(name string) bool {
	for _, s := range statNames {
		if s == name {
			return true
		}
	}
	return false
}

// ModStat adjusts a named stat. Unknown names are logged and ignored.
func (c *Creature) ModStat(stat string, n int) {
	switch stat {
	case "speed":
		c.stats.SpeedBonus += n
	case "dodge":
		c.stats.DodgeBonus += n
	case "block":
		c.stats.BlockBonus += n
	case "hit":
		c.stats.HitBonus += n
	case "bash":
		c.stats.BashBonus += n
	case "cut":
		c.stats.CutBonus += n
	case "pain":
		c.ModPain(n)
	case "moves":
		c.ModMoves(n)
	default:
		c.logger.Warn("tried to modify a nonexistent stat", zap.String("stat", stat), zap.Int("modifier", n))
	}
}

// SetValue stores a string value under key.
func (c *Creature) SetValue(key, value string) { c.values[key] = value }

// RemoveValue deletes key.
func (c *Creature) RemoveValue(key string) { delete(c.values, key) }

// Value returns the value stored under key, or "".
func (c *Creature) Value(key string) string { return c.values[key] }

// Killer returns whoever killed the creature, or nil.
func (c *Creature) Killer() *Creature { return c.killer }

// SetKiller records k as the killer if none is recorded yet. Nil and fake
// killers are ignored.
func (c *Creature) SetKiller(k *Creature) {
	if k != nil && !k.fake && c.killer == nil {
		c.killer = k
	}
}

// IsFake reports whether the creature is a stand-in (e.g. a turret acting
// through a vehicle) rather than a real actor.
func (c *Creature) IsFake() bool { return c.fake }

// SetFake sets the fake flag.
func (c *Creature) SetFake(fake bool) { c.fake = fake }

// CheckDeadState fires the body's death transition the first time the dead
// predicate holds. Later calls are no-ops.
func (c *Creature) CheckDeadState() {
	if c.died || !c.body.IsDeadState() {
		return
	}
	c.died = true
	c.body.Die(c.killer)
}

// InSleepState reports whether the creature is asleep or lying down.
func (c *Creature) InSleepState() bool {
	return c.HasEffect(effect.Sleep, body.NumBP) || c.HasEffect(effect.LyingDown, body.NumBP)
}

// WeightCapacity returns carrying capacity in grams for the creature's size.
func (c *Creature) WeightCapacity() int {
	const base = 13000
	switch c.Size() {
	case body.Tiny:
		return base / 4
	case body.Small:
		return base / 2
	case body.Large:
		return base * 2
	case body.Huge:
		return base * 4
	default:
		return base
	}
}

// Weight returns the nominal body weight in grams for the creature's size.
func (c *Creature) Weight() int {
	switch c.Size() {
	case body.Tiny:
		return 1000
	case body.Small:
		return 40750
	case body.Medium:
		return 81500
	case body.Large:
		return 120000
	case body.Huge:
		return 200000
	}
	return 0
}

// ProcessTurn advances the creature by one turn: bonuses are cleared,
// effects decay and reapply their stat mods, the body layers its own stats,
// and the creature gains its speed in moves. Dead creatures do nothing.
func (c *Creature) ProcessTurn(turn int) {
	if c.body.IsDeadState() {
		return
	}
	c.stats.Reset()
	c.effects.Process(turn)
	c.applyEffectMods()
	c.body.ResetStats(c)
	c.moves += c.stats.Speed()
}

func (c *Creature) applyEffectMods() {
	for _, e := range c.effects.All() {
		if len(e.Type.Mods) == 0 {
			continue
		}
		stats := make([]string, 0, len(e.Type.Mods))
		for stat := range e.Type.Mods {
			stats = append(stats, stat)
		}
		sort.Strings(stats)
		for _, stat := range stats {
			c.ModStat(stat, e.Type.Mods[stat]*e.Intensity)
		}
	}
}
