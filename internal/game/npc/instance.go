package npc

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/body"
	"github.com/cory-johannsen/wasteland/internal/game/creature"
	"github.com/cory-johannsen/wasteland/internal/game/damage"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
)

// Instance is the creature.Body of one live actor built from a Template.
type Instance struct {
	tmpl          *Template
	self          *creature.Creature
	hp            int
	envResist     [body.NumBP + 1]int
	immuneEffects map[string]bool
	immuneDamage  map[damage.Type]bool
	traits        map[string]bool
	blocksLeft    int
	dodgesLeft    int
	killer        *creature.Creature
	dead          bool
	logger        *zap.Logger
}

// NewInstance creates a body from tmpl at full health.
//
// Precondition: tmpl must be a validated template; logger must be non-nil.
func NewInstance(tmpl *Template, logger *zap.Logger) *Instance {
	inst := &Instance{
		tmpl:          tmpl,
		hp:            tmpl.MaxHP,
		immuneEffects: make(map[string]bool),
		immuneDamage:  make(map[damage.Type]bool),
		traits:        make(map[string]bool),
		blocksLeft:    1,
		dodgesLeft:    1,
		logger:        logger,
	}
	for part, v := range tmpl.EnvResist {
		if bp, err := body.ParsePart(part); err == nil {
			inst.envResist[bp] = v
		}
	}
	for _, id := range tmpl.ImmuneEffects {
		inst.immuneEffects[id] = true
	}
	for _, t := range tmpl.ImmuneDamage {
		inst.immuneDamage[t] = true
	}
	for _, tr := range tmpl.Traits {
		inst.traits[tr] = true
	}
	return inst
}

// Template returns the template the instance was built from.
func (i *Instance) Template() *Template { return i.tmpl }

// Killer returns the creature credited with the death, or nil.
func (i *Instance) Killer() *creature.Creature { return i.killer }

// IsDead reports whether the death transition has fired.
func (i *Instance) IsDead() bool { return i.dead }

func (i *Instance) Size() body.Size { return i.tmpl.Size }

func (i *Instance) IsPlayer() bool { return i.tmpl.Kind == KindPlayer }

func (i *Instance) IsHallucination() bool { return false }

func (i *Instance) PowerRating() float64 { return i.tmpl.PowerRating }

// AttitudeTo reports how the instance regards other. Wild monsters are
// hostile to everyone who is not one of them; tamed ones are friendly to the
// player. NPCs follow their template attitude toward the player.
func (i *Instance) AttitudeTo(other *creature.Creature) creature.Attitude {
	switch i.tmpl.Kind {
	case KindMonster:
		if other == nil {
			return creature.Neutral
		}
		if o, ok := other.Body().(*Instance); ok && o.tmpl.Kind == KindMonster && (o.tmpl.Friendly != 0) == (i.tmpl.Friendly != 0) {
			return creature.Friendly
		}
		if i.tmpl.Friendly != 0 && other.IsPlayer() {
			return creature.Friendly
		}
		return creature.Hostile
	case KindNPC:
		switch i.tmpl.Disposition {
		case DispositionKill:
			return creature.Hostile
		case DispositionFollow:
			return creature.Friendly
		}
	}
	return creature.Neutral
}

func (i *Instance) HPMax() int { return i.tmpl.MaxHP }

func (i *Instance) HP() int { return i.hp }

// ApplyDamage subtracts amount from hit points. Negative amounts are ignored.
func (i *Instance) ApplyDamage(_ *creature.Creature, bp body.Part, amount int) {
	if amount <= 0 {
		return
	}
	i.hp -= amount
	i.logger.Debug("damage applied", zap.Stringer("body_part", bp), zap.Int("amount", amount), zap.Int("hp", i.hp))
}

func (i *Instance) IsDeadState() bool { return i.hp <= 0 }

// Die records the killer. It is called once by creature.CheckDeadState.
func (i *Instance) Die(killer *creature.Creature) {
	i.dead = true
	i.killer = killer
	fields := []zap.Field{zap.String("template", i.tmpl.ID)}
	if killer != nil {
		fields = append(fields, zap.String("killer", killer.ID()))
	}
	i.logger.Info("creature died", fields...)
}

func (i *Instance) ImmuneToDamage(t damage.Type) bool { return i.immuneDamage[t] }

func (i *Instance) ImmuneToEffect(id string) bool { return i.immuneEffects[id] }

func (i *Instance) HasTrait(trait string) bool { return i.traits[trait] }

func (i *Instance) EnvResist(bp body.Part) int {
	if bp < 0 || bp > body.NumBP {
		return 0
	}
	return i.envResist[bp]
}

func (i *Instance) Material() string { return i.tmpl.Material }

func (i *Instance) MeleeSkill() int {
	if i.self == nil {
		return i.tmpl.Melee
	}
	return i.tmpl.Melee + i.self.Stats().Hit()
}

// DodgeRoll rolls the dodge skill in d10s while dodges remain this turn, and
// 0 afterwards.
func (i *Instance) DodgeRoll() int {
	if i.self == nil || i.dodgesLeft <= 0 {
		return 0
	}
	return i.self.Roller().Dice(i.self.Stats().Dodge(), 10)
}

// BlockHit spends one of this turn's blocks to shave the block skill off
// every bash and cut unit of d.
func (i *Instance) BlockHit(_ *creature.Creature, _ *body.Part, d *damage.Instance) bool {
	block := i.tmpl.Block
	if i.self != nil {
		block += i.self.Stats().BlockBonus
	}
	if i.blocksLeft <= 0 || block <= 0 {
		return false
	}
	i.blocksLeft--
	for n := range d.Units {
		if t := d.Units[n].Type; t == damage.Bash || t == damage.Cut {
			d.Units[n].Amount = max(0, d.Units[n].Amount-block)
		}
	}
	return true
}

// AbsorbHit subtracts armor from d in place. Stab damage meets four fifths of
// the cut armor.
func (i *Instance) AbsorbHit(_ body.Part, d *damage.Instance) {
	bash, cut := i.tmpl.ArmorBash, i.tmpl.ArmorCut
	if i.self != nil {
		bash += i.self.Stats().ArmorBashBonus
		cut += i.self.Stats().ArmorCutBonus
	}
	for n := range d.Units {
		u := &d.Units[n]
		switch u.Type {
		case damage.Bash:
			u.Amount -= min(bash, u.Amount)
		case damage.Cut:
			u.Amount -= min(cut, u.Amount)
		case damage.Stab:
			u.Amount -= min(cut*4/5, u.Amount)
		}
	}
}

func (i *Instance) OnDodge(*creature.Creature, int) { i.dodgesLeft-- }

func (i *Instance) OnHit(source *creature.Creature, bp body.Part) {
	if source != nil {
		i.logger.Debug("hit", zap.String("source", source.ID()), zap.Stringer("body_part", bp))
	}
}

func (i *Instance) IsOnGround() bool {
	return i.self != nil && (i.self.HasEffect(effect.Downed, body.NumBP) || i.self.HasEffect(effect.LyingDown, body.NumBP))
}

// DisplayName returns "you" for the player and "the <name>" otherwise.
func (i *Instance) DisplayName(possessive bool) string {
	if i.IsPlayer() {
		if possessive {
			return "your"
		}
		return "you"
	}
	if possessive {
		return "the " + i.tmpl.Name + "'s"
	}
	return "the " + i.tmpl.Name
}

func (i *Instance) SkinName() string { return i.tmpl.Skin }

// ResetStats restores the template's bases and refills this turn's blocks
// and dodges.
func (i *Instance) ResetStats(c *creature.Creature) {
	st := c.Stats()
	st.SpeedBase = i.tmpl.Speed
	st.DodgeBase = i.tmpl.Dodge
	i.blocksLeft = st.TotalBlocks()
	i.dodgesLeft = st.TotalDodges()
}
