// Package creaturetest provides a scriptable creature.Body for tests.
package creaturetest

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/body"
	"github.com/cory-johannsen/wasteland/internal/game/creature"
	"github.com/cory-johannsen/wasteland/internal/game/damage"
	"github.com/cory-johannsen/wasteland/internal/game/dice"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
)

// Applied records one ApplyDamage call.
type Applied struct {
	Source *creature.Creature
	Part   body.Part
	Amount int
}

// Dummy is a creature.Body whose every answer is a field.
type Dummy struct {
	Name          string
	Player        bool
	Hallucination bool
	SizeClass     body.Size
	Rating        float64
	Attitude      creature.Attitude
	MaxHP         int
	CurHP         int
	ImmuneDamage  map[damage.Type]bool
	ImmuneEffects map[string]bool
	Traits        map[string]bool
	Resist        int
	Mat           string
	Melee         int
	Dodge         int
	Prone         bool
	Skin          string
	ForceDead     bool
	// BashArmor is subtracted from every bash unit by AbsorbHit.
	BashArmor int

	Applied []Applied
	Deaths  int
	Killer  *creature.Creature
	Dodges  int
	Hits    []body.Part
	Blocks  int
	// OnResetStats, when set, runs from ResetStats.
	OnResetStats func(c *creature.Creature)
}

// NewDummy returns a medium, neutral, 20 HP dummy named name.
func NewDummy(name string) *Dummy {
	return &Dummy{Name: name, SizeClass: body.Medium, Attitude: creature.Neutral, MaxHP: 20, CurHP: 20, Mat: "flesh"}
}

func (d *Dummy) Size() body.Size                                 { return d.SizeClass }
func (d *Dummy) IsPlayer() bool                                  { return d.Player }
func (d *Dummy) IsHallucination() bool                           { return d.Hallucination }
func (d *Dummy) PowerRating() float64                            { return d.Rating }
func (d *Dummy) AttitudeTo(*creature.Creature) creature.Attitude { return d.Attitude }
func (d *Dummy) HPMax() int                                      { return d.MaxHP }
func (d *Dummy) HP() int                                         { return d.CurHP }
func (d *Dummy) IsDeadState() bool                               { return d.ForceDead || d.CurHP <= 0 }
func (d *Dummy) ImmuneToDamage(t damage.Type) bool               { return d.ImmuneDamage[t] }
func (d *Dummy) ImmuneToEffect(id string) bool                   { return d.ImmuneEffects[id] }
func (d *Dummy) HasTrait(trait string) bool                      { return d.Traits[trait] }
func (d *Dummy) EnvResist(body.Part) int                         { return d.Resist }
func (d *Dummy) Material() string                                { return d.Mat }
func (d *Dummy) MeleeSkill() int                                 { return d.Melee }
func (d *Dummy) DodgeRoll() int                                  { return d.Dodge }
func (d *Dummy) IsOnGround() bool                                { return d.Prone }
func (d *Dummy) SkinName() string                                { return d.Skin }

func (d *Dummy) ApplyDamage(source *creature.Creature, bp body.Part, amount int) {
	d.Applied = append(d.Applied, Applied{Source: source, Part: bp, Amount: amount})
	d.CurHP -= amount
}

func (d *Dummy) Die(killer *creature.Creature) {
	d.Deaths++
	d.Killer = killer
}

func (d *Dummy) BlockHit(*creature.Creature, *body.Part, *damage.Instance) bool {
	d.Blocks++
	return false
}

func (d *Dummy) AbsorbHit(_ body.Part, inst *damage.Instance) {
	if d.BashArmor == 0 {
		return
	}
	for i := range inst.Units {
		if inst.Units[i].Type == damage.Bash {
			inst.Units[i].Amount = max(0, inst.Units[i].Amount-d.BashArmor)
		}
	}
}

func (d *Dummy) OnDodge(*creature.Creature, int)          { d.Dodges++ }
func (d *Dummy) OnHit(_ *creature.Creature, bp body.Part) { d.Hits = append(d.Hits, bp) }

func (d *Dummy) DisplayName(possessive bool) string {
	if d.Player {
		if possessive {
			return "your"
		}
		return "you"
	}
	if possessive {
		return d.Name + "'s"
	}
	return d.Name
}

func (d *Dummy) ResetStats(c *creature.Creature) {
	if d.OnResetStats != nil {
		d.OnResetStats(c)
	}
}

// New wraps d in a creature drawing from src.
func New(id string, d *Dummy, reg *effect.Registry, src dice.Source) *creature.Creature {
	return creature.New(id, d, reg, dice.NewLoggedRoller(src, zap.NewNop()), zap.NewNop())
}
