package creature

import (
	"github.com/cory-johannsen/wasteland/internal/game/body"
	"github.com/cory-johannsen/wasteland/internal/game/damage"
)

// Attitude is how one creature regards another.
type Attitude int

const (
	Hostile Attitude = iota
	Neutral
	Friendly
)

func (a Attitude) String() string {
	switch a {
	case Hostile:
		return "hostile"
	case Friendly:
		return "friendly"
	default:
		return "neutral"
	}
}

// Body is the concrete actor behind a Creature: the player, a monster or an
// NPC. Every method is a query or a mutation of state the combat core does
// not own.
type Body interface {
	Size() body.Size
	IsPlayer() bool
	IsHallucination() bool
	PowerRating() float64
	AttitudeTo(other *Creature) Attitude

	HPMax() int
	HP() int
	ApplyDamage(source *Creature, bp body.Part, amount int)
	IsDeadState() bool
	Die(killer *Creature)

	ImmuneToDamage(t damage.Type) bool
	ImmuneToEffect(id string) bool
	HasTrait(trait string) bool
	EnvResist(bp body.Part) int
	Material() string

	MeleeSkill() int
	DodgeRoll() int
	// BlockHit may redirect the hit to another part and reduce d in place.
	BlockHit(source *Creature, bp *body.Part, d *damage.Instance) bool
	// AbsorbHit applies armor to d in place.
	AbsorbHit(bp body.Part, d *damage.Instance)
	OnDodge(source *Creature, difficulty int)
	OnHit(source *Creature, bp body.Part)
	IsOnGround() bool

	// DisplayName returns "you", "the zombie", or the possessive form
	// ("your", "the zombie's").
	DisplayName(possessive bool) string
	// SkinName names what a deflected shot bounces off; "" means use the
	// struck body part.
	SkinName() string

	// ResetStats runs after effects each turn so the body can layer its own
	// bonuses onto the ledger.
	ResetStats(c *Creature)
}

// Warm is implemented by bodies that can report being cold-blooded.
type Warm interface {
	IsWarm() bool
}

// Vision answers line-of-sight queries for a creature.
type Vision interface {
	Sees(viewer, target *Creature) bool
}
