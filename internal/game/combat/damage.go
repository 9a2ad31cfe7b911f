package combat

import (
	"math"

	"github.com/cory-johannsen/wasteland/internal/game/body"
	"github.com/cory-johannsen/wasteland/internal/game/creature"
	"github.com/cory-johannsen/wasteland/internal/game/damage"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
)

// DealDamage applies d to target at bp and returns what was dealt per type.
// d is consumed: the target's armor absorbs from it in place.
//
// Postcondition: a target already in its dead state is untouched and the
// result is zero.
// Postcondition: with the NOGIB tag, the applied total is at most HP()+1.
func (r *Resolver) DealDamage(target, source *creature.Creature, bp body.Part, d *damage.Instance) damage.Dealt {
	if target.IsDeadState() {
		return damage.Dealt{}
	}
	nogib := d.HasEffect(damage.TagNoGib)
	target.Body().AbsorbHit(bp, d)

	dealt := damage.Dealt{BodyPart: bp}
	total, pain := 0, 0
	for _, u := range d.Units {
		cur, p := r.handleType(target, u)
		pain += p
		if cur > 0 {
			dealt.PerType[u.Type] += cur
			total += cur
		}
	}

	target.ModPain(pain)
	if nogib {
		total = min(total, target.Body().HP()+1)
	}
	target.Body().ApplyDamage(source, bp, total)
	if target.IsDeadState() {
		target.SetKiller(source)
	}
	return dealt
}

// handleType returns the damage and pain one unit contributes and applies its
// type-specific side effects.
func (r *Resolver) handleType(target *creature.Creature, u damage.Unit) (int, int) {
	if target.Body().ImmuneToDamage(u.Type) {
		return 0, 0
	}
	adj := u.Adjusted()
	switch u.Type {
	case damage.Bash:
		target.ModMoves(-r.roller.Rng(0, adj*2))
		return adj, adj / 4
	case damage.Cut, damage.Stab:
		if adj <= 0 {
			return adj, 0
		}
		return adj, int((float64(adj) + math.Sqrt(float64(adj))) / 4)
	case damage.Heat:
		if r.roller.Rng(0, 100) < adj {
			target.AddTimedEffect(effect.OnFire, r.roller.Rng(1, 3))
		}
		return adj, adj / 4
	case damage.Electric:
		target.AddTimedEffect(effect.Zapped, max(adj, 2))
		return adj, adj / 4
	case damage.Cold:
		target.ModMoves(-adj * 80)
		return adj, adj / 6
	case damage.Acid:
		return adj, adj / 3
	default:
		return adj, adj / 4
	}
}
