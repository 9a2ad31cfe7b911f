package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/body"
	"github.com/cory-johannsen/wasteland/internal/game/creature"
	"github.com/cory-johannsen/wasteland/internal/game/damage"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
	"github.com/cory-johannsen/wasteland/internal/game/message"
)

// ProjectileAttack carries one shot through DealProjectileAttack. MissedBy is
// the shooter's aim error in [0, 1); values of 1 or more are total misses.
type ProjectileAttack struct {
	Proj       damage.Projectile
	MissedBy   float64
	Dealt      damage.Dealt
	HitCritter *creature.Creature
}

// hitGrade is one row of the goodhit ladder. Rows are checked in order; the
// first with goodhit < below wins.
type hitGrade struct {
	below    float64
	lo, hi   float64
	label    string
	labelTyp message.Type
	headshot bool
}

var hitGrades = []hitGrade{
	{below: 0.1, lo: 2.45, hi: 3.35, label: "Headshot!", labelTyp: message.Headshot, headshot: true},
	{below: 0.2, lo: 1.75, hi: 2.3, label: "Critical!", labelTyp: message.Critical},
	{below: 0.4, lo: 1, hi: 1.5, label: "Good hit!", labelTyp: message.Good},
	{below: 0.6, lo: 0.5, hi: 1},
	{below: 0.8, lo: 0, hi: 0.25, label: "Grazing hit.", labelTyp: message.Grazing},
}

// ignition is how an incendiary tag sets a material on fire.
type ignition struct {
	tag        string
	burn       [2]int
	flesh      [2]int
	fleshOneIn int
}

// Only the first matching tag applies.
var ignitions = []ignition{
	{tag: damage.TagFlame, burn: [2]int{8, 20}, flesh: [2]int{5, 10}, fleshOneIn: 1},
	{tag: damage.TagIncendiary, burn: [2]int{2, 6}, flesh: [2]int{1, 4}, fleshOneIn: 4},
	{tag: damage.TagIgnite, burn: [2]int{6, 6}, flesh: [2]int{10, 10}, fleshOneIn: 1},
}

var flammable = map[string]bool{"veggy": true, "cotton": true, "wool": true, "paper": true, "wood": true}

var fleshy = map[string]bool{"flesh": true, "iflesh": true}

// DealProjectileAttack resolves attack against target. source may be nil for
// shots with no shooter.
//
// Postcondition: on a total miss attack is unchanged; on an avoided shot
// MissedBy is 1; on a hit MissedBy is the final goodhit and HitCritter is target.
func (r *Resolver) DealProjectileAttack(target, source *creature.Creature, attack *ProjectileAttack) {
	missedBy := attack.MissedBy
	if missedBy >= 1 {
		return
	}
	proj := &attack.Proj
	seen := r.visible(target)

	avoid := target.Body().DodgeRoll()
	diff := r.roller.Dice(10, proj.Speed)
	rescaled := 1.0
	if diff > 0 {
		rescaled = max(0, min(1, float64(avoid)/float64(diff)))
	}
	goodhit := missedBy + rescaled

	if goodhit >= 1 {
		if source != nil && r.visible(source) {
			r.playerOrNPC(target, message.Warning, "You avoid %s projectile!", "%s avoids %s projectile.",
				source.Body().DisplayName(true))
		} else {
			r.playerOrNPC(target, message.Warning, "You avoid an incoming projectile!", "%s avoids an incoming projectile.")
		}
		attack.MissedBy = 1
		return
	}

	if proj.HasEffect(damage.TagBounce) {
		target.AddTimedEffect(effect.Bounced, 1)
	}

	bp := r.projectilePart(missedBy)
	mult := 0.0
	var grade hitGrade
	for _, g := range hitGrades {
		if goodhit < g.below {
			grade = g
			mult = r.roller.RngFloat(g.lo, g.hi)
			break
		}
	}
	if grade.headshot {
		bp = body.Head
	}
	if source != nil && source.IsPlayer() && grade.label != "" {
		message.Addf(r.sink, grade.labelTyp, "%s", grade.label)
	}
	attack.MissedBy = goodhit

	impact := proj.Impact.Clone()
	if proj.HasEffect(damage.TagNoGib) {
		impact.AddEffect(damage.TagNoGib)
	}
	if mult > 0 && proj.HasEffect(damage.TagNoDamageScaling) {
		mult = 1
	}
	impact.MultDamage(mult)

	dealt := r.DealDamage(target, source, bp, impact)
	dealt.BodyPart = bp
	attack.Dealt = dealt

	r.applyAmmoEffects(target, proj, bp, dealt)
	if seen {
		r.reportShot(target, source, bp, mult, dealt)
	}

	r.logger.Debug("projectile attack",
		zap.String("target", target.ID()),
		zap.Float64("goodhit", goodhit),
		zap.Float64("damage_mult", mult),
		zap.Stringer("body_part", bp),
		zap.Int("total", dealt.Total()),
	)

	target.CheckDeadState()
	attack.HitCritter = target
	attack.MissedBy = goodhit
}

// projectilePart picks the part a shot lands on before any headshot override.
func (r *Resolver) projectilePart(missedBy float64) body.Part {
	if missedBy+r.roller.RngFloat(-0.5, 0.5) <= 0.4 {
		return body.Torso
	}
	if r.roller.OneIn(4) {
		if r.roller.OneIn(2) {
			return body.LegL
		}
		return body.LegR
	}
	if r.roller.OneIn(2) {
		return body.ArmL
	}
	return body.ArmR
}

func (r *Resolver) applyAmmoEffects(target *creature.Creature, proj *damage.Projectile, bp body.Part, dealt damage.Dealt) {
	mat := target.Body().Material()
	for _, ig := range ignitions {
		if !proj.HasEffect(ig.tag) {
			continue
		}
		switch {
		case flammable[mat]:
			target.AddTimedEffect(effect.OnFire, r.roller.Rng(ig.burn[0], ig.burn[1]))
		case fleshy[mat] && r.roller.OneIn(ig.fleshOneIn):
			target.AddTimedEffect(effect.OnFire, r.roller.Rng(ig.flesh[0], ig.flesh[1]))
		}
		break
	}

	if bp == body.Head && proj.HasEffect(damage.TagBlindsEyes) {
		target.AddEnvEffect(effect.Blind, body.Eyes, 5, r.roller.Rng(3, 10), body.NumBP, false, 0, false)
	}

	if proj.HasEffect(damage.TagApplySap) {
		target.AddTimedEffect(effect.Sap, dealt.Total())
	}

	if s := stunStrength(proj, target.Size()); s > 0 {
		target.AddTimedEffect(effect.Stunned, r.roller.Rng(s/2, s))
	}
}

// stunStrength returns the beanbag stun for a target of size sz; larger
// targets shrug off more of it.
func stunStrength(proj *damage.Projectile, sz body.Size) int {
	s := 0
	if proj.HasEffect(damage.TagBeanbag) {
		s = 4
	}
	if proj.HasEffect(damage.TagLargeBeanbag) {
		s = 16
	}
	switch sz {
	case body.Tiny:
		s *= 4
	case body.Small:
		s *= 2
	case body.Large:
		s /= 2
	case body.Huge:
		s /= 4
	}
	return s
}

func (r *Resolver) reportShot(target, source *creature.Creature, bp body.Part, mult float64, dealt damage.Dealt) {
	total := dealt.Total()
	switch {
	case mult == 0:
		if source == nil {
			return
		}
		if source.IsPlayer() {
			message.Addf(r.sink, message.Neutral, "You miss!")
		} else {
			message.Addf(r.sink, message.Neutral, "The shot misses!")
		}
	case total == 0:
		where := target.Body().SkinName()
		if where == "" {
			where = bp.Name()
		}
		message.Addf(r.sink, message.Neutral, "The shot reflects off %s %s!", target.Body().DisplayName(true), where)
	case target.IsPlayer():
		message.Addf(r.sink, message.Bad, "You were hit in the %s for %d damage.", bp.Name(), total)
	case source == nil:
	case source.IsPlayer():
		message.Addf(r.sink, message.Good, "You hit %s for %d damage.", target.Body().DisplayName(false), total)
	default:
		message.Addf(r.sink, message.Neutral, "%s shoots %s.", source.Body().DisplayName(false), target.Body().DisplayName(false))
	}
}
