package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/body"
	"github.com/cory-johannsen/wasteland/internal/game/creature"
	"github.com/cory-johannsen/wasteland/internal/game/damage"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
	"github.com/cory-johannsen/wasteland/internal/game/message"
)

// KnockdownMoves is the stab move penalty at which a hit knocks the target down.
const KnockdownMoves = 150

// DealMeleeAttack contests source's hitRoll against target's dodge roll and
// returns the hit spread. A miss by a real attacker fires target's dodge hook.
func (r *Resolver) DealMeleeAttack(target, source *creature.Creature, hitRoll int) int {
	spread := hitRoll - target.Body().DodgeRoll()
	if spread <= 0 && !source.IsHallucination() {
		target.Body().OnDodge(source, source.Body().MeleeSkill())
	}
	return spread
}

// DealMeleeHit lands a melee hit of quality spread on target. d is consumed.
//
// Precondition: spread > 0; target, source and d must be non-nil.
// Postcondition: the result's BodyPart is the part selected for the hit.
func (r *Resolver) DealMeleeHit(target, source *creature.Creature, spread int, critical bool, d *damage.Instance) damage.Dealt {
	bp := body.SelectPart(r.roller, source.Size(), target.Size(), target.Body().IsOnGround(), spread, r.logger)
	target.Body().BlockHit(source, &bp, d)

	if critical && !target.ImmuneToEffect(effect.Stunned) {
		if d.TypeDamage(damage.Bash)*spread > target.Body().HPMax() {
			target.AddTimedEffect(effect.Stunned, 1)
		}
	}

	stab := d.TypeDamage(damage.Stab)
	stabMoves := r.roller.Rng(stab/2, int(float64(stab)*1.5))
	if critical {
		stabMoves = int(float64(stabMoves) * 1.5)
	}
	if stabMoves >= KnockdownMoves && !target.ImmuneToEffect(effect.Downed) {
		switch {
		case target.IsPlayer():
			if !source.IsPlayer() {
				message.Addf(r.sink, message.Bad, "%s forces you to the ground!", source.Body().DisplayName(false))
			}
		case source.IsPlayer():
			message.Addf(r.sink, message.Good, "You force %s to the ground!", target.Body().DisplayName(false))
		case r.visible(source):
			message.Addf(r.sink, message.Good, "%s forces %s to the ground!",
				source.Body().DisplayName(false), target.Body().DisplayName(false))
		}
		target.AddTimedEffect(effect.Downed, 1)
		target.ModMoves(-stabMoves / 2)
	} else {
		target.ModMoves(-stabMoves)
	}

	target.Body().OnHit(source, bp)
	dealt := r.DealDamage(target, source, bp, d)
	dealt.BodyPart = bp

	r.logger.Debug("melee hit",
		zap.String("target", target.ID()),
		zap.Int("spread", spread),
		zap.Bool("critical", critical),
		zap.Stringer("body_part", bp),
		zap.Int("stab_moves", stabMoves),
		zap.Int("total", dealt.Total()),
	)
	return dealt
}
