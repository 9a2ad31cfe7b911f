package body

import (
	"math"

	"go.uber.org/zap"
)

// Roller supplies the float draw used by SelectPart.
type Roller interface {
	RngFloat(lo, hi float64) float64
}

// TargetParts lists the parts a melee hit can land on, in selection order.
var TargetParts = [7]Part{Eyes, Head, Torso, ArmL, ArmR, LegL, LegR}

// hitExponents scales each TargetParts weight by hit_roll^exp.
var hitExponents = [7]float64{1.15, 1.35, 1.0, 0.95, 0.95, 0.975, 0.975}

// defaultHitWeights is indexed by size difference + 1 (attacker minus defender,
// clamped to [-1, 1]), then by TargetParts position.
var defaultHitWeights = [3][7]float64{
	// attacker smaller
	{0, 0, 20, 15, 15, 25, 25},
	// same size
	{0.33, 2.33, 33.33, 20, 20, 12, 12},
	// attacker larger
	{0.57, 5.71, 36.57, 22.86, 22.86, 5.71, 5.71},
}

// HitWeights returns the per-part weights for one melee hit, aligned with
// TargetParts.
//
// Postcondition: when hitRoll <= 0 and prone is false, the result equals the
// unscaled table row for the size bucket.
func HitWeights(attacker, defender Size, prone bool, hitRoll int) [7]float64 {
	diff := int(attacker) - int(defender)
	diff = max(-1, min(1, diff))
	w := defaultHitWeights[diff+1]

	if prone {
		w[0] += 1
		w[1] += 5
	}
	// Fractional powers of zero or negative rolls are undefined; leave
	// weights unscaled.
	if hitRoll > 0 {
		for i := range w {
			w[i] *= math.Pow(float64(hitRoll), hitExponents[i])
		}
	}
	return w
}

// SelectPart picks the part struck by a melee hit.
//
// Postcondition: Returns one of TargetParts; Torso when no weight absorbs the draw.
func SelectPart(r Roller, attacker, defender Size, prone bool, hitRoll int, logger *zap.Logger) Part {
	w := HitWeights(attacker, defender, prone, hitRoll)

	total := 0.0
	for _, v := range w {
		total += v
	}
	roll := r.RngFloat(0, total)

	selected := Torso
	for i, v := range w {
		roll -= v
		if roll <= 0 {
			selected = TargetParts[i]
			break
		}
	}

	logger.Debug("select body part",
		zap.Int("hit_roll", hitRoll),
		zap.Stringer("attacker_size", attacker),
		zap.Stringer("defender_size", defender),
		zap.Float64s("weights", w[:]),
		zap.Stringer("selected", selected),
	)
	return selected
}
