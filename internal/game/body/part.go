// Package body defines anatomical body parts, creature sizes and the
// weighted hit-location selection used by melee attacks.
package body

import "fmt"

// Part is an anatomical region used for armor, effects and targeting.
type Part int

const (
	Torso Part = iota
	Head
	Eyes
	Mouth
	ArmL
	ArmR
	HandL
	HandR
	LegL
	LegR
	FootL
	FootR
	// NumBP is the count of real parts. As a Part it means the whole actor,
	// and in removal or lookup it matches every part.
	NumBP
)

var partIDs = [...]string{
	Torso: "torso",
	Head:  "head",
	Eyes:  "eyes",
	Mouth: "mouth",
	ArmL:  "arm_l",
	ArmR:  "arm_r",
	HandL: "hand_l",
	HandR: "hand_r",
	LegL:  "leg_l",
	LegR:  "leg_r",
	FootL: "foot_l",
	FootR: "foot_r",
	NumBP: "num_bp",
}

var partNames = [...]string{
	Torso: "torso",
	Head:  "head",
	Eyes:  "eyes",
	Mouth: "mouth",
	ArmL:  "left arm",
	ArmR:  "right arm",
	HandL: "left hand",
	HandR: "right hand",
	LegL:  "left leg",
	LegR:  "right leg",
	FootL: "left foot",
	FootR: "right foot",
	NumBP: "body",
}

// String returns the stable identifier, e.g. "arm_l".
func (p Part) String() string {
	if p < 0 || p > NumBP {
		return fmt.Sprintf("part(%d)", int(p))
	}
	return partIDs[p]
}

// Name returns the display name used in combat messages, e.g. "left arm".
func (p Part) Name() string {
	if p < 0 || p > NumBP {
		return "body"
	}
	return partNames[p]
}

// ParsePart resolves an identifier produced by String.
func ParsePart(id string) (Part, error) {
	for i, s := range partIDs {
		if s == id {
			return Part(i), nil
		}
	}
	return NumBP, fmt.Errorf("body: unknown part %q", id)
}

// MainPart maps a part to the hit-point bearing part that contains it.
//
// Postcondition: the result is one of Torso, Head, ArmL, ArmR, LegL, LegR, or
// NumBP when p is NumBP.
func MainPart(p Part) Part {
	switch p {
	case Eyes, Mouth:
		return Head
	case HandL:
		return ArmL
	case HandR:
		return ArmR
	case FootL:
		return LegL
	case FootR:
		return LegR
	default:
		return p
	}
}
