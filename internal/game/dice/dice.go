// Package dice provides the randomness abstraction shared by every combat
// and status-effect computation in the simulation.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // e.g. "3d6", "10d40"
	Dice       []int  // kept die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all kept die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string, e.g. "2d6+3 → [4 5] +3 = 12".
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for every draw in the simulation.
//
// A Source is owned by a single turn scheduler; implementations need not be
// safe for concurrent use unless documented otherwise.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}
