package dice

import (
	"fmt"
	"sort"
)

// Roll evaluates an Expression using src.
//
// Postcondition: len(result.Dice) == expr.Count, or expr.KeepHighest when set.
func Roll(expr Expression, src Source) (RollResult, error) {
	if expr.Count < 1 || expr.Sides < 1 {
		return RollResult{}, fmt.Errorf("dice: cannot roll %dd%d", expr.Count, expr.Sides)
	}
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}

	kept := rolled
	if expr.KeepHighest > 0 {
		sorted := make([]int, len(rolled))
		copy(sorted, rolled)
		sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
		kept = sorted[:expr.KeepHighest]
	}

	raw := expr.Raw
	if raw == "" {
		raw = fmt.Sprintf("%dd%d", expr.Count, expr.Sides)
	}
	return RollResult{Expression: raw, Dice: kept, Modifier: expr.Modifier}, nil
}

// RollExpr parses expr and rolls it in a single call.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src)
}

// Sum rolls number dice of the given sides and returns their total.
// Non-positive number or sides yield 0, never an error.
func Sum(number, sides int, src Source) int {
	if number <= 0 || sides <= 0 {
		return 0
	}
	total := 0
	for i := 0; i < number; i++ {
		total += src.Intn(sides) + 1
	}
	return total
}
