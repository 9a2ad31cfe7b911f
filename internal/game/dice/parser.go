package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed dice expression ready to be rolled.
//
// Invariant: Count >= 1 and Sides >= 1 after a successful Parse.
type Expression struct {
	Raw         string // original input
	Count       int    // number of dice
	Sides       int    // faces per die
	Modifier    int    // flat modifier (may be negative)
	KeepHighest int    // if > 0, keep only the N highest dice (e.g. 4d6kh3)
}

// Parse parses "d20", "3d6", "2d6+3", "4d8-2" or "4d6kh3" into an Expression.
//
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	if expr == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	s := strings.ToLower(strings.TrimSpace(expr))

	countStr, rest, ok := strings.Cut(s, "d")
	if !ok {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", expr)
	}
	count := 1
	if countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, err)
		}
		if n <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
		}
		count = n
	}

	// Split off the modifier: the first sign after the sides digits.
	modifier := 0
	if i := strings.IndexAny(rest, "+-"); i > 0 {
		m, err := strconv.Atoi(rest[i:])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
		modifier = m
		rest = rest[:i]
	}

	keep := 0
	if sidesStr, khStr, found := strings.Cut(rest, "kh"); found {
		kh, err := strconv.Atoi(khStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid kh value in %q: %w", expr, err)
		}
		if kh <= 0 || kh >= count {
			return Expression{}, fmt.Errorf("dice: kh value %d must be > 0 and < count %d in %q", kh, count, expr)
		}
		keep = kh
		rest = sidesStr
	}

	sides, err := strconv.Atoi(rest)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", expr, err)
	}
	if sides < 1 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 1", expr)
	}

	return Expression{Raw: expr, Count: count, Sides: sides, Modifier: modifier, KeepHighest: keep}, nil
}

// MustParse parses expr and panics on error. Useful for package-level values.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
