// Package dicetest provides deterministic dice sources for tests.
package dicetest

// Scripted replays queued values. Intn returns the next queued int clamped to
// [0, n-1]; once the queue is exhausted it returns Default clamped likewise.
// Float64 does the same with its own queue, clamped to [0, 1).
type Scripted struct {
	Ints         []int
	Floats       []float64
	Default      int
	DefaultFloat float64
}

// Intn implements dice.Source.
func (s *Scripted) Intn(n int) int {
	v := s.Default
	if len(s.Ints) > 0 {
		v, s.Ints = s.Ints[0], s.Ints[1:]
	}
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// Float64 implements dice.Source.
func (s *Scripted) Float64() float64 {
	v := s.DefaultFloat
	if len(s.Floats) > 0 {
		v, s.Floats = s.Floats[0], s.Floats[1:]
	}
	if v < 0 {
		v = 0
	}
	if v >= 1 {
		v = 0.999999
	}
	return v
}

// Max always returns the highest value in range.
type Max struct{}

// Intn implements dice.Source.
func (Max) Intn(n int) int { return n - 1 }

// Float64 implements dice.Source.
func (Max) Float64() float64 { return 0.999999 }

// Min always returns the lowest value in range.
type Min struct{}

// Intn implements dice.Source.
func (Min) Intn(int) int { return 0 }

// Float64 implements dice.Source.
func (Min) Float64() float64 { return 0 }
