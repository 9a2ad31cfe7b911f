package dice

import (
	"go.uber.org/zap"
)

// Roller wraps a Source with the range helpers the combat core draws from.
// Expression rolls are logged at debug level; scalar draws are not, since
// target selection and decay make them every turn for every actor.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs rolls to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness source.
func (r *Roller) Source() Source { return r.src }

// Rng returns a uniform int in [lo, hi]. Bounds are swapped when lo > hi.
func (r *Roller) Rng(lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + r.src.Intn(hi-lo+1)
}

// RngFloat returns a uniform float in [lo, hi).
func (r *Roller) RngFloat(lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + r.src.Float64()*(hi-lo)
}

// OneIn reports true with probability 1/n. n <= 1 is always true.
func (r *Roller) OneIn(n int) bool {
	if n <= 1 {
		return true
	}
	return r.src.Intn(n) == 0
}

// Dice returns the total of number dice with the given sides; 0 for degenerate input.
func (r *Roller) Dice(number, sides int) int {
	return Sum(number, sides, r.src)
}

// Roll evaluates expr and logs the result at debug level.
func (r *Roller) Roll(expr Expression) (RollResult, error) {
	result, err := Roll(expr, r.src)
	if err != nil {
		return RollResult{}, err
	}
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result, nil
}

// RollExpr parses expr and rolls it, logging the result.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e)
}
