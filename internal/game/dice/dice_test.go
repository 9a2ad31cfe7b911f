package dice_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wasteland/internal/game/dice"
	"github.com/cory-johannsen/wasteland/internal/game/dice/dicetest"
)

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", r.String())
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}}
	assert.Panics(t, func() { _ = r.String() })
}

func TestRollResult_String_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		expr := rapid.StringMatching(`[0-9]+d[0-9]+`).Draw(rt, "expression")
		ds := rapid.SliceOfN(rapid.IntRange(1, 20), 1, 10).Draw(rt, "dice")
		mod := rapid.IntRange(-100, 100).Draw(rt, "modifier")
		r := dice.RollResult{Expression: expr, Dice: ds, Modifier: mod}
		s := r.String()
		assert.True(rt, strings.HasPrefix(s, expr))
		assert.Contains(rt, s, fmt.Sprintf("= %d", r.Total()))
	})
}

func TestParse_Forms(t *testing.T) {
	cases := []struct {
		in                      string
		count, sides, mod, keep int
	}{
		{"d20", 1, 20, 0, 0},
		{"3d6", 3, 6, 0, 0},
		{"2d6+3", 2, 6, 3, 0},
		{"4d8-2", 4, 8, -2, 0},
		{"4d6kh3", 4, 6, 0, 3},
		{"4d6kh3+1", 4, 6, 1, 3},
		{"10d1", 10, 1, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.count, e.Count)
			assert.Equal(t, tc.sides, e.Sides)
			assert.Equal(t, tc.mod, e.Modifier)
			assert.Equal(t, tc.keep, e.KeepHighest)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "20", "0d6", "xd6", "2dx", "2d0", "2d6+x", "3d6kh3", "3d6kh0"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, "expected error for %q", in)
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("bogus") })
}

func TestRoll_KeepHighest(t *testing.T) {
	src := &dicetest.Scripted{Ints: []int{0, 5, 2, 3}}
	r, err := dice.Roll(dice.MustParse("4d6kh2"), src)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 4}, r.Dice)
	assert.Equal(t, 10, r.Total())
}

func TestRoll_RejectsDegenerateExpression(t *testing.T) {
	_, err := dice.Roll(dice.Expression{Count: 0, Sides: 6}, dicetest.Min{})
	assert.Error(t, err)
}

func TestSum_DegenerateIsZero(t *testing.T) {
	assert.Equal(t, 0, dice.Sum(0, 6, dicetest.Max{}))
	assert.Equal(t, 0, dice.Sum(3, 0, dicetest.Max{}))
	assert.Equal(t, 18, dice.Sum(3, 6, dicetest.Max{}))
	assert.Equal(t, 3, dice.Sum(3, 6, dicetest.Min{}))
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Float64_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestRoller_RngInclusiveBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-50, 50).Draw(rt, "lo")
		hi := rapid.IntRange(-50, 50).Draw(rt, "hi")
		seed := rapid.Uint64().Draw(rt, "seed")
		r := dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop())
		v := r.Rng(lo, hi)
		assert.GreaterOrEqual(rt, v, min(lo, hi))
		assert.LessOrEqual(rt, v, max(lo, hi))
	})
}

func TestRoller_RngFloatBounds(t *testing.T) {
	r := dice.NewLoggedRoller(dicetest.Max{}, zap.NewNop())
	v := r.RngFloat(2.45, 3.35)
	assert.InDelta(t, 3.35, v, 1e-5)
	r = dice.NewLoggedRoller(dicetest.Min{}, zap.NewNop())
	assert.Equal(t, 2.45, r.RngFloat(2.45, 3.35))
}

func TestRoller_OneIn(t *testing.T) {
	r := dice.NewLoggedRoller(dicetest.Min{}, zap.NewNop())
	assert.True(t, r.OneIn(4))
	assert.True(t, r.OneIn(1))
	r = dice.NewLoggedRoller(dicetest.Max{}, zap.NewNop())
	assert.False(t, r.OneIn(4))
	assert.True(t, r.OneIn(0))
}

func TestRoller_RollExpr_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(dicetest.Max{}, zap.New(core))
	res, err := r.RollExpr("3d6")
	require.NoError(t, err)
	assert.Equal(t, 18, res.Total())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "dice roll", logs.All()[0].Message)
}
