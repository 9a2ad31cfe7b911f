package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wasteland/internal/game/geo"
)

func TestRLDist(t *testing.T) {
	assert.Equal(t, 0, geo.RLDist(geo.Tripoint{}, geo.Tripoint{}))
	assert.Equal(t, 5, geo.RLDist(geo.Tripoint{X: 1, Y: 1}, geo.Tripoint{X: 6, Y: 3}))
	assert.Equal(t, 4, geo.RLDist(geo.Tripoint{}, geo.Tripoint{X: -2, Y: 1, Z: 4}))
}

func TestProperty_RLDist_SymmetricNonNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gen := rapid.IntRange(-1000, 1000)
		a := geo.Tripoint{X: gen.Draw(rt, "ax"), Y: gen.Draw(rt, "ay"), Z: gen.Draw(rt, "az")}
		b := geo.Tripoint{X: gen.Draw(rt, "bx"), Y: gen.Draw(rt, "by"), Z: gen.Draw(rt, "bz")}
		d := geo.RLDist(a, b)
		assert.GreaterOrEqual(rt, d, 0)
		assert.Equal(rt, d, geo.RLDist(b, a))
		if a == b {
			assert.Equal(rt, 0, d)
		}
	})
}

func TestCoordToAngle(t *testing.T) {
	assert.Equal(t, 0, geo.CoordToAngle(0, 0, 5, 0))
	// The conversion constant truncates just below whole degrees.
	assert.InDelta(t, 90, geo.CoordToAngle(0, 0, 0, 5), 1)
	assert.InDelta(t, 180, geo.CoordToAngle(0, 0, -5, 0), 1)
	assert.InDelta(t, 270, geo.CoordToAngle(0, 0, 0, -5), 1)
	assert.InDelta(t, 45, geo.CoordToAngle(0, 0, 3, 3), 1)
}

func TestCoordToAngle_WrapsBeforeTruncating(t *testing.T) {
	assert.Equal(t, 359, geo.CoordToAngle(0, 0, 100, -1))
	assert.Equal(t, 359, geo.CoordToAngle(5, 5, 205, 3))
	assert.Equal(t, 0, geo.CoordToAngle(0, 0, 100, 1))
}

func TestProperty_CoordToAngle_InRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gen := rapid.IntRange(-500, 500)
		a := geo.CoordToAngle(gen.Draw(rt, "x1"), gen.Draw(rt, "y1"), gen.Draw(rt, "x2"), gen.Draw(rt, "y2"))
		assert.GreaterOrEqual(rt, a, 0)
		assert.Less(rt, a, 360)
	})
}

func TestOverlapsArea_ExclusiveUpperBound(t *testing.T) {
	pos := geo.Tripoint{X: 10, Y: 10}
	lower := map[geo.Tripoint]struct{}{{X: 8, Y: 8}: {}}
	upper := map[geo.Tripoint]struct{}{{X: 12, Y: 12}: {}}
	assert.True(t, geo.OverlapsArea(lower, pos, 2))
	assert.False(t, geo.OverlapsArea(upper, pos, 2))
}

func TestOverlapsArea_ZeroRadiusNeverOverlaps(t *testing.T) {
	pos := geo.Tripoint{X: 1, Y: 1}
	area := map[geo.Tripoint]struct{}{pos: {}}
	assert.False(t, geo.OverlapsArea(area, pos, 0))
}
