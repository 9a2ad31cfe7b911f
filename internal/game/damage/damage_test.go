package damage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/wasteland/internal/game/damage"
)

func TestInstance_TypeAndTotalDamage(t *testing.T) {
	d := damage.New(damage.Bash, 10)
	d.AddDamage(damage.Cut, 7, 0.5)
	d.AddDamage(damage.Bash, 3, 2)
	assert.Equal(t, 16, d.TypeDamage(damage.Bash))
	assert.Equal(t, 3, d.TypeDamage(damage.Cut))
	assert.Equal(t, 19, d.TotalDamage())
}

func TestInstance_MultDamage(t *testing.T) {
	d := damage.New(damage.Stab, 10)
	d.MultDamage(2.5)
	assert.Equal(t, 25, d.TotalDamage())
	d.MultDamage(0)
	assert.Equal(t, 0, d.TotalDamage())
}

func TestInstance_CloneIsIndependent(t *testing.T) {
	d := damage.New(damage.Heat, 4)
	d.AddEffect(damage.TagNoGib)
	c := d.Clone()
	c.MultDamage(3)
	c.AddEffect(damage.TagBounce)
	assert.Equal(t, 4, d.TotalDamage())
	assert.False(t, d.HasEffect(damage.TagBounce))
	assert.True(t, c.HasEffect(damage.TagNoGib))
}

func TestDealt_Total(t *testing.T) {
	var d damage.Dealt
	d.PerType[damage.Bash] = 4
	d.PerType[damage.Acid] = 3
	assert.Equal(t, 7, d.Total())
}

func TestParseType(t *testing.T) {
	ty, err := damage.ParseType("Electric")
	require.NoError(t, err)
	assert.Equal(t, damage.Electric, ty)
	_, err = damage.ParseType("psychic")
	assert.Error(t, err)
}
