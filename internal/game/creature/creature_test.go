package creature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wasteland/internal/game/body"
	"github.com/cory-johannsen/wasteland/internal/game/creature"
	"github.com/cory-johannsen/wasteland/internal/game/creature/creaturetest"
	"github.com/cory-johannsen/wasteland/internal/game/dice"
	"github.com/cory-johannsen/wasteland/internal/game/dice/dicetest"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
	"github.com/cory-johannsen/wasteland/internal/memorial"
)

func registry() *effect.Registry {
	reg := effect.NewRegistry()
	reg.Register(&effect.Type{ID: effect.Stunned, DurAddPerc: 100, MaxIntensity: 1, Mods: map[string]int{"speed": -30}})
	reg.Register(&effect.Type{ID: effect.OnFire, DurAddPerc: 100, MaxIntensity: 3, Mods: map[string]int{"pain": 2},
		ApplyMemorialLog: "Caught fire.", LuaOnApply: "on_fire"})
	reg.Register(&effect.Type{ID: effect.Sleep, DurAddPerc: 100, MaxIntensity: 1})
	reg.Register(&effect.Type{ID: effect.LyingDown, DurAddPerc: 100, MaxIntensity: 1})
	reg.Register(&effect.Type{ID: "cursed", DurAddPerc: 100, MaxIntensity: 1, Mods: map[string]int{"luck": 1}})
	return reg
}

func newCreature(d *creaturetest.Dummy) *creature.Creature {
	return creaturetest.New("c1", d, registry(), dicetest.Min{})
}

func TestLedger_Defaults(t *testing.T) {
	l := creature.NewLedger()
	assert.Equal(t, 100, l.Speed())
	assert.Equal(t, 1, l.TotalBlocks())
	assert.Equal(t, 1, l.TotalDodges())
	assert.Equal(t, 1.0, l.BashMult)
	assert.Equal(t, 1.0, l.CutMult)
}

func TestLedger_ResetKeepsBases(t *testing.T) {
	l := creature.NewLedger()
	l.DodgeBase = 4
	l.DodgeBonus = 3
	l.BashMult = 2
	l.Reset()
	assert.Equal(t, 4, l.Dodge())
	assert.Equal(t, 1.0, l.BashMult)
}

func TestModStat_AllNames(t *testing.T) {
	c := newCreature(creaturetest.NewDummy("the zombie"))
	for _, stat := range []string{"speed", "dodge", "block", "hit", "bash", "cut", "pain", "moves"} {
		c.ModStat(stat, 5)
	}
	s := c.Stats()
	assert.Equal(t, []int{5, 5, 5, 5, 5, 5}, []int{s.SpeedBonus, s.DodgeBonus, s.BlockBonus, s.HitBonus, s.BashBonus, s.CutBonus})
	assert.Equal(t, 5, c.Pain())
	assert.Equal(t, 5, c.Moves())
}

func TestModStat_UnknownLogsAndIgnores(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := creature.New("c1", creaturetest.NewDummy("x"), registry(), dice.NewLoggedRoller(dicetest.Min{}, zap.NewNop()), zap.New(core))
	c.ModStat("luck", 3)
	assert.Equal(t, 1, logs.FilterMessage("tried to modify a nonexistent stat").Len())
	assert.ErrorIs(t, c.ScriptModStat("luck", 3), creature.ErrUnknownStat)
	assert.NoError(t, c.ScriptModStat("speed", 3))
	assert.Equal(t, 3, c.Stats().SpeedBonus)
}

func TestProperty_ModPain_NeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newCreature(creaturetest.NewDummy("x"))
		deltas := rapid.SliceOf(rapid.IntRange(-50, 50)).Draw(rt, "deltas")
		for _, d := range deltas {
			c.ModPain(d)
			assert.GreaterOrEqual(rt, c.Pain(), 0)
		}
	})
}

func TestValues(t *testing.T) {
	c := newCreature(creaturetest.NewDummy("x"))
	assert.Equal(t, "", c.Value("faction"))
	c.SetValue("faction", "raiders")
	assert.Equal(t, "raiders", c.Value("faction"))
	c.RemoveValue("faction")
	assert.Equal(t, "", c.Value("faction"))
}

func TestSetKiller_FirstRealKillerWins(t *testing.T) {
	victim := newCreature(creaturetest.NewDummy("victim"))
	turret := creaturetest.New("t", creaturetest.NewDummy("turret"), registry(), dicetest.Min{})
	turret.SetFake(true)
	first := creaturetest.New("a", creaturetest.NewDummy("a"), registry(), dicetest.Min{})
	second := creaturetest.New("b", creaturetest.NewDummy("b"), registry(), dicetest.Min{})

	victim.SetKiller(nil)
	victim.SetKiller(turret)
	assert.Nil(t, victim.Killer())
	victim.SetKiller(first)
	victim.SetKiller(second)
	assert.Same(t, first, victim.Killer())
}

func TestCheckDeadState_FiresOnce(t *testing.T) {
	d := creaturetest.NewDummy("x")
	c := newCreature(d)
	c.CheckDeadState()
	assert.Equal(t, 0, d.Deaths)
	d.CurHP = 0
	c.CheckDeadState()
	c.CheckDeadState()
	assert.Equal(t, 1, d.Deaths)
}

func TestProcessTurn_AppliesEffectModsAndSpeed(t *testing.T) {
	d := creaturetest.NewDummy("x")
	c := newCreature(d)
	c.AddEffect(effect.Stunned, 3, body.NumBP, false, 0, false)
	c.AddEffect(effect.OnFire, 3, body.NumBP, false, 2, false)
	c.ProcessTurn(1)
	assert.Equal(t, -30, c.Stats().SpeedBonus)
	assert.Equal(t, 4, c.Pain())
	assert.Equal(t, 70, c.Moves())
	assert.Equal(t, 2, c.EffectDuration(effect.Stunned, body.NumBP))
}

func TestProcessTurn_BonusesResetEachTurn(t *testing.T) {
	d := creaturetest.NewDummy("x")
	c := newCreature(d)
	c.AddEffect(effect.Stunned, 1, body.NumBP, false, 0, false)
	c.ProcessTurn(1)
	// stunned expired during the first turn, so its mod is gone.
	assert.Equal(t, 0, c.Stats().SpeedBonus)
	assert.Equal(t, 100, c.Moves())
	c.ProcessTurn(2)
	assert.Equal(t, 200, c.Moves())
}

func TestProcessTurn_BodyResetStatsRunsAfterEffects(t *testing.T) {
	d := creaturetest.NewDummy("x")
	d.OnResetStats = func(c *creature.Creature) { c.Stats().SpeedBonus += 10 }
	c := newCreature(d)
	c.ProcessTurn(1)
	assert.Equal(t, 110, c.Moves())
}

func TestProcessTurn_DeadDoesNothing(t *testing.T) {
	d := creaturetest.NewDummy("x")
	d.ForceDead = true
	c := newCreature(d)
	c.AddEffect(effect.Stunned, 3, body.NumBP, false, 0, false)
	c.ProcessTurn(1)
	assert.Equal(t, 0, c.Moves())
	assert.Equal(t, 3, c.EffectDuration(effect.Stunned, body.NumBP))
}

func TestInSleepState(t *testing.T) {
	c := newCreature(creaturetest.NewDummy("x"))
	assert.False(t, c.InSleepState())
	c.AddTimedEffect(effect.LyingDown, 5)
	assert.True(t, c.InSleepState())
	c.ClearEffects()
	c.AddTimedEffect(effect.Sleep, 5)
	assert.True(t, c.InSleepState())
}

func TestWeightBySize(t *testing.T) {
	cases := []struct {
		size             body.Size
		capacity, weight int
	}{
		{body.Tiny, 3250, 1000},
		{body.Small, 6500, 40750},
		{body.Medium, 13000, 81500},
		{body.Large, 26000, 120000},
		{body.Huge, 52000, 200000},
	}
	for _, tc := range cases {
		d := creaturetest.NewDummy("x")
		d.SizeClass = tc.size
		c := newCreature(d)
		assert.Equal(t, tc.capacity, c.WeightCapacity(), tc.size.String())
		assert.Equal(t, tc.weight, c.Weight(), tc.size.String())
	}
}

func TestSees_HallucinationOnlyByPlayer(t *testing.T) {
	ghost := creaturetest.NewDummy("ghost")
	ghost.Hallucination = true
	g := newCreature(ghost)
	player := creaturetest.NewDummy("you")
	player.Player = true
	p := newCreature(player)
	m := newCreature(creaturetest.NewDummy("zombie"))
	assert.True(t, p.Sees(g))
	assert.False(t, m.Sees(g))
	assert.True(t, m.Sees(p))
}

func TestIsWarm_DefaultsTrue(t *testing.T) {
	assert.True(t, newCreature(creaturetest.NewDummy("x")).IsWarm())
}

type recorder struct{ entries []memorial.Entry }

func (r *recorder) Record(e memorial.Entry) { r.entries = append(r.entries, e) }

func TestBindMemorial_PlayerOnly(t *testing.T) {
	pd := creaturetest.NewDummy("you")
	pd.Player = true
	p := newCreature(pd)
	rec := &recorder{}
	p.BindMemorial(rec)
	p.ProcessTurn(4)
	p.AddTimedEffect(effect.OnFire, 3)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, memorial.Entry{CreatureID: "c1", CreatureName: "you", EffectID: effect.OnFire, Text: "Caught fire.", Turn: 4}, rec.entries[0])

	m := newCreature(creaturetest.NewDummy("zombie"))
	mrec := &recorder{}
	m.BindMemorial(mrec)
	m.AddTimedEffect(effect.OnFire, 3)
	assert.Empty(t, mrec.entries)
}

type hookCall struct {
	scope, hook string
	args        []lua.LValue
}

type fakeRunner struct{ calls []hookCall }

func (f *fakeRunner) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	f.calls = append(f.calls, hookCall{scope, hook, args})
	return lua.LNil, nil
}

func TestBindScripts_CallsOnApply(t *testing.T) {
	d := creaturetest.NewDummy("x")
	d.Traits = map[string]bool{}
	c := newCreature(d)
	r := &fakeRunner{}
	c.BindScripts(r, "monsters")
	c.AddTimedEffect(effect.Stunned, 2)
	c.AddEffect(effect.OnFire, 2, body.NumBP, false, 2, false)
	require.Len(t, r.calls, 1)
	assert.Equal(t, "monsters", r.calls[0].scope)
	assert.Equal(t, "on_fire", r.calls[0].hook)
	assert.Equal(t, []lua.LValue{lua.LString("c1"), lua.LString(effect.OnFire), lua.LNumber(2), lua.LFalse}, r.calls[0].args)
}

func TestScriptInfo(t *testing.T) {
	d := creaturetest.NewDummy("the zombie")
	d.CurHP = 7
	c := newCreature(d)
	c.AddTimedEffect(effect.Stunned, 2)
	info := c.ScriptInfo()
	assert.Equal(t, "the zombie", info.Name)
	assert.Equal(t, 7, info.HP)
	assert.Equal(t, 20, info.MaxHP)
	assert.Equal(t, []string{effect.Stunned}, info.Effects)
	assert.Error(t, c.ScriptAddEffect("ghost", 1, 0))
	assert.NoError(t, c.ScriptAddEffect(effect.Sleep, 1, 0))
	assert.True(t, c.HasEffect(effect.Sleep, body.NumBP))
}
