package scripting_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wasteland/internal/game/dice"
	"github.com/cory-johannsen/wasteland/internal/scripting"
)

func runScript(t *testing.T, mgr *scripting.Manager, luaSrc, hook string, args ...lua.LValue) lua.LValue {
	t.Helper()
	dir := writeTempLua(t, "test.lua", luaSrc)
	scope := "modtest_" + t.Name()
	require.NoError(t, mgr.LoadScope(scope, dir, 0))
	ret, err := mgr.CallHook(scope, hook, args...)
	require.NoError(t, err)
	return ret
}

func TestEngineLog_AllLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	mgr := scripting.NewManager(dice.NewLoggedRoller(dice.NewSeededSource(1), logger), logger)
	defer mgr.Close()

	runScript(t, mgr, `
		function do_all_logs()
			engine.log.debug("d")
			engine.log.info("i")
			engine.log.warn("w")
			engine.log.error("e")
		end
	`, "do_all_logs")

	for _, msg := range []string{"d", "i", "w", "e"} {
		assert.Equal(t, 1, logs.FilterMessage(msg).Len(), "missing log %q", msg)
	}
}

func TestEngineDice_Roll(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, `
		function roll_it()
			return engine.dice.roll("3d1+2")
		end
	`, "roll_it")
	assert.Equal(t, lua.LNumber(5), ret)
}

func TestEngineDice_Roll_InvalidExpression(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, `
		function roll_bad()
			local total, err = engine.dice.roll("banana")
			if total == nil and err ~= nil then return "failed" end
			return "ok"
		end
	`, "roll_bad")
	assert.Equal(t, lua.LString("failed"), ret)
}

func TestProperty_EngineDice_RollInRange(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "roll.lua", `
		function roll(expr) return engine.dice.roll(expr) end
	`)
	require.NoError(t, mgr.LoadScope("roll", dir, 0))
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(rt, "n")
		sides := rapid.IntRange(1, 20).Draw(rt, "sides")
		ret, err := mgr.CallHook("roll", "roll", lua.LString(fmt.Sprintf("%dd%d", n, sides)))
		require.NoError(rt, err)
		total := int(ret.(lua.LNumber))
		assert.GreaterOrEqual(rt, total, n)
		assert.LessOrEqual(rt, total, n*sides)
	})
}

func TestEngineCreature_Getters(t *testing.T) {
	mgr, _ := newTestManager(t)
	mgr.GetCreature = func(uid string) *scripting.CreatureInfo {
		if uid != "u1" {
			return nil
		}
		return &scripting.CreatureInfo{UID: "u1", Name: "the zombie", HP: 7, MaxHP: 20, Effects: []string{"onfire", "stunned"}}
	}
	ret := runScript(t, mgr, `
		function describe(uid)
			local hp, max = engine.creature.get_hp(uid)
			local effects = engine.creature.get_effects(uid)
			return engine.creature.get_name(uid) .. ":" .. hp .. "/" .. max .. ":" .. #effects .. ":" .. effects[1]
		end
	`, "describe", lua.LString("u1"))
	assert.Equal(t, lua.LString("the zombie:7/20:2:onfire"), ret)
}

func TestEngineCreature_UnknownUID(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, `
		function probe()
			local hp = engine.creature.get_hp("ghost")
			local name = engine.creature.get_name("ghost")
			return hp == nil and name == nil and #engine.creature.get_effects("ghost") == 0
		end
	`, "probe")
	assert.Equal(t, lua.LTrue, ret)
}

func TestEngineCreature_ModStat(t *testing.T) {
	mgr, _ := newTestManager(t)
	type call struct {
		uid, stat string
		n         int
	}
	var calls []call
	mgr.ModStat = func(uid, stat string, n int) error {
		calls = append(calls, call{uid, stat, n})
		if stat == "luck" {
			return errors.New("unknown stat")
		}
		return nil
	}
	ret := runScript(t, mgr, `
		function mods(uid)
			local ok1 = engine.creature.mod_stat(uid, "speed", -25)
			local ok2, err = engine.creature.mod_stat(uid, "luck", 1)
			return tostring(ok1) .. "," .. tostring(ok2) .. "," .. err
		end
	`, "mods", lua.LString("u1"))
	assert.Equal(t, lua.LString("true,false,unknown stat"), ret)
	assert.Equal(t, []call{{"u1", "speed", -25}, {"u1", "luck", 1}}, calls)
}

func TestEngineEffect_AddRemove(t *testing.T) {
	mgr, _ := newTestManager(t)
	var added []string
	mgr.AddEffect = func(uid, id string, dur, intensity int) error {
		added = append(added, id)
		assert.Equal(t, 3, dur)
		assert.Equal(t, 0, intensity)
		return nil
	}
	mgr.RemoveEffect = func(uid, id string) bool { return id == "onfire" }
	ret := runScript(t, mgr, `
		function swap(uid)
			engine.effect.add(uid, "stunned", 3)
			return engine.effect.remove(uid, "onfire")
		end
	`, "swap", lua.LString("u1"))
	assert.Equal(t, lua.LTrue, ret)
	assert.Equal(t, []string{"stunned"}, added)
}

func TestEngineEffect_NilCallbacksAreNoOps(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, `
		function noop()
			local ok = engine.effect.add("u", "x", 1, 1)
			return ok and not engine.effect.remove("u", "x")
		end
	`, "noop")
	assert.Equal(t, lua.LTrue, ret)
}
