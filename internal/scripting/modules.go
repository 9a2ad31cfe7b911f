package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the engine table into L:
//
//	engine.log.debug|info|warn|error(msg)
//	engine.dice.roll(expr)                      -> total, or nil and an error string
//	engine.creature.get_hp(uid)                 -> hp, max_hp or nil
//	engine.creature.get_name(uid)               -> name or nil
//	engine.creature.get_effects(uid)            -> array of effect ids
//	engine.creature.mod_stat(uid, stat, n)      -> true, or false and an error string
//	engine.effect.add(uid, id, dur, intensity)  -> true, or false and an error string
//	engine.effect.remove(uid, id)               -> bool
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: the engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "creature", m.creatureModule(L))
	L.SetField(engine, "effect", m.effectModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	fns := make(map[string]lua.LGFunction, len(levels))
	for name, logFn := range levels {
		logFn := logFn
		fns[name] = func(L *lua.LState) int {
			logFn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}
	}
	return L.SetFuncs(L.NewTable(), fns)
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"roll": func(L *lua.LState) int {
			res, err := m.roller.RollExpr(L.CheckString(1))
			if err != nil {
				L.Push(lua.LNil)
				L.Push(lua.LString(err.Error()))
				return 2
			}
			L.Push(lua.LNumber(res.Total()))
			return 1
		},
	})
}

func (m *Manager) creatureModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get_hp": func(L *lua.LState) int {
			info := m.creature(L.CheckString(1))
			if info == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(info.HP))
			L.Push(lua.LNumber(info.MaxHP))
			return 2
		},
		"get_name": func(L *lua.LState) int {
			info := m.creature(L.CheckString(1))
			if info == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LString(info.Name))
			return 1
		},
		"get_effects": func(L *lua.LState) int {
			tbl := L.NewTable()
			if info := m.creature(L.CheckString(1)); info != nil {
				for _, id := range info.Effects {
					tbl.Append(lua.LString(id))
				}
			}
			L.Push(tbl)
			return 1
		},
		"mod_stat": func(L *lua.LState) int {
			uid, stat, n := L.CheckString(1), L.CheckString(2), L.CheckInt(3)
			if m.ModStat == nil {
				return pushResult(L, nil)
			}
			return pushResult(L, m.ModStat(uid, stat, n))
		},
	})
}

func (m *Manager) effectModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"add": func(L *lua.LState) int {
			uid, id := L.CheckString(1), L.CheckString(2)
			dur, intensity := L.OptInt(3, 1), L.OptInt(4, 0)
			if m.AddEffect == nil {
				return pushResult(L, nil)
			}
			return pushResult(L, m.AddEffect(uid, id, dur, intensity))
		},
		"remove": func(L *lua.LState) int {
			uid, id := L.CheckString(1), L.CheckString(2)
			removed := false
			if m.RemoveEffect != nil {
				removed = m.RemoveEffect(uid, id)
			}
			L.Push(lua.LBool(removed))
			return 1
		},
	})
}

func (m *Manager) creature(uid string) *CreatureInfo {
	if m.GetCreature == nil {
		return nil
	}
	return m.GetCreature(uid)
}

func pushResult(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}
