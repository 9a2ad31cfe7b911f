package creature

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/body"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
	"github.com/cory-johannsen/wasteland/internal/memorial"
	"github.com/cory-johannsen/wasteland/internal/scripting"
)

// ErrUnknownStat is returned by ScriptModStat for a name ModStat ignores.
var ErrUnknownStat = errors.New("unknown stat")

// HookRunner calls named Lua functions; *scripting.Manager implements it.
type HookRunner interface {
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// BindMemorial routes the creature's memorial entries to rec.
func (c *Creature) BindMemorial(rec memorial.Recorder) {
	c.effects.SetJournal(memorialJournal{c: c, rec: rec})
}

type memorialJournal struct {
	c   *Creature
	rec memorial.Recorder
}

func (j memorialJournal) Record(effectID, text string) {
	j.rec.Record(memorial.Entry{
		CreatureID:   j.c.id,
		CreatureName: j.c.body.DisplayName(false),
		EffectID:     effectID,
		Text:         text,
		Turn:         j.c.effects.Turn(),
	})
}

// BindScripts runs each new effect's lua_on_apply function in scope, passing
// (uid, effect id, intensity, resisted).
func (c *Creature) BindScripts(h HookRunner, scope string) {
	c.effects.SetApplyHook(func(e effect.Effect, resisted bool) {
		if e.Type.LuaOnApply == "" {
			return
		}
		_, err := h.CallHook(scope, e.Type.LuaOnApply,
			lua.LString(c.id),
			lua.LString(e.Type.ID),
			lua.LNumber(e.Intensity),
			lua.LBool(resisted),
		)
		if err != nil {
			c.logger.Warn("effect apply hook", zap.String("effect", e.Type.ID), zap.Error(err))
		}
	})
}

// ScriptInfo snapshots the creature for Lua.
func (c *Creature) ScriptInfo() *scripting.CreatureInfo {
	info := &scripting.CreatureInfo{
		UID:   c.id,
		Name:  c.body.DisplayName(false),
		HP:    c.body.HP(),
		MaxHP: c.body.HPMax(),
		Pain:  c.pain,
		Moves: c.moves,
	}
	seen := make(map[string]bool)
	for _, e := range c.effects.All() {
		if !seen[e.ID()] {
			seen[e.ID()] = true
			info.Effects = append(info.Effects, e.ID())
		}
	}
	return info
}

// ScriptAddEffect applies id to the whole body on behalf of a script.
func (c *Creature) ScriptAddEffect(id string, dur, intensity int) error {
	if _, err := c.effects.Registry().Lookup(id); err != nil {
		return err
	}
	c.effects.Add(id, dur, body.NumBP, false, intensity, false)
	return nil
}

// ScriptModStat is ModStat with an error for unknown stat names.
func (c *Creature) ScriptModStat(stat string, n int) error {
	if !IsStat(stat) {
		return fmt.Errorf("%w: %q", ErrUnknownStat, stat)
	}
	c.ModStat(stat, n)
	return nil
}
