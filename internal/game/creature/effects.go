package creature

import (
	"github.com/cory-johannsen/wasteland/internal/game/body"
	"github.com/cory-johannsen/wasteland/internal/game/effect"
)

// AddEffect applies effect id; see effect.Set.Add.
func (c *Creature) AddEffect(id string, dur int, bp body.Part, permanent bool, intensity int, force bool) {
	c.effects.Add(id, dur, bp, permanent, intensity, force)
}

// AddTimedEffect applies id to the whole body for dur turns at default intensity.
func (c *Creature) AddTimedEffect(id string, dur int) {
	c.effects.Add(id, dur, body.NumBP, false, 0, false)
}

// AddEnvEffect applies an environmental effect; see effect.Set.AddEnv.
func (c *Creature) AddEnvEffect(id string, vector body.Part, strength, dur int, bp body.Part, permanent bool, intensity int, force bool) bool {
	return c.effects.AddEnv(id, vector, strength, dur, bp, permanent, intensity, force)
}

// RemoveEffect removes id from bp, or everywhere for body.NumBP.
func (c *Creature) RemoveEffect(id string, bp body.Part) bool {
	return c.effects.Remove(id, bp)
}

// HasEffect reports whether id is active on bp; body.NumBP matches any part.
func (c *Creature) HasEffect(id string, bp body.Part) bool {
	return c.effects.Has(id, bp)
}

// Effect returns the instance of id on bp, or effect.Null.
func (c *Creature) Effect(id string, bp body.Part) effect.Effect {
	return c.effects.Get(id, bp)
}

// EffectDuration returns the remaining duration of id on bp, or 0.
func (c *Creature) EffectDuration(id string, bp body.Part) int {
	return c.effects.Duration(id, bp)
}

// EffectIntensity returns the intensity of id on bp, or 0.
func (c *Creature) EffectIntensity(id string, bp body.Part) int {
	return c.effects.Intensity(id, bp)
}

// ProcessEffects decays every effect by one turn.
func (c *Creature) ProcessEffects(turn int) {
	c.effects.Process(turn)
}

// ResistsEffect reports whether the creature resists e.
func (c *Creature) ResistsEffect(e effect.Effect) bool {
	return c.effects.Resists(e)
}

// ClearEffects removes every effect without messages.
func (c *Creature) ClearEffects() {
	c.effects.Clear()
}
