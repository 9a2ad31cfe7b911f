// Package combat resolves melee and projectile attacks against creatures:
// body-part selection, block and armor mitigation, per-type damage, pain, and
// the stun, knockdown and ammo side effects that follow a hit.
package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/creature"
	"github.com/cory-johannsen/wasteland/internal/game/dice"
	"github.com/cory-johannsen/wasteland/internal/game/message"
)

// Resolver applies attacks. It holds no per-attack state; one Resolver serves
// every creature driven by the same turn scheduler.
type Resolver struct {
	roller *dice.Roller
	sink   message.Sink
	viewer *creature.Creature
	logger *zap.Logger
}

// NewResolver creates a Resolver drawing from roller.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: messages are discarded until SetSink is called.
func NewResolver(roller *dice.Roller, logger *zap.Logger) *Resolver {
	if roller == nil {
		panic("combat.NewResolver: roller must not be nil")
	}
	if logger == nil {
		panic("combat.NewResolver: logger must not be nil")
	}
	return &Resolver{roller: roller, sink: message.Discard, logger: logger}
}

// SetSink routes player-facing combat messages to s.
func (r *Resolver) SetSink(s message.Sink) { r.sink = s }

// SetViewer sets the creature whose line of sight decides which third-party
// messages are shown. With no viewer only messages involving the player are.
func (r *Resolver) SetViewer(c *creature.Creature) { r.viewer = c }

// visible reports whether the viewer can see c. The player always sees itself.
func (r *Resolver) visible(c *creature.Creature) bool {
	if c == nil {
		return false
	}
	if c.IsPlayer() {
		return true
	}
	return r.viewer != nil && r.viewer.Sees(c)
}

// playerOrNPC sends you when c is the player and npc otherwise, provided the
// viewer can see c. npc is formatted with c's name ahead of args.
func (r *Resolver) playerOrNPC(c *creature.Creature, t message.Type, you, npc string, args ...any) {
	if c.IsPlayer() {
		message.Addf(r.sink, t, you, args...)
		return
	}
	if !r.visible(c) {
		return
	}
	message.Addf(r.sink, t, npc, append([]any{c.Body().DisplayName(false)}, args...)...)
}
