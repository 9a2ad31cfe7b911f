// Package simulation drives a headless skirmish between the player, a
// vehicle-mounted turret guarding them, and the roster's hostiles.
package simulation

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/ai"
	"github.com/cory-johannsen/wasteland/internal/game/combat"
	"github.com/cory-johannsen/wasteland/internal/game/creature"
	"github.com/cory-johannsen/wasteland/internal/game/damage"
	"github.com/cory-johannsen/wasteland/internal/game/dice"
	"github.com/cory-johannsen/wasteland/internal/game/geo"
	"github.com/cory-johannsen/wasteland/internal/game/npc"
)

// ActionCost is the moves spent by one attack or step.
const ActionCost = 100

// Turret is an automatic weapon that shoots at the player's enemies.
type Turret struct {
	Creature *creature.Creature
	Range    int
	Area     int
	Ammo     damage.Projectile
	// Spread is the widest aiming error a shot starts with, in [0, 1).
	Spread float64
}

// Summary tallies a run.
type Summary struct {
	Turns      int
	Shots      int
	Hits       int
	MeleeHits  int
	Kills      int
	PlayerDead bool
}

// Simulation advances the roster turn by turn.
//
// Invariant: at most one goroutine calls Step or Run at a time.
type Simulation struct {
	roster   *npc.Manager
	resolver *combat.Resolver
	targeter *ai.HostileTargeter
	roller   *dice.Roller
	logger   *zap.Logger
	turret   *Turret

	turn    int
	summary Summary
}

// New creates a Simulation over roster.
//
// Precondition: every argument must be non-nil.
func New(roster *npc.Manager, resolver *combat.Resolver, targeter *ai.HostileTargeter, roller *dice.Roller, logger *zap.Logger) *Simulation {
	if roster == nil || resolver == nil || targeter == nil || roller == nil || logger == nil {
		panic("simulation.New: all dependencies must be non-nil")
	}
	return &Simulation{
		roster:   roster,
		resolver: resolver,
		targeter: targeter,
		roller:   roller,
		logger:   logger,
	}
}

// MountTurret installs t. The turret's creature is marked fake so its kills
// are not credited.
func (s *Simulation) MountTurret(t *Turret) {
	t.Creature.SetFake(true)
	s.turret = t
}

// Summary returns the tallies so far.
func (s *Simulation) Summary() Summary { return s.summary }

// Run steps until turns have elapsed, the fight is over, or ctx is done.
func (s *Simulation) Run(ctx context.Context, turns int) Summary {
	for i := 0; i < turns; i++ {
		if ctx.Err() != nil {
			s.logger.Info("simulation cancelled", zap.Int("turn", s.turn))
			break
		}
		if s.Step() {
			break
		}
	}
	s.logger.Info("simulation finished",
		zap.Int("turns", s.summary.Turns),
		zap.Int("shots", s.summary.Shots),
		zap.Int("hits", s.summary.Hits),
		zap.Int("melee_hits", s.summary.MeleeHits),
		zap.Int("kills", s.summary.Kills),
		zap.Bool("player_dead", s.summary.PlayerDead),
	)
	return s.summary
}

// Step plays one turn and reports whether the fight is over: the player is
// dead or no hostile remains.
func (s *Simulation) Step() bool {
	s.turn++
	s.summary.Turns = s.turn
	for _, c := range s.roster.All() {
		c.ProcessTurn(s.turn)
	}

	player := s.roster.Player()
	if player == nil {
		return true
	}

	s.fireTurret(player)
	for _, h := range s.roster.HostileCandidates() {
		s.actHostile(h, player)
	}
	s.actPlayer(player)

	if player.IsDeadState() {
		s.summary.PlayerDead = true
		return true
	}
	return len(s.roster.HostileCandidates()) == 0
}

func (s *Simulation) fireTurret(player *creature.Creature) {
	t := s.turret
	if t == nil || t.Creature.IsDeadState() || t.Creature.Moves() <= 0 {
		return
	}
	target, booHoo := s.targeter.AutoFindHostileTarget(t.Creature, player, s.roster.HostileCandidates(), t.Range, t.Area)
	if target == nil {
		if booHoo > 0 {
			s.logger.Debug("turret holds fire", zap.Int("turn", s.turn), zap.Int("boo_hoo", booHoo))
		}
		return
	}
	attack := &combat.ProjectileAttack{
		Proj:     t.Ammo,
		MissedBy: s.roller.RngFloat(0, t.Spread),
	}
	s.summary.Shots++
	s.resolver.DealProjectileAttack(target, t.Creature, attack)
	t.Creature.ModMoves(-ActionCost)
	if attack.HitCritter != nil {
		s.summary.Hits++
	}
	s.tallyKill(target)
}

func (s *Simulation) actHostile(h, player *creature.Creature) {
	if h.IsDeadState() || h.Moves() <= 0 || h.InSleepState() {
		return
	}
	if geo.RLDist(h.Pos(), player.Pos()) <= 1 {
		s.melee(player, h)
	} else {
		h.SetPos(stepToward(h.Pos(), player.Pos()))
	}
	h.ModMoves(-ActionCost)
}

func (s *Simulation) actPlayer(player *creature.Creature) {
	if player.IsDeadState() || player.Moves() <= 0 || player.InSleepState() {
		return
	}
	for _, h := range s.roster.HostileCandidates() {
		if geo.RLDist(h.Pos(), player.Pos()) <= 1 {
			s.melee(h, player)
			player.ModMoves(-ActionCost)
			s.tallyKill(h)
			return
		}
	}
}

// melee resolves one swing of source at target.
func (s *Simulation) melee(target, source *creature.Creature) {
	inst, ok := s.roster.Instance(source.ID())
	if !ok {
		return
	}
	hitRoll := s.roller.Dice(max(source.Body().MeleeSkill(), 1), 10)
	spread := s.resolver.DealMeleeAttack(target, source, hitRoll)
	if spread <= 0 {
		return
	}
	critical := s.roller.OneIn(20)
	s.resolver.DealMeleeHit(target, source, spread, critical, inst.Template().AttackDamage())
	s.summary.MeleeHits++
	target.CheckDeadState()
}

func (s *Simulation) tallyKill(target *creature.Creature) {
	if !target.IsDeadState() {
		return
	}
	if err := s.roster.Remove(target.ID()); err != nil {
		return
	}
	s.summary.Kills++
	s.logger.Info("hostile down", zap.Int("turn", s.turn), zap.String("creature", target.ID()))
}

func stepToward(from, to geo.Tripoint) geo.Tripoint {
	return from.Add(geo.Tripoint{X: sign(to.X - from.X), Y: sign(to.Y - from.Y)})
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
