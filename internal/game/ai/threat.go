// Package ai picks targets for autonomous attackers such as turrets and
// monsters. Movement and planning live elsewhere.
package ai

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/creature"
	"github.com/cory-johannsen/wasteland/internal/game/geo"
)

// HostileBonus is added to a candidate's power rating when it is hostile to
// the protected party.
const HostileBonus = 2

// Vehicle is the part of a vehicle target selection needs. Vehicles are
// compared with ==, so implementations must be comparable.
type Vehicle interface {
	// IsInside reports whether part is enclosed, so shots from the roof
	// cannot reach an occupant.
	IsInside(part int) bool
	// Points returns every tile the vehicle occupies.
	Points() map[geo.Tripoint]struct{}
}

// Battlefield answers terrain queries for target selection.
type Battlefield interface {
	// VehicleAt returns the vehicle occupying p and the part index there, or
	// a nil Vehicle.
	VehicleAt(p geo.Tripoint) (Vehicle, int)
}

// HostileTargeter chooses a target for a shooter while keeping a protected
// party out of the line of fire.
type HostileTargeter struct {
	field  Battlefield
	logger *zap.Logger
}

// NewHostileTargeter creates a HostileTargeter. field may be nil when the map
// has no vehicles.
//
// Precondition: logger must be non-nil.
func NewHostileTargeter(field Battlefield, logger *zap.Logger) *HostileTargeter {
	if logger == nil {
		panic("ai.NewHostileTargeter: logger must not be nil")
	}
	return &HostileTargeter{field: field, logger: logger}
}

func (h *HostileTargeter) vehicleAt(p geo.Tripoint) (Vehicle, int) {
	if h.field == nil {
		return nil, 0
	}
	return h.field.VehicleAt(p)
}

// AutoFindHostileTarget returns the best target among candidates for shooter,
// firing a weapon of the given range and blast area, and the number of
// candidates passed over because protected stood too close to the shot.
//
// Precondition: shooter and protected must be non-nil; candidates holds only
// creatures already judged not friendly to protected.
// Postcondition: the target, when non-nil, has a strictly positive rating and
// no earlier candidate rated as high.
func (h *HostileTargeter) AutoFindHostileTarget(shooter, protected *creature.Creature, candidates []*creature.Creature, rng, area int) (*creature.Creature, int) {
	var target *creature.Creature
	iffDist := (rng+area)*3/2 + 6
	iffHangle := 15 + area
	best := -1.0
	uAngle := 0
	booHoo := 0
	areaIFF := false
	angleIFF := true
	pos := shooter.Pos()
	upos := protected.Pos()
	pldist := geo.RLDist(pos, upos)

	var inVeh Vehicle
	if shooter.IsFake() {
		inVeh, _ = h.vehicleAt(pos)
	}
	if pldist < iffDist && shooter.Sees(protected) {
		areaIFF = area > 0
		angleIFF = true
		// An occupant of our own enclosed vehicle cannot be hit from the roof.
		if v, part := h.vehicleAt(upos); inVeh != nil && v == inVeh && inVeh.IsInside(part) {
			angleIFF = false
		} else if pldist < 3 {
			if pldist == 2 {
				iffHangle = 30
			} else {
				iffHangle = 60
			}
		}
		uAngle = geo.CoordToAngle(pos.X, pos.Y, upos.X, upos.Y)
	}
	selfAreaIFF := area > 0 && inVeh != nil

	for _, m := range candidates {
		if !shooter.Sees(m) {
			continue
		}
		// +1 keeps a candidate on our own tile at a usable distance.
		dist := geo.RLDist(pos, m.Pos()) + 1
		if dist > rng+1 || dist < area {
			continue
		}
		rating := m.Body().PowerRating()
		targetRating := rating / float64(dist)
		if rating+HostileBonus <= 0 {
			continue
		}
		if inVeh != nil {
			if v, _ := h.vehicleAt(m.Pos()); v == inVeh {
				continue
			}
		}
		if areaIFF && geo.RLDist(upos, m.Pos()) <= area {
			booHoo++
			continue
		}

		maybeBoo := false
		if angleIFF {
			tangle := geo.CoordToAngle(pos.X, pos.Y, m.Pos().X, m.Pos().Y)
			diff := abs(uAngle - tangle)
			if (diff+iffHangle > 360 || diff < iffHangle) && dist*3/2+6 > pldist {
				maybeBoo = true
			}
		}
		// Skip before the attitude query when even a hostile bonus cannot win.
		if !maybeBoo && (rating+HostileBonus)/float64(dist) <= best {
			continue
		}
		if m.Body().AttitudeTo(protected) == creature.Hostile {
			targetRating = (rating + HostileBonus) / float64(dist)
			if maybeBoo {
				booHoo++
				continue
			}
		}
		if targetRating <= best || targetRating <= 0 {
			continue
		}
		if selfAreaIFF && geo.OverlapsArea(inVeh.Points(), m.Pos(), area) {
			continue
		}

		target = m
		best = targetRating
	}

	fields := []zap.Field{
		zap.String("shooter", shooter.ID()),
		zap.Int("candidates", len(candidates)),
		zap.Int("boo_hoo", booHoo),
	}
	if target != nil {
		fields = append(fields, zap.String("target", target.ID()), zap.Float64("rating", best))
	}
	h.logger.Debug("auto target", fields...)
	return target, booHoo
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
