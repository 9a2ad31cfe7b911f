package simulation

import (
	"github.com/cory-johannsen/wasteland/internal/game/ai"
	"github.com/cory-johannsen/wasteland/internal/game/geo"
)

// Vehicle is a rigid set of tiles, each holding one part. Enclosed parts
// shelter their occupants from the roof turret.
type Vehicle struct {
	parts    map[geo.Tripoint]int
	enclosed map[int]bool
	points   map[geo.Tripoint]struct{}
}

// NewVehicle builds a vehicle occupying tiles, numbering parts in order.
// Parts listed in enclosed are inside the cabin.
func NewVehicle(tiles []geo.Tripoint, enclosed ...int) *Vehicle {
	v := &Vehicle{
		parts:    make(map[geo.Tripoint]int, len(tiles)),
		enclosed: make(map[int]bool, len(enclosed)),
		points:   make(map[geo.Tripoint]struct{}, len(tiles)),
	}
	for i, p := range tiles {
		v.parts[p] = i
		v.points[p] = struct{}{}
	}
	for _, part := range enclosed {
		v.enclosed[part] = true
	}
	return v
}

// IsInside implements ai.Vehicle.
func (v *Vehicle) IsInside(part int) bool { return v.enclosed[part] }

// Points implements ai.Vehicle.
func (v *Vehicle) Points() map[geo.Tripoint]struct{} { return v.points }

// Field is a battlefield holding any number of vehicles.
type Field struct {
	vehicles []*Vehicle
}

// NewField creates a Field with vehicles.
func NewField(vehicles ...*Vehicle) *Field {
	return &Field{vehicles: vehicles}
}

// VehicleAt implements ai.Battlefield.
func (f *Field) VehicleAt(p geo.Tripoint) (ai.Vehicle, int) {
	for _, v := range f.vehicles {
		if part, ok := v.parts[p]; ok {
			return v, part
		}
	}
	return nil, 0
}
