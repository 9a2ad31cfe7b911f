// Package damage models typed damage payloads and their dealt results.
package damage

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/wasteland/internal/game/body"
)

// Type is a damage type.
type Type int

const (
	Bash Type = iota
	Cut
	Stab
	Heat
	Electric
	Cold
	Acid
	Other
	// NumTypes is the number of damage types.
	NumTypes
)

var typeNames = [NumTypes]string{"bash", "cut", "stab", "heat", "electric", "cold", "acid", "other"}

// String returns the lower-case damage type name.
func (t Type) String() string {
	if t < 0 || t >= NumTypes {
		return fmt.Sprintf("damage(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType resolves a damage type name.
func ParseType(name string) (Type, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range typeNames {
		if s == n {
			return Type(i), nil
		}
	}
	return Other, fmt.Errorf("damage: unknown type %q", name)
}

// UnmarshalText lets types be read from YAML scalars.
func (t *Type) UnmarshalText(text []byte) error {
	v, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Well-known effect tags carried by an Instance or a Projectile.
const (
	TagNoGib           = "NOGIB"
	TagBounce          = "BOUNCE"
	TagNoDamageScaling = "NO_DAMAGE_SCALING"
	TagFlame           = "FLAME"
	TagIncendiary      = "INCENDIARY"
	TagIgnite          = "IGNITE"
	TagBlindsEyes      = "BLINDS_EYES"
	TagApplySap        = "APPLY_SAP"
	TagBeanbag         = "BEANBAG"
	TagLargeBeanbag    = "LARGE_BEANBAG"
)

// Unit is one typed component of a damage Instance.
type Unit struct {
	Type       Type    `yaml:"type"`
	Amount     int     `yaml:"amount"`
	Multiplier float64 `yaml:"multiplier"`
}

// Adjusted returns Amount scaled by Multiplier, truncated toward zero.
func (u Unit) Adjusted() int {
	return int(float64(u.Amount) * u.Multiplier)
}

// Instance is a damage payload. The pipeline mutates it during armor
// absorption, so callers hand over a copy and must not reuse it afterwards.
type Instance struct {
	Units   []Unit
	Effects map[string]bool
}

// New returns an Instance with a single unit of multiplier 1.
func New(t Type, amount int) *Instance {
	d := &Instance{}
	d.AddDamage(t, amount, 1)
	return d
}

// AddDamage appends a unit.
func (d *Instance) AddDamage(t Type, amount int, mult float64) {
	d.Units = append(d.Units, Unit{Type: t, Amount: amount, Multiplier: mult})
}

// AddEffect adds a tag.
func (d *Instance) AddEffect(tag string) {
	if d.Effects == nil {
		d.Effects = make(map[string]bool)
	}
	d.Effects[tag] = true
}

// HasEffect reports whether tag is set.
func (d *Instance) HasEffect(tag string) bool {
	return d.Effects[tag]
}

// MultDamage scales every unit's multiplier by m.
func (d *Instance) MultDamage(m float64) {
	for i := range d.Units {
		d.Units[i].Multiplier *= m
	}
}

// TypeDamage returns the adjusted total of all units of type t.
func (d *Instance) TypeDamage(t Type) int {
	total := 0
	for _, u := range d.Units {
		if u.Type == t {
			total += u.Adjusted()
		}
	}
	return total
}

// TotalDamage returns the adjusted total across all units.
func (d *Instance) TotalDamage() int {
	total := 0
	for _, u := range d.Units {
		total += u.Adjusted()
	}
	return total
}

// Clone returns a deep copy.
func (d *Instance) Clone() *Instance {
	c := &Instance{Units: append([]Unit(nil), d.Units...)}
	for k, v := range d.Effects {
		if v {
			c.AddEffect(k)
		}
	}
	return c
}

// Dealt is the outcome of one resolution pass.
type Dealt struct {
	PerType  [NumTypes]int
	BodyPart body.Part
}

// Total returns the sum over all types.
func (d Dealt) Total() int {
	total := 0
	for _, v := range d.PerType {
		total += v
	}
	return total
}

// Projectile describes a fired round.
type Projectile struct {
	Speed   int
	Impact  Instance
	Effects map[string]bool
}

// HasEffect reports whether the projectile carries tag.
func (p Projectile) HasEffect(tag string) bool {
	return p.Effects[tag]
}
