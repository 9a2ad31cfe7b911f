// Package geo holds the integer grid geometry used by targeting.
package geo

import "math"

// Tripoint is a 3-D integer grid position.
type Tripoint struct {
	X, Y, Z int
}

// Add returns p offset by d.
func (p Tripoint) Add(d Tripoint) Tripoint {
	return Tripoint{X: p.X + d.X, Y: p.Y + d.Y, Z: p.Z + d.Z}
}

// RLDist returns the Chebyshev distance between a and b, counting z.
//
// Postcondition: Returns >= 0, and 0 only when a == b.
func RLDist(a, b Tripoint) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y), abs(a.Z-b.Z))
}

// CoordToAngle returns the compass angle in whole degrees [0, 360) from
// (x1, y1) toward (x2, y2). The angle is wrapped in radians before it is
// truncated, so a direction just below the x axis reads 359, not 0.
func CoordToAngle(x1, y1, x2, y2 int) int {
	rad := math.Atan2(float64(y2-y1), float64(x2-x1))
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return int(rad * 57.2957795)
}

// OverlapsArea reports whether any point of area lies in the square of
// half-width radius around pos. The upper bounds are exclusive, so the scan
// covers [pos.X-radius, pos.X+radius) by [pos.Y-radius, pos.Y+radius) on
// pos.Z only.
func OverlapsArea(area map[Tripoint]struct{}, pos Tripoint, radius int) bool {
	for x := pos.X - radius; x < pos.X+radius; x++ {
		for y := pos.Y - radius; y < pos.Y+radius; y++ {
			if _, ok := area[Tripoint{X: x, Y: y, Z: pos.Z}]; ok {
				return true
			}
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
