package model

import "math"

// facingOffset aligns angle 0 with +Y ("up" on screen).
const facingOffset = 90.0

// FacingAngle returns the facing angle in degrees for a direction vector.
// 0 means facing +Y, angles grow counter-clockwise, result is in (-180, 180].
func FacingAngle(dir Vec2) float64 {
	return NormalizeAngle(math.Atan2(dir.Y, dir.X)*180/math.Pi - facingOffset)
}

// NormalizeAngle maps any angle in degrees into (-180, 180].
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}

// DeltaAngle returns the shortest signed difference from → to in (-180, 180].
func DeltaAngle(from, to float64) float64 {
	return NormalizeAngle(to - from)
}

// RotateTowards turns current toward target along the shortest path by at most
// maxDelta degrees. A non-positive maxDelta leaves current unchanged.
func RotateTowards(current, target, maxDelta float64) float64 {
	if maxDelta <= 0 {
		return current
	}

	d := DeltaAngle(current, target)
	if math.Abs(d) <= maxDelta {
		return NormalizeAngle(target)
	}
	return NormalizeAngle(current + math.Copysign(maxDelta, d))
}
