package sim

import "time"

// Canvas and physics constants. These are fixed; nothing in the config layer
// overrides them.
const (
	Width  = 800
	Height = 600

	DroneX    = Width / 2
	DroneSize = 40
	HubRadius = 8

	MinY = 50
	MaxY = Height - 50

	GroundHeight   = 30
	TargetHalfSpan = 50

	Gravity = 0.3
	Boost   = -15.0

	TickRate     = 60
	FlashWindow  = 200 * time.Millisecond
	tickInterval = time.Second / TickRate
)

// Step integrates one tick. When impulse is set the velocity is overwritten by
// Boost first. Gravity is applied before the position moves.
func Step(y, vy float64, impulse bool) (float64, float64) {
	if impulse {
		vy = Boost
	}
	vy += Gravity
	y += vy
	return Clamp(y, vy)
}

// Clamp snaps y into [MinY, MaxY] and zeroes vy when a bound is hit.
func Clamp(y, vy float64) (float64, float64) {
	if y < MinY {
		y = MinY
		vy = 0
	}
	if y > MaxY {
		y = MaxY
		vy = 0
	}
	return y, vy
}

// Altitude is the readout shown on screen.
func Altitude(y float64) int {
	return int(Height - y)
}

// Flashing reports whether the blink indicator is visible at now.
func Flashing(last, now time.Time) bool {
	if last.IsZero() {
		return false
	}
	return now.Sub(last) < FlashWindow
}
