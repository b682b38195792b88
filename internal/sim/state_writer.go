package sim

import "blinkdrone/internal/telemetry"

// StateWriter receives periodic state rows from the headless loop.
type StateWriter interface {
	WriteState(telemetry.StateRow) error
}

// WithStateWriter makes Run emit one row per second to w.
func WithStateWriter(w StateWriter) Option {
	return func(s *Simulator) { s.stateWriter = w }
}
