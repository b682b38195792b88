// Simulator orchestrating the drone state and its event sources
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"blinkdrone/internal/logging"
	"blinkdrone/internal/metrics"
	"blinkdrone/internal/telemetry"
)

// Source identifies what produced a qualifying event.
type Source string

const (
	SourceOSC   Source = "osc"
	SourceKey   Source = "key"
	SourceAdmin Source = "admin"
)

// Simulator owns the shared drone state. Every event source goes through
// Boost so they are indistinguishable past this point.
type Simulator struct {
	sessionID    string
	state        *State
	clock        func() time.Time
	tickInterval time.Duration
	ctx          context.Context
	stateWriter  StateWriter
}

// Option customizes a Simulator.
type Option func(*Simulator)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Simulator) { s.clock = clock }
}

// WithTickInterval overrides the 60 Hz tick used by Run.
func WithTickInterval(d time.Duration) Option {
	return func(s *Simulator) { s.tickInterval = d }
}

// WithContext sets the context whose logger is used for event lines.
func WithContext(ctx context.Context) Option {
	return func(s *Simulator) { s.ctx = ctx }
}

// NewSimulator creates a simulator with a fresh session id and a centered drone.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		sessionID:    uuid.New().String(),
		state:        NewState(),
		clock:        time.Now,
		tickInterval: tickInterval,
		ctx:          context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionID identifies this run in logs and on the admin surface.
func (s *Simulator) SessionID() string { return s.sessionID }

// Now returns the simulator clock.
func (s *Simulator) Now() time.Time { return s.clock() }

// Boost applies a qualifying event from src and returns the new blink count.
func (s *Simulator) Boost(src Source) uint64 {
	count := s.state.Boost(s.clock())
	metrics.BlinksTotal.WithLabelValues(string(src)).Inc()
	logging.FromContext(s.ctx).Info(fmt.Sprintf("BLINK! Count: %d", count), "source", src)
	return count
}

// Tick advances the physics by one step.
func (s *Simulator) Tick() Snapshot {
	start := time.Now()
	snap := s.state.Advance()
	metrics.TickDurationSeconds.Observe(time.Since(start).Seconds())
	metrics.Altitude.Set(float64(Altitude(snap.Y)))
	metrics.VelocityY.Set(snap.VelocityY)
	return snap
}

// Snapshot returns the current state without advancing it.
func (s *Simulator) Snapshot() Snapshot { return s.state.Snapshot() }

// Row converts the current state into a telemetry row.
func (s *Simulator) Row() telemetry.StateRow {
	return s.row(s.state.Snapshot(), s.clock())
}

func (s *Simulator) row(snap Snapshot, now time.Time) telemetry.StateRow {
	return telemetry.StateRow{
		SessionID: s.sessionID,
		Y:         snap.Y,
		VelocityY: snap.VelocityY,
		Altitude:  Altitude(snap.Y),
		Blinks:    snap.Blinks,
		LastBlink: snap.LastBlink,
		Flashing:  Flashing(snap.LastBlink, now),
		Timestamp: now,
	}
}
