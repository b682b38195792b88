package sim

import (
	"sync"
	"time"
)

// Snapshot is a copy of the drone state at one instant.
type Snapshot struct {
	Y         float64
	VelocityY float64
	Blinks    uint64
	LastBlink time.Time
}

// State is the record shared between the event listener and the loop.
// The mutex is only held for scalar updates.
type State struct {
	mu        sync.Mutex
	y         float64
	vy        float64
	blinks    uint64
	lastBlink time.Time
}

// NewState returns a drone centered vertically and at rest.
func NewState() *State {
	return &State{y: Height / 2}
}

// Boost overwrites the velocity with the impulse, counts the event and stamps
// its time. It returns the new blink count.
func (s *State) Boost(now time.Time) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vy = Boost
	s.blinks++
	s.lastBlink = now
	return s.blinks
}

// Advance runs one physics step and returns the resulting snapshot.
func (s *State) Advance() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.y, s.vy = Step(s.y, s.vy, false)
	return s.snapshotLocked()
}

// Snapshot returns the current state without advancing it.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{Y: s.y, VelocityY: s.vy, Blinks: s.blinks, LastBlink: s.lastBlink}
}
