package sim

import (
	"context"
	"time"

	"blinkdrone/internal/logging"
)

// Run ticks the physics at the fixed rate without drawing and stops when the
// context is done. Once per second a status row goes to the state writer,
// if any, and to the debug log.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting headless simulator", "tick_interval", s.tickInterval, "session", s.sessionID)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	var ticks int
	for {
		select {
		case <-ticker.C:
			snap := s.Tick()
			ticks++
			if ticks%TickRate == 0 {
				row := s.row(snap, s.clock())
				if s.stateWriter != nil {
					if err := s.stateWriter.WriteState(row); err != nil {
						log.Error("state write failed", "err", err)
					}
				}
				log.Debug("drone state", "altitude", row.Altitude, "velocity_y", row.VelocityY, "blinks", row.Blinks)
			}
		case <-ctx.Done():
			log.Info("stopping headless simulator", "blinks", s.Snapshot().Blinks)
			return
		}
	}
}
