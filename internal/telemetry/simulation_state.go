package telemetry

import "time"

// StateRow captures the drone state observed on one tick.
type StateRow struct {
	SessionID string    `json:"session_id"`
	Y         float64   `json:"y"`
	VelocityY float64   `json:"velocity_y"`
	Altitude  int       `json:"altitude"`
	Blinks    uint64    `json:"blinks"`
	LastBlink time.Time `json:"last_blink"`
	Flashing  bool      `json:"flashing"`
	Timestamp time.Time `json:"ts"`
}
