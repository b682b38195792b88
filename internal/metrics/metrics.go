// Package metrics holds the Prometheus collectors shared by the listener,
// the simulation loop and the admin server.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BlinksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "blinkdrone_blinks_total",
		Help: "Qualifying blink events applied to the drone, by source",
	}, []string{"source"})
	IgnoredMessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "blinkdrone_ignored_messages_total",
		Help: "Inbound OSC datagrams or messages that did not trigger an impulse",
	}, []string{"reason"})
	TickDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "blinkdrone_tick_duration_seconds",
		Help:    "Time spent integrating one simulation tick",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 8),
	})
	Altitude = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "blinkdrone_altitude",
		Help: "Drone altitude (canvas height minus position) after the last tick",
	})
	VelocityY = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "blinkdrone_velocity_y",
		Help: "Drone vertical velocity after the last tick, positive is downward",
	})

	registerOnce sync.Once
)

func init() {
	InitMetrics()
}

// InitMetrics registers all collectors with the default registry.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			BlinksTotal,
			IgnoredMessagesTotal,
			TickDurationSeconds,
			Altitude,
			VelocityY,
		)
	})
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	InitMetrics()
	return promhttp.Handler()
}
