// Package listener receives OSC blink events over UDP and turns them into
// impulses on the simulator.
package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/hypebeast/go-osc/osc"

	"blinkdrone/internal/config"
	"blinkdrone/internal/logging"
	"blinkdrone/internal/metrics"
	"blinkdrone/internal/sim"
)

const maxDatagram = 65535

// Booster receives qualifying events.
type Booster interface {
	Boost(src sim.Source) uint64
}

// Listener binds one UDP socket and dispatches the OSC messages it receives.
type Listener struct {
	endpoint string
	address  string
	target   Booster
	conn     net.PacketConn
	log      *slog.Logger
}

// New prepares a listener for cfg. Call Listen to bind it.
func New(cfg config.Listener, target Booster) *Listener {
	return &Listener{
		endpoint: cfg.Endpoint(),
		address:  cfg.Address,
		target:   target,
		log:      slog.Default(),
	}
}

// Listen binds the UDP endpoint. A failure here is fatal to the caller.
func (l *Listener) Listen() error {
	conn, err := net.ListenPacket("udp", l.endpoint)
	if err != nil {
		return fmt.Errorf("bind OSC listener on %s: %w", l.endpoint, err)
	}
	l.conn = conn
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (l *Listener) Addr() net.Addr {
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

// Serve reads datagrams until ctx is done, then closes the socket and
// returns nil. Listen must have succeeded first.
func (l *Listener) Serve(ctx context.Context) error {
	if l.conn == nil {
		return errors.New("listener not bound")
	}
	l.log = logging.FromContext(ctx)
	l.log.Info("OSC listener ready", "addr", l.conn.LocalAddr().String(), "address", l.address)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		l.conn.Close()
	}()

	buf := make([]byte, maxDatagram)
	for {
		n, _, err := l.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				l.log.Info("OSC listener stopped")
				return nil
			}
			return fmt.Errorf("read OSC datagram: %w", err)
		}
		l.HandleDatagram(buf[:n])
	}
}

// HandleDatagram decodes one datagram and dispatches every message in it.
// It returns how many impulses were applied.
func (l *Listener) HandleDatagram(data []byte) int {
	pkt, err := osc.ParsePacket(string(data))
	if err != nil {
		metrics.IgnoredMessagesTotal.WithLabelValues("malformed").Inc()
		l.log.Debug("ignoring undecodable datagram", "bytes", len(data), "err", err)
		return 0
	}
	return l.dispatch(pkt)
}

func (l *Listener) dispatch(pkt osc.Packet) int {
	switch p := pkt.(type) {
	case *osc.Message:
		if l.Handle(p) {
			return 1
		}
		return 0
	case *osc.Bundle:
		applied := 0
		for _, m := range p.Messages {
			if l.Handle(m) {
				applied++
			}
		}
		for _, b := range p.Bundles {
			applied += l.dispatch(b)
		}
		return applied
	}
	return 0
}

// Handle applies msg when it is a blink on the configured address with the
// detected sentinel. Anything else is ignored.
func (l *Listener) Handle(msg *osc.Message) bool {
	if msg == nil {
		return false
	}
	if msg.Address != l.address {
		metrics.IgnoredMessagesTotal.WithLabelValues("address").Inc()
		l.log.Debug("ignoring message", "address", msg.Address)
		return false
	}
	if len(msg.Arguments) == 0 || !isDetected(msg.Arguments[0]) {
		metrics.IgnoredMessagesTotal.WithLabelValues("value").Inc()
		l.log.Debug("ignoring blink value", "args", msg.Arguments)
		return false
	}
	l.target.Boost(sim.SourceOSC)
	return true
}

// isDetected reports whether an OSC argument equals the "blink detected"
// sentinel 1. OSC true counts as 1.
func isDetected(arg interface{}) bool {
	switch v := arg.(type) {
	case int32:
		return v == 1
	case int64:
		return v == 1
	case float32:
		return v == 1
	case float64:
		return v == 1
	case bool:
		return v
	}
	return false
}
