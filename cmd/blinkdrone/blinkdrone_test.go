package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hypebeast/go-osc/osc"

	"blinkdrone/internal/config"
	"blinkdrone/internal/listener"
	"blinkdrone/internal/sim"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func localConfig() *config.Config {
	cfg := config.Default()
	cfg.Listener.Port = 0
	return cfg
}

func udpPort(addr net.Addr) int { return addr.(*net.UDPAddr).Port }

func TestSendBlinksReachesSimulator(t *testing.T) {
	simulator := sim.NewSimulator()
	lst := listener.New(localConfig().Listener, simulator)
	if err := lst.Listen(); err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go lst.Serve(ctx)

	var out bytes.Buffer
	client := osc.NewClient("127.0.0.1", udpPort(lst.Addr()))
	if err := sendBlinks(ctx, client, config.DefaultAddress, 1, 3, time.Millisecond, &out); err != nil {
		t.Fatalf("sendBlinks: %v", err)
	}
	waitFor(t, "three blinks", func() bool { return simulator.Snapshot().Blinks == 3 })
	if !strings.Contains(out.String(), "(3/3)") {
		t.Fatalf("progress output missing: %q", out.String())
	}
}

type failingSender struct{ calls int }

func (f *failingSender) Send(osc.Packet) error {
	f.calls++
	return errors.New("boom")
}

func TestSendBlinksStopsOnError(t *testing.T) {
	f := &failingSender{}
	err := sendBlinks(context.Background(), f, config.DefaultAddress, 1, 5, 0, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "send blink 1") {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
	if f.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", f.calls)
	}
}

func TestSendBlinksHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &countingSender{}
	err := sendBlinks(ctx, client, config.DefaultAddress, 1, 3, time.Hour, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("expected one send before cancel, got %d", client.calls)
	}
}

type countingSender struct{ calls int }

func (c *countingSender) Send(osc.Packet) error {
	c.calls++
	return nil
}

func TestAppHeadlessRun(t *testing.T) {
	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, localConfig(), true, out)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.close()

	errc := make(chan error, 1)
	go func() { errc <- a.run(ctx) }()

	client := osc.NewClient("127.0.0.1", udpPort(a.listener.Addr()))
	if err := client.Send(osc.NewMessage(config.DefaultAddress, int32(1))); err != nil {
		t.Fatalf("send: %v", err)
	}
	waitFor(t, "blink", func() bool { return a.sim.Snapshot().Blinks == 1 })

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop")
	}

	got := out.String()
	for _, want := range []string{"OSC Server listening on port", "BLINK-CONTROLLED DRONE", "BLINK! Count: 1", "drone simulation stopped"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestNewAppFailsWhenPortBusy(t *testing.T) {
	busy, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	defer busy.Close()

	cfg := localConfig()
	cfg.Listener.Port = udpPort(busy.LocalAddr())
	if _, err := newApp(context.Background(), cfg, true, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected bind error")
	}
}

func TestApplyFlyFlags(t *testing.T) {
	cfg := config.Default()
	if err := flyCmd.Flags().Set("port", "12345"); err != nil {
		t.Fatalf("set port: %v", err)
	}
	if err := flyCmd.Flags().Set("admin", "127.0.0.1:9999"); err != nil {
		t.Fatalf("set admin: %v", err)
	}
	applyFlyFlags(flyCmd, cfg)
	if cfg.Listener.Port != 12345 || cfg.Listener.Host != config.DefaultHost {
		t.Fatalf("unexpected listener config %+v", cfg.Listener)
	}
	if !cfg.Admin.Enabled || cfg.Admin.Addr != "127.0.0.1:9999" {
		t.Fatalf("unexpected admin config %+v", cfg.Admin)
	}
}
