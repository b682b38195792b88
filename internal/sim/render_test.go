package sim

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

func plainFrame(snap Snapshot, now time.Time, cols, rows int) []string {
	p := newPalette(lipgloss.NewRenderer(io.Discard))
	return strings.Split(renderFrame(p, snap, now, cols, rows), "\n")
}

func TestRenderLayout(t *testing.T) {
	now := time.Unix(50, 0)
	lines := plainFrame(Snapshot{Y: 300, Blinks: 3}, now, 80, 24)
	if len(lines) != 24 {
		t.Fatalf("expected 24 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != 80 {
			t.Fatalf("row %d has %d cells", i, n)
		}
	}
	if !strings.Contains(lines[0], "Blinks: 3") {
		t.Errorf("blink counter missing: %q", lines[0])
	}
	if !strings.Contains(lines[0], "BLINK to go UP!") {
		t.Errorf("instructions missing: %q", lines[0])
	}
	if !strings.Contains(lines[2], "Altitude: 300") {
		t.Errorf("altitude missing: %q", lines[2])
	}
	if !strings.Contains(lines[12], "━") || !strings.Contains(lines[12], "o") {
		t.Errorf("propeller bar missing on drone row: %q", lines[12])
	}
	if !strings.Contains(lines[11], "█") {
		t.Errorf("drone body missing: %q", lines[11])
	}
	if !strings.Contains(lines[10], "─") || !strings.Contains(lines[14], "─") {
		t.Errorf("target band missing")
	}
	if strings.Trim(lines[23], "▒") != "" {
		t.Errorf("ground band missing: %q", lines[23])
	}
	for _, l := range lines {
		if strings.Contains(l, "BLINK!") {
			t.Fatalf("indicator shown without a blink")
		}
	}
}

func TestRenderIndicatorWhileFlashing(t *testing.T) {
	now := time.Unix(50, 0)
	snap := Snapshot{Y: 300, Blinks: 1, LastBlink: now.Add(-100 * time.Millisecond)}
	lines := plainFrame(snap, now, 80, 24)
	if !strings.Contains(lines[3], "BLINK!") {
		t.Fatalf("indicator text missing: %q", lines[3])
	}
	if !strings.Contains(lines[2], "●") {
		t.Fatalf("indicator disc missing: %q", lines[2])
	}

	lines = plainFrame(snap, now.Add(FlashWindow), 80, 24)
	if strings.Contains(lines[3], "BLINK!") {
		t.Fatalf("indicator should be gone after the window")
	}
}

func TestRenderDroneFollowsPosition(t *testing.T) {
	lines := plainFrame(Snapshot{Y: MinY}, time.Unix(0, 0), 80, 24)
	if !strings.Contains(lines[2], "━") {
		t.Fatalf("drone at top bound should be drawn on row 2: %q", lines[2])
	}
	if !strings.Contains(lines[2], "Altitude: 550") {
		t.Fatalf("altitude should read 550 at the top bound: %q", lines[2])
	}
	lines = plainFrame(Snapshot{Y: MaxY}, time.Unix(0, 0), 80, 24)
	if !strings.Contains(lines[22], "━") {
		t.Fatalf("drone at lower bound should be drawn on row 22: %q", lines[22])
	}
}

func TestRenderTinyAndEmpty(t *testing.T) {
	if got := renderFrame(newPalette(lipgloss.NewRenderer(io.Discard)), Snapshot{Y: 300}, time.Now(), 0, 10); got != "" {
		t.Fatalf("expected empty frame, got %q", got)
	}
	lines := plainFrame(Snapshot{Y: 300, Blinks: 9}, time.Now(), 12, 12)
	if len(lines) != 12 || !strings.HasPrefix(lines[0], "Blinks: 9") {
		t.Fatalf("narrow frame lost the counter: %q", lines)
	}
}
