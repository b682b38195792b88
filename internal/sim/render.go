package sim

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const instructions = "BLINK to go UP! (or press SPACE to test)"

type cellKind int

const (
	cellSky cellKind = iota
	cellGround
	cellTarget
	cellBody
	cellProp
	cellHub
	cellFlash
	cellText
	cellFlashText
	numCellKinds
)

// palette holds one style per cell kind.
type palette [numCellKinds]lipgloss.Style

func newPalette(r *lipgloss.Renderer) palette {
	sky := lipgloss.Color("117")
	var p palette
	p[cellSky] = r.NewStyle().Background(sky)
	p[cellGround] = r.NewStyle().Background(lipgloss.Color("34")).Foreground(lipgloss.Color("28"))
	p[cellTarget] = r.NewStyle().Background(sky).Foreground(lipgloss.Color("157"))
	p[cellBody] = r.NewStyle().Background(sky).Foreground(lipgloss.Color("196"))
	p[cellProp] = r.NewStyle().Background(sky).Foreground(lipgloss.Color("0"))
	p[cellHub] = r.NewStyle().Background(sky).Foreground(lipgloss.Color("15"))
	p[cellFlash] = r.NewStyle().Background(sky).Foreground(lipgloss.Color("46"))
	p[cellText] = r.NewStyle().Background(sky).Foreground(lipgloss.Color("0")).Bold(true)
	p[cellFlashText] = r.NewStyle().Background(sky).Foreground(lipgloss.Color("15")).Bold(true)
	return p
}

// canvas maps the fixed Width x Height logical plane onto a cols x rows grid.
type canvas struct {
	cols, rows int
	runes      [][]rune
	kinds      [][]cellKind
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, runes: make([][]rune, rows), kinds: make([][]cellKind, rows)}
	for y := range c.runes {
		c.runes[y] = []rune(strings.Repeat(" ", cols))
		c.kinds[y] = make([]cellKind, cols)
	}
	return c
}

func (c *canvas) project(x, y float64) (int, int) {
	return int(x * float64(c.cols) / Width), int(y * float64(c.rows) / Height)
}

// center returns the logical coordinates of a cell's midpoint.
func (c *canvas) center(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * Width / float64(c.cols), (float64(row) + 0.5) * Height / float64(c.rows)
}

func (c *canvas) set(col, row int, r rune, k cellKind) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	c.runes[row][col] = r
	c.kinds[row][col] = k
}

func (c *canvas) fillRect(x0, y0, x1, y1 float64, r rune, k cellKind) {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			x, y := c.center(col, row)
			if x >= x0 && x < x1 && y >= y0 && y < y1 {
				c.set(col, row, r, k)
			}
		}
	}
}

func (c *canvas) hline(x0, x1, y float64, r rune, k cellKind) {
	c0, row := c.project(x0, y)
	c1, _ := c.project(x1, y)
	for col := c0; col <= c1; col++ {
		c.set(col, row, r, k)
	}
}

// circle fills cells whose midpoint lies inside the circle. A circle smaller
// than one cell still marks the cell under its center.
func (c *canvas) circle(cx, cy, radius float64, r rune, k cellKind) {
	col, row := c.project(cx, cy)
	c.set(col, row, r, k)
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			x, y := c.center(col, row)
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				c.set(col, row, r, k)
			}
		}
	}
}

func (c *canvas) text(x, y float64, s string, k cellKind) {
	col, row := c.project(x, y)
	if col < 0 {
		col = 0
	}
	if room := c.cols - col; room > 0 {
		s = truncate.StringWithTail(s, uint(room), "…")
	}
	for _, r := range s {
		c.set(col, row, r, k)
		col++
	}
}

func (c *canvas) render(p palette) string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		start := 0
		for col := 1; col <= c.cols; col++ {
			if col < c.cols && c.kinds[row][col] == c.kinds[row][start] {
				continue
			}
			b.WriteString(p[c.kinds[row][start]].Render(string(c.runes[row][start:col])))
			start = col
		}
		if row < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Render draws one frame of snap as seen at now onto a cols x rows grid.
func Render(snap Snapshot, now time.Time, cols, rows int) string {
	return renderFrame(newPalette(lipgloss.DefaultRenderer()), snap, now, cols, rows)
}

func renderFrame(p palette, snap Snapshot, now time.Time, cols, rows int) string {
	if cols < 1 || rows < 1 {
		return ""
	}
	c := newCanvas(cols, rows)

	c.fillRect(0, Height-GroundHeight, Width, Height, '▒', cellGround)

	c.hline(0, Width-1, Height/2-TargetHalfSpan, '─', cellTarget)
	c.hline(0, Width-1, Height/2+TargetHalfSpan, '─', cellTarget)

	c.circle(DroneX, snap.Y, DroneSize, '█', cellBody)
	c.hline(DroneX-DroneSize, DroneX+DroneSize, snap.Y, '━', cellProp)
	c.circle(DroneX-DroneSize, snap.Y, HubRadius, 'o', cellHub)
	c.circle(DroneX+DroneSize, snap.Y, HubRadius, 'o', cellHub)

	c.text(Width/2-200, 10, instructions, cellText)
	c.text(10, 10, fmt.Sprintf("Blinks: %d", snap.Blinks), cellText)
	c.text(10, 50, fmt.Sprintf("Altitude: %d", Altitude(snap.Y)), cellText)

	if Flashing(snap.LastBlink, now) {
		c.circle(Width-50, 50, 30, '●', cellFlash)
		c.text(Width-80, 90, "BLINK!", cellFlashText)
	}
	return c.render(p)
}
