package sim

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"blinkdrone/internal/config"
)

const (
	windowTitle   = "Blink-Controlled Drone"
	defaultCols   = 80
	defaultRows   = 24
	minCanvasRows = 1
)

// tickMsg paces the loop; one arrives per tick interval.
type tickMsg time.Time

type tuiModel struct {
	sim      *Simulator
	palette  palette
	help     help.Model
	showHelp bool
	width    int
	height   int
	snap     Snapshot
	now      time.Time
	quitting bool
}

func newTUIModel(s *Simulator, display config.Display) tuiModel {
	return tuiModel{
		sim:      s,
		palette:  newPalette(lipgloss.DefaultRenderer()),
		help:     help.New(),
		showHelp: display.ShowHelp,
		snap:     s.Snapshot(),
		now:      s.Now(),
	}
}

func (m tuiModel) tick() tea.Cmd {
	return tea.Tick(m.sim.tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(windowTitle), m.tick())
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch ParseKey(msg) {
		case ActionBoost:
			m.sim.Boost(SourceKey)
			m.snap = m.sim.Snapshot()
		case ActionQuit:
			m.quitting = true
			return m, tea.Quit
		}
	case tickMsg:
		m.snap = m.sim.Tick()
		m.now = m.sim.Now()
		return m, m.tick()
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.quitting {
		return ""
	}
	cols, rows := m.width, m.height
	if cols <= 0 || rows <= 0 {
		cols, rows = defaultCols, defaultRows
	}
	if m.showHelp {
		rows--
	}
	if rows < minCanvasRows {
		rows = minCanvasRows
	}
	frame := renderFrame(m.palette, m.snap, m.now, cols, rows)
	if m.showHelp {
		frame += "\n" + m.help.View(keys)
	}
	return frame
}

// RunTUI drives the simulator from a bubbletea program until the user quits
// or ctx is cancelled.
func RunTUI(ctx context.Context, s *Simulator, display config.Display) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithFPS(TickRate)}
	if display.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(newTUIModel(s, display), opts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
