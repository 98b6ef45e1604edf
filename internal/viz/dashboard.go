package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/vehiclerig/internal/control"
	"github.com/san-kum/vehiclerig/internal/rig"
	"github.com/san-kum/vehiclerig/internal/sim"
)

const historyCapacity = 600

// World is a stepped scene whose bodies can be located for drawing.
type World interface {
	sim.World
	Locator
}

type TickMsg time.Time

// Dashboard drives a rig live: every frame it ticks the rig's behaviors,
// steps the world and records the world's channels.
type Dashboard struct {
	rig    *rig.Rig
	world  World
	params []*control.Param

	dt, t    float64
	selected int
	channel  int
	running  bool
	err      error
	history  [][]float64
	channels []string
	width    int
}

func NewDashboard(r *rig.Rig, world World, dt float64) Dashboard {
	channels := world.Channels()
	return Dashboard{
		rig:      r,
		world:    world,
		params:   r.Controls.Params(),
		dt:       dt,
		running:  true,
		channels: channels,
		history:  make([][]float64, len(channels)),
		width:    100,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Dashboard) Init() tea.Cmd { return tick() }

func (m Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.rig.Controls.Reset()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.params)-1 {
				m.selected++
			}
		case "left", "h":
			m.params[m.selected].Nudge(-1)
		case "right", "l":
			m.params[m.selected].Nudge(1)
		case "tab":
			if len(m.channels) > 0 {
				m.channel = (m.channel + 1) % len(m.channels)
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Dashboard) step() {
	if err := m.rig.Tick(); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.world.Step(m.dt)
	m.t += m.dt

	for i, v := range m.world.Sample() {
		if i >= len(m.history) {
			break
		}
		m.history[i] = append(m.history[i], v)
		if len(m.history[i]) > historyCapacity {
			m.history[i] = m.history[i][1:]
		}
	}
}

func (m Dashboard) View() string {
	var b strings.Builder

	status := StatusRunning.Render("running")
	switch {
	case m.err != nil:
		status = StatusError.Render("error: " + m.err.Error())
	case !m.running:
		status = StatusPaused.Render("paused")
	}
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%s  t=%.2fs", rig.RootName, m.t)) + "  " + status + "\n\n")

	side := RenderSide(m.world, m.rig, max(m.width/2-4, 20), 10)

	var controls strings.Builder
	for i, p := range m.params {
		line := MetricLabel.Render(p.Name) + MetricValue.Render(fmt.Sprintf("%8.2f", p.Value()))
		if i == m.selected {
			line = ActiveParam.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		controls.WriteString(line + "\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, Panel.Render(side), Panel.Render(controls.String())))
	b.WriteString("\n")

	if len(m.channels) > 0 {
		name := m.channels[m.channel]
		series := m.history[m.channel]
		if len(series) > 1 {
			b.WriteString(asciigraph.Plot(series,
				asciigraph.Height(8),
				asciigraph.Width(max(m.width-12, 20)),
				asciigraph.Caption(name)))
		} else {
			b.WriteString(Subtle.Render(name + ": waiting for samples"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + KeyHint.Render("space pause  j/k select  h/l adjust  r reset  tab channel  q quit") + "\n")
	return b.String()
}

// Time returns the simulated time shown by the dashboard.
func (m Dashboard) Time() float64 { return m.t }

// Err returns the behavior error that stopped the simulation, if any.
func (m Dashboard) Err() error { return m.err }

func RunDashboard(r *rig.Rig, world World, dt float64) error {
	_, err := tea.NewProgram(NewDashboard(r, world, dt), tea.WithAltScreen()).Run()
	return err
}
