package viz

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/harmonica"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/control"
	"github.com/san-kum/pendulab/internal/driver"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/registry"
	"github.com/san-kum/pendulab/internal/surface"
)

const (
	sidebarWidth      = 38
	headerHeight      = 2
	footerHeight      = 2
	divergenceHistory = 240
	lengthStep        = 10.0
	massStep          = 1.0
	zoomFactor        = 1.25
)

// tickMsg carries the token of the epoch that scheduled it.
type tickMsg struct {
	token driver.Token
}

type Model struct {
	cfg    *config.Config
	drv    *driver.Driver
	reg    *registry.Registry
	surf   *surface.Manager
	canvas *surface.Braille
	panel  *control.Panel
	logger *slog.Logger

	keys   keyMap
	help   help.Model
	theme  int
	styles styles

	interval time.Duration
	width    int
	height   int

	// The user zoom is eased toward zoomTarget and multiplied by fitZoom,
	// which keeps the longest pendulum on screen.
	spring     harmonica.Spring
	zoom       float64
	zoomVel    float64
	zoomTarget float64
	fitZoom    float64

	divergence []float64
	status     string
}

// NewModel builds the TUI around a driver whose surface paints on canvas.
func NewModel(cfg *config.Config, drv *driver.Driver, canvas *surface.Braille, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	fps := max(cfg.FPS, 1)
	m := Model{
		cfg:        cfg,
		drv:        drv,
		reg:        drv.Registry(),
		surf:       drv.Surface(),
		canvas:     canvas,
		panel:      control.NewPanel(drv, cfg.RestartOnEdit, logger, nil),
		logger:     logger,
		keys:       defaultKeyMap(),
		help:       help.New(),
		styles:     newStyles(Themes[0]),
		interval:   time.Second / time.Duration(fps),
		spring:     harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		zoom:       cfg.Zoom,
		zoomTarget: cfg.Zoom,
		fitZoom:    1,
	}
	m.applyTheme()
	return m
}

func (m Model) tick(tok driver.Token) tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{token: tok} })
}

func (m Model) Init() tea.Cmd {
	return m.tick(m.drv.Start())
}

// Update handles input events and drives frames.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		m.zoom, m.zoomVel = m.spring.Update(m.zoom, m.zoomVel, m.zoomTarget)
		m.drv.SetZoom(m.fitZoom * m.zoom)

		next, ok := m.drv.Tick(msg.token)
		if !ok {
			// Stale epoch: let this chain die.
			return m, nil
		}
		m.recordDivergence()
		return m, m.tick(next)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handlers mutate m, so the command is computed before m is returned.
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Pause):
		m.drv.Toggle()
	case key.Matches(msg, m.keys.Restart):
		cmd = m.restart()
	case key.Matches(msg, m.keys.Add):
		cmd = m.add()
	case key.Matches(msg, m.keys.Remove):
		if _, ok := m.panel.Remove(); ok {
			m.refit()
		}
	case key.Matches(msg, m.keys.Sync):
		cmd = m.sync()
	case key.Matches(msg, m.keys.Next):
		m.panel.SelectNext()
	case key.Matches(msg, m.keys.Len1Down):
		cmd = m.edit(func(p *physics.Params) { p.L1 -= lengthStep })
	case key.Matches(msg, m.keys.Len1Up):
		cmd = m.edit(func(p *physics.Params) { p.L1 += lengthStep })
	case key.Matches(msg, m.keys.Mass1Up):
		cmd = m.edit(func(p *physics.Params) { p.M1 += massStep })
	case key.Matches(msg, m.keys.Mass1Dn):
		cmd = m.edit(func(p *physics.Params) { p.M1 -= massStep })
	case key.Matches(msg, m.keys.Len2Down):
		cmd = m.edit(func(p *physics.Params) { p.L2 -= lengthStep })
	case key.Matches(msg, m.keys.Len2Up):
		cmd = m.edit(func(p *physics.Params) { p.L2 += lengthStep })
	case key.Matches(msg, m.keys.Mass2Dn):
		cmd = m.edit(func(p *physics.Params) { p.M2 -= massStep })
	case key.Matches(msg, m.keys.Mass2Up):
		cmd = m.edit(func(p *physics.Params) { p.M2 += massStep })
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoomTarget = math.Min(m.zoomTarget*zoomFactor, driver.MaxZoom)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoomTarget = math.Max(m.zoomTarget/zoomFactor, driver.MinZoom)
	case key.Matches(msg, m.keys.Theme):
		m.theme = (m.theme + 1) % len(Themes)
		m.applyTheme()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, cmd
}

func (m *Model) applyTheme() {
	t := Themes[m.theme]
	m.styles = newStyles(t)
	m.help.Styles.ShortKey = m.styles.value
	m.help.Styles.FullKey = m.styles.value
	m.help.Styles.ShortDesc = m.styles.muted
	m.help.Styles.FullDesc = m.styles.muted
	if bg, err := surface.ParseColor(string(t.Background)); err == nil {
		m.canvas.SetBackground(bg)
	}
}

// resize maps the terminal area left of the sidebar onto the surface: one
// logical unit per column and two per row, two dots per logical unit.
func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols := max(w-sidebarWidth-1, 10)
	rows := max(h-headerHeight-footerHeight, 4)

	m.surf.Resize(float64(cols), float64(rows*surface.BrailleRowsPerCell), surface.BrailleDPR)
	m.refit()
	m.logger.Debug("terminal resized", "cols", w, "rows", h, "fit_zoom", m.fitZoom)
}

func (m *Model) refit() {
	m.fitZoom = m.panel.FitZoom(m.surf.LogicalSize())
}

func (m *Model) restart() tea.Cmd {
	m.divergence = m.divergence[:0]
	return m.tick(m.panel.Restart())
}

func (m *Model) add() tea.Cmd {
	if _, err := m.panel.Add(); err != nil {
		m.status = err.Error()
		return nil
	}
	m.refit()
	return nil
}

func (m *Model) sync() tea.Cmd {
	tok, err := m.panel.Sync()
	if err != nil {
		m.status = err.Error()
		return nil
	}
	m.refit()
	m.divergence = m.divergence[:0]
	return m.tick(tok)
}

func (m *Model) edit(fn func(*physics.Params)) tea.Cmd {
	tok, restarted, err := m.panel.Edit(fn)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	m.refit()
	if !restarted {
		return nil
	}
	m.divergence = m.divergence[:0]
	return m.tick(tok)
}

func (m *Model) recordDivergence() {
	d, ok := m.panel.Spread()
	if !ok {
		return
	}
	m.divergence = append(m.divergence, d)
	if len(m.divergence) > divergenceHistory {
		m.divergence = m.divergence[1:]
	}
}

// View renders the canvas with the sidebar on its right.
func (m Model) View() string {
	status := m.styles.running.Render("RUNNING")
	if m.drv.State() == driver.Paused {
		status = m.styles.paused.Render("PAUSED")
	}
	header := m.styles.header.Render(fmt.Sprintf("PENDULAB  %s  frame %d  zoom %.2f",
		status, m.drv.Frame(), m.zoom))

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.String(), m.sidebar())
	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = m.styles.warning.Render(m.status) + "\n" + footer
	}
	return header + "\n" + main + "\n" + footer
}

func (m Model) sidebar() string {
	var s strings.Builder
	width := sidebarWidth - 4

	i := 0
	m.reg.Each(func(in *registry.Instance) {
		name := fmt.Sprintf("%-6s", in.ID)
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(in.Appearance.TraceColor)).Render("●")
		if i == m.panel.Selected() {
			s.WriteString(swatch + " " + m.styles.selected.Render("> "+name) + "\n")
		} else {
			s.WriteString(swatch + " " + m.styles.value.Render("  "+name) + "\n")
		}
		p := in.Params
		s.WriteString(m.styles.label.Render("arms") + m.styles.value.Render(fmt.Sprintf("%.0f / %.0f", p.L1, p.L2)) + "\n")
		s.WriteString(m.styles.label.Render("masses") + m.styles.value.Render(fmt.Sprintf("%.0f / %.0f", p.M1, p.M2)) + "\n")
		if in.State.IsValid() {
			s.WriteString(m.styles.label.Render("energy") + m.styles.value.Render(fmt.Sprintf("%.1f", physics.Energy(p, in.State))) + "\n")
		} else {
			s.WriteString(m.styles.label.Render("state") + m.styles.warning.Render("diverged (NaN)") + "\n")
		}
		i++
	})
	if i == 0 {
		s.WriteString(m.styles.muted.Render("no pendulums, press a") + "\n")
	}

	s.WriteString(m.styles.separator(width) + "\n")
	s.WriteString(m.styles.label.Render("spread") + "\n")
	s.WriteString(m.styles.sparkline(m.divergence, width) + "\n")
	if n := len(m.divergence); n > 0 {
		s.WriteString(m.styles.muted.Render(fmt.Sprintf("%.3f px", m.divergence[n-1])) + "\n")
	}

	return m.styles.panel.Width(sidebarWidth).Render(s.String())
}
