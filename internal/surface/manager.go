package surface

import (
	"image/color"
	"log/slog"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/registry"
)

const (
	TraceAlpha = 0.7
	TraceWidth = 2.0
	ArmWidth   = 3.0

	// The pivot sits at half the width and 1/2.5 of the height.
	pivotXDiv = 2.0
	pivotYDiv = 2.5
)

var fallbackColor color.Color = colorful.Color{R: 1, G: 1, B: 1}

type Manager struct {
	painter  Painter
	logger   *slog.Logger
	logicalW float64
	logicalH float64
	dpr      float64
	physW    int
	physH    int

	colors colorCache
	arm    [3]dynamo.Vec2
	line   []dynamo.Vec2
}

// NewManager creates a manager around p. A nil painter yields a manager on
// which Resize and Render do nothing.
func NewManager(p Painter, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		painter: p,
		logger:  logger,
		dpr:     1,
		colors:  make(colorCache),
	}
	if p != nil {
		m.physW, m.physH = p.Size()
		m.logicalW, m.logicalH = float64(m.physW), float64(m.physH)
	}
	return m
}

func (m *Manager) Painter() Painter { return m.painter }

func (m *Manager) LogicalSize() (w, h float64) { return m.logicalW, m.logicalH }
func (m *Manager) PhysicalSize() (w, h int)    { return m.physW, m.physH }
func (m *Manager) DPR() float64                { return m.dpr }

// Resize records the new logical size and device pixel ratio and resizes
// the painter's backing buffer to round(logical*dpr). Non-positive sizes
// are ignored; a non-positive dpr is treated as 1.
func (m *Manager) Resize(logicalW, logicalH, dpr float64) {
	if m.painter == nil {
		return
	}
	if logicalW <= 0 || logicalH <= 0 {
		m.logger.Debug("ignoring empty resize", "w", logicalW, "h", logicalH)
		return
	}
	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}

	m.logicalW, m.logicalH, m.dpr = logicalW, logicalH, dpr
	m.physW = int(math.Round(logicalW * dpr))
	m.physH = int(math.Round(logicalH * dpr))
	m.painter.SetSize(m.physW, m.physH)

	m.logger.Debug("surface resized",
		"logical_w", logicalW, "logical_h", logicalH, "dpr", dpr,
		"physical_w", m.physW, "physical_h", m.physH)
}

// Pivot returns the fixed suspension point in zoomed user units.
func (m *Manager) Pivot(zoom float64) dynamo.Vec2 {
	return dynamo.Vec2{
		X: m.logicalW / (pivotXDiv * zoom),
		Y: m.logicalH / (pivotYDiv * zoom),
	}
}

// Render draws one frame. It also appends each instance's outer bob
// position to its trace, so it must be called exactly once per frame.
func (m *Manager) Render(reg *registry.Registry, zoom float64) {
	if m.painter == nil {
		return
	}

	m.painter.Clear()
	m.painter.SetScale(m.dpr * zoom)
	pivot := m.Pivot(zoom)

	reg.Each(func(in *registry.Instance) {
		bob1, bob2 := physics.Bobs(in.Params, in.State, pivot)
		in.Trace.Push(bob2)

		traceColor := m.colors.get(in.Appearance.TraceColor, fallbackColor)
		bodyColor := m.colors.get(in.Appearance.PendulumColor, fallbackColor)

		if in.Trace.Len() >= 2 {
			m.line = m.line[:0]
			in.Trace.Each(func(_ int, p dynamo.Vec2) bool {
				m.line = append(m.line, p)
				return true
			})
			m.painter.StrokePolyline(m.line, Stroke{Color: traceColor, Width: TraceWidth, Alpha: TraceAlpha})
		}

		m.arm = [3]dynamo.Vec2{pivot, bob1, bob2}
		m.painter.StrokePolyline(m.arm[:], Stroke{Color: bodyColor, Width: ArmWidth, Alpha: 1})
		m.painter.FillCircle(bob1, in.Params.M1, bodyColor)
		m.painter.FillCircle(bob2, in.Params.M2, bodyColor)
	})
}
