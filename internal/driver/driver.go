// Package driver schedules simulation frames.
//
// A Driver is a small state machine (stopped, running, paused) around a
// registry, a surface and an integrator. Every scheduled tick carries the
// Token that was current when it was scheduled; stopping or restarting
// bumps the token so ticks scheduled earlier become no-ops. Front-ends
// own the actual timer: a bubbletea tea.Tick, a raylib frame loop or Loop.
package driver

import (
	"log/slog"
	"math"

	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/registry"
	"github.com/san-kum/pendulab/internal/surface"
)

const (
	MinZoom = 0.1
	MaxZoom = 10.0
)

type State int

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Token identifies a simulation epoch.
type Token uint64

type Driver struct {
	reg    *registry.Registry
	surf   *surface.Manager
	integ  integrators.Integrator
	logger *slog.Logger

	state State
	token Token
	zoom  float64
	frame int
}

func New(reg *registry.Registry, surf *surface.Manager, integ integrators.Integrator, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	if integ == nil {
		integ = integrators.NewSemiImplicitEuler()
	}
	return &Driver{
		reg:    reg,
		surf:   surf,
		integ:  integ,
		logger: logger,
		zoom:   1,
	}
}

func (d *Driver) Registry() *registry.Registry       { return d.reg }
func (d *Driver) Surface() *surface.Manager          { return d.surf }
func (d *Driver) Integrator() integrators.Integrator { return d.integ }
func (d *Driver) State() State                       { return d.state }
func (d *Driver) Token() Token                       { return d.token }
func (d *Driver) Zoom() float64                      { return d.zoom }

// Frame counts integration steps since the last restart.
func (d *Driver) Frame() int { return d.frame }

func (d *Driver) SetIntegrator(integ integrators.Integrator) {
	if integ != nil {
		d.integ = integ
	}
}

// SetZoom clamps z to [MinZoom, MaxZoom].
func (d *Driver) SetZoom(z float64) {
	switch {
	case math.IsNaN(z):
		return
	case z < MinZoom:
		z = MinZoom
	case z > MaxZoom:
		z = MaxZoom
	}
	d.zoom = z
}

// Start begins a new epoch if the driver is stopped and returns the token
// to schedule the first tick with. On a started driver it returns the
// current token unchanged.
func (d *Driver) Start() Token {
	if d.state != Stopped {
		return d.token
	}
	d.token++
	d.state = Running
	d.logger.Debug("driver started", "token", d.token)
	return d.token
}

func (d *Driver) Pause() {
	if d.state == Running {
		d.state = Paused
		d.logger.Debug("driver paused", "frame", d.frame)
	}
}

func (d *Driver) Resume() {
	if d.state == Paused {
		d.state = Running
		d.logger.Debug("driver resumed", "frame", d.frame)
	}
}

func (d *Driver) SetRunning(running bool) {
	if running {
		d.Resume()
	} else {
		d.Pause()
	}
}

// Toggle flips between running and paused.
func (d *Driver) Toggle() {
	d.SetRunning(d.state == Paused)
}

// Stop cancels every pending tick.
func (d *Driver) Stop() {
	d.token++
	d.state = Stopped
	d.logger.Debug("driver stopped", "token", d.token)
}

// Restart cancels pending ticks, reseeds every instance and starts a new
// epoch. The driver is running afterwards, even if it was paused.
func (d *Driver) Restart() Token {
	d.Stop()
	d.reg.RestartAll()
	d.frame = 0
	tok := d.Start()
	d.logger.Info("simulation restarted", "instances", d.reg.Len(), "token", tok)
	return tok
}

// Tick runs one frame for tok. A stale token, or any token while stopped,
// is ignored and reports false. A running driver integrates one step; a
// paused one only redraws.
func (d *Driver) Tick(tok Token) (Token, bool) {
	if tok != d.token || d.state == Stopped {
		return d.token, false
	}
	if d.state == Running {
		d.reg.Step(d.integ)
		d.frame++
	}
	if d.surf != nil {
		d.surf.Render(d.reg, d.zoom)
	}
	return tok, true
}
