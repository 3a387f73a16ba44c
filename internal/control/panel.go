package control

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/pendulab/internal/driver"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/registry"
)

type Panel struct {
	drv           *driver.Driver
	reg           *registry.Registry
	logger        *slog.Logger
	rng           *rand.Rand
	restartOnEdit bool

	selected int
	nextID   int
}

// NewPanel wraps drv. A nil rng is seeded from the clock.
func NewPanel(drv *driver.Driver, restartOnEdit bool, logger *slog.Logger, rng *rand.Rand) *Panel {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Panel{
		drv:           drv,
		reg:           drv.Registry(),
		logger:        logger,
		rng:           rng,
		restartOnEdit: restartOnEdit,
		nextID:        drv.Registry().Len() + 1,
	}
}

func (p *Panel) Selected() int { return p.selected }

func (p *Panel) SelectedID() (string, bool) {
	ids := p.reg.IDs()
	if p.selected < 0 || p.selected >= len(ids) {
		return "", false
	}
	return ids[p.selected], true
}

func (p *Panel) SelectNext() {
	if n := p.reg.Len(); n > 0 {
		p.selected = (p.selected + 1) % n
	}
}

func (p *Panel) Select(i int) {
	if i >= 0 && i < p.reg.Len() {
		p.selected = i
	}
}

// Restart reseeds everything on a fresh epoch and returns its token.
func (p *Panel) Restart() driver.Token {
	return p.drv.Restart()
}

// Add appends a pendulum with random physics and initial angles inside
// the allowed ranges and selects it.
func (p *Panel) Add() (string, error) {
	id := p.freeID()
	spec := registry.Spec{
		ID: id,
		Params: physics.Params{
			L1: p.randIn(physics.LengthRange),
			L2: p.randIn(physics.LengthRange),
			M1: p.randIn(physics.MassRange),
			M2: p.randIn(physics.MassRange),
		},
		Appearance: physics.Appearance{
			TraceColor:    colorful.FastHappyColor().Hex(),
			PendulumColor: physics.DefaultAppearance().PendulumColor,
		},
		Initial: physics.AnglesFromDegrees(
			p.randIn(physics.AngleRange),
			p.randIn(physics.AngleRange),
		),
	}
	if _, err := p.reg.Add(spec); err != nil {
		return "", err
	}
	p.selected = p.reg.Len() - 1
	p.logger.Info("pendulum added", "id", id, "l1", spec.Params.L1, "l2", spec.Params.L2,
		"m1", spec.Params.M1, "m2", spec.Params.M2)
	return id, nil
}

func (p *Panel) freeID() string {
	for {
		id := fmt.Sprintf("p%d", p.nextID)
		p.nextID++
		if _, taken := p.reg.Get(id); !taken {
			return id
		}
	}
}

func (p *Panel) randIn(r dynamo.Range) float64 {
	return r.Min + p.rng.Float64()*(r.Max-r.Min)
}

// Remove drops the selected pendulum and reports its id.
func (p *Panel) Remove() (string, bool) {
	id, ok := p.SelectedID()
	if !ok {
		return "", false
	}
	p.reg.Remove(id)
	if p.selected >= p.reg.Len() {
		p.selected = max(p.reg.Len()-1, 0)
	}
	p.logger.Info("pendulum removed", "id", id)
	return id, true
}

// Sync copies the selected pendulum's physics to every other one and
// restarts on a new epoch.
func (p *Panel) Sync() (driver.Token, error) {
	id, ok := p.SelectedID()
	if !ok {
		return p.drv.Token(), fmt.Errorf("sync: %w: nothing selected", dynamo.ErrUnknownInstance)
	}
	if err := p.reg.SyncParams(id); err != nil {
		return p.drv.Token(), err
	}
	p.logger.Info("physics synced", "source", id)
	return p.drv.Restart(), nil
}

// Edit applies fn to the selected pendulum's physics, clamped to the
// allowed ranges. It restarts when restart-on-edit is enabled and reports
// the token to schedule.
func (p *Panel) Edit(fn func(*physics.Params)) (driver.Token, bool, error) {
	id, ok := p.SelectedID()
	if !ok {
		return p.drv.Token(), false, fmt.Errorf("edit: %w: nothing selected", dynamo.ErrUnknownInstance)
	}
	err := p.reg.Update(id, func(in *registry.Instance) {
		params := in.Params
		fn(&params)
		in.Params = params.Clamp()
	})
	if err != nil {
		return p.drv.Token(), false, err
	}
	if !p.restartOnEdit {
		return p.drv.Token(), false, nil
	}
	return p.drv.Restart(), true, nil
}

// Recolor changes the selected pendulum's colors without touching its
// state. Empty strings keep the current color.
func (p *Panel) Recolor(trace, body string) error {
	id, ok := p.SelectedID()
	if !ok {
		return fmt.Errorf("recolor: %w: nothing selected", dynamo.ErrUnknownInstance)
	}
	for _, hex := range []string{trace, body} {
		if hex == "" {
			continue
		}
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%w: %q", dynamo.ErrInvalidColor, hex)
		}
	}
	return p.reg.Update(id, func(in *registry.Instance) {
		if trace != "" {
			in.Appearance.TraceColor = trace
		}
		if body != "" {
			in.Appearance.PendulumColor = body
		}
	})
}

// Reach is the longest total arm length, zero when empty.
func (p *Panel) Reach() float64 {
	reach := 0.0
	p.reg.Each(func(in *registry.Instance) {
		reach = math.Max(reach, in.Params.L1+in.Params.L2)
	})
	return reach
}

// FitZoom returns the zoom at which the longest pendulum spans 95% of the
// room below or beside the pivot on a logical w x h surface.
func (p *Panel) FitZoom(w, h float64) float64 {
	reach := p.Reach()
	if reach == 0 || w <= 0 || h <= 0 {
		return 1
	}
	room := math.Min(w/2, h*(1-1/2.5))
	return 0.95 * room / reach
}

// Spread is the outer bob distance between the first two pendulums.
func (p *Panel) Spread() (float64, bool) {
	ids := p.reg.IDs()
	if len(ids) < 2 {
		return 0, false
	}
	a, _ := p.reg.Get(ids[0])
	b, _ := p.reg.Get(ids[1])
	_, bobA := physics.Bobs(a.Params, a.State, dynamo.Vec2{})
	_, bobB := physics.Bobs(b.Params, b.State, dynamo.Vec2{})
	return bobA.Dist(bobB), true
}
