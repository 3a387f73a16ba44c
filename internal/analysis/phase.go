package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/physics"
)

// PhasePortrait is a 2D projection of a trajectory.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []dynamo.Vec2
}

// WrapAngle maps a to [-pi, pi].
func WrapAngle(a float64) float64 {
	return math.Remainder(a, 2*math.Pi)
}

// GeneratePhasePortrait records (angle 1, angular velocity 1) after every
// step. Angles are wrapped so a pendulum that loops over the top stays on
// the plot.
func GeneratePhasePortrait(integ integrators.Integrator, p physics.Params, s physics.State, steps int) *PhasePortrait {
	portrait := &PhasePortrait{
		XLabel: "a1",
		YLabel: "v1",
		Points: make([]dynamo.Vec2, 0, max(steps, 0)),
	}
	for i := 0; i < steps; i++ {
		s = integ.Step(p, s)
		portrait.Points = append(portrait.Points, dynamo.Vec2{X: WrapAngle(s.A1), Y: s.V1})
	}
	return portrait
}

// GeneratePoincareSection records (angle 2, angular velocity 2) each time
// the inner arm swings upward through the vertical, interpolated to the
// crossing.
func GeneratePoincareSection(integ integrators.Integrator, p physics.Params, s physics.State, steps int) *PhasePortrait {
	section := &PhasePortrait{XLabel: "a2", YLabel: "v2"}

	prev := s
	for i := 0; i < steps; i++ {
		s = integ.Step(p, s)
		a0, a1 := WrapAngle(prev.A1), WrapAngle(s.A1)

		// A jump of more than pi is the wrap at the bottom, not a crossing.
		if a0 < 0 && a1 >= 0 && a1-a0 < math.Pi {
			frac := -a0 / (a1 - a0)
			section.Points = append(section.Points, dynamo.Vec2{
				X: WrapAngle(prev.A2 + (s.A2-prev.A2)*frac),
				Y: prev.V2 + (s.V2-prev.V2)*frac,
			})
		}
		prev = s
	}
	return section
}

// ASCII plots the portrait on a width x height character grid with 10%
// padding, drawing the axes where they are in view.
func (pp *PhasePortrait) ASCII(width, height int) string {
	if pp == nil || len(pp.Points) == 0 || width < 2 || height < 2 {
		return "no points\n"
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range pp.Points {
		if !p.IsValid() {
			continue
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if math.IsInf(minX, 1) {
		return "no points\n"
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if c := col(0); minX <= 0 && c >= 0 && c < width {
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if r := row(0); minY <= 0 && r >= 0 && r < height {
		for c := range grid[r] {
			if grid[r][c] == '│' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '─'
			}
		}
	}

	for _, p := range pp.Points {
		if !p.IsValid() {
			continue
		}
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteByte('\n')
	}
	return sb.String()
}
