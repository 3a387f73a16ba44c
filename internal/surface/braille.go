package surface

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotMask = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blankCell rune = 0x2800

const (
	// BrailleDPR maps a logical grid of cols x rows*2 onto the dot grid.
	BrailleDPR = 2.0
	// BrailleRowsPerCell is the logical height of one terminal row.
	BrailleRowsPerCell = 2
)

// Braille is a Painter over a grid of terminal cells. Its physical pixels
// are braille dots, so a terminal of cols x rows cells has cols*2 x rows*4
// pixels. Each cell keeps the color of the last dot drawn into it.
type Braille struct {
	cols, rows int
	w, h       int
	cells      []rune
	colors     []string
	background color.Color
	scale      float64
}

func NewBraille(cols, rows int, background color.Color) *Braille {
	if background == nil {
		background = color.Black
	}
	b := &Braille{background: background, scale: 1}
	b.SetSize(cols*2, rows*4)
	return b
}

// SetSize takes the size in dots and rounds up to whole cells.
func (b *Braille) SetSize(w, h int) {
	w, h = max(w, 2), max(h, 4)
	b.w, b.h = w, h
	b.cols = (w + 1) / 2
	b.rows = (h + 3) / 4
	n := b.cols * b.rows
	if cap(b.cells) >= n {
		b.cells = b.cells[:n]
		b.colors = b.colors[:n]
	} else {
		b.cells = make([]rune, n)
		b.colors = make([]string, n)
	}
	b.Clear()
}

func (b *Braille) Size() (int, int) { return b.w, b.h }

// Cells returns the grid size in terminal cells.
func (b *Braille) Cells() (cols, rows int) { return b.cols, b.rows }

func (b *Braille) Clear() {
	for i := range b.cells {
		b.cells[i] = blankCell
		b.colors[i] = ""
	}
}

func (b *Braille) SetScale(s float64) { b.scale = s }

// SetBackground sets the color translucent strokes are blended toward.
func (b *Braille) SetBackground(c color.Color) {
	if c != nil {
		b.background = c
	}
}

// Set lights the dot at physical coordinates (x, y).
func (b *Braille) Set(x, y int, hex string) {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return
	}
	i := (y/4)*b.cols + x/2
	b.cells[i] |= dotMask[y%4][x%2]
	b.colors[i] = hex
}

// Dot reports whether the dot at (x, y) is lit.
func (b *Braille) Dot(x, y int) bool {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return false
	}
	return b.cells[(y/4)*b.cols+x/2]&dotMask[y%4][x%2] != 0
}

// dotLimit bounds coordinates handed to the rasterizer so a NaN or
// runaway state cannot stall a frame.
const dotLimit = 1 << 16

func (b *Braille) toDots(p dynamo.Vec2) (x, y int, ok bool) {
	fx, fy := p.X*b.scale, p.Y*b.scale
	if !(math.Abs(fx) < dotLimit && math.Abs(fy) < dotLimit) {
		return 0, 0, false
	}
	return int(math.Round(fx)), int(math.Round(fy)), true
}

// Line thickness is always one dot; the terminal has too few pixels to
// make wider strokes readable. Alpha is applied by blending toward the
// background color.
func (b *Braille) StrokePolyline(pts []dynamo.Vec2, st Stroke) {
	if len(pts) < 2 {
		return
	}
	hex := Hex(Blend(b.background, st.Color, st.Alpha))
	x0, y0, ok0 := b.toDots(pts[0])
	for _, p := range pts[1:] {
		x1, y1, ok1 := b.toDots(p)
		if ok0 && ok1 {
			b.line(x0, y0, x1, y1, hex)
		}
		x0, y0, ok0 = x1, y1, ok1
	}
}

func (b *Braille) FillCircle(center dynamo.Vec2, r float64, c color.Color) {
	hex := Hex(c)
	cx, cy := center.X*b.scale, center.Y*b.scale
	rr := math.Max(r*b.scale, 0.5)
	if !(math.Abs(cx) < dotLimit && math.Abs(cy) < dotLimit && rr < dotLimit) {
		return
	}

	for y := int(math.Floor(cy - rr)); y <= int(math.Ceil(cy+rr)); y++ {
		for x := int(math.Floor(cx - rr)); x <= int(math.Ceil(cx+rr)); x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= rr*rr {
				b.Set(x, y, hex)
			}
		}
	}
}

// line is Bresenham's algorithm.
func (b *Braille) line(x0, y0, x1, y1 int, hex string) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		b.Set(x0, y0, hex)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Plain renders the grid without color.
func (b *Braille) Plain() string {
	var sb strings.Builder
	for row := 0; row < b.rows; row++ {
		sb.WriteString(string(b.cells[row*b.cols : (row+1)*b.cols]))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String renders the grid with lipgloss, coalescing runs of equal color.
func (b *Braille) String() string {
	var sb strings.Builder
	var run strings.Builder

	for row := 0; row < b.rows; row++ {
		current := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current == "" {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(current)).Render(run.String()))
			}
			run.Reset()
		}

		for col := 0; col < b.cols; col++ {
			i := row*b.cols + col
			hex := b.colors[i]
			if b.cells[i] == blankCell {
				hex = ""
			}
			if hex != current {
				flush()
				current = hex
			}
			run.WriteRune(b.cells[i])
		}
		flush()
		if row < b.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
