package gui

import (
	"fmt"
	"image"
	"image/color"

	"github.com/san-kum/pendulab/internal/control"
	"github.com/san-kum/pendulab/internal/driver"
	"github.com/san-kum/pendulab/internal/registry"
)

// hudLines describes every pendulum, marking the selected one.
func hudLines(p *control.Panel, d *driver.Driver) []string {
	lines := []string{fmt.Sprintf("frame %d  zoom %.2f  %s", d.Frame(), d.Zoom(), d.Integrator().Name())}
	sel, _ := p.SelectedID()
	d.Registry().Each(func(in *registry.Instance) {
		mark := " "
		if in.ID == sel {
			mark = ">"
		}
		lines = append(lines, fmt.Sprintf("%s %-4s l %3.0f/%3.0f  m %4.1f/%4.1f",
			mark, in.ID, in.Params.L1, in.Params.L2, in.Params.M1, in.Params.M2))
	})
	if dist, ok := p.Spread(); ok {
		lines = append(lines, fmt.Sprintf("spread %.2f", dist))
	}
	return lines
}

// rgbaPixels unpacks img into buf, growing it when needed.
func rgbaPixels(img *image.RGBA, buf []color.RGBA) []color.RGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if cap(buf) < w*h {
		buf = make([]color.RGBA, w*h)
	}
	buf = buf[:w*h]
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			buf[y*w+x] = color.RGBA{R: row[x*4], G: row[x*4+1], B: row[x*4+2], A: row[x*4+3]}
		}
	}
	return buf
}
