package export

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"os"

	"github.com/san-kum/pendulab/internal/driver"
)

// Snapshotter is a painter that can copy its current frame.
type Snapshotter interface {
	Snapshot() *image.RGBA
}

// GIFRecorder collects every Nth rendered frame of a raster surface. It
// is meant to be added as a driver.Loop observer.
type GIFRecorder struct {
	src   Snapshotter
	every int
	delay int
	anim  gif.GIF
}

// NewGIFRecorder samples one frame out of every and plays them back at
// fps frames per second.
func NewGIFRecorder(src Snapshotter, every, fps int) *GIFRecorder {
	if every < 1 {
		every = 1
	}
	if fps < 1 {
		fps = 1
	}
	// GIF delays are in hundredths of a second.
	delay := max(100*every/fps, 2)
	return &GIFRecorder{src: src, every: every, delay: delay, anim: gif.GIF{LoopCount: 0}}
}

func (g *GIFRecorder) OnFrame(_ *driver.Driver, frame int) {
	if (frame-1)%g.every != 0 {
		return
	}
	g.anim.Image = append(g.anim.Image, quantize(g.src.Snapshot()))
	g.anim.Delay = append(g.anim.Delay, g.delay)
}

func (g *GIFRecorder) Frames() int { return len(g.anim.Image) }

func (g *GIFRecorder) WriteFile(path string) error {
	if len(g.anim.Image) == 0 {
		return fmt.Errorf("gif: no frames captured")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &g.anim); err != nil {
		f.Close()
		return fmt.Errorf("gif: encode: %w", err)
	}
	return f.Close()
}

func quantize(src *image.RGBA) *image.Paletted {
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(dst, src.Bounds(), src, src.Bounds().Min)
	return dst
}

func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("png: encode: %w", err)
	}
	return f.Close()
}
