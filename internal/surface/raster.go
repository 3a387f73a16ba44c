package surface

import (
	"image"
	"image/color"
	"math"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// Raster paints into an in-memory RGBA image using the software backend
// of tfriedel6/canvas. It needs no window or GPU.
type Raster struct {
	backend    *softwarebackend.SoftwareBackend
	cv         *canvas.Canvas
	background string
	w, h       int
	scale      float64
}

func NewRaster(w, h int, background color.Color) *Raster {
	w, h = max(w, 1), max(h, 1)
	if background == nil {
		background = color.Black
	}
	backend := softwarebackend.New(w, h)
	return &Raster{
		backend:    backend,
		cv:         canvas.New(backend),
		background: Hex(background),
		w:          w,
		h:          h,
		scale:      1,
	}
}

func (r *Raster) SetSize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if w == r.w && h == r.h {
		return
	}
	r.w, r.h = w, h
	r.backend.SetSize(w, h)
	r.cv = canvas.New(r.backend)
	r.cv.SetTransform(r.scale, 0, 0, r.scale, 0, 0)
}

func (r *Raster) Size() (int, int) { return r.w, r.h }

// Clear fills the whole physical buffer with the background, independent of
// the current scale.
func (r *Raster) Clear() {
	r.cv.SetTransform(1, 0, 0, 1, 0, 0)
	r.cv.SetGlobalAlpha(1)
	r.cv.SetFillStyle(r.background)
	r.cv.FillRect(0, 0, float64(r.w), float64(r.h))
	r.cv.SetTransform(r.scale, 0, 0, r.scale, 0, 0)
}

func (r *Raster) SetScale(s float64) {
	r.scale = s
	r.cv.SetTransform(s, 0, 0, s, 0, 0)
}

func (r *Raster) StrokePolyline(pts []dynamo.Vec2, st Stroke) {
	if len(pts) < 2 {
		return
	}
	for _, p := range pts {
		if !p.IsValid() {
			return
		}
	}
	r.cv.SetGlobalAlpha(st.Alpha)
	r.cv.SetStrokeStyle(Hex(st.Color))
	r.cv.SetLineWidth(st.Width)

	r.cv.BeginPath()
	r.cv.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		r.cv.LineTo(p.X, p.Y)
	}
	r.cv.Stroke()
	r.cv.SetGlobalAlpha(1)
}

func (r *Raster) FillCircle(center dynamo.Vec2, radius float64, c color.Color) {
	if radius <= 0 || !center.IsValid() {
		return
	}
	r.cv.SetFillStyle(Hex(c))
	r.cv.BeginPath()
	r.cv.Arc(center.X, center.Y, radius, 0, 2*math.Pi, false)
	r.cv.ClosePath()
	r.cv.Fill()
}

// Image exposes the backing buffer. It is overwritten by the next frame.
func (r *Raster) Image() *image.RGBA {
	return r.backend.Image
}

// Snapshot copies the current frame.
func (r *Raster) Snapshot() *image.RGBA {
	src := r.backend.Image
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
