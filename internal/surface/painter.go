// Package surface turns registry state into pixels.
//
// A Manager owns one Painter and knows the logical size of the drawing
// area, its device pixel ratio and the derived physical size. Painters are
// the backends: a software raster built on tfriedel6/canvas and a braille
// dot grid for terminals.
package surface

import (
	"image/color"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// Stroke describes how a polyline is drawn. Width is in user units and is
// scaled together with the geometry.
type Stroke struct {
	Color color.Color
	Width float64
	Alpha float64
}

// Painter is a 2D drawing backend. Coordinates passed to StrokePolyline and
// FillCircle are user units; the painter multiplies them by the scale set
// through SetScale to obtain physical pixels. Painters must not retain
// the pts slice after the call returns.
type Painter interface {
	SetSize(w, h int)
	Size() (w, h int)
	Clear()
	SetScale(s float64)
	StrokePolyline(pts []dynamo.Vec2, st Stroke)
	FillCircle(center dynamo.Vec2, r float64, c color.Color)
}
