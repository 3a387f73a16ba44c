package surface

import (
	"image/color"
	"testing"

	"github.com/san-kum/pendulab/internal/dynamo"
)

func TestRasterClearAndDisc(t *testing.T) {
	bg := color.RGBA{10, 20, 30, 255}
	r := NewRaster(64, 64, bg)

	r.Clear()
	if got := r.Image().RGBAAt(5, 5); got != bg {
		t.Fatalf("background pixel = %v, want %v", got, bg)
	}

	r.SetScale(2)
	r.FillCircle(dynamo.Vec2{X: 16, Y: 16}, 5, color.RGBA{255, 0, 0, 255})

	if got := r.Image().RGBAAt(32, 32); got.R < 200 || got.G > 50 {
		t.Errorf("disc center pixel = %v, want red", got)
	}
	if got := r.Image().RGBAAt(2, 2); got != bg {
		t.Errorf("pixel outside disc = %v, want background", got)
	}
}

func TestRasterResize(t *testing.T) {
	r := NewRaster(10, 10, nil)
	r.SetSize(40, 30)

	if w, h := r.Size(); w != 40 || h != 30 {
		t.Errorf("Size() = %dx%d, want 40x30", w, h)
	}
	if b := r.Image().Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("image bounds = %v", b)
	}
}

func TestRasterSnapshotIsCopy(t *testing.T) {
	r := NewRaster(8, 8, color.Black)
	r.Clear()
	snap := r.Snapshot()

	r.SetScale(1)
	r.FillCircle(dynamo.Vec2{X: 4, Y: 4}, 4, color.White)

	if got := snap.RGBAAt(4, 4); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("snapshot changed after drawing: %v", got)
	}
}
