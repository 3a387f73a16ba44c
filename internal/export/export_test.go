package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"image/color"
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/pendulab/internal/driver"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/registry"
	"github.com/san-kum/pendulab/internal/surface"
)

func newScene(ids ...string) *registry.Registry {
	reg := registry.New()
	specs := make([]registry.Spec, len(ids))
	for i, id := range ids {
		specs[i] = registry.Spec{
			ID:         id,
			Params:     physics.DefaultParams(),
			Appearance: physics.Appearance{TraceColor: "#ff0000", PendulumColor: "#00ff00"},
			Initial:    physics.AnglesFromDegrees(120+float64(i), 120),
		}
	}
	reg.Reconcile(specs)
	return reg
}

func TestGIFRecorderSamplesFrames(t *testing.T) {
	raster := surface.NewRaster(80, 60, color.Black)
	surf := surface.NewManager(raster, nil)
	surf.Resize(80, 60, 1)
	d := driver.New(newScene("a"), surf, nil, nil)
	d.SetZoom(0.2)

	rec := NewGIFRecorder(raster, 3, 30)
	loop := driver.NewLoop(d)
	loop.AddObserver(rec)

	if _, err := loop.Run(context.Background(), 0, 10); err != nil {
		t.Fatal(err)
	}
	// frames 1, 4, 7, 10
	if rec.Frames() != 4 {
		t.Fatalf("captured %d frames, want 4", rec.Frames())
	}

	path := filepath.Join(t.TempDir(), "out.gif")
	if err := rec.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(anim.Image) != 4 || anim.Delay[0] != 10 {
		t.Errorf("decoded %d frames with delay %d", len(anim.Image), anim.Delay[0])
	}
}

func TestGIFRecorderEmpty(t *testing.T) {
	rec := NewGIFRecorder(surface.NewRaster(4, 4, nil), 1, 60)
	if err := rec.WriteFile(filepath.Join(t.TempDir(), "x.gif")); err == nil {
		t.Error("expected error for empty recording")
	}
}

func TestSceneToSVG(t *testing.T) {
	reg := newScene("a", "b")
	pivot := dynamo.Vec2{X: 200, Y: 120}
	for i := 0; i < 5; i++ {
		reg.Each(func(in *registry.Instance) {
			_, bob2 := physics.Bobs(in.Params, in.State, pivot)
			in.Trace.Push(bob2)
			in.State.A1 += 0.1
		})
	}

	svg := SceneToSVG(reg, pivot, 400, 300, "#000000")

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("malformed document: %q", svg[:40])
	}
	if got := strings.Count(svg, `stroke="#ff0000"`); got != 2 {
		t.Errorf("expected 2 trace paths, got %d", got)
	}
	if got := strings.Count(svg, "<circle"); got != 4 {
		t.Errorf("expected 4 bobs, got %d", got)
	}
	if !strings.Contains(svg, `<g id="b">`) {
		t.Error("missing group for instance b")
	}
}

func TestPathDataSkipsNaN(t *testing.T) {
	pts := []dynamo.Vec2{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: math.NaN(), Y: 0}, {X: 3, Y: 3}, {X: 4, Y: 4}}
	got := pathData(pts)
	want := "M1.0,1.0 L2.0,2.0 M3.0,3.0 L4.0,4.0"
	if got != want {
		t.Errorf("pathData = %q, want %q", got, want)
	}
}

func TestReportWriters(t *testing.T) {
	r := &DivergenceReport{
		Integrator: "euler",
		Params:     physics.DefaultParams(),
		Steps:      2,
		Crossing:   -1,
		Distances:  []float64{0.015, 0.02, 0.5},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, r); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 || rows[3][0] != "2" || rows[3][1] != "0.5" {
		t.Errorf("unexpected rows: %v", rows)
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteReportFile(path, r); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded DivergenceReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Crossing != -1 || len(decoded.Distances) != 3 {
		t.Errorf("decoded report = %+v", decoded)
	}
}
