package surface

import (
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/registry"
)

type call struct {
	op     string
	w, h   int
	scale  float64
	pts    []dynamo.Vec2
	stroke Stroke
	radius float64
	color  color.Color
}

// recorder is a Painter that logs every call.
type recorder struct {
	w, h  int
	calls []call
}

func (r *recorder) SetSize(w, h int) {
	r.w, r.h = w, h
	r.calls = append(r.calls, call{op: "size", w: w, h: h})
}
func (r *recorder) Size() (int, int) { return r.w, r.h }
func (r *recorder) Clear()           { r.calls = append(r.calls, call{op: "clear"}) }
func (r *recorder) SetScale(s float64) {
	r.calls = append(r.calls, call{op: "scale", scale: s})
}
func (r *recorder) StrokePolyline(pts []dynamo.Vec2, st Stroke) {
	cp := append([]dynamo.Vec2(nil), pts...)
	r.calls = append(r.calls, call{op: "stroke", pts: cp, stroke: st})
}
func (r *recorder) FillCircle(c dynamo.Vec2, radius float64, col color.Color) {
	r.calls = append(r.calls, call{op: "circle", pts: []dynamo.Vec2{c}, radius: radius, color: col})
}

func (r *recorder) ops() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.op
	}
	return out
}

func (r *recorder) reset() { r.calls = nil }

func newRegistry(ids ...string) *registry.Registry {
	reg := registry.New()
	specs := make([]registry.Spec, len(ids))
	for i, id := range ids {
		specs[i] = registry.Spec{
			ID:         id,
			Params:     physics.DefaultParams(),
			Appearance: physics.DefaultAppearance(),
			Initial:    physics.DefaultAngles(),
		}
	}
	reg.Reconcile(specs)
	return reg
}

func TestManagerResize(t *testing.T) {
	tests := []struct {
		name       string
		w, h, dpr  float64
		wantW      int
		wantH      int
		wantDPR    float64
		wantResize bool
	}{
		{"unit dpr", 800, 600, 1, 800, 600, 1, true},
		{"retina", 800, 600, 2, 1600, 1200, 2, true},
		{"fractional dpr rounds", 333, 101, 1.5, 500, 152, 1.5, true},
		{"zero dpr falls back", 400, 300, 0, 400, 300, 1, true},
		{"empty width ignored", 0, 300, 2, 10, 10, 1, false},
		{"negative height ignored", 400, -1, 2, 10, 10, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{w: 10, h: 10}
			m := NewManager(rec, nil)

			m.Resize(tt.w, tt.h, tt.dpr)

			pw, ph := m.PhysicalSize()
			if pw != tt.wantW || ph != tt.wantH {
				t.Errorf("physical size = %dx%d, want %dx%d", pw, ph, tt.wantW, tt.wantH)
			}
			if m.DPR() != tt.wantDPR {
				t.Errorf("dpr = %g, want %g", m.DPR(), tt.wantDPR)
			}
			if got := len(rec.calls) > 0; got != tt.wantResize {
				t.Errorf("painter resized = %v, want %v", got, tt.wantResize)
			}
			if tt.wantResize && (rec.w != tt.wantW || rec.h != tt.wantH) {
				t.Errorf("painter size = %dx%d, want %dx%d", rec.w, rec.h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestManagerReappliesScaleEveryFrame(t *testing.T) {
	rec := &recorder{}
	m := NewManager(rec, nil)
	m.Resize(400, 300, 2)
	reg := newRegistry("a")

	for frame := 0; frame < 3; frame++ {
		rec.reset()
		m.Render(reg, 1.5)

		if len(rec.calls) < 2 || rec.calls[0].op != "clear" || rec.calls[1].op != "scale" {
			t.Fatalf("frame %d: expected clear then scale, got %v", frame, rec.ops())
		}
		if rec.calls[1].scale != 3 {
			t.Errorf("frame %d: scale = %g, want 3", frame, rec.calls[1].scale)
		}
	}

	// A resize between frames changes the scale of the next frame.
	m.Resize(400, 300, 1)
	rec.reset()
	m.Render(reg, 1.5)
	if rec.calls[1].scale != 1.5 {
		t.Errorf("expected scale 1.5 after resize, got %v", rec.calls)
	}
}

func TestManagerDrawOrder(t *testing.T) {
	rec := &recorder{}
	m := NewManager(rec, nil)
	m.Resize(400, 300, 1)
	rec.reset()
	reg := newRegistry("a")

	m.Render(reg, 1)
	// One trace point only: no trace polyline yet.
	if got, want := rec.ops(), []string{"clear", "scale", "stroke", "circle", "circle"}; !slices.Equal(got, want) {
		t.Fatalf("first frame ops = %v, want %v", got, want)
	}

	rec.reset()
	m.Render(reg, 1)
	if got, want := rec.ops(), []string{"clear", "scale", "stroke", "stroke", "circle", "circle"}; !slices.Equal(got, want) {
		t.Fatalf("second frame ops = %v, want %v", got, want)
	}

	traceCall, armCall := rec.calls[2], rec.calls[3]
	if traceCall.stroke.Alpha != TraceAlpha || traceCall.stroke.Width != TraceWidth {
		t.Errorf("trace stroke = %+v", traceCall.stroke)
	}
	if len(traceCall.pts) != 2 {
		t.Errorf("trace points = %d, want 2", len(traceCall.pts))
	}
	if armCall.stroke.Alpha != 1 || armCall.stroke.Width != ArmWidth || len(armCall.pts) != 3 {
		t.Errorf("arm stroke = %+v with %d points", armCall.stroke, len(armCall.pts))
	}

	pivot := m.Pivot(1)
	if armCall.pts[0] != pivot {
		t.Errorf("arm starts at %v, want pivot %v", armCall.pts[0], pivot)
	}
	p := physics.DefaultParams()
	if rec.calls[4].radius != p.M1 || rec.calls[5].radius != p.M2 {
		t.Errorf("bob radii = %g, %g", rec.calls[4].radius, rec.calls[5].radius)
	}
}

func TestManagerPivot(t *testing.T) {
	m := NewManager(&recorder{}, nil)
	m.Resize(1000, 500, 2)

	tests := []struct {
		zoom float64
		want dynamo.Vec2
	}{
		{1, dynamo.Vec2{X: 500, Y: 200}},
		{2, dynamo.Vec2{X: 250, Y: 100}},
		{0.5, dynamo.Vec2{X: 1000, Y: 400}},
	}
	for _, tt := range tests {
		got := m.Pivot(tt.zoom)
		if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
			t.Errorf("Pivot(%g) = %v, want %v", tt.zoom, got, tt.want)
		}
	}
}

func TestManagerSkipsRemovedInstances(t *testing.T) {
	rec := &recorder{}
	m := NewManager(rec, nil)
	m.Resize(400, 300, 1)
	reg := newRegistry("a", "b")

	m.Render(reg, 1)
	reg.Remove("a")
	rec.reset()
	m.Render(reg, 1)

	circles := 0
	for _, c := range rec.calls {
		if c.op == "circle" {
			circles++
		}
	}
	if circles != 2 {
		t.Errorf("expected one instance drawn (2 bobs), got %d circles", circles)
	}
	if _, ok := reg.Get("a"); ok {
		t.Error("removed instance still resolvable")
	}
}

func TestManagerPushesTrace(t *testing.T) {
	m := NewManager(&recorder{}, nil)
	m.Resize(400, 300, 1)
	reg := newRegistry("a")

	for i := 0; i < 7; i++ {
		m.Render(reg, 1)
	}
	in, _ := reg.Get("a")
	if in.Trace.Len() != 7 {
		t.Errorf("trace length = %d, want 7", in.Trace.Len())
	}
}

func TestManagerWithoutPainter(t *testing.T) {
	m := NewManager(nil, nil)
	reg := newRegistry("a")

	m.Resize(100, 100, 2)
	m.Render(reg, 1)

	if w, h := m.PhysicalSize(); w != 0 || h != 0 {
		t.Errorf("expected no size without painter, got %dx%d", w, h)
	}
	in, _ := reg.Get("a")
	if in.Trace.Len() != 0 {
		t.Error("render without painter must not touch traces")
	}
}
