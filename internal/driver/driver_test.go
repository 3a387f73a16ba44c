package driver_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendulab/internal/driver"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/registry"
	"github.com/san-kum/pendulab/internal/surface"
)

func newDriver() *driver.Driver {
	reg := registry.New()
	reg.Reconcile([]registry.Spec{
		{ID: "a", Params: physics.DefaultParams(), Appearance: physics.DefaultAppearance(), Initial: physics.DefaultAngles()},
		{ID: "b", Params: physics.DefaultParams(), Appearance: physics.DefaultAppearance(), Initial: physics.AnglesFromDegrees(90, 45)},
	})
	surf := surface.NewManager(surface.NewBraille(40, 20, nil), nil)
	surf.Resize(40, 40, surface.BrailleDPR)
	return driver.New(reg, surf, nil, nil)
}

func states(d *driver.Driver) map[string]physics.State {
	out := map[string]physics.State{}
	d.Registry().Each(func(in *registry.Instance) { out[in.ID] = in.State })
	return out
}

func traceLen(d *driver.Driver, id string) int {
	in, _ := d.Registry().Get(id)
	return in.Trace.Len()
}

var _ = Describe("Driver", func() {
	var d *driver.Driver

	BeforeEach(func() {
		d = newDriver()
	})

	It("starts stopped and ignores ticks until started", func() {
		Expect(d.State()).To(Equal(driver.Stopped))

		_, ok := d.Tick(d.Token())
		Expect(ok).To(BeFalse())
		Expect(d.Frame()).To(BeZero())
	})

	It("integrates and renders while running", func() {
		tok := d.Start()
		Expect(d.State()).To(Equal(driver.Running))

		for i := 0; i < 10; i++ {
			var ok bool
			tok, ok = d.Tick(tok)
			Expect(ok).To(BeTrue())
		}

		Expect(d.Frame()).To(Equal(10))
		Expect(traceLen(d, "a")).To(Equal(10))
		in, _ := d.Registry().Get("a")
		Expect(in.State).NotTo(Equal(physics.NewState(in.Initial)))
	})

	It("returns the current token when started twice", func() {
		tok := d.Start()
		Expect(d.Start()).To(Equal(tok))
	})

	It("freezes state bit-for-bit while paused but keeps rendering", func() {
		tok := d.Start()
		for i := 0; i < 20; i++ {
			tok, _ = d.Tick(tok)
		}
		d.Pause()
		Expect(d.State()).To(Equal(driver.Paused))
		frozen := states(d)
		frame := d.Frame()

		for i := 0; i < 50; i++ {
			var ok bool
			tok, ok = d.Tick(tok)
			Expect(ok).To(BeTrue())
		}

		Expect(states(d)).To(Equal(frozen))
		Expect(d.Frame()).To(Equal(frame))
		Expect(traceLen(d, "a")).To(Equal(70))

		d.Resume()
		d.Tick(tok)
		Expect(d.Frame()).To(Equal(frame + 1))
		Expect(states(d)).NotTo(Equal(frozen))
	})

	It("toggles between running and paused", func() {
		d.Start()
		d.Toggle()
		Expect(d.State()).To(Equal(driver.Paused))
		d.SetRunning(true)
		Expect(d.State()).To(Equal(driver.Running))
		d.SetRunning(false)
		Expect(d.State()).To(Equal(driver.Paused))
	})

	It("drops ticks from a stopped epoch", func() {
		tok := d.Start()
		d.Tick(tok)
		d.Stop()
		before := states(d)

		_, ok := d.Tick(tok)

		Expect(ok).To(BeFalse())
		Expect(states(d)).To(Equal(before))
		Expect(d.State()).To(Equal(driver.Stopped))
	})

	Describe("Restart", func() {
		It("reseeds every instance and invalidates older tokens", func() {
			old := d.Start()
			for i := 0; i < 30; i++ {
				old, _ = d.Tick(old)
			}

			tok := d.Restart()

			Expect(tok).NotTo(Equal(old))
			Expect(d.Frame()).To(BeZero())
			d.Registry().Each(func(in *registry.Instance) {
				Expect(in.State).To(Equal(physics.NewState(in.Initial)))
				Expect(in.Trace.Len()).To(BeZero())
			})

			_, ok := d.Tick(old)
			Expect(ok).To(BeFalse())
			Expect(d.Frame()).To(BeZero())

			_, ok = d.Tick(tok)
			Expect(ok).To(BeTrue())
			Expect(d.Frame()).To(Equal(1))
		})

		It("resumes a paused driver", func() {
			d.Start()
			d.Pause()
			tok := d.Restart()
			Expect(d.State()).To(Equal(driver.Running))

			_, ok := d.Tick(tok)
			Expect(ok).To(BeTrue())
			Expect(d.Frame()).To(Equal(1))
		})
	})

	DescribeTable("SetZoom clamps",
		func(in, want float64) {
			d.SetZoom(in)
			Expect(d.Zoom()).To(Equal(want))
		},
		Entry("in range", 2.5, 2.5),
		Entry("too small", 0.01, driver.MinZoom),
		Entry("too large", 50.0, driver.MaxZoom),
	)
})

var _ = Describe("Loop", func() {
	It("renders maxFrames frames and notifies observers", func() {
		d := newDriver()
		loop := driver.NewLoop(d)
		var seen []int
		loop.AddObserver(driver.ObserverFunc(func(_ *driver.Driver, frame int) {
			seen = append(seen, frame)
		}))

		n, err := loop.Run(context.Background(), 0, 12)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(12))
		Expect(seen).To(HaveLen(12))
		Expect(seen[11]).To(Equal(12))
		Expect(d.Frame()).To(Equal(12))
	})

	It("stops when the driver is stopped", func() {
		d := newDriver()
		loop := driver.NewLoop(d)
		loop.AddObserver(driver.ObserverFunc(func(d *driver.Driver, frame int) {
			if frame == 5 {
				d.Stop()
			}
		}))

		n, err := loop.Run(context.Background(), 0, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(5))
	})

	It("returns the context error on cancellation", func() {
		d := newDriver()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		_, err := driver.NewLoop(d).Run(ctx, time.Millisecond, 0)

		Expect(err).To(MatchError(context.DeadlineExceeded))
	})
})
