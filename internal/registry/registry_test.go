package registry_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/registry"
)

func spec(id string, l1 float64) registry.Spec {
	p := physics.DefaultParams()
	p.L1 = l1
	return registry.Spec{
		ID:         id,
		Params:     p,
		Appearance: physics.DefaultAppearance(),
		Initial:    physics.DefaultAngles(),
	}
}

func advance(r *registry.Registry, steps int) {
	integ := integrators.NewSemiImplicitEuler()
	for i := 0; i < steps; i++ {
		r.Step(integ)
		r.Each(func(in *registry.Instance) {
			_, bob2 := physics.Bobs(in.Params, in.State, dynamo.Vec2{})
			in.Trace.Push(bob2)
		})
	}
}

var _ = Describe("Registry", func() {
	var reg *registry.Registry

	BeforeEach(func() {
		reg = registry.New()
	})

	Describe("Reconcile", func() {
		It("creates new instances at rest with empty traces", func() {
			reg.Reconcile([]registry.Spec{spec("a", 100), spec("b", 120)})

			Expect(reg.IDs()).To(Equal([]string{"a", "b"}))
			in, ok := reg.Get("a")
			Expect(ok).To(BeTrue())
			Expect(in.State).To(Equal(physics.NewState(physics.DefaultAngles())))
			Expect(in.Trace.Len()).To(BeZero())
		})

		It("is idempotent for the same desired list", func() {
			desired := []registry.Spec{spec("a", 100), spec("b", 120)}
			reg.Reconcile(desired)
			advance(reg, 25)

			before := map[string]physics.State{}
			reg.Each(func(in *registry.Instance) { before[in.ID] = in.State })
			traceLen := map[string]int{}
			reg.Each(func(in *registry.Instance) { traceLen[in.ID] = in.Trace.Len() })

			reg.Reconcile(desired)

			Expect(reg.IDs()).To(Equal([]string{"a", "b"}))
			reg.Each(func(in *registry.Instance) {
				Expect(in.State).To(Equal(before[in.ID]))
				Expect(in.Trace.Len()).To(Equal(traceLen[in.ID]))
			})
		})

		It("keeps state of continuing ids while taking new params", func() {
			reg.Reconcile([]registry.Spec{spec("a", 100)})
			advance(reg, 10)
			in, _ := reg.Get("a")
			state := in.State

			reg.Reconcile([]registry.Spec{spec("a", 180)})

			in, _ = reg.Get("a")
			Expect(in.Params.L1).To(Equal(180.0))
			Expect(in.State).To(Equal(state))
			Expect(in.Trace.Len()).To(Equal(10))
		})

		It("drops missing ids and follows the desired order", func() {
			reg.Reconcile([]registry.Spec{spec("a", 100), spec("b", 100), spec("c", 100)})
			reg.Reconcile([]registry.Spec{spec("c", 100), spec("a", 100)})

			Expect(reg.IDs()).To(Equal([]string{"c", "a"}))
			_, ok := reg.Get("b")
			Expect(ok).To(BeFalse())
			Expect(reg.Len()).To(Equal(2))
		})

		It("ignores repeated ids after the first", func() {
			reg.Reconcile([]registry.Spec{spec("a", 100), spec("a", 150)})

			Expect(reg.Len()).To(Equal(1))
			in, _ := reg.Get("a")
			Expect(in.Params.L1).To(Equal(100.0))
		})
	})

	Describe("RestartAll", func() {
		It("reseeds every instance and clears traces", func() {
			reg.Reconcile([]registry.Spec{spec("a", 100), spec("b", 150)})
			advance(reg, 40)

			reg.RestartAll()

			reg.Each(func(in *registry.Instance) {
				Expect(in.State).To(Equal(physics.NewState(in.Initial)))
				Expect(in.State.V1).To(BeZero())
				Expect(in.State.V2).To(BeZero())
				Expect(in.Trace.Len()).To(BeZero())
			})
		})
	})

	Describe("SyncParams", func() {
		It("copies params from the source and restarts everyone", func() {
			a := spec("a", 60)
			a.Params.M2 = 25
			b := spec("b", 190)
			b.Appearance.TraceColor = "#ff0000"
			reg.Reconcile([]registry.Spec{a, b})
			advance(reg, 5)

			Expect(reg.SyncParams("a")).To(Succeed())

			in, _ := reg.Get("b")
			Expect(in.Params).To(Equal(a.Params))
			Expect(in.Appearance.TraceColor).To(Equal("#ff0000"))
			Expect(in.Trace.Len()).To(BeZero())
			Expect(in.State).To(Equal(physics.NewState(in.Initial)))
		})

		It("rejects unknown ids without touching the registry", func() {
			reg.Reconcile([]registry.Spec{spec("a", 100)})
			advance(reg, 5)
			in, _ := reg.Get("a")
			state := in.State

			err := reg.SyncParams("ghost")

			Expect(err).To(MatchError(dynamo.ErrUnknownInstance))
			Expect(in.State).To(Equal(state))
			Expect(in.Trace.Len()).To(Equal(5))
		})
	})

	Describe("Add, Remove and Update", func() {
		It("rejects duplicate ids", func() {
			_, err := reg.Add(spec("a", 100))
			Expect(err).NotTo(HaveOccurred())

			_, err = reg.Add(spec("a", 120))
			Expect(err).To(MatchError(dynamo.ErrDuplicateInstance))
		})

		It("appends in order and removes by id", func() {
			for _, id := range []string{"a", "b", "c"} {
				_, err := reg.Add(spec(id, 100))
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(reg.Remove("b")).To(BeTrue())
			Expect(reg.Remove("b")).To(BeFalse())
			Expect(reg.IDs()).To(Equal([]string{"a", "c"}))
		})

		It("never resolves a stale handle to a recycled slot", func() {
			h, err := reg.Add(spec("a", 100))
			Expect(err).NotTo(HaveOccurred())
			Expect(reg.Remove("a")).To(BeTrue())

			h2, err := reg.Add(spec("z", 100))
			Expect(err).NotTo(HaveOccurred())

			_, ok := reg.Resolve(h)
			Expect(ok).To(BeFalse())
			in, ok := reg.Resolve(h2)
			Expect(ok).To(BeTrue())
			Expect(in.ID).To(Equal("z"))
			Expect(in.Trace.Len()).To(BeZero())
		})

		It("edits in place without resetting state", func() {
			reg.Reconcile([]registry.Spec{spec("a", 100)})
			advance(reg, 3)
			in, _ := reg.Get("a")
			state := in.State

			Expect(reg.Update("a", func(in *registry.Instance) { in.Params.M1 = 20 })).To(Succeed())
			Expect(in.Params.M1).To(Equal(20.0))
			Expect(in.State).To(Equal(state))

			err := reg.Update("nope", func(*registry.Instance) {})
			Expect(err).To(MatchError(dynamo.ErrUnknownInstance))
		})
	})

	Describe("Specs", func() {
		It("round-trips through Reconcile", func() {
			desired := []registry.Spec{spec("a", 100), spec("b", 150)}
			reg.Reconcile(desired)

			Expect(reg.Specs()).To(Equal(desired))
		})
	})
})
