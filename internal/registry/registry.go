// Package registry owns the set of live pendulum instances.
//
// Instances live in a contiguous arena and are addressed by Handle, an
// index plus generation pair. The caller supplied ID is the stable identity
// used by the control layer; handles are an internal detail that never
// resolve to a recycled slot.
package registry

import (
	"fmt"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/trace"
)

// Spec is one entry of the desired instance list.
type Spec struct {
	ID         string
	Params     physics.Params
	Appearance physics.Appearance
	Initial    physics.Angles
}

// Instance is a live pendulum.
type Instance struct {
	ID         string
	Params     physics.Params
	Appearance physics.Appearance
	Initial    physics.Angles
	State      physics.State
	Trace      *trace.Buffer
}

// Spec returns the desired-list entry that reproduces the instance.
func (in *Instance) Spec() Spec {
	return Spec{ID: in.ID, Params: in.Params, Appearance: in.Appearance, Initial: in.Initial}
}

func (in *Instance) reset() {
	in.State = physics.NewState(in.Initial)
	in.Trace.Clear()
}

type Handle struct {
	index uint32
	gen   uint32
}

type slot struct {
	inst Instance
	gen  uint32
	live bool
}

type Registry struct {
	slots []slot
	free  []uint32
	byID  map[string]Handle
	order []Handle
}

func New() *Registry {
	return &Registry{byID: make(map[string]Handle)}
}

func (r *Registry) Len() int { return len(r.order) }

// Resolve returns the instance behind h, or false if h is stale.
func (r *Registry) Resolve(h Handle) (*Instance, bool) {
	if int(h.index) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return &s.inst, true
}

func (r *Registry) Lookup(id string) (Handle, bool) {
	h, ok := r.byID[id]
	return h, ok
}

func (r *Registry) Get(id string) (*Instance, bool) {
	h, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.Resolve(h)
}

// Each visits instances in stable order.
func (r *Registry) Each(fn func(*Instance)) {
	for _, h := range r.order {
		fn(&r.slots[h.index].inst)
	}
}

// IDs lists instance ids in iteration order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.order))
	r.Each(func(in *Instance) { ids = append(ids, in.ID) })
	return ids
}

// Specs snapshots the current instances as a desired list.
func (r *Registry) Specs() []Spec {
	specs := make([]Spec, 0, len(r.order))
	r.Each(func(in *Instance) { specs = append(specs, in.Spec()) })
	return specs
}

func (r *Registry) alloc(spec Spec) Handle {
	inst := Instance{
		ID:         spec.ID,
		Params:     spec.Params,
		Appearance: spec.Appearance,
		Initial:    spec.Initial,
		State:      physics.NewState(spec.Initial),
	}

	var h Handle
	if n := len(r.free); n > 0 {
		h.index = r.free[n-1]
		r.free = r.free[:n-1]
		s := &r.slots[h.index]
		// Reuse the trace storage of the slot's previous occupant.
		inst.Trace = s.inst.Trace
		inst.Trace.Clear()
		s.inst = inst
		s.live = true
		h.gen = s.gen
	} else {
		inst.Trace = trace.New()
		h.index = uint32(len(r.slots))
		r.slots = append(r.slots, slot{inst: inst, live: true})
	}

	r.byID[spec.ID] = h
	return h
}

func (r *Registry) release(h Handle) {
	s := &r.slots[h.index]
	delete(r.byID, s.inst.ID)
	s.live = false
	s.gen++
	r.free = append(r.free, h.index)
}

// Add appends a new instance at the end of the iteration order.
func (r *Registry) Add(spec Spec) (Handle, error) {
	if _, ok := r.byID[spec.ID]; ok {
		return Handle{}, fmt.Errorf("%w: %q", dynamo.ErrDuplicateInstance, spec.ID)
	}
	h := r.alloc(spec)
	r.order = append(r.order, h)
	return h, nil
}

// Remove drops the instance with the given id. It reports whether an
// instance was removed.
func (r *Registry) Remove(id string) bool {
	h, ok := r.byID[id]
	if !ok {
		return false
	}
	for i, oh := range r.order {
		if oh == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.release(h)
	return true
}

// Update applies fn to the instance in place. State and trace are left
// alone; callers restart explicitly when an edit should reseed.
func (r *Registry) Update(id string, fn func(*Instance)) error {
	in, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", dynamo.ErrUnknownInstance, id)
	}
	fn(in)
	return nil
}

// Reconcile brings the registry in line with desired. Continuing ids keep
// their state and trace and take the new parameters; new ids start from
// their initial angles at rest; ids absent from desired are dropped.
// Iteration order afterwards follows desired. Repeated ids after the first
// occurrence are ignored.
func (r *Registry) Reconcile(desired []Spec) {
	order := make([]Handle, 0, len(desired))
	keep := make(map[string]struct{}, len(desired))

	for _, spec := range desired {
		if _, dup := keep[spec.ID]; dup {
			continue
		}
		keep[spec.ID] = struct{}{}

		if h, ok := r.byID[spec.ID]; ok {
			in := &r.slots[h.index].inst
			in.Params = spec.Params
			in.Appearance = spec.Appearance
			in.Initial = spec.Initial
			order = append(order, h)
			continue
		}
		order = append(order, r.alloc(spec))
	}

	for _, h := range r.order {
		id := r.slots[h.index].inst.ID
		if _, ok := keep[id]; !ok {
			r.release(h)
		}
	}
	r.order = order
}

// RestartAll reseeds every instance from its initial angles with zero
// velocity and clears its trace.
func (r *Registry) RestartAll() {
	r.Each(func(in *Instance) { in.reset() })
}

// SyncParams copies the physical parameters of sourceID onto every other
// instance and restarts all of them. Appearance and initial angles are
// untouched.
func (r *Registry) SyncParams(sourceID string) error {
	src, ok := r.Get(sourceID)
	if !ok {
		return fmt.Errorf("sync: %w: %q", dynamo.ErrUnknownInstance, sourceID)
	}
	p := src.Params
	r.Each(func(in *Instance) { in.Params = p })
	r.RestartAll()
	return nil
}

// Step advances every instance by one integration step, in order.
func (r *Registry) Step(integ integrators.Integrator) {
	r.Each(func(in *Instance) {
		in.State = integ.Step(in.Params, in.State)
	})
}
