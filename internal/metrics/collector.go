package metrics

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/san-kum/pendulab/internal/driver"
	"github.com/san-kum/pendulab/internal/registry"
)

// Collector observes every pendulum of a driver after each frame. Metrics
// of removed pendulums are dropped, and every metric is reset when the
// driver restarts.
type Collector struct {
	factory Factory
	sets    map[string][]Metric
	token   driver.Token
}

func NewCollector(factory Factory) *Collector {
	if factory == nil {
		factory = DefaultSet
	}
	return &Collector{factory: factory, sets: make(map[string][]Metric)}
}

func (c *Collector) OnFrame(d *driver.Driver, _ int) {
	if tok := d.Token(); tok != c.token {
		c.token = tok
		for _, set := range c.sets {
			for _, m := range set {
				m.Reset()
			}
		}
	}

	reg := d.Registry()
	seen := make(map[string]struct{}, reg.Len())
	reg.Each(func(in *registry.Instance) {
		seen[in.ID] = struct{}{}
		set, ok := c.sets[in.ID]
		if !ok {
			set = c.factory()
			c.sets[in.ID] = set
		}
		for _, m := range set {
			m.Observe(in.Params, in.State)
		}
	})
	for id := range c.sets {
		if _, ok := seen[id]; !ok {
			delete(c.sets, id)
		}
	}
}

// Values returns the current metric values of one pendulum by name.
func (c *Collector) Values(id string) (map[string]float64, bool) {
	set, ok := c.sets[id]
	if !ok {
		return nil, false
	}
	out := make(map[string]float64, len(set))
	for _, m := range set {
		out[m.Name()] = m.Value()
	}
	return out, true
}

// WriteTable prints one row per pendulum in ids order.
func (c *Collector) WriteTable(w io.Writer, ids []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := false
	for _, id := range ids {
		set, ok := c.sets[id]
		if !ok {
			continue
		}
		if !header {
			fmt.Fprint(tw, "ID")
			for _, m := range set {
				fmt.Fprintf(tw, "\t%s", m.Name())
			}
			fmt.Fprintln(tw)
			header = true
		}
		fmt.Fprint(tw, id)
		for _, m := range set {
			fmt.Fprintf(tw, "\t%.4g", m.Value())
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
