package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/physics"
	"github.com/san-kum/pendulab/internal/registry"
	"github.com/san-kum/pendulab/internal/surface"
)

// SceneToSVG draws every instance's trace, arms and bobs as vector paths.
// pivot and the view size are in the same user units the traces were
// recorded in.
func SceneToSVG(reg *registry.Registry, pivot dynamo.Vec2, viewW, viewH float64, background string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.1f %.1f">
<rect width="100%%" height="100%%" fill="%s"/>
`, math.Ceil(viewW), math.Ceil(viewH), viewW, viewH, background)

	reg.Each(func(in *registry.Instance) {
		fmt.Fprintf(&sb, "<g id=%q>\n", in.ID)

		if pts := in.Trace.Points(); len(pts) >= 2 {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="%.1f" stroke-linejoin="round" d="%s"/>`+"\n",
				in.Appearance.TraceColor, surface.TraceAlpha, surface.TraceWidth, pathData(pts))
		}

		bob1, bob2 := physics.Bobs(in.Params, in.State, pivot)
		if bob1.IsValid() && bob2.IsValid() {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="%.1f" d="%s"/>`+"\n",
				in.Appearance.PendulumColor, surface.ArmWidth, pathData([]dynamo.Vec2{pivot, bob1, bob2}))
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", bob1.X, bob1.Y, in.Params.M1, in.Appearance.PendulumColor)
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", bob2.X, bob2.Y, in.Params.M2, in.Appearance.PendulumColor)
		}

		sb.WriteString("</g>\n")
	})

	sb.WriteString("</svg>\n")
	return sb.String()
}

// pathData skips non-finite points and starts a new subpath after them.
func pathData(pts []dynamo.Vec2) string {
	var sb strings.Builder
	move := true
	for _, p := range pts {
		if !p.IsValid() {
			move = true
			continue
		}
		if move {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "M%.1f,%.1f", p.X, p.Y)
			move = false
			continue
		}
		fmt.Fprintf(&sb, " L%.1f,%.1f", p.X, p.Y)
	}
	return sb.String()
}
