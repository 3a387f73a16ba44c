package surface

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// ParseColor accepts #rrggbb or #rgb.
func ParseColor(hex string) (color.Color, error) {
	c, err := colorful.Hex(expandShortHex(hex))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrInvalidColor, hex)
	}
	return c, nil
}

func expandShortHex(s string) string {
	if len(s) != 4 || s[0] != '#' {
		return s
	}
	return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
}

// Blend mixes fg over bg with the given opacity.
func Blend(bg, fg color.Color, alpha float64) colorful.Color {
	b, _ := colorful.MakeColor(bg)
	f, _ := colorful.MakeColor(fg)
	return b.BlendRgb(f, alpha).Clamped()
}

// Hex formats any color as #rrggbb.
func Hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Clamped().Hex()
}

type colorCache map[string]color.Color

func (cc colorCache) get(hex string, fallback color.Color) color.Color {
	if c, ok := cc[hex]; ok {
		return c
	}
	c, err := ParseColor(hex)
	if err != nil {
		c = fallback
	}
	cc[hex] = c
	return c
}
