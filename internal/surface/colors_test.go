package surface

import (
	"errors"
	"image/color"
	"testing"

	"github.com/san-kum/pendulab/internal/dynamo"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#29a6ec", "#29a6ec", false},
		{"#FFFFFF", "#ffffff", false},
		{"#f0a", "#ff00aa", false},
		{"29a6ec", "", true},
		{"#zzzzzz", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, dynamo.ErrInvalidColor) {
					t.Fatalf("expected ErrInvalidColor, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := Hex(c); got != tt.want {
				t.Errorf("Hex() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBlend(t *testing.T) {
	tests := []struct {
		alpha float64
		want  string
	}{
		{0, "#000000"},
		{1, "#ffffff"},
		{0.5, "#808080"},
	}
	for _, tt := range tests {
		if got := Hex(Blend(color.Black, color.White, tt.alpha)); got != tt.want {
			t.Errorf("Blend(%g) = %s, want %s", tt.alpha, got, tt.want)
		}
	}
}

func TestColorCacheFallback(t *testing.T) {
	cc := make(colorCache)
	fallback := color.RGBA{1, 2, 3, 255}

	if got := cc.get("not-a-color", fallback); got != fallback {
		t.Errorf("expected fallback, got %v", got)
	}
	if _, ok := cc["not-a-color"]; !ok {
		t.Error("invalid colors should be cached too")
	}
}
