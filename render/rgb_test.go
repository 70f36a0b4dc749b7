package render

import (
	"image/color"
	"testing"
)

func TestBlend(t *testing.T) {
	a := RGB{0, 0, 0}
	b := RGB{200, 100, 50}

	if got := a.Blend(b, 0); got != a {
		t.Errorf("alpha 0: expected %v, got %v", a, got)
	}
	if got := a.Blend(b, 1); got != b {
		t.Errorf("alpha 1: expected %v, got %v", b, got)
	}
	if got := a.Blend(b, 0.5); got != (RGB{100, 50, 25}) {
		t.Errorf("alpha 0.5: got %v", got)
	}
}

func TestLit(t *testing.T) {
	c := color.NRGBA{R: 200, G: 100, B: 40, A: 255}

	if got := Lit(c, 15, 15); got != (RGB{200, 100, 40}) {
		t.Errorf("Full brightness should keep colour, got %v", got)
	}
	if got := Lit(c, 0, 15); got != (RGB{50, 25, 10}) {
		t.Errorf("Zero brightness should keep a quarter, got %v", got)
	}
	half := Lit(color.NRGBA{R: 200, A: 128}, 15, 15)
	if half.R < 99 || half.R > 101 {
		t.Errorf("Expected alpha to darken against black, got %v", half)
	}
	if got := (RGB{200, 10, 0}).Scale(2); got != (RGB{255, 20, 0}) {
		t.Errorf("Expected saturating scale, got %v", got)
	}
}
