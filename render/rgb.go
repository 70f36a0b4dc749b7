package render

import "image/color"

// RGB stores explicit 8-bit color channels for terminal output
type RGB struct {
	R, G, B uint8
}

var RGBBlack = RGB{0, 0, 0}

// FromNRGBA drops alpha
func FromNRGBA(c color.NRGBA) RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// Blend performs alpha blending: result = src*alpha + dst*(1-alpha)
// Early return at alpha 0 or 1
func (dst RGB) Blend(src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return dst
	}
	if alpha >= 1 {
		return src
	}
	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(dst.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(dst.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(dst.B)*inv),
	}
}

// Scale multiplies every channel by f, clamped to [0, 255]
func (c RGB) Scale(f float64) RGB {
	return RGB{
		R: clamp(float64(c.R) * f),
		G: clamp(float64(c.G) * f),
		B: clamp(float64(c.B) * f),
	}
}

// Lit approximates a proxy's on-screen colour at brightness level of maxLevel
// Level 0 keeps a quarter of the colour so dim proxies stay visible
func Lit(c color.NRGBA, level, maxLevel int) RGB {
	base := RGBBlack.Blend(FromNRGBA(c), float64(c.A)/255.0)
	if maxLevel <= 0 || level >= maxLevel {
		return base
	}
	if level < 0 {
		level = 0
	}
	return base.Scale(0.25 + 0.75*float64(level)/float64(maxLevel))
}

// clamp converts float to uint8, saturating
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v + 0.5)
}
