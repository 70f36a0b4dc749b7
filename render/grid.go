package render

import (
	"image/color"
	"math"

	"github.com/lixenwraith/holodisc/config"
	"github.com/lixenwraith/holodisc/frame"
	"github.com/lixenwraith/holodisc/session"
	"github.com/lixenwraith/holodisc/vmath"
)

// Options controls how a frame becomes proxies
type Options struct {
	Scale                 float64
	DoubleSided           bool
	Brightness            int
	Billboard             bool
	TeleportDuration      int
	InterpolationDuration int

	// Basis maps the unit square onto the host primitive; zero value means identity
	Basis vmath.Mat4
}

// OptionsFromConfig extracts render settings from cfg
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Scale:                 cfg.Video.Scale,
		DoubleSided:           cfg.Display.DoubleSided,
		Brightness:            cfg.Display.Brightness,
		Billboard:             cfg.Display.Billboard,
		TeleportDuration:      cfg.Display.TeleportDuration,
		InterpolationDuration: cfg.Display.InterpolationDuration,
		Basis:                 vmath.Identity(),
	}
}

// Anchor returns the world position of the grid centre for a trigger at loc
func Anchor(loc session.Location, pos config.PositionConfig) vmath.Vec3F {
	return vmath.V3FAdd(
		vmath.V3FFromInts(loc.X, loc.Y, loc.Z),
		vmath.Vec3F{X: pos.XOffset, Y: pos.HeightAboveJukebox, Z: pos.ZOffset},
	)
}

// IsTransparent reports whether a cell is skipped: zero alpha or pure black
func IsTransparent(c color.NRGBA) bool {
	return c.A == 0 || (c.R == 0 && c.G == 0 && c.B == 0)
}

// Render converts f into proxies, row by row, forward before backward per cell
// Transparent cells emit nothing, so the diff layer removes whatever they showed last frame
func Render(f *frame.Frame, anchor vmath.Vec3F, opts Options) []Proxy {
	if f == nil {
		return nil
	}
	w, h := f.Width(), f.Height()
	if w == 0 || h == 0 {
		return nil
	}

	basis := opts.Basis
	if basis == (vmath.Mat4{}) {
		basis = vmath.Identity()
	}
	sx := opts.Scale / float64(w)
	sy := opts.Scale / float64(h)

	n := w * h
	if opts.DoubleSided {
		n *= 2
	}
	out := make([]Proxy, 0, n)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			u := float64(x) / float64(w)
			v := float64(y) / float64(h)
			c := f.Sample(u, v)
			if IsTransparent(c) {
				continue
			}

			offX := (u - 0.5) * opts.Scale
			offY := (v - 0.5) * opts.Scale

			base := Proxy{
				Position:              anchor,
				Color:                 c,
				Brightness:            opts.Brightness,
				Billboard:             opts.Billboard,
				TeleportDuration:      opts.TeleportDuration,
				InterpolationDuration: opts.InterpolationDuration,
			}

			fwd := base
			fwd.Key = Key{Side: Forward, X: x, Y: y}
			fwd.Transform = vmath.Identity().
				Translate(offX, offY, 0).
				Scale(sx, sy, 1).
				Mul(basis)
			out = append(out, fwd)

			if opts.DoubleSided {
				back := base
				back.Key = Key{Side: Backward, X: x, Y: y}
				back.Transform = vmath.Identity().
					Translate(offX, offY, 0).
					RotateY(math.Pi).
					Scale(sx, sy, 1).
					Mul(basis)
				out = append(out, back)
			}
		}
	}
	return out
}
