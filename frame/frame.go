// Package frame decodes a directory of raster images into a fixed-resolution
// animation shared read-only by every playback session.
package frame

import (
	"image"
	"image/color"
	"math"
)

// Frame is an immutable grid of non-premultiplied RGBA samples
type Frame struct {
	img *image.NRGBA
}

// NewFrame wraps img; the caller must not modify img afterwards
func NewFrame(img *image.NRGBA) *Frame {
	return &Frame{img: img}
}

// Image returns the underlying samples, read-only
func (f *Frame) Image() *image.NRGBA {
	return f.img
}

func (f *Frame) Width() int {
	return f.img.Rect.Dx()
}

func (f *Frame) Height() int {
	return f.img.Rect.Dy()
}

// At returns the sample at grid cell (x, y), row 0 being the first source row
func (f *Frame) At(x, y int) color.NRGBA {
	b := f.img.Rect
	return f.img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
}

// Sample returns the sample at normalized coordinates (u, v) in [0, 1)
// Coordinates map to the containing cell and are clamped to the grid
func (f *Frame) Sample(u, v float64) color.NRGBA {
	w, h := f.Width(), f.Height()
	if w == 0 || h == 0 {
		return color.NRGBA{}
	}
	return f.At(clampIndex(u, w), clampIndex(v, h))
}

// sampleEpsilon absorbs rounding in (x/n)*n so cell-aligned coordinates hit cell x
const sampleEpsilon = 1e-9

func clampIndex(t float64, n int) int {
	i := int(math.Floor(t*float64(n) + sampleEpsilon))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Animation is an ordered, immutable sequence of equally sized frames
type Animation struct {
	frames []*Frame
	names  []string
	width  int
	height int
}

// NewAnimation builds an animation from frames already resized to width x height
func NewAnimation(width, height int, frames []*Frame, names []string) *Animation {
	return &Animation{
		frames: frames,
		names:  names,
		width:  width,
		height: height,
	}
}

// Len returns the frame count, zero for a nil animation
func (a *Animation) Len() int {
	if a == nil {
		return 0
	}
	return len(a.frames)
}

// Empty reports whether there is nothing to play
func (a *Animation) Empty() bool {
	return a.Len() == 0
}

// Frame returns frame i, nil when out of range
func (a *Animation) Frame(i int) *Frame {
	if i < 0 || i >= a.Len() {
		return nil
	}
	return a.frames[i]
}

// Name returns the source file name of frame i
func (a *Animation) Name(i int) string {
	if i < 0 || i >= a.Len() || i >= len(a.names) {
		return ""
	}
	return a.names[i]
}

// Size returns the grid resolution every frame was resized to
func (a *Animation) Size() (int, int) {
	if a == nil {
		return 0, 0
	}
	return a.width, a.height
}
