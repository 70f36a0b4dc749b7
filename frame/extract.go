package frame

import (
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// FileNameFormat names extracted frames so lexicographic order is playback order
const FileNameFormat = "frame_%06d.png"

// defaultGIFDelay stands in for a zero frame delay, in hundredths of a second
const defaultGIFDelay = 10

// ExtractOptions controls GIF frame extraction
type ExtractOptions struct {
	// FrameRate resamples the animation in time; 0 keeps every source frame once
	FrameRate int
	Width     int
	Height    int
	// MaxFrames stops extraction early; 0 means no limit
	MaxFrames int
	Resample  string
}

// ExtractGIF composes every GIF frame onto a canvas, samples it at opts.FrameRate
// and writes the result to dir as numbered PNGs; returns the number written
func ExtractGIF(r io.Reader, dir string, opts ExtractOptions) (int, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return 0, fmt.Errorf("decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return 0, ErrNoFrames
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = bounds.Dx(), bounds.Dy()
	}
	scaler := resampler(opts.Resample)

	canvas := image.NewNRGBA(bounds)
	written := 0
	emit := func() error {
		name := filepath.Join(dir, fmt.Sprintf(FileNameFormat, written))
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := png.Encode(f, Resize(canvas, width, height, scaler).Image()); err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		written++
		return nil
	}
	full := func() bool {
		return opts.MaxFrames > 0 && written >= opts.MaxFrames
	}

	// Times in hundredths of a second; next is the timestamp of the next output frame
	var elapsed, next float64
	step := 0.0
	if opts.FrameRate > 0 {
		step = 100.0 / float64(opts.FrameRate)
	}

	for i, img := range g.Image {
		var previous *image.NRGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = image.NewNRGBA(bounds)
			draw.Draw(previous, bounds, canvas, bounds.Min, draw.Src)
		}

		draw.Draw(canvas, img.Bounds(), img, img.Bounds().Min, draw.Over)

		delay := defaultGIFDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = g.Delay[i]
		}
		end := elapsed + float64(delay)

		if step == 0 {
			if err := emit(); err != nil {
				return written, err
			}
		} else {
			for next < end && !full() {
				if err := emit(); err != nil {
					return written, err
				}
				next += step
			}
		}
		elapsed = end
		if full() {
			break
		}

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}
	return written, nil
}
