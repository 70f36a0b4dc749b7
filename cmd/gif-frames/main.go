// Command gif-frames splits an animated GIF into numbered PNG frames for the frames directory
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lixenwraith/holodisc/frame"
	"github.com/lixenwraith/holodisc/parameter"
)

func main() {
	var opts frame.ExtractOptions
	flag.IntVar(&opts.FrameRate, "frame-rate", parameter.DefaultFrameRate, "Output frames per second, 0 keeps every GIF frame")
	flag.IntVar(&opts.Width, "width", parameter.DefaultWidth, "Output width, 0 keeps the GIF size")
	flag.IntVar(&opts.Height, "height", parameter.DefaultHeight, "Output height, 0 keeps the GIF size")
	flag.IntVar(&opts.MaxFrames, "max-frames", 0, "Stop after this many frames, 0 for all")
	flag.StringVar(&opts.Resample, "resample", frame.ResampleBilinear, "nearest, bilinear or catmullrom")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] input.gif output_dir\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	in, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	n, err := frame.ExtractGIF(in, flag.Arg(1), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Extraction failed after %d frames: %v\n", n, err)
		os.Exit(1)
	}
	fmt.Printf("Extracted %d frames to %s\n", n, flag.Arg(1))
}
