// Command holodisc-preview plays the frames directory on a single jukebox and
// draws the result in the terminal
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/holodisc/app"
	"github.com/lixenwraith/holodisc/config"
	"github.com/lixenwraith/holodisc/core"
	"github.com/lixenwraith/holodisc/parameter"
	"github.com/lixenwraith/holodisc/preview"
	"github.com/lixenwraith/holodisc/session"
	"github.com/lixenwraith/holodisc/trigger"
)

var (
	configFlag = flag.String("config", "holodisc.toml", "Config file, written with defaults when missing")
	framesFlag = flag.String("frames", "", "Frames directory, overrides files.frames_directory")
)

var jukebox = session.Location{World: app.DefaultWorld, X: 0, Y: 64, Z: 0}

var keyActions = map[rune]string{
	'i': trigger.ActionInsert,
	'g': trigger.ActionRegular,
	'e': trigger.ActionEject,
	's': trigger.ActionStop,
	'b': trigger.ActionBreak,
	'p': trigger.ActionPlace,
	'd': trigger.ActionDropper,
}

const help = "i insert  d dropper  e eject  s stop  b break  p place  r reload  q quit"

func main() {
	flag.Parse()

	// The terminal belongs to tcell; log lines would corrupt it
	log.SetOutput(io.Discard)
	logger := log.Default()

	cfg, err := config.Load(*configFlag, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(cfg, app.Options{
		ConfigPath:      *configFlag,
		FramesDirectory: *framesFlag,
		Devices:         true,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	core.OnCrash(screen.Fini)
	defer screen.Fini()

	view := preview.New(screen, cfg.Video.Width, cfg.Video.Height)
	view.Follow(jukebox.Identity())
	a.Graph.AddSink(view)

	a.World.Place(jukebox)
	view.SetStatus(help)
	a.Loop.Start()

	events := make(chan tcell.Event, 16)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	ticker := time.NewTicker(parameter.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return
				}
				handleKey(a, view, ev.Rune())
			case *tcell.EventResize:
				screen.Sync()
				view.SetStatus(help)
			}
		case <-ticker.C:
			view.Draw()
		}
	}
}

func handleKey(a *app.App, view *preview.Screen, r rune) {
	if r == 'r' {
		a.Loop.Post(func() {
			if err := a.Reload(); err != nil {
				view.SetStatus(fmt.Sprintf("reload: %v", err))
				return
			}
			view.Resize(a.Config.Video.Width, a.Config.Video.Height)
			view.SetStatus(fmt.Sprintf("reloaded %d frames | %s", a.Frames.Current().Len(), help))
		})
		return
	}

	action, ok := keyActions[r]
	if !ok {
		return
	}
	a.Loop.Post(func() {
		if err := a.Host.Do(action, jukebox); err != nil {
			view.SetStatus(fmt.Sprintf("%v | %s", err, help))
			return
		}
		view.SetStatus(fmt.Sprintf("%s at %s | %s", action, jukebox, help))
	})
}
