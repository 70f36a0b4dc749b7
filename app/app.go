// Package app assembles the playback stack shared by the server and the preview
package app

import (
	"fmt"
	"log"

	"github.com/lixenwraith/holodisc/audio"
	"github.com/lixenwraith/holodisc/config"
	"github.com/lixenwraith/holodisc/engine"
	"github.com/lixenwraith/holodisc/frame"
	"github.com/lixenwraith/holodisc/notify"
	"github.com/lixenwraith/holodisc/scene"
	"github.com/lixenwraith/holodisc/status"
	"github.com/lixenwraith/holodisc/trigger"
	"github.com/lixenwraith/holodisc/world"
)

// Options selects the optional outputs
type Options struct {
	// ConfigPath is re-read by Reload; empty keeps the current config
	ConfigPath string

	// FramesDirectory overrides files.frames_directory, including after reloads
	FramesDirectory string

	// Devices opens the speaker and the MQTT broker when configured
	Devices bool

	// Notifier is appended to the built-in log notifier
	Notifier engine.Notifier
}

// App owns every component; driver state is only touched on the loop goroutine
type App struct {
	Config  *config.Config
	Metrics *status.Registry
	Logger  *log.Logger

	Frames   *frame.Store
	Graph    *scene.Graph
	World    *world.World
	Driver   *engine.Driver
	Loop     *engine.Loop
	Handlers *trigger.Handlers
	Host     *trigger.Host
	Chime    *audio.Chime

	configPath string
	framesDir  string
	publisher  *notify.PahoPublisher
	mqtt       *notify.MQTT
}

func New(cfg *config.Config, opts Options, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		Config:     cfg,
		Metrics:    status.NewRegistry(),
		Logger:     logger,
		World:      world.New(),
		configPath: opts.ConfigPath,
		framesDir:  opts.FramesDirectory,
	}
	a.override(cfg)

	counter := &engine.TickCounter{}
	a.Frames = frame.NewStore(engine.FrameOptions(cfg), logger, a.Metrics)
	a.Graph = scene.NewGraph(counter, a.Metrics)

	notifiers := notify.Multi{notify.Log{Logger: logger}}
	if opts.Notifier != nil {
		notifiers = append(notifiers, opts.Notifier)
	}

	var out audio.Output
	if opts.Devices {
		if cfg.Audio.Chime {
			sp, err := audio.OpenSpeaker()
			if err != nil {
				logger.Printf("Audio initialization failed: %v", err)
			} else {
				out = sp
			}
		}
		if cfg.MQTT.Broker != "" {
			pub, err := notify.Connect(cfg.MQTT, logger)
			if err != nil {
				return nil, fmt.Errorf("app: %w", err)
			}
			a.publisher = pub
			a.mqtt = notify.NewMQTT(pub, cfg.MQTT.TopicPrefix, logger, a.Metrics)
			notifiers = append(notifiers, a.mqtt)
		}
	}
	a.Chime = audio.NewChime(cfg.Audio, out, a.Metrics)

	a.Driver = engine.NewDriver(cfg, engine.Deps{
		Frames:    a.Frames,
		Submitter: a.Graph,
		Query:     a.World,
		Notifier:  notifiers,
		Cue:       a.Chime,
		Logger:    logger,
		Metrics:   a.Metrics,
	})
	a.Loop = engine.NewLoop(a.Driver, counter, nil, a.Metrics)
	a.Handlers = trigger.New(a.Driver, a.World, cfg, logger)
	a.Host = trigger.NewHost(a.World, a.Handlers, cfg)

	if _, err := a.Frames.Load(cfg.Files.FramesDirectory); err != nil {
		logger.Printf("Frame load failed: %v", err)
	}
	return a, nil
}

// Reload re-reads the config file and the frames directory
// Must run on the loop goroutine
func (a *App) Reload() error {
	cfg := a.Config
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath, a.Logger)
		if err != nil {
			return err
		}
		cfg = loaded
		a.override(cfg)
	}
	a.Config = cfg
	a.Host.Apply(cfg)
	a.Chime.SetEnabled(cfg.Audio.Chime)
	return a.Driver.Reload(cfg)
}

func (a *App) override(cfg *config.Config) {
	if a.framesDir != "" {
		cfg.Files.FramesDirectory = a.framesDir
	}
}

// Close stops the loop and releases the broker connection
func (a *App) Close() {
	a.Loop.Stop()
	if a.mqtt != nil {
		a.mqtt.Close()
	}
	if a.publisher != nil {
		a.publisher.Close()
	}
}
