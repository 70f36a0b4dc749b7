// Package engine advances playback sessions once per host tick
package engine

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/lixenwraith/holodisc/config"
	"github.com/lixenwraith/holodisc/disc"
	"github.com/lixenwraith/holodisc/frame"
	"github.com/lixenwraith/holodisc/render"
	"github.com/lixenwraith/holodisc/scene"
	"github.com/lixenwraith/holodisc/schedule"
	"github.com/lixenwraith/holodisc/session"
	"github.com/lixenwraith/holodisc/status"
)

// TriggerState is what a trigger block currently exposes
type TriggerState struct {
	Playing bool
	Record  *disc.Item
}

// TriggerQuery resolves the trigger block at a location; ok is false when the block is gone
type TriggerQuery interface {
	Trigger(loc session.Location) (state TriggerState, ok bool)
}

// Reason is why a session ended
type Reason uint8

const (
	// ReasonFinished: non-looping playback reached the last frame
	ReasonFinished Reason = iota
	// ReasonRemoved: trigger broken, record ejected or no longer playable
	ReasonRemoved
)

func (r Reason) String() string {
	switch r {
	case ReasonFinished:
		return "finished"
	case ReasonRemoved:
		return "removed"
	default:
		return fmt.Sprintf("reason(%d)", uint8(r))
	}
}

// Notifier is told about session lifecycle transitions, on the tick goroutine
type Notifier interface {
	SessionStarted(s *session.Session)
	SessionEnded(s *session.Session, reason Reason)
}

// Cue plays the activation signal for a new session; must not block
type Cue interface {
	Activate(loc session.Location)
}

// Deps are the Driver collaborators; Notifier, Cue, Logger and Metrics are optional
type Deps struct {
	Frames    *frame.Store
	Submitter scene.Submitter
	Query     TriggerQuery
	Notifier  Notifier
	Cue       Cue
	Logger    *log.Logger
	Metrics   *status.Registry
}

// Driver owns the session registry and runs one pass per tick
// Not safe for concurrent use: every call happens on the tick goroutine
type Driver struct {
	registry  *session.Registry
	deferred  Deferred
	frames    *frame.Store
	submitter scene.Submitter
	query     TriggerQuery
	notifier  Notifier
	cue       Cue
	logger    *log.Logger

	now       int64
	frameRate int
	framesDir string
	opts      render.Options
	position  config.PositionConfig
	predicate disc.Predicate

	statStarted  *atomic.Int64
	statFinished *atomic.Int64
	statRemoved  *atomic.Int64
	statFrames   *atomic.Int64
	statProxies  *atomic.Int64
}

func NewDriver(cfg *config.Config, deps Deps) *Driver {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	d := &Driver{
		registry:     session.NewRegistry(cfg.Video.Loop),
		frames:       deps.Frames,
		submitter:    deps.Submitter,
		query:        deps.Query,
		notifier:     deps.Notifier,
		cue:          deps.Cue,
		logger:       logger,
		statStarted:  deps.Metrics.Counter("sessions.started"),
		statFinished: deps.Metrics.Counter("sessions.finished"),
		statRemoved:  deps.Metrics.Counter("sessions.removed"),
		statFrames:   deps.Metrics.Counter("render.frames"),
		statProxies:  deps.Metrics.Counter("render.proxies"),
	}
	d.applyConfig(cfg)
	return d
}

// FrameOptions derives frame store options from cfg
func FrameOptions(cfg *config.Config) frame.Options {
	return frame.Options{
		Width:    cfg.Video.Width,
		Height:   cfg.Video.Height,
		Formats:  cfg.Files.SupportedFormats,
		Resample: cfg.Video.Resample,
	}
}

func (d *Driver) applyConfig(cfg *config.Config) {
	d.frameRate = cfg.Video.FrameRate
	d.framesDir = cfg.Files.FramesDirectory
	d.opts = render.OptionsFromConfig(cfg)
	d.position = cfg.Position
	d.predicate = disc.PredicateFromConfig(cfg)
	d.registry.SetLoop(cfg.Video.Loop)
}

// Now returns the tick of the current or last pass
func (d *Driver) Now() int64 {
	return d.now
}

// Predicate returns the active playable-content predicate
func (d *Driver) Predicate() disc.Predicate {
	return d.predicate
}

// Tick runs one pass at tick now: events first, then due deferred tasks, then every session
func (d *Driver) Tick(now int64, events ...func()) {
	d.now = now
	for _, ev := range events {
		ev()
	}
	d.deferred.RunDue(now)

	anim := d.frames.Current()
	for _, s := range d.registry.Active() {
		state, ok := d.query.Trigger(s.Location)
		if !ok || !state.Playing || !d.predicate.Accepts(state.Record) {
			d.End(s.Location, ReasonRemoved)
			continue
		}

		idx, finished := schedule.FrameAt(s.Elapsed(now), d.frameRate, anim.Len(), s.Loop)
		if finished {
			d.End(s.Location, ReasonFinished)
			continue
		}

		proxies := render.Render(anim.Frame(idx), render.Anchor(s.Location, d.position), d.opts)
		d.submitter.Submit(s.Identity, proxies)
		d.statFrames.Add(1)
		d.statProxies.Add(int64(len(proxies)))
	}
}

// After schedules fn delay ticks from now
func (d *Driver) After(delay int64, fn func()) {
	d.deferred.Schedule(d.now+delay, fn)
}

// Begin starts playback at loc; a no-op when loc is already playing
// Frames are loaded on first use. With nothing to play no session is created.
func (d *Driver) Begin(loc session.Location) error {
	if _, ok := d.registry.Get(loc); ok {
		return nil
	}

	if d.frames.Current().Empty() {
		if _, err := d.frames.Load(d.framesDir); err != nil {
			d.logger.Printf("Frame load failed: %v", err)
		}
	}
	if d.frames.Current().Empty() {
		return fmt.Errorf("begin at %s: %w", loc, frame.ErrNoFrames)
	}

	s, created := d.registry.Begin(loc, d.now)
	if !created {
		return nil
	}
	d.statStarted.Add(1)
	d.logger.Printf("Started video at %s", loc)
	if d.notifier != nil {
		d.notifier.SessionStarted(s)
	}
	if d.cue != nil {
		d.cue.Activate(loc)
	}
	return nil
}

// End stops playback at loc and clears its proxies
// Returns false, doing nothing, when loc has no session
func (d *Driver) End(loc session.Location, reason Reason) bool {
	s, ok := d.registry.End(loc)
	if !ok {
		return false
	}
	d.submitter.Submit(s.Identity, nil)

	switch reason {
	case ReasonFinished:
		d.statFinished.Add(1)
		d.logger.Printf("Video finished at %s", loc)
	default:
		d.statRemoved.Add(1)
		d.logger.Printf("Stopped video at %s", loc)
	}
	if d.notifier != nil {
		d.notifier.SessionEnded(s, reason)
	}
	return true
}

// Active reports whether loc is playing
func (d *Driver) Active(loc session.Location) bool {
	_, ok := d.registry.Get(loc)
	return ok
}

// Sessions returns a snapshot of active sessions
func (d *Driver) Sessions() []*session.Session {
	return d.registry.Active()
}

// Reload applies cfg and re-reads the frames directory
// Running sessions keep their start tick and continue on the new animation
func (d *Driver) Reload(cfg *config.Config) error {
	d.applyConfig(cfg)
	d.frames.SetOptions(FrameOptions(cfg))
	anim, err := d.frames.Load(d.framesDir)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	d.logger.Printf("Reloaded %d frames", anim.Len())
	return nil
}
