// Package audio plays the short activation chime when a session starts
package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/holodisc/config"
	"github.com/lixenwraith/holodisc/parameter"
	"github.com/lixenwraith/holodisc/session"
	"github.com/lixenwraith/holodisc/status"
)

// Output plays a finite stream without blocking
type Output interface {
	Play(beep.Streamer)
}

// Pling builds the activation note: a sine at ChimeFrequency with an octave overtone
func Pling(rate beep.SampleRate, volume float64) beep.Streamer {
	d := parameter.ChimeDuration

	fund := NewEnvelope(NewSine(parameter.ChimeFrequency, d, rate), d,
		parameter.ChimeAttack, parameter.ChimeRelease, rate)
	over := NewEnvelope(NewSine(parameter.ChimeFrequency*2, d, rate), d,
		parameter.ChimeAttack, parameter.ChimeRelease/2, rate)

	mixed := beep.Mix(
		newVolume(fund, 0.7),
		newVolume(over, 0.3),
	)
	return newVolume(mixed, volume)
}

// Chime implements the engine activation cue
type Chime struct {
	out     Output
	rate    beep.SampleRate
	volume  float64
	enabled atomic.Bool

	statPlayed *atomic.Int64
}

// NewChime plays through out; a nil out leaves the chime disabled
func NewChime(cfg config.AudioConfig, out Output, metrics *status.Registry) *Chime {
	c := &Chime{
		out:        out,
		rate:       beep.SampleRate(parameter.ChimeSampleRate),
		volume:     cfg.Volume,
		statPlayed: metrics.Counter("audio.chimes"),
	}
	c.enabled.Store(cfg.Chime && out != nil)
	return c
}

// SetEnabled toggles the chime at runtime; ignored without an output
func (c *Chime) SetEnabled(on bool) {
	c.enabled.Store(on && c.out != nil)
}

func (c *Chime) Enabled() bool {
	return c.enabled.Load()
}

// Activate queues one pling
func (c *Chime) Activate(session.Location) {
	if !c.enabled.Load() {
		return
	}
	c.out.Play(Pling(c.rate, c.volume))
	c.statPlayed.Add(1)
}

// Speaker is the system audio Output, initialised once per process
type Speaker struct{}

var (
	speakerOnce sync.Once
	speakerErr  error
)

// OpenSpeaker initialises the system speaker at the chime sample rate
func OpenSpeaker() (*Speaker, error) {
	speakerOnce.Do(func() {
		rate := beep.SampleRate(parameter.ChimeSampleRate)
		speakerErr = speaker.Init(rate, rate.N(100*time.Millisecond))
	})
	if speakerErr != nil {
		return nil, speakerErr
	}
	return &Speaker{}, nil
}

func (*Speaker) Play(s beep.Streamer) {
	speaker.Play(s)
}
