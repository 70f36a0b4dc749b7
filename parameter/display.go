package parameter

import "time"

// Default playback configuration, mirrors the shipped default config file
const (
	DefaultFrameRate = 30
	DefaultWidth     = 64
	DefaultHeight    = 48
	DefaultScale     = 1.0

	DefaultBrightness            = 15
	MaxBrightness                = 15
	DefaultTeleportDuration      = 1
	DefaultInterpolationDuration = 1

	DefaultHeightAboveJukebox = 1.5
	DefaultXOffset            = 0.5
	DefaultZOffset            = 0.5

	DefaultFramesDirectory = "plugins/Hologram/video_frames"
	DefaultDiscName        = "Video Music Disc"
)

// Activation chime
const (
	// ChimeFrequency is A5 pitched up 1.5x, the note-block "pling" used on activation
	ChimeFrequency = 880.0 * 1.5

	ChimeDuration = 120 * time.Millisecond
	ChimeAttack   = 5 * time.Millisecond
	ChimeRelease  = 90 * time.Millisecond

	ChimeSampleRate = 44100
)

// DefaultFormats returns the default accepted frame file extensions
func DefaultFormats() []string {
	return []string{"png", "jpg", "jpeg"}
}

// DefaultDiscLore returns the default lore lines of the custom disc
func DefaultDiscLore() []string {
	return []string{
		"Plays a custom video above jukeboxes",
		"",
		"Right-click on a jukebox to play!",
	}
}
