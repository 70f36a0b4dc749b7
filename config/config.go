// Package config loads playback settings from a TOML file with environment overrides
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/holodisc/frame"
	"github.com/lixenwraith/holodisc/parameter"
	"github.com/lixenwraith/holodisc/toml"
)

//go:embed default.toml
var defaultFile []byte

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Codec names accepted by server.codec
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

type Config struct {
	Video    VideoConfig    `toml:"video"`
	Display  DisplayConfig  `toml:"display"`
	Position PositionConfig `toml:"position"`
	Files    FilesConfig    `toml:"files"`
	Disc     DiscConfig     `toml:"disc"`
	Dropper  DropperConfig  `toml:"dropper"`
	Audio    AudioConfig    `toml:"audio"`
	Server   ServerConfig   `toml:"server"`
	MQTT     MQTTConfig     `toml:"mqtt"`
}

type VideoConfig struct {
	FrameRate int     `toml:"frame_rate" env:"HOLODISC_VIDEO_FRAME_RATE"`
	Width     int     `toml:"width"      env:"HOLODISC_VIDEO_WIDTH"`
	Height    int     `toml:"height"     env:"HOLODISC_VIDEO_HEIGHT"`
	Scale     float64 `toml:"scale"      env:"HOLODISC_VIDEO_SCALE"`
	Loop      bool    `toml:"loop"       env:"HOLODISC_VIDEO_LOOP"`
	Resample  string  `toml:"resample"   env:"HOLODISC_VIDEO_RESAMPLE"`
}

type DisplayConfig struct {
	Billboard             bool `toml:"billboard"              env:"HOLODISC_DISPLAY_BILLBOARD"`
	DoubleSided           bool `toml:"double_sided"           env:"HOLODISC_DISPLAY_DOUBLE_SIDED"`
	Brightness            int  `toml:"brightness"             env:"HOLODISC_DISPLAY_BRIGHTNESS"`
	TeleportDuration      int  `toml:"teleport_duration"      env:"HOLODISC_DISPLAY_TELEPORT_DURATION"`
	InterpolationDuration int  `toml:"interpolation_duration" env:"HOLODISC_DISPLAY_INTERPOLATION_DURATION"`
}

// PositionConfig offsets the grid centre from the trigger block origin
type PositionConfig struct {
	HeightAboveJukebox float64 `toml:"height_above_jukebox" env:"HOLODISC_POSITION_HEIGHT"`
	XOffset            float64 `toml:"x_offset"             env:"HOLODISC_POSITION_X_OFFSET"`
	ZOffset            float64 `toml:"z_offset"             env:"HOLODISC_POSITION_Z_OFFSET"`
}

type FilesConfig struct {
	FramesDirectory  string   `toml:"frames_directory"  env:"HOLODISC_FRAMES_DIRECTORY"`
	SupportedFormats []string `toml:"supported_formats" env:"HOLODISC_SUPPORTED_FORMATS" envSeparator:","`
}

type DiscConfig struct {
	UseCustomDisc bool     `toml:"use_custom_disc"  env:"HOLODISC_DISC_USE_CUSTOM"`
	Name          string   `toml:"custom_disc_name" env:"HOLODISC_DISC_NAME"`
	Lore          []string `toml:"custom_disc_lore"`
}

type DropperConfig struct {
	DetectInsertion bool `toml:"detect_dropper_insertion" env:"HOLODISC_DROPPER_DETECT"`
	AcceptRegular   bool `toml:"accept_regular_discs"     env:"HOLODISC_DROPPER_ACCEPT_REGULAR"`
}

type AudioConfig struct {
	Chime  bool    `toml:"chime"  env:"HOLODISC_AUDIO_CHIME"`
	Volume float64 `toml:"volume" env:"HOLODISC_AUDIO_VOLUME"`
}

type ServerConfig struct {
	Listen string `toml:"listen" env:"HOLODISC_LISTEN"`
	Codec  string `toml:"codec"  env:"HOLODISC_CODEC"`
}

// MQTTConfig enables lifecycle publishing when Broker is set
type MQTTConfig struct {
	Broker      string `toml:"broker"       env:"HOLODISC_MQTT_BROKER"`
	TopicPrefix string `toml:"topic_prefix" env:"HOLODISC_MQTT_TOPIC_PREFIX"`
	ClientID    string `toml:"client_id"    env:"HOLODISC_MQTT_CLIENT_ID"`
}

// Default returns the built-in configuration, identical to the shipped default file
func Default() *Config {
	return &Config{
		Video: VideoConfig{
			FrameRate: parameter.DefaultFrameRate,
			Width:     parameter.DefaultWidth,
			Height:    parameter.DefaultHeight,
			Scale:     parameter.DefaultScale,
			Resample:  frame.ResampleBilinear,
		},
		Display: DisplayConfig{
			Brightness:            parameter.DefaultBrightness,
			TeleportDuration:      parameter.DefaultTeleportDuration,
			InterpolationDuration: parameter.DefaultInterpolationDuration,
		},
		Position: PositionConfig{
			HeightAboveJukebox: parameter.DefaultHeightAboveJukebox,
			XOffset:            parameter.DefaultXOffset,
			ZOffset:            parameter.DefaultZOffset,
		},
		Files: FilesConfig{
			FramesDirectory:  parameter.DefaultFramesDirectory,
			SupportedFormats: parameter.DefaultFormats(),
		},
		Disc: DiscConfig{
			UseCustomDisc: true,
			Name:          parameter.DefaultDiscName,
			Lore:          parameter.DefaultDiscLore(),
		},
		Dropper: DropperConfig{
			DetectInsertion: true,
			AcceptRegular:   true,
		},
		Audio: AudioConfig{
			Chime:  true,
			Volume: 1.0,
		},
		Server: ServerConfig{
			Listen: parameter.DefaultListen,
			Codec:  CodecJSON,
		},
		MQTT: MQTTConfig{
			TopicPrefix: "holodisc",
		},
	}
}

// DefaultFile returns the embedded default configuration file
func DefaultFile() []byte {
	out := make([]byte, len(defaultFile))
	copy(out, defaultFile)
	return out
}

// WriteDefault writes the default configuration file to path, creating parent directories
func WriteDefault(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, defaultFile, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

// Parse decodes data over the defaults; keys absent from data keep their default
// Unknown keys are returned for the caller to report
func Parse(data []byte) (*Config, []string, error) {
	cfg := Default()
	unknown, err := toml.UnmarshalStrict(data, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, unknown, nil
}

// Load reads path, applies HOLODISC_* environment overrides and validates the result
// A missing file is created from the embedded default; keys missing from an existing file are added to it
func Load(path string, logger *log.Logger) (*Config, error) {
	if logger == nil {
		logger = log.Default()
	}

	data, err := os.ReadFile(path)
	existed := err == nil
	switch {
	case errors.Is(err, os.ErrNotExist):
		if werr := WriteDefault(path); werr != nil {
			logger.Printf("config: %v", werr)
		} else {
			logger.Printf("config: wrote default configuration to %s", path)
		}
		data = defaultFile
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, unknown, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if existed {
		filled, added, err := FillMissing(data)
		switch {
		case err != nil:
			logger.Printf("config: %v", err)
		case len(added) > 0:
			if err := writeFile(path, filled); err != nil {
				logger.Printf("config: add missing keys to %s: %v", path, err)
			} else {
				logger.Printf("config: added %d missing keys to %s", len(added), path)
			}
		}
	}
	for _, key := range unknown {
		logger.Printf("config: unknown key %q in %s", key, path)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any HOLODISC_* variables that are set
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks value ranges; every failure wraps ErrInvalid
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Video.FrameRate > 0, "video.frame_rate must be positive, got %d", c.Video.FrameRate)
	check(c.Video.Width >= 1 && c.Video.Width <= parameter.MaxGridSize,
		"video.width must be in [1, %d], got %d", parameter.MaxGridSize, c.Video.Width)
	check(c.Video.Height >= 1 && c.Video.Height <= parameter.MaxGridSize,
		"video.height must be in [1, %d], got %d", parameter.MaxGridSize, c.Video.Height)
	check(c.Video.Scale > 0, "video.scale must be positive, got %v", c.Video.Scale)
	switch c.Video.Resample {
	case "", frame.ResampleNearest, frame.ResampleBilinear, frame.ResampleCatmullRom:
	default:
		check(false, "video.resample must be nearest, bilinear or catmullrom, got %q", c.Video.Resample)
	}

	check(c.Display.Brightness >= 0 && c.Display.Brightness <= parameter.MaxBrightness,
		"display.brightness must be in [0, %d], got %d", parameter.MaxBrightness, c.Display.Brightness)
	check(c.Display.TeleportDuration >= 0, "display.teleport_duration must not be negative")
	check(c.Display.InterpolationDuration >= 0, "display.interpolation_duration must not be negative")

	check(len(c.Files.SupportedFormats) > 0, "files.supported_formats must not be empty")
	check(c.Audio.Volume >= 0, "audio.volume must not be negative")

	switch c.Server.Codec {
	case CodecJSON, CodecMsgpack:
	default:
		check(false, "server.codec must be json or msgpack, got %q", c.Server.Codec)
	}

	return errors.Join(errs...)
}
