package network

import (
	"time"

	"github.com/lixenwraith/holodisc/config"
	"github.com/lixenwraith/holodisc/parameter"
)

// Config holds hub configuration
type Config struct {
	// Address to bind
	Address string

	// Codec used when a client does not ask for one
	Codec string

	// Timing
	WriteTimeout time.Duration

	// Buffer sizes
	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int
}

// DefaultConfig returns the built-in hub configuration
func DefaultConfig() *Config {
	return &Config{
		Address:         parameter.DefaultListen,
		Codec:           config.CodecJSON,
		WriteTimeout:    parameter.WriteTimeout,
		ReadBufferSize:  1024,
		WriteBufferSize: 64 * 1024,
		SendQueueSize:   parameter.ClientQueueSize,
	}
}

// ConfigFrom applies the server section on top of the defaults
func ConfigFrom(cfg config.ServerConfig) *Config {
	c := DefaultConfig()
	if cfg.Listen != "" {
		c.Address = cfg.Listen
	}
	if cfg.Codec != "" {
		c.Codec = cfg.Codec
	}
	return c
}
