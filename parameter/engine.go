package parameter

import "time"

// Tick Loop & Playback Timing
const (
	// TicksPerSecond is the fixed host tick rate all playback arithmetic is based on
	TicksPerSecond = 20

	// TickInterval is the wall-clock length of one tick (1s / TicksPerSecond)
	TickInterval = time.Second / TicksPerSecond

	// TickMaxBehind is how far the loop may fall behind before the deadline is re-anchored
	TickMaxBehind = 2 * TickInterval

	// SettleDelayTicks is the delay before re-checking host state after an insertion or ejection
	// The host only guarantees the container state a couple of ticks after the triggering event
	SettleDelayTicks = 2

	// PostQueueSize is the initial capacity of the external command queue drained at tick start
	PostQueueSize = 64
)

// Grid Limits
const (
	// MaxGridSize bounds both grid dimensions; 512x512 is already ~260k proxies per side
	MaxGridSize = 512

	// IdentityPrefix prefixes every session identity submitted to the scene layer
	IdentityPrefix = "video"
)

// Network Defaults
const (
	// DefaultListen is the default websocket/HTTP listen address
	DefaultListen = ":8765"

	// ClientQueueSize is the per-client outbound batch queue; overflow drops batches
	ClientQueueSize = 64

	// WriteTimeout bounds a single websocket write
	WriteTimeout = 5 * time.Second

	// PublishTimeout bounds a single MQTT publish
	PublishTimeout = 2 * time.Second

	// MQTTQueueSize is the outbound lifecycle event queue; overflow drops events
	MQTTQueueSize = 64

	// ConnectTimeout bounds the initial MQTT connection
	ConnectTimeout = 5 * time.Second

	// CallTimeout bounds an HTTP request waiting for the tick goroutine
	CallTimeout = 2 * time.Second
)
