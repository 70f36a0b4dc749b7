package network

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/holodisc/config"
	"github.com/lixenwraith/holodisc/scene"
)

// MessageType identifies the semantic meaning of a message
type MessageType string

const (
	// MsgSnapshot is the first message on every connection: the full live state
	MsgSnapshot MessageType = "snapshot"
	// MsgBatch carries the patches of one submission
	MsgBatch MessageType = "batch"
)

// Message is the envelope of every frame sent to a client
type Message struct {
	Type    MessageType `json:"type" msgpack:"type" jsonschema:"enum=snapshot,enum=batch"`
	Client  string      `json:"client,omitempty" msgpack:"client,omitempty"`
	Batches []Batch     `json:"batches" msgpack:"batches"`
}

type Batch struct {
	Identity string  `json:"identity" msgpack:"identity"`
	Tick     int64   `json:"tick" msgpack:"tick"`
	Patches  []Patch `json:"patches" msgpack:"patches"`
}

// Patch mirrors scene.Patch; Proxy is omitted for removals
type Patch struct {
	Op       string `json:"op" msgpack:"op" jsonschema:"enum=add,enum=update,enum=remove"`
	Key      string `json:"key" msgpack:"key"`
	Side     string `json:"side" msgpack:"side" jsonschema:"enum=forward,enum=backward"`
	X        int    `json:"x" msgpack:"x"`
	Y        int    `json:"y" msgpack:"y"`
	Duration int    `json:"duration" msgpack:"duration"`
	Proxy    *Proxy `json:"proxy,omitempty" msgpack:"proxy,omitempty"`
}

// Proxy is the display state of one cell; Transform is column-major
type Proxy struct {
	Position   [3]float64  `json:"position" msgpack:"position"`
	Transform  [16]float64 `json:"transform" msgpack:"transform"`
	Color      Color       `json:"color" msgpack:"color"`
	Brightness int         `json:"brightness" msgpack:"brightness"`
	Billboard  bool        `json:"billboard" msgpack:"billboard"`
}

type Color struct {
	R uint8 `json:"r" msgpack:"r"`
	G uint8 `json:"g" msgpack:"g"`
	B uint8 `json:"b" msgpack:"b"`
	A uint8 `json:"a" msgpack:"a"`
}

// FromBatch converts a scene batch to its wire form
func FromBatch(b scene.Batch) Batch {
	out := Batch{
		Identity: b.Identity,
		Tick:     b.Tick,
		Patches:  make([]Patch, 0, len(b.Patches)),
	}
	for _, p := range b.Patches {
		wp := Patch{
			Op:       p.Op.String(),
			Key:      p.Key.String(),
			Side:     p.Key.Side.String(),
			X:        p.Key.X,
			Y:        p.Key.Y,
			Duration: p.Duration,
		}
		if p.Op != scene.OpRemove {
			pos := p.Proxy.Position
			wp.Proxy = &Proxy{
				Position:   [3]float64{pos.X, pos.Y, pos.Z},
				Transform:  p.Proxy.Transform,
				Color:      Color{p.Proxy.Color.R, p.Proxy.Color.G, p.Proxy.Color.B, p.Proxy.Color.A},
				Brightness: p.Proxy.Brightness,
				Billboard:  p.Proxy.Billboard,
			}
		}
		out.Patches = append(out.Patches, wp)
	}
	return out
}

// ValidCodec reports whether name is a supported codec
func ValidCodec(name string) bool {
	return name == config.CodecJSON || name == config.CodecMsgpack
}

// Encode serializes m and returns the websocket frame type for codec
func Encode(codec string, m *Message) ([]byte, int, error) {
	switch codec {
	case config.CodecJSON:
		data, err := json.Marshal(m)
		return data, websocket.TextMessage, err
	case config.CodecMsgpack:
		data, err := msgpack.Marshal(m)
		return data, websocket.BinaryMessage, err
	default:
		return nil, 0, fmt.Errorf("unknown codec %q", codec)
	}
}

// Decode is the inverse of Encode
func Decode(codec string, data []byte, m *Message) error {
	switch codec {
	case config.CodecJSON:
		return json.Unmarshal(data, m)
	case config.CodecMsgpack:
		return msgpack.Unmarshal(data, m)
	default:
		return fmt.Errorf("unknown codec %q", codec)
	}
}
