package render

import (
	"fmt"
	"image/color"

	"github.com/lixenwraith/holodisc/vmath"
)

// Side selects which face of the grid a proxy belongs to
type Side uint8

const (
	Forward Side = iota
	Backward
)

func (s Side) String() string {
	switch s {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// MarshalText encodes the side by name for wire formats
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "forward":
		*s = Forward
	case "backward":
		*s = Backward
	default:
		return fmt.Errorf("unknown side %q", b)
	}
	return nil
}

// Key identifies one proxy within a session: stable across frames for the same cell
type Key struct {
	Side Side
	X    int
	Y    int
}

// String returns the scene key, e.g. "forward_3_7"
func (k Key) String() string {
	return fmt.Sprintf("%s_%d_%d", k.Side, k.X, k.Y)
}

// Proxy describes one positioned coloured primitive standing in for a grid cell
// Comparable with ==; equal proxies need no update
type Proxy struct {
	Key                   Key
	Position              vmath.Vec3F // world anchor the transform is relative to
	Transform             vmath.Mat4
	Color                 color.NRGBA
	Brightness            int
	Billboard             bool
	TeleportDuration      int
	InterpolationDuration int
}
