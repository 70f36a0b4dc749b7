package trigger

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/holodisc/config"
	"github.com/lixenwraith/holodisc/disc"
	"github.com/lixenwraith/holodisc/session"
	"github.com/lixenwraith/holodisc/world"
)

var (
	ErrNoJukebox = errors.New("no jukebox")
	ErrOccupied  = errors.New("jukebox already holds a record")
	ErrEmpty     = errors.New("jukebox is empty")
	ErrUnknown   = errors.New("unknown action")
)

// Action names accepted by Host.Do
const (
	ActionPlace   = "place"
	ActionInsert  = "insert"
	ActionRegular = "regular"
	ActionEject   = "eject"
	ActionStop    = "stop"
	ActionBreak   = "break"
	ActionDropper = "dropper"
)

// Host plays the game host's part against an in-memory world: it mutates the
// jukebox and fires the matching handler in the order a server would
// Must be called on the tick goroutine
type Host struct {
	world    *world.World
	handlers *Handlers
	disc     config.DiscConfig
}

func NewHost(w *world.World, h *Handlers, cfg *config.Config) *Host {
	return &Host{world: w, handlers: h, disc: cfg.Disc}
}

// Apply picks up a reloaded disc definition
func (h *Host) Apply(cfg *config.Config) {
	h.disc = cfg.Disc
	h.handlers.Apply(cfg)
}

// Do runs the named action at loc
func (h *Host) Do(action string, loc session.Location) error {
	switch action {
	case ActionPlace:
		h.world.Place(loc)
		return nil
	case ActionInsert:
		return h.Insert(loc, disc.New(h.disc))
	case ActionRegular:
		return h.Insert(loc, disc.Regular())
	case ActionEject:
		return h.Eject(loc)
	case ActionStop:
		if !h.world.Stop(loc) {
			return fmt.Errorf("stop at %s: %w", loc, ErrEmpty)
		}
		return nil
	case ActionBreak:
		return h.Break(loc)
	case ActionDropper:
		return h.Dropper(loc, disc.New(h.disc))
	default:
		return fmt.Errorf("%w %q", ErrUnknown, action)
	}
}

// Insert is a player using item on the jukebox
func (h *Host) Insert(loc session.Location, item *disc.Item) error {
	if err := h.check(loc, false); err != nil {
		return fmt.Errorf("insert at %s: %w", loc, err)
	}
	h.handlers.Interact(loc, item)
	h.world.Insert(loc, item)
	return nil
}

// Eject is a player using the jukebox empty-handed
func (h *Host) Eject(loc session.Location) error {
	if err := h.check(loc, true); err != nil {
		return fmt.Errorf("eject at %s: %w", loc, err)
	}
	h.handlers.Interact(loc, nil)
	h.world.Eject(loc)
	return nil
}

func (h *Host) Break(loc session.Location) error {
	if _, ok := h.world.Break(loc); !ok {
		return fmt.Errorf("break at %s: %w", loc, ErrNoJukebox)
	}
	h.handlers.Break(loc)
	return nil
}

// Dropper is automation pushing item into the jukebox
func (h *Host) Dropper(loc session.Location, item *disc.Item) error {
	if err := h.check(loc, false); err != nil {
		return fmt.Errorf("dropper at %s: %w", loc, err)
	}
	h.world.Insert(loc, item)
	h.handlers.InventoryMove(loc, item, true)
	return nil
}

func (h *Host) check(loc session.Location, wantRecord bool) error {
	state, ok := h.world.Trigger(loc)
	switch {
	case !ok:
		return ErrNoJukebox
	case wantRecord && state.Record == nil:
		return ErrEmpty
	case !wantRecord && state.Record != nil:
		return ErrOccupied
	}
	return nil
}
