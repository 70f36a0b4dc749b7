package trigger

import (
	"errors"
	"testing"

	"github.com/lixenwraith/holodisc/config"
	"github.com/lixenwraith/holodisc/session"
)

// TestHostActions walks one jukebox through insert, eject, dropper and break
func TestHostActions(t *testing.T) {
	fx := newFixture(t, func(c *config.Config) { c.Video.Loop = true })
	host := NewHost(fx.world, fx.handlers, fx.cfg)

	if err := host.Do(ActionInsert, jukebox); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := host.Do(ActionInsert, jukebox); !errors.Is(err, ErrOccupied) {
		t.Errorf("Expected ErrOccupied on second insert, got %v", err)
	}
	fx.tick(2)
	if !fx.driver.Active(jukebox) {
		t.Fatal("Expected playback after insert")
	}

	if err := host.Do(ActionEject, jukebox); err != nil {
		t.Fatalf("Eject failed: %v", err)
	}
	fx.tick(2)
	if fx.driver.Active(jukebox) {
		t.Fatal("Expected playback ended after eject")
	}
	if err := host.Do(ActionEject, jukebox); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty ejecting an empty jukebox, got %v", err)
	}

	if err := host.Do(ActionDropper, jukebox); err != nil {
		t.Fatalf("Dropper failed: %v", err)
	}
	fx.tick(2)
	if !fx.driver.Active(jukebox) {
		t.Fatal("Expected playback after dropper insertion")
	}

	if err := host.Do(ActionBreak, jukebox); err != nil {
		t.Fatalf("Break failed: %v", err)
	}
	if fx.driver.Active(jukebox) {
		t.Error("Expected break to end playback immediately")
	}
	if err := host.Do(ActionBreak, jukebox); !errors.Is(err, ErrNoJukebox) {
		t.Errorf("Expected ErrNoJukebox on second break, got %v", err)
	}
}

// TestHostStopEndsSession verifies a record that stops playing ends the session on the next pass
func TestHostStopEndsSession(t *testing.T) {
	fx := newFixture(t, func(c *config.Config) { c.Video.Loop = true })
	host := NewHost(fx.world, fx.handlers, fx.cfg)

	host.Do(ActionInsert, jukebox)
	fx.tick(2)
	if err := host.Do(ActionStop, jukebox); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	fx.tick(1)
	if fx.driver.Active(jukebox) {
		t.Error("Expected session removed once the jukebox stopped playing")
	}
}

// TestHostPlaceAndUnknown covers placing new jukeboxes and bad action names
func TestHostPlaceAndUnknown(t *testing.T) {
	fx := newFixture(t, nil)
	host := NewHost(fx.world, fx.handlers, fx.cfg)
	other := session.Location{World: "world", X: 5, Y: 64, Z: 5}

	if err := host.Do(ActionInsert, other); !errors.Is(err, ErrNoJukebox) {
		t.Errorf("Expected ErrNoJukebox before place, got %v", err)
	}
	host.Do(ActionPlace, other)
	if err := host.Do(ActionRegular, other); err != nil {
		t.Errorf("Expected regular insert to succeed after place, got %v", err)
	}
	if err := host.Do("juggle", other); err == nil {
		t.Error("Expected error for unknown action")
	}
}
