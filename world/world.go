// Package world is an in-memory host: jukebox blocks that hold one record each
package world

import (
	"sort"
	"sync"

	"github.com/lixenwraith/holodisc/disc"
	"github.com/lixenwraith/holodisc/engine"
	"github.com/lixenwraith/holodisc/session"
)

// Jukebox is one trigger block
type Jukebox struct {
	Record  *disc.Item
	Playing bool
}

// World holds jukeboxes by location
type World struct {
	mu        sync.RWMutex
	jukeboxes map[session.Location]*Jukebox
}

func New() *World {
	return &World{jukeboxes: make(map[session.Location]*Jukebox)}
}

// Place puts an empty jukebox at loc; an existing one is kept
func (w *World) Place(loc session.Location) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.jukeboxes[loc]; !ok {
		w.jukeboxes[loc] = &Jukebox{}
	}
}

// Insert puts item into the jukebox at loc and starts it playing
// Fails when there is no jukebox or it already holds a record
func (w *World) Insert(loc session.Location, item *disc.Item) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	j, ok := w.jukeboxes[loc]
	if !ok || j.Record != nil || item == nil {
		return false
	}
	j.Record = item
	j.Playing = true
	return true
}

// Eject removes and returns the record at loc
func (w *World) Eject(loc session.Location) (*disc.Item, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	j, ok := w.jukeboxes[loc]
	if !ok || j.Record == nil {
		return nil, false
	}
	item := j.Record
	j.Record = nil
	j.Playing = false
	return item, true
}

// Stop marks the record at loc as finished playing while leaving it inside
func (w *World) Stop(loc session.Location) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	j, ok := w.jukeboxes[loc]
	if !ok || !j.Playing {
		return false
	}
	j.Playing = false
	return true
}

// Break removes the jukebox at loc and returns the record it dropped, if any
func (w *World) Break(loc session.Location) (*disc.Item, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	j, ok := w.jukeboxes[loc]
	if !ok {
		return nil, false
	}
	delete(w.jukeboxes, loc)
	return j.Record, true
}

// Trigger implements engine.TriggerQuery
func (w *World) Trigger(loc session.Location) (engine.TriggerState, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	j, ok := w.jukeboxes[loc]
	if !ok {
		return engine.TriggerState{}, false
	}
	return engine.TriggerState{Playing: j.Playing, Record: j.Record}, true
}

// Jukeboxes returns every jukebox location, sorted by identity
func (w *World) Jukeboxes() []session.Location {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]session.Location, 0, len(w.jukeboxes))
	for loc := range w.jukeboxes {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity() < out[j].Identity() })
	return out
}
