// Package session tracks one playback session per trigger location
package session

import (
	"fmt"
	"sort"

	"github.com/lixenwraith/holodisc/parameter"
)

// Location is the block coordinate of a trigger, comparable and usable as a map key
type Location struct {
	World string
	X     int
	Y     int
	Z     int
}

// Identity returns the stable scene identity for proxies anchored at l
func (l Location) Identity() string {
	return fmt.Sprintf("%s_%s_%d_%d_%d", parameter.IdentityPrefix, l.World, l.X, l.Y, l.Z)
}

func (l Location) String() string {
	return fmt.Sprintf("%s(%d, %d, %d)", l.World, l.X, l.Y, l.Z)
}

// Session is one active rendering instance
type Session struct {
	Location  Location
	StartTick int64
	Loop      bool
	Identity  string
}

// Elapsed returns ticks since start, zero before start
func (s *Session) Elapsed(now int64) int64 {
	if now < s.StartTick {
		return 0
	}
	return now - s.StartTick
}

// Registry maps trigger locations to sessions
// Not safe for concurrent use; owned by the tick goroutine
type Registry struct {
	sessions map[Location]*Session
	loop     bool
}

func NewRegistry(loop bool) *Registry {
	return &Registry{
		sessions: make(map[Location]*Session),
		loop:     loop,
	}
}

// SetLoop changes the loop flag given to sessions begun afterwards
func (r *Registry) SetLoop(loop bool) {
	r.loop = loop
}

// Begin creates a session at loc starting at now
// When loc already has a session it is returned unchanged with created=false
func (r *Registry) Begin(loc Location, now int64) (s *Session, created bool) {
	if existing, ok := r.sessions[loc]; ok {
		return existing, false
	}
	s = &Session{
		Location:  loc,
		StartTick: now,
		Loop:      r.loop,
		Identity:  loc.Identity(),
	}
	r.sessions[loc] = s
	return s, true
}

// End removes the session at loc; absent locations are a no-op
func (r *Registry) End(loc Location) (*Session, bool) {
	s, ok := r.sessions[loc]
	if !ok {
		return nil, false
	}
	delete(r.sessions, loc)
	return s, true
}

func (r *Registry) Get(loc Location) (*Session, bool) {
	s, ok := r.sessions[loc]
	return s, ok
}

func (r *Registry) Len() int {
	return len(r.sessions)
}

// Active returns a snapshot of every session ordered by identity
// Ending sessions while iterating the snapshot neither skips nor repeats others
func (r *Registry) Active() []*Session {
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out
}
