// Package notify reports session lifecycle transitions outside the engine
package notify

import (
	"log"

	"github.com/lixenwraith/holodisc/engine"
	"github.com/lixenwraith/holodisc/session"
)

// Event names used in topics and payloads
const (
	EventStarted  = "started"
	EventFinished = "finished"
	EventRemoved  = "removed"
)

// Event is the payload published for every transition
type Event struct {
	Identity  string `json:"identity"`
	World     string `json:"world"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Z         int    `json:"z"`
	Event     string `json:"event"`
	StartTick int64  `json:"start_tick"`
	Loop      bool   `json:"loop"`
}

func newEvent(s *session.Session, name string) Event {
	return Event{
		Identity:  s.Identity,
		World:     s.Location.World,
		X:         s.Location.X,
		Y:         s.Location.Y,
		Z:         s.Location.Z,
		Event:     name,
		StartTick: s.StartTick,
		Loop:      s.Loop,
	}
}

func endEvent(reason engine.Reason) string {
	if reason == engine.ReasonFinished {
		return EventFinished
	}
	return EventRemoved
}

// Multi fans out to several notifiers in order
type Multi []engine.Notifier

func (m Multi) SessionStarted(s *session.Session) {
	for _, n := range m {
		n.SessionStarted(s)
	}
}

func (m Multi) SessionEnded(s *session.Session, reason engine.Reason) {
	for _, n := range m {
		n.SessionEnded(s, reason)
	}
}

// Log writes one line per transition
type Log struct {
	Logger *log.Logger
}

func (l Log) logger() *log.Logger {
	if l.Logger == nil {
		return log.Default()
	}
	return l.Logger
}

func (l Log) SessionStarted(s *session.Session) {
	l.logger().Printf("session %s %s at tick %d", s.Identity, EventStarted, s.StartTick)
}

func (l Log) SessionEnded(s *session.Session, reason engine.Reason) {
	l.logger().Printf("session %s %s", s.Identity, endEvent(reason))
}
