// Package scene keeps the last proxy set submitted under each identity and
// turns every new submission into add, update and remove patches.
package scene

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/holodisc/render"
	"github.com/lixenwraith/holodisc/status"
)

// Submitter accepts the complete proxy set for an identity
// An empty set clears everything previously submitted under that identity
type Submitter interface {
	Submit(identity string, proxies []render.Proxy)
}

// Sink receives patch batches; implementations must not block
type Sink interface {
	Publish(Batch)
}

// Clock supplies the tick stamped on batches
type Clock interface {
	Tick() int64
}

type Op uint8

const (
	OpAdd Op = iota
	OpUpdate
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Patch is one change to a proxy. Proxy is zero for removals.
// Duration is the ticks the host should take to reach the new state:
// teleport duration for adds, interpolation duration for updates.
type Patch struct {
	Op       Op
	Key      render.Key
	Proxy    render.Proxy
	Duration int
}

// Batch is every change caused by one submission
type Batch struct {
	Identity string
	Tick     int64
	Patches  []Patch
}

type entry struct {
	order []render.Key
	byKey map[render.Key]render.Proxy
}

// Graph is the diff-based Submitter fanning batches out to sinks
type Graph struct {
	mu      sync.Mutex
	clock   Clock
	entries map[string]*entry
	sinks   []Sink

	statAdded   *atomic.Int64
	statUpdated *atomic.Int64
	statRemoved *atomic.Int64
}

func NewGraph(clock Clock, metrics *status.Registry) *Graph {
	return &Graph{
		clock:       clock,
		entries:     make(map[string]*entry),
		statAdded:   metrics.Counter("scene.added"),
		statUpdated: metrics.Counter("scene.updated"),
		statRemoved: metrics.Counter("scene.removed"),
	}
}

// AddSink registers s and returns the current state as add-only batches
// Registration and snapshot are atomic with respect to Submit
func (g *Graph) AddSink(s Sink) []Batch {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sinks = append(g.sinks, s)
	return g.snapshotLocked()
}

func (g *Graph) RemoveSink(s Sink) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, existing := range g.sinks {
		if existing == s {
			g.sinks = append(g.sinks[:i], g.sinks[i+1:]...)
			return
		}
	}
}

// Submit diffs proxies against the previous set for identity and publishes the changes
// Duplicate keys within one submission: the last occurrence wins
func (g *Graph) Submit(identity string, proxies []render.Proxy) {
	g.mu.Lock()
	defer g.mu.Unlock()

	prev := g.entries[identity]
	next := &entry{
		order: make([]render.Key, 0, len(proxies)),
		byKey: make(map[render.Key]render.Proxy, len(proxies)),
	}
	for _, p := range proxies {
		if _, dup := next.byKey[p.Key]; !dup {
			next.order = append(next.order, p.Key)
		}
		next.byKey[p.Key] = p
	}

	var patches []Patch
	var added, updated, removed int64
	for _, k := range next.order {
		p := next.byKey[k]
		if prev != nil {
			if old, ok := prev.byKey[k]; ok {
				if old != p {
					patches = append(patches, Patch{Op: OpUpdate, Key: k, Proxy: p, Duration: p.InterpolationDuration})
					updated++
				}
				continue
			}
		}
		patches = append(patches, Patch{Op: OpAdd, Key: k, Proxy: p, Duration: p.TeleportDuration})
		added++
	}
	if prev != nil {
		for _, k := range prev.order {
			if _, ok := next.byKey[k]; !ok {
				patches = append(patches, Patch{Op: OpRemove, Key: k})
				removed++
			}
		}
	}

	if len(next.order) == 0 {
		delete(g.entries, identity)
	} else {
		g.entries[identity] = next
	}

	if len(patches) == 0 {
		return
	}
	g.statAdded.Add(added)
	g.statUpdated.Add(updated)
	g.statRemoved.Add(removed)

	batch := Batch{Identity: identity, Tick: g.tick(), Patches: patches}
	for _, s := range g.sinks {
		s.Publish(batch)
	}
}

// Snapshot returns the live state as one add-only batch per identity, sorted by identity
func (g *Graph) Snapshot() []Batch {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Graph) snapshotLocked() []Batch {
	ids := make([]string, 0, len(g.entries))
	for id := range g.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tick := g.tick()
	out := make([]Batch, 0, len(ids))
	for _, id := range ids {
		e := g.entries[id]
		patches := make([]Patch, 0, len(e.order))
		for _, k := range e.order {
			p := e.byKey[k]
			patches = append(patches, Patch{Op: OpAdd, Key: k, Proxy: p})
		}
		out = append(out, Batch{Identity: id, Tick: tick, Patches: patches})
	}
	return out
}

// Proxies returns the live set for identity in submission order
func (g *Graph) Proxies(identity string) []render.Proxy {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[identity]
	if !ok {
		return nil
	}
	out := make([]render.Proxy, 0, len(e.order))
	for _, k := range e.order {
		out = append(out, e.byKey[k])
	}
	return out
}

// Identities returns the number of identities with live proxies
func (g *Graph) Identities() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

func (g *Graph) tick() int64 {
	if g.clock == nil {
		return 0
	}
	return g.clock.Tick()
}
