package scene

import (
	"image/color"
	"sync"
	"testing"

	"github.com/lixenwraith/holodisc/render"
	"github.com/lixenwraith/holodisc/status"
	"github.com/lixenwraith/holodisc/vmath"
)

type fixedClock int64

func (c fixedClock) Tick() int64 { return int64(c) }

type captureSink struct {
	mu      sync.Mutex
	batches []Batch
}

func (s *captureSink) Publish(b Batch) {
	s.mu.Lock()
	s.batches = append(s.batches, b)
	s.mu.Unlock()
}

func (s *captureSink) take() []Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.batches
	s.batches = nil
	return out
}

func proxy(x, y int, c color.NRGBA) render.Proxy {
	return render.Proxy{
		Key:                   render.Key{Side: render.Forward, X: x, Y: y},
		Transform:             vmath.Identity().Translate(float64(x), float64(y), 0),
		Color:                 c,
		TeleportDuration:      1,
		InterpolationDuration: 3,
	}
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func ops(b Batch) map[string]Op {
	out := make(map[string]Op, len(b.Patches))
	for _, p := range b.Patches {
		out[p.Key.String()] = p.Op
	}
	return out
}

// TestGraphDiff verifies add, update, remove and no-op across submissions
func TestGraphDiff(t *testing.T) {
	reg := status.NewRegistry()
	g := NewGraph(fixedClock(42), reg)
	sink := &captureSink{}
	g.AddSink(sink)

	g.Submit("video_w_0_0_0", []render.Proxy{proxy(0, 0, red), proxy(1, 0, red)})
	batches := sink.take()
	if len(batches) != 1 {
		t.Fatalf("Expected 1 batch, got %d", len(batches))
	}
	if batches[0].Tick != 42 || batches[0].Identity != "video_w_0_0_0" {
		t.Errorf("Unexpected batch header %+v", batches[0])
	}
	if got := ops(batches[0]); got["forward_0_0"] != OpAdd || got["forward_1_0"] != OpAdd {
		t.Errorf("Expected two adds, got %v", got)
	}
	if d := batches[0].Patches[0].Duration; d != 1 {
		t.Errorf("Expected add to carry teleport duration 1, got %d", d)
	}

	// Unchanged resubmission emits nothing
	g.Submit("video_w_0_0_0", []render.Proxy{proxy(0, 0, red), proxy(1, 0, red)})
	if got := sink.take(); len(got) != 0 {
		t.Errorf("Expected no batch for unchanged set, got %v", got)
	}

	// Recolour one, drop one, add one
	g.Submit("video_w_0_0_0", []render.Proxy{proxy(0, 0, blue), proxy(0, 1, red)})
	batches = sink.take()
	if len(batches) != 1 {
		t.Fatalf("Expected 1 batch, got %d", len(batches))
	}
	got := ops(batches[0])
	want := map[string]Op{"forward_0_0": OpUpdate, "forward_0_1": OpAdd, "forward_1_0": OpRemove}
	for k, op := range want {
		if got[k] != op {
			t.Errorf("%s: expected %s, got %s", k, op, got[k])
		}
	}
	if len(got) != len(want) {
		t.Errorf("Expected %d patches, got %v", len(want), got)
	}
	for _, p := range batches[0].Patches {
		if p.Op == OpUpdate && p.Duration != 3 {
			t.Errorf("Expected update to carry interpolation duration 3, got %d", p.Duration)
		}
	}

	if reg.Counter("scene.added").Load() != 3 || reg.Counter("scene.updated").Load() != 1 || reg.Counter("scene.removed").Load() != 1 {
		t.Errorf("Unexpected counters %v", reg.Snapshot())
	}
}

// TestGraphEmptyClears verifies an empty submission removes everything and forgets the identity
func TestGraphEmptyClears(t *testing.T) {
	g := NewGraph(nil, nil)
	sink := &captureSink{}
	g.AddSink(sink)

	g.Submit("a", []render.Proxy{proxy(0, 0, red), proxy(1, 1, red)})
	sink.take()

	g.Submit("a", nil)
	batches := sink.take()
	if len(batches) != 1 || len(batches[0].Patches) != 2 {
		t.Fatalf("Expected one batch with 2 removals, got %+v", batches)
	}
	for _, p := range batches[0].Patches {
		if p.Op != OpRemove {
			t.Errorf("Expected remove, got %s", p.Op)
		}
	}
	if g.Identities() != 0 {
		t.Errorf("Expected identity forgotten, %d remain", g.Identities())
	}

	// Clearing an unknown identity is silent
	g.Submit("a", nil)
	g.Submit("never", nil)
	if got := sink.take(); len(got) != 0 {
		t.Errorf("Expected no batches, got %d", len(got))
	}
}

// TestGraphIdentitiesIndependent verifies identities never affect each other
func TestGraphIdentitiesIndependent(t *testing.T) {
	g := NewGraph(nil, nil)
	g.Submit("a", []render.Proxy{proxy(0, 0, red)})
	g.Submit("b", []render.Proxy{proxy(0, 0, blue)})
	g.Submit("a", nil)

	if g.Proxies("a") != nil {
		t.Error("Expected a cleared")
	}
	if got := g.Proxies("b"); len(got) != 1 || got[0].Color != blue {
		t.Errorf("Expected b untouched, got %+v", got)
	}
}

// TestGraphDuplicateKeys verifies the last duplicate wins
func TestGraphDuplicateKeys(t *testing.T) {
	g := NewGraph(nil, nil)
	g.Submit("a", []render.Proxy{proxy(0, 0, red), proxy(0, 0, blue)})
	got := g.Proxies("a")
	if len(got) != 1 || got[0].Color != blue {
		t.Errorf("Expected single blue proxy, got %+v", got)
	}
}

// TestAddSinkSnapshot verifies late sinks receive the live state
func TestAddSinkSnapshot(t *testing.T) {
	g := NewGraph(fixedClock(7), nil)
	g.Submit("b", []render.Proxy{proxy(0, 0, red)})
	g.Submit("a", []render.Proxy{proxy(1, 0, red), proxy(2, 0, red)})

	sink := &captureSink{}
	snap := g.AddSink(sink)
	if len(snap) != 2 || snap[0].Identity != "a" || snap[1].Identity != "b" {
		t.Fatalf("Expected sorted snapshot [a b], got %+v", snap)
	}
	if len(snap[0].Patches) != 2 || snap[0].Patches[0].Op != OpAdd || snap[0].Tick != 7 {
		t.Errorf("Unexpected snapshot batch %+v", snap[0])
	}

	g.RemoveSink(sink)
	g.Submit("a", nil)
	if got := sink.take(); len(got) != 0 {
		t.Errorf("Expected removed sink to receive nothing, got %d", len(got))
	}
}

// TestRecorder verifies recorded calls are isolated copies
func TestRecorder(t *testing.T) {
	var r Recorder
	ps := []render.Proxy{proxy(0, 0, red)}
	r.Submit("a", ps)
	ps[0].Color = blue
	r.Submit("a", nil)
	r.Submit("b", ps)

	if r.Count("a") != 2 || r.Count("b") != 1 {
		t.Errorf("Unexpected counts a=%d b=%d", r.Count("a"), r.Count("b"))
	}
	if last, ok := r.Last("a"); !ok || len(last) != 0 {
		t.Errorf("Expected last submission for a to be empty, got %v", last)
	}
	if calls := r.Calls(); calls[0].Proxies[0].Color != red {
		t.Error("Expected recorder to copy submitted slice")
	}
	r.Reset()
	if len(r.Calls()) != 0 {
		t.Error("Expected Reset to clear calls")
	}
}
