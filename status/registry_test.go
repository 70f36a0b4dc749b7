package status

import (
	"sync"
	"testing"
)

func TestRegistry_CounterCaching(t *testing.T) {
	r := NewRegistry()

	a := r.Counter("sessions.started")
	b := r.Counter("sessions.started")
	if a != b {
		t.Fatal("expected the same pointer for the same key")
	}

	a.Add(3)
	if got := b.Load(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry
	c := r.Counter("x")
	c.Add(1)
	g := r.Gauge("y")
	g.Set(2.5)
	if c.Load() != 1 || g.Get() != 2.5 {
		t.Error("detached metrics should still work")
	}
}

func TestRegistry_SnapshotSorted(t *testing.T) {
	r := NewRegistry()
	r.Counter("render.frames").Add(7)
	r.Gauge("engine.tick_ms").Set(1.25)
	r.Counter("frames.loaded").Add(90)

	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 metrics, got %d", len(snap))
	}

	wantKeys := []string{"engine.tick_ms", "frames.loaded", "render.frames"}
	for i, key := range wantKeys {
		if snap[i].Key != key {
			t.Errorf("index %d: expected %s, got %s", i, key, snap[i].Key)
		}
	}
	if snap[1].Value != 90 {
		t.Errorf("frames.loaded: expected 90, got %v", snap[1].Value)
	}
}

func TestMetricMap_ConcurrentGet(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Get("shared").Add(1)
			}
		}()
	}
	wg.Wait()

	if got := m.Get("shared").Get(); got != 1600 {
		t.Errorf("expected 1600, got %v", got)
	}
	if m.Count() != 1 {
		t.Errorf("expected 1 metric, got %d", m.Count())
	}
}

func TestAtomicFloat_SetMax(t *testing.T) {
	var f AtomicFloat
	f.SetMax(2)
	f.SetMax(1)
	f.SetMax(3.5)
	if got := f.Get(); got != 3.5 {
		t.Errorf("expected 3.5, got %v", got)
	}
}
