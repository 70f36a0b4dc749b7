package engine

import (
	"sync"
	"testing"
	"time"
)

func TestTimeProvider(t *testing.T) {
	var provider TimeProvider

	t1 := provider.Now()
	time.Sleep(10 * time.Millisecond)
	t2 := provider.Now()

	if diff := t2.Sub(t1); diff < 10*time.Millisecond {
		t.Errorf("Expected at least 10ms difference, got %v", diff)
	}
}

func TestManualClock(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("Expected %v, got %v", start, got)
	}

	clock.Advance(50 * time.Millisecond)
	if got := clock.Now(); !got.Equal(start.Add(50 * time.Millisecond)) {
		t.Errorf("Expected %v after advance, got %v", start.Add(50*time.Millisecond), got)
	}
}

// TestManualClockConcurrent verifies Advance and Now may race from different goroutines
func TestManualClockConcurrent(t *testing.T) {
	start := time.Unix(0, 0)
	clock := NewManualClock(start)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			clock.Advance(time.Millisecond)
		}()
		go func() {
			defer wg.Done()
			_ = clock.Now()
		}()
	}
	wg.Wait()

	if got := clock.Now().Sub(start); got != 10*time.Millisecond {
		t.Errorf("Expected 10ms total, got %v", got)
	}
}

func TestTickCounter(t *testing.T) {
	var c TickCounter
	if c.Tick() != 0 {
		t.Errorf("Expected tick 0, got %d", c.Tick())
	}
	if got := c.Advance(); got != 1 {
		t.Errorf("Expected Advance to return 1, got %d", got)
	}
	if c.Tick() != 1 {
		t.Errorf("Expected tick 1, got %d", c.Tick())
	}
}
