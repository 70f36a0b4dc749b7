package schedule

import "testing"

// TestFrameAtScenarios covers the literal tick sequences for 30 fps over 90 frames
func TestFrameAtScenarios(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  int64
		loop     bool
		wantIdx  int
		wantDone bool
	}{
		{"start", 0, false, 0, false},
		{"one tick", 1, false, 1, false},
		{"two ticks", 2, false, 3, false},
		{"last frame", 59, false, 88, false},
		{"finished at 60", 60, false, 89, true},
		{"well past end", 1000, false, 89, true},
		{"loop at 40", 40, true, 60, false},
		{"loop wraps at 60", 60, true, 0, false},
		{"loop second pass", 100, true, 60, false},
		{"negative clamps", -5, false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, done := FrameAt(tt.elapsed, 30, 90, tt.loop)
			if done != tt.wantDone {
				t.Errorf("finished = %v, expected %v", done, tt.wantDone)
			}
			if idx != tt.wantIdx {
				t.Errorf("index = %d, expected %d", idx, tt.wantIdx)
			}
		})
	}
}

// TestFrameAtEmpty verifies zero frames is finished for both loop settings
func TestFrameAtEmpty(t *testing.T) {
	for _, loop := range []bool{false, true} {
		for _, elapsed := range []int64{0, 1, 100} {
			if _, done := FrameAt(elapsed, 30, 0, loop); !done {
				t.Errorf("Expected finished for empty animation (loop=%v, elapsed=%d)", loop, elapsed)
			}
		}
	}
}

// TestFinishedIffPastEnd checks finished <=> elapsed*rate/20 >= count across rates
func TestFinishedIffPastEnd(t *testing.T) {
	for _, rate := range []int{1, 7, 20, 24, 30, 60} {
		for _, count := range []int{1, 2, 13, 90} {
			for elapsed := int64(0); elapsed < 400; elapsed++ {
				_, done := FrameAt(elapsed, rate, count, false)
				want := elapsed*int64(rate)/20 >= int64(count)
				if done != want {
					t.Fatalf("rate=%d count=%d elapsed=%d: finished=%v, expected %v", rate, count, elapsed, done, want)
				}
			}
		}
	}
}

// TestLoopIndexInRange checks looping indexes stay within [0, count)
func TestLoopIndexInRange(t *testing.T) {
	for _, rate := range []int{1, 24, 30, 60, 144} {
		for _, count := range []int{1, 3, 90} {
			for elapsed := int64(0); elapsed < 2000; elapsed += 7 {
				idx, done := FrameAt(elapsed, rate, count, true)
				if done {
					t.Fatalf("rate=%d count=%d elapsed=%d: looping playback finished", rate, count, elapsed)
				}
				if idx < 0 || idx >= count {
					t.Fatalf("rate=%d count=%d elapsed=%d: index %d out of range", rate, count, elapsed, idx)
				}
			}
		}
	}
}

// TestDurationMatchesFrameAt verifies Duration is the first finished tick
func TestDurationMatchesFrameAt(t *testing.T) {
	if got := Duration(30, 90); got != 60 {
		t.Errorf("Duration(30, 90) = %d, expected 60", got)
	}
	if got := Duration(7, 13); got != 38 {
		t.Errorf("Duration(7, 13) = %d, expected 38", got)
	}
	if got := Duration(30, 0); got != 0 {
		t.Errorf("Duration(30, 0) = %d, expected 0", got)
	}

	for _, rate := range []int{1, 7, 24, 30, 60} {
		for _, count := range []int{1, 5, 90} {
			d := Duration(rate, count)
			if _, done := FrameAt(d, rate, count, false); !done {
				t.Errorf("rate=%d count=%d: expected finished at Duration %d", rate, count, d)
			}
			if d > 0 {
				if _, done := FrameAt(d-1, rate, count, false); done {
					t.Errorf("rate=%d count=%d: expected playing at Duration-1 %d", rate, count, d-1)
				}
			}
		}
	}
}

// TestFrameAtNonPositiveRate verifies a zero rate holds the first frame
func TestFrameAtNonPositiveRate(t *testing.T) {
	idx, done := FrameAt(500, 0, 10, false)
	if idx != 0 || done {
		t.Errorf("Expected (0, false), got (%d, %v)", idx, done)
	}
}
