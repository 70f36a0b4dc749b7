// Package schedule maps elapsed ticks to a frame index
package schedule

import "github.com/lixenwraith/holodisc/parameter"

// FrameAt returns the frame to show after elapsed ticks, or finished=true when a
// non-looping animation has played out. An empty animation is always finished.
//
// The index is floor(elapsed * frameRate / TicksPerSecond), multiplied before
// dividing so long playbacks do not drift.
func FrameAt(elapsed int64, frameRate, frameCount int, loop bool) (index int, finished bool) {
	if frameCount <= 0 {
		return 0, true
	}
	if frameRate <= 0 {
		return 0, false
	}
	if elapsed < 0 {
		elapsed = 0
	}

	idx := elapsed * int64(frameRate) / parameter.TicksPerSecond
	if loop {
		return int(idx % int64(frameCount)), false
	}
	if idx >= int64(frameCount) {
		return frameCount - 1, true
	}
	return int(idx), false
}

// Duration returns the tick at which a non-looping animation finishes:
// the smallest elapsed with elapsed*frameRate/TicksPerSecond >= frameCount
func Duration(frameRate, frameCount int) int64 {
	if frameCount <= 0 {
		return 0
	}
	if frameRate <= 0 {
		return -1
	}
	num := int64(frameCount) * parameter.TicksPerSecond
	rate := int64(frameRate)
	return (num + rate - 1) / rate
}
