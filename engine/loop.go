package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/holodisc/core"
	"github.com/lixenwraith/holodisc/parameter"
	"github.com/lixenwraith/holodisc/status"
)

// Loop drives a Driver on a fixed tick with drift correction
// External goroutines reach the driver only through Post
type Loop struct {
	driver  *Driver
	counter *TickCounter
	clock   Clock

	tickInterval     time.Duration
	nextTickDeadline time.Time

	postMu sync.Mutex
	posted []func()

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Cached metric pointers
	statTicks  *atomic.Int64
	statTickMs *status.AtomicFloat
	statMaxMs  *status.AtomicFloat
}

// NewLoop creates a loop ticking every parameter.TickInterval; a nil clock uses wall time
func NewLoop(driver *Driver, counter *TickCounter, clock Clock, metrics *status.Registry) *Loop {
	if clock == nil {
		clock = TimeProvider{}
	}
	if counter == nil {
		counter = &TickCounter{}
	}
	return &Loop{
		driver:       driver,
		counter:      counter,
		clock:        clock,
		tickInterval: parameter.TickInterval,
		posted:       make([]func(), 0, parameter.PostQueueSize),
		stopChan:     make(chan struct{}),
		statTicks:    metrics.Counter("engine.ticks"),
		statTickMs:   metrics.Gauge("engine.tick_ms"),
		statMaxMs:    metrics.Gauge("engine.tick_ms_max"),
	}
}

// Counter returns the tick source shared with the scene layer
func (l *Loop) Counter() *TickCounter {
	return l.counter
}

// Post queues fn to run on the tick goroutine at the start of the next tick
func (l *Loop) Post(fn func()) {
	l.postMu.Lock()
	l.posted = append(l.posted, fn)
	l.postMu.Unlock()
}

func (l *Loop) drain() []func() {
	l.postMu.Lock()
	defer l.postMu.Unlock()
	if len(l.posted) == 0 {
		return nil
	}
	out := l.posted
	l.posted = make([]func(), 0, parameter.PostQueueSize)
	return out
}

// Step advances one tick synchronously; for tests and single-threaded hosts
// Must not be called while the loop is running
func (l *Loop) Step() int64 {
	start := time.Now()
	now := l.counter.Advance()
	l.driver.Tick(now, l.drain()...)

	ms := float64(time.Since(start).Microseconds()) / 1000.0
	l.statTicks.Add(1)
	l.statTickMs.Set(ms)
	l.statMaxMs.SetMax(ms)
	return now
}

// Start begins the loop goroutine; further calls are no-ops
func (l *Loop) Start() {
	if l.running.CompareAndSwap(false, true) {
		l.wg.Add(1)
		core.Go(l.run)
	}
}

// Stop halts the loop and waits for the current tick to finish
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		if l.running.CompareAndSwap(true, false) {
			close(l.stopChan)
			l.wg.Wait()
		}
	})
}

func (l *Loop) run() {
	defer l.wg.Done()

	l.nextTickDeadline = l.clock.Now().Add(l.tickInterval)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		default:
		}

		now := l.clock.Now()
		var sleepDuration time.Duration

		if !now.Before(l.nextTickDeadline) {
			l.Step()

			l.nextTickDeadline = l.nextTickDeadline.Add(l.tickInterval)
			if now.Sub(l.nextTickDeadline) > parameter.TickMaxBehind {
				l.nextTickDeadline = now.Add(l.tickInterval)
			}
			sleepDuration = l.nextTickDeadline.Sub(l.clock.Now())
		} else {
			sleepDuration = l.nextTickDeadline.Sub(now)
		}

		if sleepDuration <= 0 {
			continue
		}
		timer.Reset(sleepDuration)
		select {
		case <-timer.C:
		case <-l.stopChan:
			return
		}
	}
}
