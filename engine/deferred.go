package engine

import "container/heap"

// Deferred runs callbacks at a target tick
// Tasks due on the same tick run in scheduling order
type Deferred struct {
	tasks taskHeap
	seq   uint64
}

type task struct {
	at  int64
	seq uint64
	fn  func()
}

type taskHeap []task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = task{}
	*h = old[:n-1]
	return t
}

// Schedule queues fn to run on the first RunDue with now >= at
func (d *Deferred) Schedule(at int64, fn func()) {
	d.seq++
	heap.Push(&d.tasks, task{at: at, seq: d.seq, fn: fn})
}

// RunDue runs every task with target <= now, including ones scheduled by the tasks themselves
// Returns the number of tasks run
func (d *Deferred) RunDue(now int64) int {
	n := 0
	for d.tasks.Len() > 0 && d.tasks[0].at <= now {
		t := heap.Pop(&d.tasks).(task)
		t.fn()
		n++
	}
	return n
}

// Pending returns the number of queued tasks
func (d *Deferred) Pending() int {
	return d.tasks.Len()
}
