package scene

import (
	"sync"

	"github.com/lixenwraith/holodisc/render"
)

// Call is one recorded submission
type Call struct {
	Identity string
	Proxies  []render.Proxy
}

// Recorder is a Submitter that records every call, for tests
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

func (r *Recorder) Submit(identity string, proxies []render.Proxy) {
	cp := make([]render.Proxy, len(proxies))
	copy(cp, proxies)
	r.mu.Lock()
	r.calls = append(r.calls, Call{Identity: identity, Proxies: cp})
	r.mu.Unlock()
}

// Calls returns a copy of every recorded submission in order
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Last returns the most recent submission for identity
func (r *Recorder) Last(identity string) ([]render.Proxy, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].Identity == identity {
			return r.calls[i].Proxies, true
		}
	}
	return nil, false
}

// Count returns how many submissions identity received
func (r *Recorder) Count(identity string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Identity == identity {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}
