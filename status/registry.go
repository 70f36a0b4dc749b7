package status

import (
	"sort"
	"sync/atomic"
)

// Registry is the central metrics facade
// Components cache counter pointers at construction; the tick loop writes atomics directly
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// Counter returns the named integer metric, nil-safe: a nil registry yields a detached counter
func (r *Registry) Counter(key string) *atomic.Int64 {
	if r == nil {
		return new(atomic.Int64)
	}
	return r.Ints.Get(key)
}

// Gauge returns the named float metric, nil-safe like Counter
func (r *Registry) Gauge(key string) *AtomicFloat {
	if r == nil {
		return new(AtomicFloat)
	}
	return r.Floats.Get(key)
}

// Metric is one entry of a registry snapshot
type Metric struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Snapshot returns every metric sorted by key
func (r *Registry) Snapshot() []Metric {
	out := make([]Metric, 0, r.TotalCount())
	r.Ints.Each(func(key string, ptr *atomic.Int64) {
		out = append(out, Metric{Key: key, Value: float64(ptr.Load())})
	})
	r.Floats.Each(func(key string, ptr *AtomicFloat) {
		out = append(out, Metric{Key: key, Value: ptr.Get()})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count()
}
