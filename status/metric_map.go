package status

import "sync"

// MetricMap holds one pointer per metric name
// Components fetch their pointers once; only lookups and snapshots take the lock
type MetricMap[T any] struct {
	mu    sync.Mutex
	items map[string]*T
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the pointer registered under key, creating a zero value on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.Lock()
	defer m.mu.Unlock()
	ptr, ok := m.items[key]
	if !ok {
		ptr = new(T)
		m.items[key] = ptr
	}
	return ptr
}

// Each calls fn for every metric outside the lock, in no particular order
func (m *MetricMap[T]) Each(fn func(key string, ptr *T)) {
	type entry struct {
		key string
		ptr *T
	}
	m.mu.Lock()
	entries := make([]entry, 0, len(m.items))
	for k, v := range m.items {
		entries = append(entries, entry{k, v})
	}
	m.mu.Unlock()

	for _, e := range entries {
		fn(e.key, e.ptr)
	}
}

func (m *MetricMap[T]) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
