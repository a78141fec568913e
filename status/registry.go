// Package status is the lock-free metrics board read by the HUD and tests.
package status

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
)

// MetricMap lazily allocates one metric of type T per key
// Owners look a key up once at construction and then write through the pointer without locking
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

// NewMetricMap creates an empty map
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the metric for key, allocating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	ptr, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok := m.items[key]; ok {
		return ptr
	}
	ptr = new(T)
	m.items[key] = ptr
	return ptr
}

// appendFormatted appends every metric rendered by format, in no particular order
func (m *MetricMap[T]) appendFormatted(out []Metric, format func(*T) string) []Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, v := range m.items {
		out = append(out, Metric{Key: k, Value: format(v)})
	}
	return out
}

func (m *MetricMap[T]) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Registry groups the typed metric maps
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Metric is one formatted key/value pair
type Metric struct {
	Key   string
	Value string
}

// Snapshot returns every metric formatted for display, sorted by key
func (r *Registry) Snapshot() []Metric {
	out := make([]Metric, 0, r.Bools.count()+r.Ints.count()+r.Floats.count()+r.Strings.count())
	out = r.Bools.appendFormatted(out, func(v *atomic.Bool) string { return strconv.FormatBool(v.Load()) })
	out = r.Ints.appendFormatted(out, func(v *atomic.Int64) string { return strconv.FormatInt(v.Load(), 10) })
	out = r.Floats.appendFormatted(out, func(v *AtomicFloat) string { return fmt.Sprintf("%.3f", v.Get()) })
	out = r.Strings.appendFormatted(out, (*AtomicString).Load)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
