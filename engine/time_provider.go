package engine

import (
	"sync"
	"time"
)

// TimeProvider abstracts the clock so timers and tweens can be driven deterministically
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the wall clock with its monotonic component
type MonotonicTimeProvider struct{}

func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

func (*MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider is a manually stepped clock for tests
// Safe for concurrent use so a test goroutine can step time under a running loop
type MockTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{now: start}
}

func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance steps the clock by d and returns the new reading
func (m *MockTimeProvider) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}

// SetTime jumps the clock to t, backwards jumps included
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}
