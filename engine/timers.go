package engine

import "time"

// TimerID identifies a scheduled callback, zero is never issued
type TimerID uint64

type timer struct {
	id       TimerID
	deadline time.Time
	fn       func()
}

// Timers is a single-threaded timer set drained by the owning loop
// Callbacks run inside Fire on the caller's goroutine, never concurrently with other loop work
// Each timer fires exactly once or is discarded by Cancel/Reset
type Timers struct {
	clock   TimeProvider
	pending []timer
	nextID  TimerID
}

// NewTimers creates an empty timer set reading time from clock
func NewTimers(clock TimeProvider) *Timers {
	return &Timers{
		clock:   clock,
		pending: make([]timer, 0, 4),
	}
}

// After schedules fn to run once at least d after now
// Negative durations are treated as zero
func (t *Timers) After(d time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	t.nextID++
	t.pending = append(t.pending, timer{
		id:       t.nextID,
		deadline: t.clock.Now().Add(d),
		fn:       fn,
	})
	return t.nextID
}

// Cancel discards a pending timer, returns false if it already fired or is unknown
func (t *Timers) Cancel(id TimerID) bool {
	for i := range t.pending {
		if t.pending[i].id == id {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Pending reports whether id is still scheduled
func (t *Timers) Pending(id TimerID) bool {
	for i := range t.pending {
		if t.pending[i].id == id {
			return true
		}
	}
	return false
}

// Len returns the number of scheduled timers
func (t *Timers) Len() int {
	return len(t.pending)
}

// Fire runs every timer whose deadline has passed, in deadline then schedule order
// Each due timer stays pending until its turn, so a callback that cancels or resets
// discards timers of the same pass; timers scheduled by a callback wait for the next pass
// Returns the number of callbacks run
func (t *Timers) Fire() int {
	if len(t.pending) == 0 {
		return 0
	}

	now := t.clock.Now()
	limit := t.nextID
	ran := 0
	for {
		i := t.nextDue(now, limit)
		if i < 0 {
			return ran
		}
		tm := t.pending[i]
		t.pending = append(t.pending[:i], t.pending[i+1:]...)
		tm.fn()
		ran++
	}
}

// nextDue returns the index of the earliest due timer with id <= limit, -1 if none
func (t *Timers) nextDue(now time.Time, limit TimerID) int {
	best := -1
	for i, tm := range t.pending {
		if tm.id > limit || tm.deadline.After(now) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		b := t.pending[best]
		if tm.deadline.Before(b.deadline) || (tm.deadline.Equal(b.deadline) && tm.id < b.id) {
			best = i
		}
	}
	return best
}

// Reset discards every pending timer
func (t *Timers) Reset() {
	t.pending = t.pending[:0]
}
