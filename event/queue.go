package event

import "sync/atomic"

const (
	// QueueSize must be a power of two
	QueueSize  = 256
	bufferMask = QueueSize - 1
)

// Queue is a lock-free MPSC ring buffer between the host input goroutine and the session loop
// Thread-Safety:
//   - Push: lock-free CAS, multiple producers OK
//   - Consume: single consumer (session loop)
//   - Published flags prevent reading partial writes
//
// Overflow: oldest events are overwritten when full
type Queue struct {
	events    [QueueSize]Event
	published [QueueSize]atomic.Bool // True = slot fully written
	head      atomic.Uint64          // Read index
	tail      atomic.Uint64          // Write index
	dropped   atomic.Uint64
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push adds an event; safe for concurrent producers
func (q *Queue) Push(ev Event) {
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & bufferMask

			q.events[idx] = ev
			q.published[idx].Store(true) // MUST be after write

			// Advance head if overwriting unread events
			currentHead := q.head.Load()
			if nextTail-currentHead > QueueSize {
				if q.head.CompareAndSwap(currentHead, nextTail-QueueSize) {
					q.dropped.Add(nextTail - QueueSize - currentHead)
				}
			}
			return
		}
	}
}

// Consume returns all pending events in FIFO order and advances head
func (q *Queue) Consume() []Event {
	for {
		currentHead := q.head.Load()
		currentTail := q.tail.Load()

		if currentTail == currentHead {
			return nil
		}

		available := currentTail - currentHead
		if available > QueueSize {
			available = QueueSize
			currentHead = currentTail - QueueSize
		}

		result := make([]Event, 0, available)
		for i := uint64(0); i < available; i++ {
			idx := (currentHead + i) & bufferMask
			if !q.published[idx].Load() {
				break // Writer incomplete
			}
			result = append(result, q.events[idx])
			q.published[idx].Store(false)
		}

		if q.head.CompareAndSwap(currentHead, currentHead+uint64(len(result))) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}

// Len returns the approximate pending count
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	if diff := tail - head; diff < QueueSize {
		return int(diff)
	}
	return QueueSize
}

// Dropped returns the number of events lost to overflow
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
