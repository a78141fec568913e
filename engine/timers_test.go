package engine

import (
	"testing"
	"time"
)

func newTestTimers() (*Timers, *MockTimeProvider) {
	clock := NewMockTimeProvider(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewTimers(clock), clock
}

func TestTimersFireInDeadlineOrder(t *testing.T) {
	timers, clock := newTestTimers()

	var order []string
	timers.After(1600*time.Millisecond, func() { order = append(order, "reveal") })
	timers.After(1000*time.Millisecond, func() { order = append(order, "prompt") })
	timers.After(1000*time.Millisecond, func() { order = append(order, "prompt2") })

	clock.Advance(999 * time.Millisecond)
	if n := timers.Fire(); n != 0 {
		t.Fatalf("Fire() before deadline ran %d callbacks, want 0", n)
	}

	clock.Advance(time.Second)
	if n := timers.Fire(); n != 3 {
		t.Fatalf("Fire() ran %d callbacks, want 3", n)
	}

	want := []string{"prompt", "prompt2", "reveal"}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestTimersFireExactlyOnce(t *testing.T) {
	timers, clock := newTestTimers()

	count := 0
	timers.After(10*time.Millisecond, func() { count++ })

	clock.Advance(20 * time.Millisecond)
	timers.Fire()
	timers.Fire()
	clock.Advance(time.Second)
	timers.Fire()

	if count != 1 {
		t.Errorf("callback ran %d times, want 1", count)
	}
}

func TestTimersCancelAndReset(t *testing.T) {
	timers, clock := newTestTimers()

	fired := false
	id := timers.After(10*time.Millisecond, func() { fired = true })
	if !timers.Pending(id) {
		t.Fatal("timer should be pending")
	}
	if !timers.Cancel(id) {
		t.Fatal("Cancel() = false, want true")
	}
	if timers.Cancel(id) {
		t.Error("second Cancel() = true, want false")
	}

	timers.After(10*time.Millisecond, func() { fired = true })
	timers.Reset()
	if timers.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", timers.Len())
	}

	clock.Advance(time.Second)
	timers.Fire()
	if fired {
		t.Error("cancelled or reset timer fired")
	}
}

func TestTimersScheduledFromCallbackWaitForNextPass(t *testing.T) {
	timers, clock := newTestTimers()

	inner := false
	timers.After(0, func() {
		timers.After(0, func() { inner = true })
	})

	clock.Advance(time.Millisecond)
	timers.Fire()
	if inner {
		t.Fatal("nested timer ran in the same pass")
	}
	timers.Fire()
	if !inner {
		t.Error("nested timer did not run on the next pass")
	}
}

func TestTimersCancelFromCallbackDiscardsSamePass(t *testing.T) {
	timers, clock := newTestTimers()

	var second TimerID
	secondRuns := 0
	timers.After(100*time.Millisecond, func() {
		if !timers.Cancel(second) {
			t.Error("Cancel() of a due timer = false, want true")
		}
	})
	second = timers.After(100*time.Millisecond, func() { secondRuns++ })

	clock.Advance(time.Second)
	if n := timers.Fire(); n != 1 {
		t.Errorf("Fire() ran %d callbacks, want 1", n)
	}
	timers.Fire()
	if secondRuns != 0 {
		t.Errorf("cancelled timer ran %d times, want 0", secondRuns)
	}
}

func TestTimersResetFromCallbackDiscardsSamePass(t *testing.T) {
	timers, clock := newTestTimers()

	later := 0
	timers.After(10*time.Millisecond, func() { timers.Reset() })
	timers.After(20*time.Millisecond, func() { later++ })

	clock.Advance(time.Second)
	timers.Fire()
	timers.Fire()
	if later != 0 {
		t.Errorf("timer discarded by Reset ran %d times, want 0", later)
	}
	if timers.Len() != 0 {
		t.Errorf("Len() = %d, want 0", timers.Len())
	}
}
