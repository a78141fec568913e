package narrative

import (
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/harmonylink/engine"
	"github.com/lixenwraith/harmonylink/panel"
	"github.com/lixenwraith/harmonylink/status"
)

type fakeEffects struct {
	runs []OneShotEffect
	ok   bool
}

func (f *fakeEffects) RunEffect(e OneShotEffect) bool {
	f.runs = append(f.runs, e)
	return f.ok
}

type harness struct {
	clock    *engine.MockTimeProvider
	timers   *engine.Timers
	board    *panel.Board
	effects  *fakeEffects
	status   *status.Registry
	seq      *Sequencer
	complete int
	reveals  []string
}

func testSteps() []Step {
	return []Step{
		{
			ID:           "rise",
			PanelsToShow: []string{"instruction_text"},
			Delay:        1600 * time.Millisecond,
			Effect:       &OneShotEffect{TargetObjectID: "harmonylink", Duration: 1500 * time.Millisecond, Ease: "power2.inOut"},
			Reveal:       RevealDelay,
		},
		{
			ID:                  "linked",
			RequiredPriorStepID: "rise",
			PanelsToHide:        []string{"instruction_text", "signal"},
			PanelsToShow:        []string{"prompt_1"},
			Delay:               time.Second,
			RequiresConnection:  true,
			Reveal:              RevealDelay,
		},
		{
			ID:                  "prompt",
			RequiredPriorStepID: "linked",
			PanelsToHide:        []string{"prompt_1"},
			PanelsToShow:        []string{"prompt_2"},
			Delay:               500 * time.Millisecond,
			RequiresConnection:  true,
			Reveal:              RevealGate,
		},
	}
}

func newHarness(t *testing.T, steps []Step) *harness {
	t.Helper()
	h := &harness{
		clock:   engine.NewMockTimeProvider(time.Unix(0, 0)),
		board:   panel.NewBoard("instruction_text", "signal", "prompt_1", "prompt_2"),
		effects: &fakeEffects{ok: true},
		status:  status.NewRegistry(),
	}
	h.timers = engine.NewTimers(h.clock)
	seq, err := NewSequencer(steps, Deps{
		Panels:  h.board,
		Timers:  h.timers,
		Effects: h.effects,
		Status:  h.status,
		Hooks: Hooks{
			OnReveal:   func(_ int, s Step) { h.reveals = append(h.reveals, s.ID) },
			OnComplete: func() { h.complete++ },
		},
	})
	if err != nil {
		t.Fatalf("NewSequencer: %v", err)
	}
	h.seq = seq
	return h
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.timers.Fire()
}

func TestSequencer_InitialState(t *testing.T) {
	h := newHarness(t, testSteps())

	st := h.seq.State()
	if st.Phase != PhaseNotStarted {
		t.Errorf("Phase = %s, want %s", st.Phase, PhaseNotStarted)
	}
	if st.CurrentStepIndex != -1 {
		t.Errorf("CurrentStepIndex = %d, want -1", st.CurrentStepIndex)
	}
	if h.seq.Gate(true, true) {
		t.Error("Gate before Start should not transition")
	}

	h.seq.Start()
	st = h.seq.State()
	if st.Phase != PhaseAwaitingGate || st.CurrentStepIndex != 0 {
		t.Errorf("after Start = %+v, want AwaitingGate at 0", st)
	}
	if got := h.status.Strings.Get("narrative.state").Load(); got != PhaseAwaitingGate {
		t.Errorf("narrative.state = %q, want %q", got, PhaseAwaitingGate)
	}
}

func TestSequencer_GateConditions(t *testing.T) {
	tests := []struct {
		name      string
		step      int
		saturated bool
		connected bool
		want      bool
	}{
		{"rise unsaturated", 0, false, false, false},
		{"rise saturated only", 0, true, false, true},
		{"linked saturated disconnected", 1, true, false, false},
		{"linked connected unsaturated", 1, false, true, false},
		{"linked both", 1, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testSteps())
			h.seq.Start()
			for i := 0; i < tt.step; i++ {
				if !h.seq.Gate(true, true) {
					t.Fatalf("setup gate %d failed", i)
				}
				h.advance(h.seq.Steps()[i].Delay)
			}
			if got := h.seq.Gate(tt.saturated, tt.connected); got != tt.want {
				t.Errorf("Gate(%v, %v) = %v, want %v", tt.saturated, tt.connected, got, tt.want)
			}
		})
	}
}

func TestSequencer_DelayedReveal(t *testing.T) {
	h := newHarness(t, testSteps())
	h.seq.Start()

	if !h.seq.Gate(true, false) {
		t.Fatal("rise gate should open on saturation")
	}
	if len(h.effects.runs) != 1 || h.effects.runs[0].TargetObjectID != "harmonylink" {
		t.Fatalf("effects = %+v, want one harmonylink effect", h.effects.runs)
	}
	if !h.seq.State().Pending {
		t.Error("Pending = false after gate open")
	}

	h.advance(1599 * time.Millisecond)
	if h.board.Visible("instruction_text") {
		t.Error("instruction_text visible before delay elapsed")
	}

	h.advance(time.Millisecond)
	if !h.board.Visible("instruction_text") {
		t.Error("instruction_text hidden after delay elapsed")
	}
	st := h.seq.State()
	if st.Phase != PhaseAwaitingGate || st.CurrentStepIndex != 1 || st.Pending {
		t.Errorf("after timer = %+v, want AwaitingGate at 1, not pending", st)
	}
}

func TestSequencer_GateRevealAppliesImmediately(t *testing.T) {
	h := newHarness(t, testSteps())
	h.seq.Start()
	h.seq.Gate(true, true)
	h.advance(1600 * time.Millisecond)
	h.seq.Gate(true, true)
	h.advance(time.Second)

	if !h.board.Visible("prompt_1") {
		t.Fatal("prompt_1 should be visible after linked step")
	}
	if !h.seq.Gate(true, true) {
		t.Fatal("prompt gate should open")
	}
	if h.board.Visible("prompt_1") || !h.board.Visible("prompt_2") {
		t.Error("gate reveal should swap panels when the gate opens")
	}
}

func TestSequencer_NoDoubleFire(t *testing.T) {
	h := newHarness(t, testSteps())
	h.seq.Start()

	if !h.seq.Gate(true, true) {
		t.Fatal("first gate should open")
	}
	for i := 0; i < 5; i++ {
		if h.seq.Gate(true, true) {
			t.Fatalf("gate %d opened while transition pending", i)
		}
	}
	if got := h.seq.Dropped(); got != 5 {
		t.Errorf("Dropped = %d, want 5", got)
	}
	if got := h.status.Ints.Get("narrative.dropped").Load(); got != 5 {
		t.Errorf("narrative.dropped = %d, want 5", got)
	}
	if len(h.effects.runs) != 1 {
		t.Errorf("effect runs = %d, want 1", len(h.effects.runs))
	}
	if h.timers.Len() != 1 {
		t.Errorf("pending timers = %d, want 1", h.timers.Len())
	}
}

func TestSequencer_CompletesOnce(t *testing.T) {
	h := newHarness(t, testSteps())
	h.seq.Start()

	for i, step := range h.seq.Steps() {
		if !h.seq.Gate(true, true) {
			t.Fatalf("gate %d did not open", i)
		}
		h.advance(step.Delay)
	}

	st := h.seq.State()
	if !st.Completed || st.Phase != PhaseCompleted {
		t.Fatalf("State = %+v, want Completed", st)
	}
	if st.CurrentStepIndex != 2 {
		t.Errorf("CurrentStepIndex = %d, want 2", st.CurrentStepIndex)
	}
	if h.complete != 1 {
		t.Errorf("OnComplete calls = %d, want 1", h.complete)
	}

	for i := 0; i < 3; i++ {
		if h.seq.Gate(true, true) {
			t.Error("Gate after completion should be ignored")
		}
	}
	if h.complete != 1 {
		t.Errorf("OnComplete calls after extra gates = %d, want 1", h.complete)
	}
	if !h.status.Bools.Get("narrative.completed").Load() {
		t.Error("narrative.completed = false, want true")
	}

	want := []string{"rise", "linked", "prompt"}
	if len(h.reveals) != len(want) {
		t.Fatalf("reveals = %v, want %v", h.reveals, want)
	}
	for i := range want {
		if h.reveals[i] != want[i] {
			t.Errorf("reveals[%d] = %s, want %s", i, h.reveals[i], want[i])
		}
	}
}

func TestSequencer_EmptyStepsCompleteOnStart(t *testing.T) {
	h := newHarness(t, nil)
	h.seq.Start()
	if !h.seq.State().Completed {
		t.Error("empty sequence should complete on Start")
	}
	if h.complete != 1 {
		t.Errorf("OnComplete calls = %d, want 1", h.complete)
	}
}

func TestSequencer_EffectFailureIsSoft(t *testing.T) {
	h := newHarness(t, testSteps())
	h.effects.ok = false
	h.seq.Start()

	if !h.seq.Gate(true, false) {
		t.Fatal("gate should open even if effect target is unresolved")
	}
	h.advance(1600 * time.Millisecond)
	if h.seq.State().CurrentStepIndex != 1 {
		t.Errorf("CurrentStepIndex = %d, want 1", h.seq.State().CurrentStepIndex)
	}
}

func TestSequencer_ResetCancelsPendingTimer(t *testing.T) {
	h := newHarness(t, testSteps())
	h.seq.Start()
	h.seq.Gate(true, false)

	if err := h.seq.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if h.timers.Len() != 0 {
		t.Errorf("pending timers = %d, want 0", h.timers.Len())
	}
	h.advance(2 * time.Second)
	if h.board.Visible("instruction_text") {
		t.Error("cancelled timer still revealed panels")
	}

	st := h.seq.State()
	if st.Phase != PhaseNotStarted || st.CurrentStepIndex != -1 || st.Pending {
		t.Errorf("after Reset = %+v, want NotStarted at -1", st)
	}

	h.seq.Start()
	if !h.seq.Gate(true, false) {
		t.Error("gate should open again after Reset and Start")
	}
}

func TestNewSequencer_InvalidSteps(t *testing.T) {
	steps := testSteps()
	steps[2].RequiredPriorStepID = "rise"

	_, err := NewSequencer(steps, Deps{
		Panels: panel.NewBoard(),
		Timers: engine.NewTimers(engine.NewMockTimeProvider(time.Unix(0, 0))),
	})
	if !errors.Is(err, ErrInvalidSteps) {
		t.Errorf("err = %v, want ErrInvalidSteps", err)
	}
}
