// Package narrative sequences the story beats: a linear state machine that
// advances one step per opened gate, with at most one timed transition in flight.
package narrative

import (
	_ "embed"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/lixenwraith/harmonylink/engine"
	"github.com/lixenwraith/harmonylink/engine/fsm"
	"github.com/lixenwraith/harmonylink/panel"
	"github.com/lixenwraith/harmonylink/status"
)

//go:embed sequencer.yaml
var graphConfig []byte

// State names of the sequencer graph
const (
	PhaseNotStarted    = "NotStarted"
	PhaseAwaitingGate  = "AwaitingGate"
	PhaseTransitioning = "Transitioning"
	PhaseCompleted     = "Completed"
)

const (
	triggerStart fsm.Trigger = "start"
	triggerGate  fsm.Trigger = "gate"
	triggerTimer fsm.Trigger = "timer"
)

// EffectRunner starts one-shot effects; returns false when the target is not available
type EffectRunner interface {
	RunEffect(e OneShotEffect) bool
}

// Hooks are optional observers of sequencer progress
type Hooks struct {
	// OnBegin runs when a step's gate opens
	OnBegin func(index int, step Step)
	// OnReveal runs when a step's panel batch is applied
	OnReveal func(index int, step Step)
	// OnComplete runs once on entering Completed
	OnComplete func()
}

// Deps are the explicit collaborators of a Sequencer
type Deps struct {
	Panels  panel.Host
	Timers  *engine.Timers
	Effects EffectRunner     // Optional
	Status  *status.Registry // Optional
	Hooks   Hooks
}

// State is the externally visible sequencer state
type State struct {
	CurrentStepIndex int // -1 before Start
	Completed        bool
	Pending          bool // A step timer is in flight
	Phase            string
}

// Sequencer is the narrative state machine
// Not safe for concurrent use; the session actor serializes every call
type Sequencer struct {
	steps   []Step
	deps    Deps
	machine *fsm.Machine[*Sequencer]

	cursor int
	timer  engine.TimerID

	// Gate inputs captured for the current evaluation
	saturated bool
	connected bool

	dropped int

	statStep      *atomic.Int64
	statDropped   *atomic.Int64
	statCompleted *atomic.Bool
	statPhase     *status.AtomicString
}

// NewSequencer validates steps, loads the state graph and enters NotStarted
func NewSequencer(steps []Step, deps Deps) (*Sequencer, error) {
	if deps.Panels == nil || deps.Timers == nil {
		return nil, fmt.Errorf("sequencer requires panels and timers")
	}
	if err := ValidateSteps(steps); err != nil {
		return nil, err
	}

	s := &Sequencer{
		steps:   append([]Step(nil), steps...),
		deps:    deps,
		machine: fsm.NewMachine[*Sequencer](),
		cursor:  -1,
	}
	if deps.Status != nil {
		s.statStep = deps.Status.Ints.Get("narrative.step")
		s.statDropped = deps.Status.Ints.Get("narrative.dropped")
		s.statCompleted = deps.Status.Bools.Get("narrative.completed")
		s.statPhase = deps.Status.Strings.Get("narrative.state")
	}

	s.machine.RegisterGuard("hasSteps", func(s *Sequencer) bool { return len(s.steps) > 0 })
	s.machine.RegisterGuard("gateOpen", (*Sequencer).gateOpen)
	s.machine.RegisterGuard("hasNextStep", func(s *Sequencer) bool { return s.cursor < len(s.steps) })
	s.machine.RegisterAction("beginStep", (*Sequencer).beginStep)
	s.machine.RegisterAction("clearTimer", (*Sequencer).clearTimer)
	s.machine.RegisterAction("complete", (*Sequencer).complete)
	s.machine.RegisterAction("publish", (*Sequencer).publish)

	if err := s.machine.LoadConfig(graphConfig); err != nil {
		return nil, fmt.Errorf("load sequencer graph: %w", err)
	}
	if err := s.machine.Init(s); err != nil {
		return nil, fmt.Errorf("init sequencer graph: %w", err)
	}
	return s, nil
}

// Start enters AwaitingGate on the first step, or Completed when there are none
// No-op once started
func (s *Sequencer) Start() {
	if s.machine.ActiveName() != PhaseNotStarted {
		return
	}
	s.cursor = 0
	s.machine.Fire(s, triggerStart)
}

// Gate evaluates the gate for the active step
// Checks arriving while a transition is pending, before Start, or after completion are dropped
// Returns true if the step transition began
func (s *Sequencer) Gate(saturated, connected bool) bool {
	switch s.machine.ActiveName() {
	case PhaseAwaitingGate:
	case PhaseTransitioning:
		s.dropped++
		if s.statDropped != nil {
			s.statDropped.Store(int64(s.dropped))
		}
		return false
	default:
		return false
	}

	s.saturated = saturated
	s.connected = connected
	return s.machine.Fire(s, triggerGate)
}

// State returns a copy of the externally visible state
func (s *Sequencer) State() State {
	phase := s.machine.ActiveName()
	idx := s.cursor
	if idx >= len(s.steps) {
		idx = len(s.steps) - 1
	}
	return State{
		CurrentStepIndex: idx,
		Completed:        phase == PhaseCompleted,
		Pending:          s.timer != 0,
		Phase:            phase,
	}
}

// Steps returns the step list
func (s *Sequencer) Steps() []Step {
	return s.steps
}

// Dropped returns the number of gate checks discarded while a transition was pending
func (s *Sequencer) Dropped() int {
	return s.dropped
}

// Reset cancels any pending timer and returns to NotStarted
// The caller owns panel and scene restoration
func (s *Sequencer) Reset() error {
	if s.timer != 0 {
		s.deps.Timers.Cancel(s.timer)
		s.timer = 0
	}
	s.cursor = -1
	s.dropped = 0
	s.saturated, s.connected = false, false
	if s.statDropped != nil {
		s.statDropped.Store(0)
	}
	return s.machine.Reset(s)
}

// --- guards and actions ---

func (s *Sequencer) gateOpen() bool {
	if s.timer != 0 || s.cursor < 0 || s.cursor >= len(s.steps) {
		return false
	}
	step := s.steps[s.cursor]
	return s.saturated && (s.connected || !step.RequiresConnection)
}

func (s *Sequencer) beginStep() {
	idx := s.cursor
	step := s.steps[idx]
	log.Printf("[narrative] step %d (%s) gate open, delay %v", idx, step.ID, step.Delay)

	if step.Effect != nil && s.deps.Effects != nil {
		if !s.deps.Effects.RunEffect(*step.Effect) {
			log.Printf("[narrative] step %s effect on %s skipped", step.ID, step.Effect.TargetObjectID)
		}
	}
	if step.Reveal != RevealDelay {
		s.reveal(idx, step)
	}
	if s.deps.Hooks.OnBegin != nil {
		s.deps.Hooks.OnBegin(idx, step)
	}

	s.timer = s.deps.Timers.After(step.Delay, s.onTimer)
}

// onTimer runs on the loop goroutine via engine.Timers.Fire
func (s *Sequencer) onTimer() {
	if s.machine.ActiveName() != PhaseTransitioning {
		return
	}
	s.timer = 0

	idx := s.cursor
	step := s.steps[idx]
	if step.Reveal == RevealDelay {
		s.reveal(idx, step)
	}

	s.cursor++
	s.machine.Fire(s, triggerTimer)
}

func (s *Sequencer) reveal(idx int, step Step) {
	panel.Apply(s.deps.Panels, step.Change())
	if s.deps.Hooks.OnReveal != nil {
		s.deps.Hooks.OnReveal(idx, step)
	}
}

func (s *Sequencer) clearTimer() {
	if s.timer != 0 {
		s.deps.Timers.Cancel(s.timer)
		s.timer = 0
	}
}

func (s *Sequencer) complete() {
	log.Printf("[narrative] completed after %d steps", len(s.steps))
	if s.deps.Hooks.OnComplete != nil {
		s.deps.Hooks.OnComplete()
	}
}

func (s *Sequencer) publish() {
	if s.statPhase == nil {
		return
	}
	st := s.State()
	s.statPhase.Store(st.Phase)
	s.statStep.Store(int64(st.CurrentStepIndex))
	s.statCompleted.Store(st.Completed)
}
