package fsm

// StateID is a unique identifier for a node
type StateID int

const (
	StateNone StateID = 0
	StateRoot StateID = 1
)

// Trigger names an external event routed into the machine
type Trigger string

// Machine is a generic hierarchical finite state machine runtime
// T is the context type passed to actions and guards (e.g., *narrative.Sequencer)
// Not safe for concurrent use; the owning actor serializes calls
type Machine[T any] struct {
	// Graph data, immutable after load
	nodes    map[StateID]*Node[T]
	nameToID map[string]StateID

	InitialStateID StateID

	// Runtime state
	activeStateID StateID
	activePath    []StateID // Root -> ... -> Leaf

	// Dependency injection
	guardReg  map[string]GuardFunc[T]
	actionReg map[string]ActionFunc[T]
}

// Node represents a state in the hierarchy
type Node[T any] struct {
	ID       StateID
	Name     string
	ParentID StateID

	// Pre-calculated path from Root to this node for LCA lookup
	Path []StateID

	OnEnter []ActionFunc[T]
	OnExit  []ActionFunc[T]

	// Transitions in evaluation order
	Transitions []Transition[T]
}

// Transition defines a link between states
type Transition[T any] struct {
	TargetID StateID
	Trigger  Trigger
	Guard    GuardFunc[T] // nil = always true
}

// GuardFunc returns true if the transition should occur
type GuardFunc[T any] func(ctx T) bool

// ActionFunc executes a side effect on enter or exit
type ActionFunc[T any] func(ctx T)
