package fsm

import "fmt"

// NewMachine creates a new FSM instance
func NewMachine[T any]() *Machine[T] {
	return &Machine[T]{
		nodes:     make(map[StateID]*Node[T]),
		nameToID:  make(map[string]StateID),
		guardReg:  make(map[string]GuardFunc[T]),
		actionReg: make(map[string]ActionFunc[T]),
	}
}

// RegisterGuard adds a predicate function to the registry
func (m *Machine[T]) RegisterGuard(name string, fn GuardFunc[T]) {
	m.guardReg[name] = fn
}

// RegisterAction adds a side-effect function to the registry
func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) {
	m.actionReg[name] = fn
}

// Init enters the initial state, running OnEnter from Root down
func (m *Machine[T]) Init(ctx T) error {
	node, ok := m.nodes[m.InitialStateID]
	if !ok {
		return fmt.Errorf("initial state ID %d not found", m.InitialStateID)
	}

	m.activeStateID = node.ID
	m.activePath = append(m.activePath[:0], node.Path...)

	for _, id := range m.activePath {
		if n, exists := m.nodes[id]; exists {
			for _, action := range n.OnEnter {
				action(ctx)
			}
		}
	}
	return nil
}

// Fire routes a trigger from the active leaf up to Root
// The first transition whose trigger matches and guard passes is taken
// Returns true if a transition occurred
func (m *Machine[T]) Fire(ctx T, trigger Trigger) bool {
	if m.activeStateID == StateNone {
		return false
	}

	currID := m.activeStateID
	for currID != StateNone {
		node := m.nodes[currID]
		for _, trans := range node.Transitions {
			if trans.Trigger != trigger {
				continue
			}
			if trans.Guard == nil || trans.Guard(ctx) {
				m.transition(ctx, trans.TargetID)
				return true
			}
		}
		currID = node.ParentID
	}
	return false
}

// transition performs the exit/enter walk through the lowest common ancestor
// Self-transitions are ignored
func (m *Machine[T]) transition(ctx T, targetID StateID) {
	if m.activeStateID == targetID {
		return
	}

	targetNode, ok := m.nodes[targetID]
	if !ok {
		panic(fmt.Sprintf("FSM: attempted transition to unknown state ID %d", targetID))
	}

	lcaIndex := -1
	currentPath := m.activePath
	targetPath := targetNode.Path

	minLen := len(currentPath)
	if len(targetPath) < minLen {
		minLen = len(targetPath)
	}
	for i := 0; i < minLen; i++ {
		if currentPath[i] != targetPath[i] {
			break
		}
		lcaIndex = i
	}

	// Exit phase: leaf up to LCA (exclusive)
	for i := len(currentPath) - 1; i > lcaIndex; i-- {
		if node, exists := m.nodes[currentPath[i]]; exists {
			for _, action := range node.OnExit {
				action(ctx)
			}
		}
	}

	// State is switched before entering so OnEnter actions observe the target as active
	m.activeStateID = targetID
	m.activePath = append(m.activePath[:0], targetPath...)

	// Enter phase: LCA (exclusive) down to target leaf
	for i := lcaIndex + 1; i < len(targetPath); i++ {
		if node, exists := m.nodes[targetPath[i]]; exists {
			for _, action := range node.OnEnter {
				action(ctx)
			}
		}
	}
}

// Reset exits every active state and re-enters the initial state
func (m *Machine[T]) Reset(ctx T) error {
	for i := len(m.activePath) - 1; i >= 0; i-- {
		if node, ok := m.nodes[m.activePath[i]]; ok {
			for _, action := range node.OnExit {
				action(ctx)
			}
		}
	}
	m.activeStateID = StateNone
	m.activePath = m.activePath[:0]
	return m.Init(ctx)
}

// Active returns the active leaf state ID
func (m *Machine[T]) Active() StateID {
	return m.activeStateID
}

// ActiveName returns the active leaf state name, empty before Init
func (m *Machine[T]) ActiveName() string {
	if node, ok := m.nodes[m.activeStateID]; ok {
		return node.Name
	}
	return ""
}

// In reports whether name is the active leaf or one of its ancestors
func (m *Machine[T]) In(name string) bool {
	id, ok := m.nameToID[name]
	if !ok {
		return false
	}
	for _, active := range m.activePath {
		if active == id {
			return true
		}
	}
	return false
}
