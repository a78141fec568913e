package fsm

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadConfig parses a YAML graph and populates the Machine
// Guards and actions must be registered beforehand; every reference is validated
// Clears existing graph data before loading
func (m *Machine[T]) LoadConfig(data []byte) error {
	var config RootConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to unmarshal FSM config: %w", err)
	}
	if config.States == nil {
		config.States = make(map[string]*StateConfig)
	}

	m.nodes = make(map[StateID]*Node[T])
	m.nameToID = make(map[string]StateID)
	m.activeStateID = StateNone
	m.activePath = m.activePath[:0]

	// Root is implicit, may still carry transitions in config
	m.addNode(StateRoot, "Root", StateNone)
	if _, ok := config.States["Root"]; !ok {
		config.States["Root"] = &StateConfig{}
	}

	// Sort names for deterministic ID generation
	stateNames := make([]string, 0, len(config.States))
	for name := range config.States {
		if name != "Root" {
			stateNames = append(stateNames, name)
		}
	}
	sort.Strings(stateNames)

	ids := make(map[string]StateID, len(stateNames)+1)
	ids["Root"] = StateRoot
	for i, name := range stateNames {
		ids[name] = StateID(i + 2)
	}

	// Nodes first so transitions can reference any state
	for _, name := range stateNames {
		cfg := config.States[name]
		if cfg == nil {
			cfg = &StateConfig{}
			config.States[name] = cfg
		}
		pName := cfg.Parent
		if pName == "" {
			pName = "Root"
		}
		parentID, ok := ids[pName]
		if !ok {
			return fmt.Errorf("state '%s' references unknown parent '%s'", name, pName)
		}
		m.addNode(ids[name], name, parentID)
	}

	for name, id := range ids {
		cfg := config.States[name]
		if cfg == nil {
			cfg = &StateConfig{}
		}
		node := m.nodes[id]

		var err error
		if node.OnEnter, err = m.compileActions(cfg.OnEnter); err != nil {
			return fmt.Errorf("state '%s' on_enter: %w", name, err)
		}
		if node.OnExit, err = m.compileActions(cfg.OnExit); err != nil {
			return fmt.Errorf("state '%s' on_exit: %w", name, err)
		}
		if err := m.compileTransitions(node, cfg.Transitions, ids); err != nil {
			return fmt.Errorf("state '%s' transitions: %w", name, err)
		}
	}

	if err := m.compilePaths(); err != nil {
		return err
	}

	initialID, ok := ids[config.InitialState]
	if !ok || initialID == StateRoot {
		return fmt.Errorf("initial state '%s' not found", config.InitialState)
	}
	m.InitialStateID = initialID

	return nil
}

func (m *Machine[T]) compileActions(names []string) ([]ActionFunc[T], error) {
	actions := make([]ActionFunc[T], 0, len(names))
	for _, name := range names {
		fn, ok := m.actionReg[name]
		if !ok {
			return nil, fmt.Errorf("unknown action function '%s'", name)
		}
		actions = append(actions, fn)
	}
	return actions, nil
}

func (m *Machine[T]) compileTransitions(node *Node[T], configs []TransitionConfig, ids map[string]StateID) error {
	for _, cfg := range configs {
		targetID, ok := ids[cfg.To]
		if !ok {
			return fmt.Errorf("transition references unknown target '%s'", cfg.To)
		}
		if cfg.On == "" {
			return fmt.Errorf("transition to '%s' has no trigger", cfg.To)
		}

		var guard GuardFunc[T]
		if cfg.Guard != "" {
			g, ok := m.guardReg[cfg.Guard]
			if !ok {
				return fmt.Errorf("unknown guard '%s'", cfg.Guard)
			}
			guard = g
		}

		node.Transitions = append(node.Transitions, Transition[T]{
			TargetID: targetID,
			Trigger:  Trigger(cfg.On),
			Guard:    guard,
		})
	}
	return nil
}

func (m *Machine[T]) addNode(id StateID, name string, parentID StateID) {
	m.nodes[id] = &Node[T]{ID: id, Name: name, ParentID: parentID}
	m.nameToID[name] = id
}

// compilePaths stores the Root -> node path on every node for LCA lookup
func (m *Machine[T]) compilePaths() error {
	for id, node := range m.nodes {
		var path []StateID
		for curr := node; ; {
			path = append([]StateID{curr.ID}, path...)
			if curr.ParentID == StateNone {
				break
			}
			if len(path) > len(m.nodes) {
				return fmt.Errorf("state %q has a parent cycle", node.Name)
			}
			parent, ok := m.nodes[curr.ParentID]
			if !ok {
				return fmt.Errorf("state %d references missing parent %d", id, curr.ParentID)
			}
			curr = parent
		}
		node.Path = path
	}
	return nil
}
