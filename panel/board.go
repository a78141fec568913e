package panel

import (
	"sort"
	"sync"
)

// State is the render-facing view of one panel
type State struct {
	ID      string
	Text    string
	Visible bool
	X, Y    float64 // Offset from viewport center, set by the projector for anchored panels
}

// Board is a thread-safe in-memory Host
// Writers come from the session loop; the renderer reads consistent snapshots
type Board struct {
	mu     sync.RWMutex
	panels map[string]*State
	order  []string
}

// NewBoard creates a board with the given panels, all hidden
func NewBoard(ids ...string) *Board {
	b := &Board{panels: make(map[string]*State, len(ids))}
	for _, id := range ids {
		b.ensure(id)
	}
	return b
}

// ensure must be called with the write lock held or before publication
func (b *Board) ensure(id string) *State {
	if p, ok := b.panels[id]; ok {
		return p
	}
	p := &State{ID: id}
	b.panels[id] = p
	b.order = append(b.order, id)
	return p
}

// Show implements Host
func (b *Board) Show(id string) {
	b.mu.Lock()
	b.ensure(id).Visible = true
	b.mu.Unlock()
}

// Hide implements Host
func (b *Board) Hide(id string) {
	b.mu.Lock()
	b.ensure(id).Visible = false
	b.mu.Unlock()
}

// Visible implements Host
func (b *Board) Visible(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if p, ok := b.panels[id]; ok {
		return p.Visible
	}
	return false
}

// Apply implements Batcher under a single write lock
func (b *Board) Apply(c Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range c.Hide {
		b.ensure(id).Visible = false
	}
	for _, id := range c.Show {
		b.ensure(id).Visible = true
	}
}

// SetText replaces a panel's content
func (b *Board) SetText(id, text string) {
	b.mu.Lock()
	b.ensure(id).Text = text
	b.mu.Unlock()
}

// Place sets a panel's screen offset
func (b *Board) Place(id string, x, y float64) {
	b.mu.Lock()
	p := b.ensure(id)
	p.X, p.Y = x, y
	b.mu.Unlock()
}

// HideAll hides every panel, used on session reset
func (b *Board) HideAll() {
	b.mu.Lock()
	for _, p := range b.panels {
		p.Visible = false
	}
	b.mu.Unlock()
}

// Snapshot returns a copy of every panel in registration order
func (b *Board) Snapshot() []State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]State, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.panels[id])
	}
	return out
}

// VisibleIDs returns the sorted ids of visible panels
func (b *Board) VisibleIDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ids := make([]string, 0, len(b.panels))
	for id, p := range b.panels {
		if p.Visible {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
