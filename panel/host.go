// Package panel defines the UI panel host contract and an in-memory board
// that the terminal host renders from.
package panel

// Host shows and hides named UI panels
type Host interface {
	Show(id string)
	Hide(id string)
	Visible(id string) bool
}

// Change is one step's visibility batch, hides are applied before shows
type Change struct {
	Hide []string
	Show []string
}

// Empty reports a batch with nothing to do
func (c Change) Empty() bool {
	return len(c.Hide) == 0 && len(c.Show) == 0
}

// Batcher applies a Change as one unit so no reader observes a partial batch
type Batcher interface {
	Apply(c Change)
}

// Apply routes c through the host's batch path when it has one
func Apply(h Host, c Change) {
	if c.Empty() {
		return
	}
	if b, ok := h.(Batcher); ok {
		b.Apply(c)
		return
	}
	for _, id := range c.Hide {
		h.Hide(id)
	}
	for _, id := range c.Show {
		h.Show(id)
	}
}
