package tween

import (
	"log"
	"time"

	"github.com/lixenwraith/harmonylink/engine"
	"github.com/lixenwraith/harmonylink/scene"
	"github.com/lixenwraith/harmonylink/vmath"
)

// Animator runs one-shot position tweens, ticked once per frame by the session loop
type Animator struct {
	clock  engine.TimeProvider
	active []*Tween
}

// NewAnimator creates an animator reading time from clock
func NewAnimator(clock engine.TimeProvider) *Animator {
	return &Animator{clock: clock}
}

// Translate starts moving asset's object by delta relative to its current position
// Unresolved assets are skipped; returns false when nothing was started
func (a *Animator) Translate(asset *scene.Asset, delta vmath.Vec3, duration time.Duration, ease EaseFunc) bool {
	obj, ok := asset.Get()
	if !ok {
		id := "<nil>"
		if asset != nil {
			id = asset.ID
		}
		log.Printf("[tween] skip translate on unresolved asset %s", id)
		return false
	}

	a.active = append(a.active, &Tween{
		Target:   obj,
		From:     obj.Position,
		To:       vmath.V3Add(obj.Position, delta),
		Start:    a.clock.Now(),
		Duration: duration,
		Ease:     ease,
	})
	return true
}

// Update writes the current sample of every tween into its target, drops finished ones
func (a *Animator) Update() {
	if len(a.active) == 0 {
		return
	}
	now := a.clock.Now()
	keep := a.active[:0]
	for _, tw := range a.active {
		pos, done := tw.Sample(now)
		tw.Target.Position = pos
		if !done {
			keep = append(keep, tw)
		}
	}
	// Clear dropped tail so finished tweens are collectable
	for i := len(keep); i < len(a.active); i++ {
		a.active[i] = nil
	}
	a.active = keep
}

// Active returns the number of running tweens
func (a *Animator) Active() int {
	return len(a.active)
}

// Reset drops every running tween without touching positions
func (a *Animator) Reset() {
	a.active = a.active[:0]
}
