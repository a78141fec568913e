package tween

import (
	"time"

	"github.com/lixenwraith/harmonylink/scene"
	"github.com/lixenwraith/harmonylink/vmath"
)

// Tween moves one object's position from From to To over Duration
type Tween struct {
	Target   *scene.Object
	From     vmath.Vec3
	To       vmath.Vec3
	Start    time.Time
	Duration time.Duration
	Ease     EaseFunc
}

// Sample returns the eased position at now and whether the tween has finished
// The end position is returned exactly once progress reaches 1
func (tw *Tween) Sample(now time.Time) (vmath.Vec3, bool) {
	if tw.Duration <= 0 {
		return tw.To, true
	}
	elapsed := now.Sub(tw.Start)
	if elapsed <= 0 {
		return tw.From, false
	}
	if elapsed >= tw.Duration {
		return tw.To, true
	}
	t := float64(elapsed) / float64(tw.Duration)
	ease := tw.Ease
	if ease == nil {
		ease = Linear
	}
	return vmath.V3Lerp(tw.From, tw.To, ease(t)), false
}
