// Package signal decides whether the harmonylink and the smartphone are linked
// after a drag completes.
package signal

import (
	"github.com/lixenwraith/harmonylink/scene"
	"github.com/lixenwraith/harmonylink/vmath"
)

// Indicator is the color of the status sphere
type Indicator int

const (
	IndicatorDisconnected Indicator = iota // red
	IndicatorConnected                     // green
)

// String returns the indicator color name
func (i Indicator) String() string {
	if i == IndicatorConnected {
		return "green"
	}
	return "red"
}

// ConnectionState is the outcome of one evaluation
type ConnectionState struct {
	Connected bool
}

// Indicator maps the state to its sphere color
func (s ConnectionState) Indicator() Indicator {
	if s.Connected {
		return IndicatorConnected
	}
	return IndicatorDisconnected
}

// Detector casts a pointer ray and requires it to hit both targets
// Stateless; all inputs are read at call time
type Detector struct{}

// NewDetector creates a detector
func NewDetector() *Detector {
	return &Detector{}
}

// Evaluate returns Connected iff the ray from pointer (NDC) through camera
// intersects both phone and link. Unresolved assets never connect
func (d *Detector) Evaluate(pointer vmath.Vec2, camera *scene.Camera, phone, link *scene.Asset) ConnectionState {
	if camera == nil {
		return ConnectionState{}
	}
	phoneObj, ok := phone.Get()
	if !ok {
		return ConnectionState{}
	}
	linkObj, ok := link.Get()
	if !ok {
		return ConnectionState{}
	}

	ray := camera.Ray(pointer)
	if _, hit := vmath.IntersectRayAABB(ray, phoneObj.Bounds()); !hit {
		return ConnectionState{}
	}
	if _, hit := vmath.IntersectRayAABB(ray, linkObj.Bounds()); !hit {
		return ConnectionState{}
	}
	return ConnectionState{Connected: true}
}
