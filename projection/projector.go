// Package projection pins 2D overlays to fixed 3D anchors.
package projection

import (
	"github.com/lixenwraith/harmonylink/scene"
	"github.com/lixenwraith/harmonylink/vmath"
)

// AnchorPoint binds a world position to a UI element; immutable after creation
type AnchorPoint struct {
	WorldPosition    vmath.Vec3
	BoundUIElementID string
}

// ScreenPoint is a pixel offset from the viewport center, +Y down
type ScreenPoint struct {
	X, Y float64

	// Visible is false when the point is behind the camera
	Visible bool
}

// Placement is a projected anchor ready to apply to its element
type Placement struct {
	ElementID string
	ScreenPoint
}

// Project maps a world position through camera to a pixel offset from the viewport center
func Project(world vmath.Vec3, camera *scene.Camera, width, height int) ScreenPoint {
	clip, w := camera.ViewProjection().MulPoint(world)
	if w <= 0 {
		return ScreenPoint{}
	}
	ndcX := clip.X / w
	ndcY := clip.Y / w

	return ScreenPoint{
		X:       ndcX * float64(width) * 0.5,
		Y:       -ndcY * float64(height) * 0.5,
		Visible: true,
	}
}

// Projector holds the static anchor set and projects it each frame
type Projector struct {
	anchors []AnchorPoint
	out     []Placement
}

// NewProjector copies anchors so later mutation by the caller has no effect
func NewProjector(anchors []AnchorPoint) *Projector {
	a := make([]AnchorPoint, len(anchors))
	copy(a, anchors)
	return &Projector{
		anchors: a,
		out:     make([]Placement, len(a)),
	}
}

// Anchors returns a copy of the anchor set
func (p *Projector) Anchors() []AnchorPoint {
	a := make([]AnchorPoint, len(p.anchors))
	copy(a, p.anchors)
	return a
}

// ProjectAll recomputes every anchor for the current camera pose
// The returned slice is reused on the next call
func (p *Projector) ProjectAll(camera *scene.Camera, width, height int) []Placement {
	for i, a := range p.anchors {
		p.out[i] = Placement{
			ElementID:   a.BoundUIElementID,
			ScreenPoint: Project(a.WorldPosition, camera, width, height),
		}
	}
	return p.out
}
