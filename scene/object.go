package scene

import "github.com/lixenwraith/harmonylink/vmath"

// Object is a renderer-owned scene node reduced to what the narrative needs:
// a transform and a local bounding box for ray tests
type Object struct {
	ID       string
	Position vmath.Vec3
	Scale    vmath.Vec3

	// HalfExtents is the unscaled local bounding box half size
	HalfExtents vmath.Vec3
}

// NewObject creates an object with unit scale
func NewObject(id string, position, halfExtents vmath.Vec3) *Object {
	return &Object{
		ID:          id,
		Position:    position,
		Scale:       vmath.V3(1, 1, 1),
		HalfExtents: halfExtents,
	}
}

// Bounds returns the world-space AABB
func (o *Object) Bounds() vmath.AABB {
	return vmath.BoxAround(o.Position, vmath.V3Mul(o.HalfExtents, o.Scale))
}

// Clone returns an independent copy
func (o *Object) Clone() *Object {
	c := *o
	return &c
}
