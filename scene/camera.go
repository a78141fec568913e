package scene

import (
	"math"

	"github.com/lixenwraith/harmonylink/vmath"
)

// Camera is a perspective camera aimed at a fixed target
// Orbit controls and resize mutate it between frames; projections must be recomputed each frame
type Camera struct {
	Position vmath.Vec3
	Target   vmath.Vec3
	Up       vmath.Vec3

	FOV    float64 // Vertical, degrees
	Aspect float64
	Near   float64
	Far    float64
}

// NewCamera creates a camera with +Y up
func NewCamera(position, target vmath.Vec3, fov, aspect, near, far float64) *Camera {
	return &Camera{
		Position: position,
		Target:   target,
		Up:       vmath.V3(0, 1, 0),
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
}

// SetViewport updates aspect from surface size, ignores degenerate sizes
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
}

// View returns the world->view matrix
func (c *Camera) View() vmath.Mat4 {
	return vmath.LookAt(c.Position, c.Target, c.Up)
}

// Projection returns the view->clip matrix
func (c *Camera) Projection() vmath.Mat4 {
	return vmath.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns the combined world->clip matrix
func (c *Camera) ViewProjection() vmath.Mat4 {
	return c.Projection().Mul(c.View())
}

// basis returns forward, right and true-up unit vectors
func (c *Camera) basis() (forward, right, up vmath.Vec3) {
	forward = vmath.V3Normalize(vmath.V3Sub(c.Target, c.Position))
	right = vmath.V3Normalize(vmath.V3Cross(forward, c.Up))
	up = vmath.V3Cross(right, forward)
	return forward, right, up
}

// Ray casts from the camera through a pointer position in NDC ([-1,1], +Y up)
func (c *Camera) Ray(ndc vmath.Vec2) vmath.Ray {
	forward, right, up := c.basis()
	tanHalf := math.Tan(c.FOV * math.Pi / 360.0)

	dir := vmath.V3Add(forward, vmath.V3Add(
		vmath.V3Scale(right, ndc.X*tanHalf*c.Aspect),
		vmath.V3Scale(up, ndc.Y*tanHalf),
	))

	return vmath.Ray{Origin: c.Position, Dir: vmath.V3Normalize(dir)}
}

// Depth returns the distance of p along the view direction
func (c *Camera) Depth(p vmath.Vec3) float64 {
	forward, _, _ := c.basis()
	return vmath.V3Dot(vmath.V3Sub(p, c.Position), forward)
}

// PointAtDepth returns the world point under ndc at the given view depth
func (c *Camera) PointAtDepth(ndc vmath.Vec2, depth float64) vmath.Vec3 {
	ray := c.Ray(ndc)
	forward, _, _ := c.basis()
	cos := vmath.V3Dot(ray.Dir, forward)
	if cos <= 0 {
		return ray.Origin
	}
	return ray.At(depth / cos)
}
