package vmath

import "math"

// Ray is a half-line from Origin along unit Dir
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) Vec3 {
	return V3Add(r.Origin, V3Scale(r.Dir, t))
}

// AABB is an axis-aligned box in world space
type AABB struct {
	Min, Max Vec3
}

// BoxAround builds an AABB from a center and half extents
func BoxAround(center, half Vec3) AABB {
	return AABB{
		Min: V3Sub(center, half),
		Max: V3Add(center, half),
	}
}

// Center returns the midpoint of the box
func (b AABB) Center() Vec3 {
	return V3Scale(V3Add(b.Min, b.Max), 0.5)
}

// Empty reports a degenerate box with any inverted axis
func (b AABB) Empty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// IntersectRayAABB runs the slab test, returns entry distance and hit flag
// Hits behind the origin are rejected; an origin inside the box hits at t=0
func IntersectRayAABB(r Ray, b AABB) (float64, bool) {
	if b.Empty() {
		return 0, false
	}

	tMin := 0.0
	tMax := math.Inf(1)

	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if math.Abs(dir[axis]) < 1e-12 {
			// Parallel to slab: must already be inside it
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}

		inv := 1.0 / dir[axis]
		t1 := (lo[axis] - origin[axis]) * inv
		t2 := (hi[axis] - origin[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}

	return tMin, true
}
