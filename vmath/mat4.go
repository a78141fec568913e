package vmath

import "math"

// Mat4 is a row-major 4x4 matrix, vectors are columns (M * v)
type Mat4 [16]float64

// Identity returns the identity matrix
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns element (row, col)
func (m Mat4) At(row, col int) float64 {
	return m[row*4+col]
}

// Mul returns m * n
func (m Mat4) Mul(n Mat4) Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * n[k*4+col]
			}
			r[row*4+col] = sum
		}
	}
	return r
}

// MulPoint transforms p with w=1 and returns the clip-space xyz and w without dividing
func (m Mat4) MulPoint(p Vec3) (Vec3, float64) {
	x := m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3]
	y := m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7]
	z := m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11]
	w := m[12]*p.X + m[13]*p.Y + m[14]*p.Z + m[15]
	return Vec3{x, y, z}, w
}

// LookAt builds a right-handed view matrix (camera looks down -Z in view space)
func LookAt(eye, target, up Vec3) Mat4 {
	f := V3Normalize(V3Sub(target, eye))
	s := V3Normalize(V3Cross(f, up))
	u := V3Cross(s, f)

	return Mat4{
		s.X, s.Y, s.Z, -V3Dot(s, eye),
		u.X, u.Y, u.Z, -V3Dot(u, eye),
		-f.X, -f.Y, -f.Z, V3Dot(f, eye),
		0, 0, 0, 1,
	}
}

// Perspective builds an OpenGL-style projection, fovY in degrees, NDC z in [-1, 1]
func Perspective(fovYDeg, aspect, near, far float64) Mat4 {
	t := 1.0 / math.Tan(fovYDeg*math.Pi/360.0)
	nf := 1.0 / (near - far)

	return Mat4{
		t / aspect, 0, 0, 0,
		0, t, 0, 0,
		0, 0, (far + near) * nf, 2 * far * near * nf,
		0, 0, -1, 0,
	}
}
