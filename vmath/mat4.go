package vmath

import "math"

// Mat4 is a column-major 4x4 affine matrix, element (row r, col c) at index c*4+r
// Value type: builders return a new matrix, so two matrices built by the same
// call sequence compare equal with ==
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

// At returns element at row r, column c
func (m Mat4) At(r, c int) float64 {
	return m[c*4+r]
}

// Mul returns m * n
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c*4+r] = m[r]*n[c*4] + m[4+r]*n[c*4+1] + m[8+r]*n[c*4+2] + m[12+r]*n[c*4+3]
		}
	}
	return out
}

// Translate post-multiplies a translation: m * T(x, y, z)
func (m Mat4) Translate(x, y, z float64) Mat4 {
	for r := 0; r < 4; r++ {
		m[12+r] += m[r]*x + m[4+r]*y + m[8+r]*z
	}
	return m
}

// Scale post-multiplies a scale: m * S(x, y, z)
func (m Mat4) Scale(x, y, z float64) Mat4 {
	for r := 0; r < 4; r++ {
		m[r] *= x
		m[4+r] *= y
		m[8+r] *= z
	}
	return m
}

// RotateY post-multiplies a rotation of angle radians about the Y axis: m * Ry(angle)
func (m Mat4) RotateY(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	for r := 0; r < 4; r++ {
		c0 := m[r]
		c2 := m[8+r]
		m[r] = c*c0 - s*c2
		m[8+r] = s*c0 + c*c2
	}
	return m
}

// Apply transforms point v (w = 1)
func (m Mat4) Apply(v Vec3F) Vec3F {
	return Vec3F{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
}

// Translation returns the translation column
func (m Mat4) Translation() Vec3F {
	return Vec3F{m[12], m[13], m[14]}
}

// Near reports whether every element of m and n differ by at most eps
func (m Mat4) Near(n Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-n[i]) > eps {
			return false
		}
	}
	return true
}
