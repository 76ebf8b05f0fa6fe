package core

import "math"

// Mat4 is a 4x4 matrix in row-major order, used for object/camera/grid
// transforms. Hand-rolled rather than pulled from a linear-algebra library:
// none of the retrieved example repos that do 3D transforms (including the
// other Go renderer in the pack) import one either — mrigankad/gorenderengine
// hand-rolls its own Mat4 alongside go-gl, and gonum's matrix type is general
// dense linear algebra, not specialized for homogeneous 4x4 transforms.
type Mat4 [4][4]float64

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns the product of two matrices.
func (m Mat4) Mul(other Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[i][k] * other[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// MulPoint transforms a point (implicit w=1) and divides by the resulting w.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3]
	z := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3]
	w := m[3][0]*p.X + m[3][1]*p.Y + m[3][2]*p.Z + m[3][3]
	if w == 1 || w == 0 {
		return Vec3{x, y, z}
	}
	return Vec3{x / w, y / w, z / w}
}

// MulVector transforms a direction vector (implicit w=0, no translation).
func (m Mat4) MulVector(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns the transpose of the matrix.
func (m Mat4) Transpose() Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Inverse returns the matrix inverse via Gauss-Jordan elimination with
// partial pivoting. Returns the identity if the matrix is singular, since
// callers (camera/grid transforms) are expected to supply invertible ones.
func (m Mat4) Inverse() Mat4 {
	a := m
	inv := Identity4()

	for col := 0; col < 4; col++ {
		pivot := col
		maxVal := math.Abs(a[col][col])
		for row := col + 1; row < 4; row++ {
			if v := math.Abs(a[row][col]); v > maxVal {
				pivot, maxVal = row, v
			}
		}
		if maxVal < 1e-12 {
			return Identity4()
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		pv := a[col][col]
		for j := 0; j < 4; j++ {
			a[col][j] /= pv
			inv[col][j] /= pv
		}
		for row := 0; row < 4; row++ {
			if row == col {
				continue
			}
			factor := a[row][col]
			for j := 0; j < 4; j++ {
				a[row][j] -= factor * a[col][j]
				inv[row][j] -= factor * inv[col][j]
			}
		}
	}
	return inv
}

// Translate4 returns a translation matrix.
func Translate4(t Vec3) Mat4 {
	m := Identity4()
	m[0][3], m[1][3], m[2][3] = t.X, t.Y, t.Z
	return m
}

// Scale4 returns a scaling matrix.
func Scale4(s Vec3) Mat4 {
	m := Identity4()
	m[0][0], m[1][1], m[2][2] = s.X, s.Y, s.Z
	return m
}

// RotateX4 returns a rotation matrix about the X axis, angle in radians.
func RotateX4(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := Identity4()
	m[1][1], m[1][2] = c, -s
	m[2][1], m[2][2] = s, c
	return m
}

// RotateY4 returns a rotation matrix about the Y axis, angle in radians.
func RotateY4(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := Identity4()
	m[0][0], m[0][2] = c, s
	m[2][0], m[2][2] = -s, c
	return m
}

// RotateZ4 returns a rotation matrix about the Z axis, angle in radians.
func RotateZ4(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := Identity4()
	m[0][0], m[0][1] = c, -s
	m[1][0], m[1][1] = s, c
	return m
}

// LookAt4 builds a camera-to-world matrix looking from eye toward target
// with the given up hint, matching the Mitsuba/PBRT <lookat> convention.
func LookAt4(eye, target, up Vec3) Mat4 {
	dir := target.Subtract(eye).Normalize()
	right := up.Normalize().Cross(dir).Normalize()
	newUp := dir.Cross(right)
	return Mat4{
		{right.X, newUp.X, dir.X, eye.X},
		{right.Y, newUp.Y, dir.Y, eye.Y},
		{right.Z, newUp.Z, dir.Z, eye.Z},
		{0, 0, 0, 1},
	}
}
