// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin3

// M3 is a row-major 3x3 matrix, used for inertia tensors and rotation bases.
type M3 struct {
	Xx, Xy, Xz float64
	Yx, Yy, Yz float64
	Zx, Zy, Zz float64
}

// M3I is the identity matrix. Never mutate it.
var M3I = M3{1, 0, 0, 0, 1, 0, 0, 0, 1}

// NewM3 returns a zero matrix.
func NewM3() *M3 { return &M3{} }

// Set (=, copy) sets m to a. Returns m.
func (m *M3) Set(a M3) *M3 { *m = a; return m }

// SetQ sets m to the rotation matrix represented by quaternion q. Returns m.
func (m *M3) SetQ(q *Q) *M3 {
	x2, y2, z2 := q.X+q.X, q.Y+q.Y, q.Z+q.Z
	xx, xy, xz := q.X*x2, q.X*y2, q.X*z2
	yy, yz, zz := q.Y*y2, q.Y*z2, q.Z*z2
	wx, wy, wz := q.W*x2, q.W*y2, q.W*z2
	m.Xx, m.Xy, m.Xz = 1-(yy+zz), xy-wz, xz+wy
	m.Yx, m.Yy, m.Yz = xy+wz, 1-(xx+zz), yz-wx
	m.Zx, m.Zy, m.Zz = xz-wy, yz+wx, 1-(xx+yy)
	return m
}

// Transpose sets m to the transpose of a. m must not alias a. Returns m.
func (m *M3) Transpose(a *M3) *M3 {
	m.Xx, m.Xy, m.Xz = a.Xx, a.Yx, a.Zx
	m.Yx, m.Yy, m.Yz = a.Xy, a.Yy, a.Zy
	m.Zx, m.Zy, m.Zz = a.Xz, a.Yz, a.Zz
	return m
}

// ScaleV returns a new matrix equal to m with each column scaled by the
// corresponding element of diagonal vector d (m * diag(d)) — used to turn a diagonal
// local-space inertia vector into the matrix form needed by Mult.
func (m *M3) ScaleV(d *V3) *M3 {
	return &M3{
		m.Xx * d.X, m.Xy * d.Y, m.Xz * d.Z,
		m.Yx * d.X, m.Yy * d.Y, m.Yz * d.Z,
		m.Zx * d.X, m.Zy * d.Y, m.Zz * d.Z,
	}
}

// Mult sets m = a*b (matrix product). m must not alias a or b. Returns m.
func (m *M3) Mult(a, b *M3) *M3 {
	m.Xx = a.Xx*b.Xx + a.Xy*b.Yx + a.Xz*b.Zx
	m.Xy = a.Xx*b.Xy + a.Xy*b.Yy + a.Xz*b.Zy
	m.Xz = a.Xx*b.Xz + a.Xy*b.Yz + a.Xz*b.Zz
	m.Yx = a.Yx*b.Xx + a.Yy*b.Yx + a.Yz*b.Zx
	m.Yy = a.Yx*b.Xy + a.Yy*b.Yy + a.Yz*b.Zy
	m.Yz = a.Yx*b.Xz + a.Yy*b.Yz + a.Yz*b.Zz
	m.Zx = a.Zx*b.Xx + a.Zy*b.Yx + a.Zz*b.Zx
	m.Zy = a.Zx*b.Xy + a.Zy*b.Yy + a.Zz*b.Zy
	m.Zz = a.Zx*b.Xz + a.Zy*b.Yz + a.Zz*b.Zz
	return m
}
