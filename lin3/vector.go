// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin3

import "math"

// V3 is a 3 element vector, also used as a point.
type V3 struct {
	X, Y, Z float64
}

// NewV3 returns a zero vector.
func NewV3() *V3 { return &V3{} }

// Eq (==) returns true if v and a have identical elements.
func (v *V3) Eq(a *V3) bool { return v.X == a.X && v.Y == a.Y && v.Z == a.Z }

// Aeq (~=) returns true if v and a are almost equal.
func (v *V3) Aeq(a *V3) bool { return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) && Aeq(v.Z, a.Z) }

// AeqZ (~=0) returns true if v is almost the zero vector.
func (v *V3) AeqZ() bool { return v.Dot(v) < Epsilon }

// GetS returns the scalar components of v.
func (v *V3) GetS() (x, y, z float64) { return v.X, v.Y, v.Z }

// SetS (=) sets v's elements to x, y, z. Returns v.
func (v *V3) SetS(x, y, z float64) *V3 { v.X, v.Y, v.Z = x, y, z; return v }

// Set (=, copy) sets v to a. Returns v.
func (v *V3) Set(a *V3) *V3 { v.X, v.Y, v.Z = a.X, a.Y, a.Z; return v }

// Add (+) sets v = a+b. Returns v.
func (v *V3) Add(a, b *V3) *V3 { v.X, v.Y, v.Z = a.X+b.X, a.Y+b.Y, a.Z+b.Z; return v }

// Sub (-) sets v = a-b. Returns v.
func (v *V3) Sub(a, b *V3) *V3 { v.X, v.Y, v.Z = a.X-b.X, a.Y-b.Y, a.Z-b.Z; return v }

// Scale (*) sets v = a*s. Returns v.
func (v *V3) Scale(a *V3, s float64) *V3 { v.X, v.Y, v.Z = a.X*s, a.Y*s, a.Z*s; return v }

// Mult (*) sets v = a*s for scalar s; identical to Scale. Returns v.
func (v *V3) Mult(a *V3, s float64) *V3 { return v.Scale(a, s) }

// Neg (-) sets v = -a. Returns v.
func (v *V3) Neg(a *V3) *V3 { v.X, v.Y, v.Z = -a.X, -a.Y, -a.Z; return v }

// Dot (.) returns the dot product of v and a.
func (v *V3) Dot(a *V3) float64 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// Cross (x) sets v = a x b. v must not alias a or b. Returns v.
func (v *V3) Cross(a, b *V3) *V3 {
	v.X, v.Y, v.Z = a.Y*b.Z-a.Z*b.Y, a.Z*b.X-a.X*b.Z, a.X*b.Y-a.Y*b.X
	return v
}

// Len returns the length of v.
func (v *V3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// LenSqr returns the squared length of v.
func (v *V3) LenSqr() float64 { return v.Dot(v) }

// Unit normalizes v in place. Returns v.
func (v *V3) Unit() *V3 {
	if l := v.Len(); l > Epsilon {
		v.Scale(v, 1.0/l)
	}
	return v
}

// Plane returns, in out, an arbitrary unit vector perpendicular to v.
func (v *V3) Plane(out *V3) *V3 {
	if math.Abs(v.X) >= math.Abs(v.Y) {
		invLen := 1.0 / math.Sqrt(v.X*v.X+v.Z*v.Z)
		out.SetS(-v.Z*invLen, 0, v.X*invLen)
	} else {
		invLen := 1.0 / math.Sqrt(v.Y*v.Y+v.Z*v.Z)
		out.SetS(0, v.Z*invLen, -v.Y*invLen)
	}
	return out
}

// MultMv sets v = m*a (matrix applied to vector). Returns v.
func (v *V3) MultMv(m *M3, a *V3) *V3 {
	x := m.Xx*a.X + m.Xy*a.Y + m.Xz*a.Z
	y := m.Yx*a.X + m.Yy*a.Y + m.Yz*a.Z
	z := m.Zx*a.X + m.Zy*a.Y + m.Zz*a.Z
	v.X, v.Y, v.Z = x, y, z
	return v
}

// MultQ sets v = rotate(a, q). Returns v.
func (v *V3) MultQ(a *V3, q *Q) *V3 {
	x, y, z := MultSQ(a.X, a.Y, a.Z, q)
	v.X, v.Y, v.Z = x, y, z
	return v
}
