// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin2

import "math"

// V2 is a 2 element vector, also used as a point.
type V2 struct {
	X, Y float64
}

// NewV2 returns a zero vector.
func NewV2() *V2 { return &V2{} }

// Eq (==) returns true if v and a have identical elements.
func (v *V2) Eq(a *V2) bool { return v.X == a.X && v.Y == a.Y }

// Aeq (~=) returns true if v and a are almost equal.
func (v *V2) Aeq(a *V2) bool { return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) }

// AeqZ (~=0) returns true if v is almost the zero vector.
func (v *V2) AeqZ() bool { return v.Dot(v) < Epsilon }

// GetS returns the scalar components of v.
func (v *V2) GetS() (x, y float64) { return v.X, v.Y }

// SetS (=) sets v's elements to x, y. Returns v.
func (v *V2) SetS(x, y float64) *V2 { v.X, v.Y = x, y; return v }

// Set (=, copy) sets v to a. Returns v.
func (v *V2) Set(a *V2) *V2 { v.X, v.Y = a.X, a.Y; return v }

// Add (+) sets v = a+b. Returns v.
func (v *V2) Add(a, b *V2) *V2 { v.X, v.Y = a.X+b.X, a.Y+b.Y; return v }

// Sub (-) sets v = a-b. Returns v.
func (v *V2) Sub(a, b *V2) *V2 { v.X, v.Y = a.X-b.X, a.Y-b.Y; return v }

// Scale (*) sets v = a*s. Returns v.
func (v *V2) Scale(a *V2, s float64) *V2 { v.X, v.Y = a.X*s, a.Y*s; return v }

// Neg (-) sets v = -a. Returns v.
func (v *V2) Neg(a *V2) *V2 { v.X, v.Y = -a.X, -a.Y; return v }

// Dot (.) returns the dot product of v and a.
func (v *V2) Dot(a *V2) float64 { return v.X*a.X + v.Y*a.Y }

// Cross (x) returns the 2D cross product (scalar z-component) of v and a.
func (v *V2) Cross(a *V2) float64 { return v.X*a.Y - v.Y*a.X }

// CrossS sets v to the 2D cross product of scalar s and vector a:
// s x a = (-s*a.Y, s*a.X). Used to turn a scalar angular velocity into the
// linear velocity contribution at an offset (r x omega, 2D form).
func (v *V2) CrossS(s float64, a *V2) *V2 {
	v.X, v.Y = -s*a.Y, s*a.X
	return v
}

// Perp sets v to a rotated +90 degrees (the 2D analog of lin3's Plane: an
// arbitrary unit vector perpendicular to a, used for the friction tangent).
func (v *V2) Perp(a *V2) *V2 { v.X, v.Y = -a.Y, a.X; return v }

// Len returns the length of v.
func (v *V2) Len() float64 { return math.Sqrt(v.Dot(v)) }

// LenSqr returns the squared length of v.
func (v *V2) LenSqr() float64 { return v.Dot(v) }

// Unit normalizes v in place. Returns v.
func (v *V2) Unit() *V2 {
	if l := v.Len(); l > Epsilon {
		v.Scale(v, 1.0/l)
	}
	return v
}

// Rot sets v to a rotated by ang radians. Returns v.
func (v *V2) Rot(a *V2, ang float64) *V2 {
	s, c := math.Sincos(ang)
	v.X, v.Y = a.X*c-a.Y*s, a.X*s+a.Y*c
	return v
}
