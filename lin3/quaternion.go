// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin3

import "math"

// Q is a unit quaternion used to represent a 3D orientation.
type Q struct {
	X, Y, Z, W float64
}

// QI is the identity rotation. Never mutate it.
var QI = &Q{0, 0, 0, 1}

// NewQ returns an identity quaternion.
func NewQ() *Q { return &Q{0, 0, 0, 1} }

// Eq (==) returns true if q and r have identical elements.
func (q *Q) Eq(r *Q) bool { return q.X == r.X && q.Y == r.Y && q.Z == r.Z && q.W == r.W }

// Aeq (~=) returns true if q and r are almost equal.
func (q *Q) Aeq(r *Q) bool { return Aeq(q.X, r.X) && Aeq(q.Y, r.Y) && Aeq(q.Z, r.Z) && Aeq(q.W, r.W) }

// SetS (=) sets q's elements. Returns q.
func (q *Q) SetS(x, y, z, w float64) *Q { q.X, q.Y, q.Z, q.W = x, y, z, w; return q }

// Set (=, copy) sets q to r. Returns q.
func (q *Q) Set(r *Q) *Q { q.X, q.Y, q.Z, q.W = r.X, r.Y, r.Z, r.W; return q }

// SetAa sets q to the rotation of ang radians about axis (ax,ay,az). Returns q.
func (q *Q) SetAa(ax, ay, az, ang float64) *Q {
	s := math.Sin(ang * 0.5)
	q.X, q.Y, q.Z, q.W = ax*s, ay*s, az*s, math.Cos(ang*0.5)
	return q.Unit()
}

// Len returns the length of q.
func (q *Q) Len() float64 { return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W) }

// Unit normalizes q in place. Returns q.
func (q *Q) Unit() *Q {
	if l := q.Len(); l > Epsilon {
		inv := 1.0 / l
		q.X, q.Y, q.Z, q.W = q.X*inv, q.Y*inv, q.Z*inv, q.W*inv
	}
	return q
}

// Inv sets q to the inverse (conjugate, for unit quaternions) of r. Returns q.
func (q *Q) Inv(r *Q) *Q {
	q.X, q.Y, q.Z, q.W = -r.X, -r.Y, -r.Z, r.W
	return q
}

// Mult (*) sets q = a*b (quaternion composition, apply b then a). Returns q.
func (q *Q) Mult(a, b *Q) *Q {
	x := a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y
	y := a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X
	z := a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W
	w := a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z
	q.X, q.Y, q.Z, q.W = x, y, z, w
	return q
}

// multSQ rotates scalar vector (x,y,z) by quaternion components (qx,qy,qz,qw).
func multSQ(x, y, z, qx, qy, qz, qw float64) (rx, ry, rz float64) {
	// v' = q * v * q^-1, expanded for a pure-vector quaternion v.
	uvx, uvy, uvz := qy*z-qz*y, qz*x-qx*z, qx*y-qy*x
	uuvx, uuvy, uuvz := qy*uvz-qz*uvy, qz*uvx-qx*uvz, qx*uvy-qy*uvx
	rx = x + 2*(qw*uvx+uuvx)
	ry = y + 2*(qw*uvy+uuvy)
	rz = z + 2*(qw*uvz+uuvz)
	return rx, ry, rz
}

// MultSQ rotates scalar vector (x,y,z) by quaternion q, returning the result.
func MultSQ(x, y, z float64, q *Q) (rx, ry, rz float64) {
	return multSQ(x, y, z, q.X, q.Y, q.Z, q.W)
}
