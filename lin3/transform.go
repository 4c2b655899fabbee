// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin3

import "math"

// T is a 3D rigid transform: rotation plus translation, no scale or shear.
type T struct {
	Loc *V3 // translation
	Rot *Q  // orientation
}

// NewT returns the identity transform.
func NewT() *T { return &T{&V3{}, &Q{0, 0, 0, 1}} }

// Eq (==) returns true if t and a have identical elements.
func (t *T) Eq(a *T) bool { return t.Rot.Eq(a.Rot) && t.Loc.Eq(a.Loc) }

// Aeq (~=) returns true if t and a are almost equal.
func (t *T) Aeq(a *T) bool { return t.Rot.Aeq(a.Rot) && t.Loc.Aeq(a.Loc) }

// Set (=, copy) sets t to a. Returns t.
func (t *T) Set(a *T) *T { t.Loc.Set(a.Loc); t.Rot.Set(a.Rot); return t }

// SetI sets t to the identity transform. Returns t.
func (t *T) SetI() *T { t.Loc.SetS(0, 0, 0); t.Rot.Set(QI); return t }

// App applies t (rotate then translate) to vector v in place. Returns v.
func (t *T) App(v *V3) *V3 {
	v.MultQ(v, t.Rot)
	v.Add(v, t.Loc)
	return v
}

// Inv applies the inverse of t to vector v in place. Returns v.
func (t *T) Inv(v *V3) *V3 {
	v.Sub(v, t.Loc)
	inv := &Q{-t.Rot.X, -t.Rot.Y, -t.Rot.Z, t.Rot.W}
	v.MultQ(v, inv)
	return v
}

// Integrate sets t to transform a advanced by linear velocity linv and
// angular velocity angv over dt seconds. t must not alias a.
//
// Based on bullet physics: btTransformUtil::integrateTransform, following
// the exponential-map approach so that small timesteps stay well-conditioned.
func (t *T) Integrate(a *T, linv, angv *V3, dt float64) *T {
	t.Loc.X = a.Loc.X + linv.X*dt
	t.Loc.Y = a.Loc.Y + linv.Y*dt
	t.Loc.Z = a.Loc.Z + linv.Z*dt

	angularMotionLimit := 0.5 * HalfPi
	angLen := angv.Len()
	if angLen*dt > angularMotionLimit {
		angLen = angularMotionLimit / dt
	}
	var fac float64
	if angLen < 0.001 {
		fac = 0.5*dt - dt*dt*dt*0.020833333333*angLen*angLen
	} else {
		fac = math.Sin(0.5*angLen*dt) / angLen
	}

	rx, ry, rz, rw := a.Rot.X, a.Rot.Y, a.Rot.Z, a.Rot.W
	sx, sy, sz, sw := angv.X*fac, angv.Y*fac, angv.Z*fac, math.Cos(angLen*dt*0.5)
	t.Rot.X = rw*sx + rx*sw - ry*sz + rz*sy
	t.Rot.Y = rw*sy + rx*sz + ry*sw - rz*sx
	t.Rot.Z = rw*sz - rx*sy + ry*sx + rz*sw
	t.Rot.W = rw*sw - rx*sx - ry*sy - rz*sz
	t.Rot.Unit()
	return t
}
