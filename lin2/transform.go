// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin2

import "math"

// T2 is a 2D rigid transform: a rotation angle plus a translation.
type T2 struct {
	Loc *V2    // translation
	Ang float64 // orientation, radians
}

// NewT2 returns the identity transform.
func NewT2() *T2 { return &T2{&V2{}, 0} }

// Eq (==) returns true if t and a have identical elements.
func (t *T2) Eq(a *T2) bool { return t.Ang == a.Ang && t.Loc.Eq(a.Loc) }

// Aeq (~=) returns true if t and a are almost equal.
func (t *T2) Aeq(a *T2) bool { return Aeq(t.Ang, a.Ang) && t.Loc.Aeq(a.Loc) }

// Set (=, copy) sets t to a. Returns t.
func (t *T2) Set(a *T2) *T2 { t.Loc.Set(a.Loc); t.Ang = a.Ang; return t }

// SetI sets t to the identity transform. Returns t.
func (t *T2) SetI() *T2 { t.Loc.SetS(0, 0); t.Ang = 0; return t }

// App applies t (rotate then translate) to vector v in place. Returns v.
func (t *T2) App(v *V2) *V2 {
	v.Rot(v, t.Ang)
	v.Add(v, t.Loc)
	return v
}

// Inv applies the inverse of t to vector v in place. Returns v.
func (t *T2) Inv(v *V2) *V2 {
	v.Sub(v, t.Loc)
	v.Rot(v, -t.Ang)
	return v
}

// Integrate sets t to transform a advanced by linear velocity linv and
// angular velocity angv (scalar, radians/sec) over dt seconds. t must not
// alias a. This is the 2D counterpart of lin3.T.Integrate: there is no
// small-angle singularity to guard against in 2D since the orientation is a
// single scalar, so the update is a plain forward-Euler step on position and
// angle followed by wrapping the angle back into [-PI, PI).
func (t *T2) Integrate(a *T2, linv *V2, angv, dt float64) *T2 {
	t.Loc.X = a.Loc.X + linv.X*dt
	t.Loc.Y = a.Loc.Y + linv.Y*dt
	t.Ang = wrapAngle(a.Ang + angv*dt)
	return t
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a+PI, PIx2)
	if a < 0 {
		a += PIx2
	}
	return a - PI
}
