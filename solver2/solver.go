// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package solver2 is the 2D counterpart of solver3, with scalar angular
// quantities in place of 3D vectors/matrices.
package solver2

import (
	"math"

	"github.com/gazed/nphys/body2"
	"github.com/gazed/nphys/lin2"
)

const restitutionVelocityThreshold = 1.0
const penetrationSlop = 0.005
const baumgarte = 0.2
const jointBeta = 0.2

// Contact is one point of a 2D contact manifold between two bodies.
type Contact struct {
	A, B        *body2.RigidBody
	Point       lin2.V2
	Normal      lin2.V2
	Depth       float64
	Friction    float64
	Restitution float64
}

// BallJoint (a pin joint in 2D) requires two anchor points to coincide.
type BallJoint struct {
	A, B         *body2.RigidBody
	AnchorAWorld lin2.V2
	AnchorBWorld lin2.V2
}

// FixedJoint requires two anchors to coincide in position and angle.
type FixedJoint struct {
	A, B         *body2.RigidBody
	AnchorAWorld lin2.V2
	AnchorBWorld lin2.V2
	AngleAWorld  float64
	AngleBWorld  float64
}

// Input is the flat constraint list handed to Solve for one step.
type Input struct {
	Contacts []Contact
	Balls    []BallJoint
	Fixed    []FixedJoint
}

func invMassOf(b *body2.RigidBody) float64 {
	if b == nil {
		return 0
	}
	return b.InvMass
}

func invInertiaOf(b *body2.RigidBody) float64 {
	if b == nil {
		return 0
	}
	return b.InvInertia
}

// velocityAt returns the velocity of the point at offset r from b's center,
// where r.CrossS-style 2D angular coupling contributes omega x r.
func velocityAt(b *body2.RigidBody, r *lin2.V2) lin2.V2 {
	if b == nil {
		return lin2.V2{}
	}
	wxr := lin2.V2{}
	wxr.CrossS(b.AngVel, r)
	v := lin2.V2{}
	v.Add(&b.LinVel, &wxr)
	return v
}

// rCrossAxis is the 2D scalar cross product used by the effective-mass
// formula: r x axis.
func rCrossAxis(r, axis *lin2.V2) float64 { return r.Cross(axis) }

func effMassLinear(a, b *body2.RigidBody, rA, rB, axis *lin2.V2) float64 {
	rnA := rCrossAxis(rA, axis)
	rnB := rCrossAxis(rB, axis)
	return invMassOf(a) + invMassOf(b) + rnA*rnA*invInertiaOf(a) + rnB*rnB*invInertiaOf(b)
}

func applyLinearImpulse(b *body2.RigidBody, impulse *lin2.V2, r *lin2.V2) {
	if b == nil || b.Mobility == body2.Static {
		return
	}
	dv := lin2.V2{}
	dv.Scale(impulse, b.InvMass)
	b.LinVel.Add(&b.LinVel, &dv)
	b.AngVel += b.InvInertia * r.Cross(impulse)
}

func applyAngularImpulse(b *body2.RigidBody, impulse float64) {
	if b == nil || b.Mobility == body2.Static {
		return
	}
	b.AngVel += b.InvInertia * impulse
}

func safeInv(m float64) float64 {
	if m <= lin2.Epsilon {
		return 0
	}
	return 1.0 / m
}

func negOf(v *lin2.V2) *lin2.V2 {
	n := lin2.V2{}
	n.Neg(v)
	return &n
}

func CombinedFriction(a, b float64) float64 {
	if a < 0 {
		a = 0
	}
	if b < 0 {
		b = 0
	}
	return math.Sqrt(a * b)
}

type workingContact struct {
	c                        *Contact
	rA, rB                   lin2.V2
	normal, tangent          lin2.V2
	massN, massT             float64
	bias                     float64
	accumN, accumT           float64
}

func prepareContact(c *Contact, dt float64) workingContact {
	w := workingContact{c: c, normal: c.Normal}
	if c.A != nil {
		w.rA.Sub(&c.Point, c.A.Xform.Loc)
	} else {
		w.rA = c.Point
	}
	if c.B != nil {
		w.rB.Sub(&c.Point, c.B.Xform.Loc)
	} else {
		w.rB = c.Point
	}
	w.tangent.Perp(&c.Normal)

	w.massN = safeInv(effMassLinear(c.A, c.B, &w.rA, &w.rB, &w.normal))
	w.massT = safeInv(effMassLinear(c.A, c.B, &w.rA, &w.rB, &w.tangent))

	vb := velocityAt(c.B, &w.rB)
	va := velocityAt(c.A, &w.rA)
	relVel := lin2.V2{}
	relVel.Sub(&vb, &va)
	closingVel := relVel.Dot(&c.Normal)

	restitutionBias := 0.0
	if closingVel < -restitutionVelocityThreshold {
		restitutionBias = -c.Restitution * closingVel
	}
	penetrationBias := 0.0
	if c.Depth > penetrationSlop {
		penetrationBias = (baumgarte / dt) * (c.Depth - penetrationSlop)
	}
	w.bias = restitutionBias + penetrationBias
	return w
}

func solveContact(w *workingContact) {
	c := w.c
	vb := velocityAt(c.B, &w.rB)
	va := velocityAt(c.A, &w.rA)
	relVel := lin2.V2{}
	relVel.Sub(&vb, &va)
	vn := relVel.Dot(&w.normal)
	lambda := w.massN * (-vn + w.bias)
	newAccum := w.accumN + lambda
	if newAccum < 0 {
		newAccum = 0
	}
	lambda = newAccum - w.accumN
	w.accumN = newAccum

	impulse := lin2.V2{}
	impulse.Scale(&w.normal, lambda)
	applyLinearImpulse(c.A, negOf(&impulse), &w.rA)
	applyLinearImpulse(c.B, &impulse, &w.rB)

	vb = velocityAt(c.B, &w.rB)
	va = velocityAt(c.A, &w.rA)
	relVel.Sub(&vb, &va)
	vt := relVel.Dot(&w.tangent)
	lamT := w.massT * (-vt)
	limit := c.Friction * w.accumN
	newAccT := max(-limit, min(w.accumT+lamT, limit))
	lamT = newAccT - w.accumT
	w.accumT = newAccT

	fImpulse := lin2.V2{}
	fImpulse.Scale(&w.tangent, lamT)
	applyLinearImpulse(c.A, negOf(&fImpulse), &w.rA)
	applyLinearImpulse(c.B, &fImpulse, &w.rB)
}

type workingBall struct {
	j      *BallJoint
	rA, rB lin2.V2
	bias   lin2.V2
}

func prepareBall(j *BallJoint, dt float64) workingBall {
	w := workingBall{j: j}
	if j.A != nil {
		w.rA.Sub(&j.AnchorAWorld, j.A.Xform.Loc)
	} else {
		w.rA = j.AnchorAWorld
	}
	if j.B != nil {
		w.rB.Sub(&j.AnchorBWorld, j.B.Xform.Loc)
	} else {
		w.rB = j.AnchorBWorld
	}
	err := lin2.V2{}
	err.Sub(&j.AnchorBWorld, &j.AnchorAWorld)
	w.bias.Scale(&err, jointBeta/dt)
	return w
}

func solveBall(w *workingBall) {
	j := w.j
	axes := [2]lin2.V2{{X: 1}, {Y: 1}}
	for _, axis := range axes {
		mass := safeInv(effMassLinear(j.A, j.B, &w.rA, &w.rB, &axis))
		if mass == 0 {
			continue
		}
		vb := velocityAt(j.B, &w.rB)
		va := velocityAt(j.A, &w.rA)
		relVel := lin2.V2{}
		relVel.Sub(&vb, &va)
		target := w.bias.Dot(&axis)
		lambda := mass * (-relVel.Dot(&axis) - target)
		impulse := lin2.V2{}
		impulse.Scale(&axis, lambda)
		applyLinearImpulse(j.A, negOf(&impulse), &w.rA)
		applyLinearImpulse(j.B, &impulse, &w.rB)
	}
}

type workingFixed struct {
	j            *FixedJoint
	rA, rB       lin2.V2
	linBias      lin2.V2
	angBias      float64
}

func prepareFixed(j *FixedJoint, dt float64) workingFixed {
	w := workingFixed{j: j}
	if j.A != nil {
		w.rA.Sub(&j.AnchorAWorld, j.A.Xform.Loc)
	} else {
		w.rA = j.AnchorAWorld
	}
	if j.B != nil {
		w.rB.Sub(&j.AnchorBWorld, j.B.Xform.Loc)
	} else {
		w.rB = j.AnchorBWorld
	}
	posErr := lin2.V2{}
	posErr.Sub(&j.AnchorBWorld, &j.AnchorAWorld)
	w.linBias.Scale(&posErr, jointBeta/dt)
	w.angBias = (jointBeta / dt) * (j.AngleBWorld - j.AngleAWorld)
	return w
}

func solveFixed(w *workingFixed) {
	j := w.j
	axes := [2]lin2.V2{{X: 1}, {Y: 1}}
	for _, axis := range axes {
		mass := safeInv(effMassLinear(j.A, j.B, &w.rA, &w.rB, &axis))
		if mass == 0 {
			continue
		}
		vb := velocityAt(j.B, &w.rB)
		va := velocityAt(j.A, &w.rA)
		relVel := lin2.V2{}
		relVel.Sub(&vb, &va)
		target := w.linBias.Dot(&axis)
		lambda := mass * (-relVel.Dot(&axis) - target)
		impulse := lin2.V2{}
		impulse.Scale(&axis, lambda)
		applyLinearImpulse(j.A, negOf(&impulse), &w.rA)
		applyLinearImpulse(j.B, &impulse, &w.rB)
	}

	massAng := safeInv(invInertiaOf(j.A) + invInertiaOf(j.B))
	if massAng == 0 {
		return
	}
	var wa, wb float64
	if j.A != nil {
		wa = j.A.AngVel
	}
	if j.B != nil {
		wb = j.B.AngVel
	}
	lambda := massAng * (-(wb - wa) - w.angBias)
	applyAngularImpulse(j.A, -lambda)
	applyAngularImpulse(j.B, lambda)
}

// Solve runs iterations passes of sequential impulse resolution over in.
func Solve(in *Input, dt float64, iterations int) {
	contacts := make([]workingContact, len(in.Contacts))
	for i := range in.Contacts {
		contacts[i] = prepareContact(&in.Contacts[i], dt)
	}
	balls := make([]workingBall, len(in.Balls))
	for i := range in.Balls {
		balls[i] = prepareBall(&in.Balls[i], dt)
	}
	fixed := make([]workingFixed, len(in.Fixed))
	for i := range in.Fixed {
		fixed[i] = prepareFixed(&in.Fixed[i], dt)
	}

	for iter := 0; iter < iterations; iter++ {
		for i := range balls {
			solveBall(&balls[i])
		}
		for i := range fixed {
			solveFixed(&fixed[i])
		}
		for i := range contacts {
			solveContact(&contacts[i])
		}
	}
}
