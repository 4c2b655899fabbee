// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package solver3 is the 3D sequential-impulse constraint solver: it
// consumes a flat list of contact and joint constraints plus current body
// state and writes back velocity (and, for joints, light positional bias)
// corrections. The contact half follows the standard Bullet-derived
// PGS scheme, with accumulated impulses starting from zero on every Solve
// call (no warm starting across steps); the joint half resolves each bilateral
// constraint as three (or six, for Fixed) decoupled axis solves using the
// same per-axis effective-mass formula, rather than inverting a dense 3x3
// block — simpler to reason about and still convergent under Gauss-Seidel
// iteration.
package solver3

import (
	"math"

	"github.com/gazed/nphys/body3"
	"github.com/gazed/nphys/lin3"
)

// restitutionVelocityThreshold is the relative approach speed below which
// restitution is suppressed, to avoid resting contacts jittering forever.
const restitutionVelocityThreshold = 1.0

// penetrationSlop is the allowed overlap before positional bias kicks in.
const penetrationSlop = 0.005

// baumgarte is the fraction of remaining penetration corrected per step via
// the bias velocity; there is no separate position-correction pass.
const baumgarte = 0.2

// jointBeta is the fraction of joint positional error corrected per step.
const jointBeta = 0.2

// Contact is one point of a contact manifold between two bodies. B may be
// nil to represent a contact against an immovable world feature that isn't
// itself modeled as a body (unused by the narrow phase today, but kept
// since joints support a nil side and contacts share the solving code path
// conceptually).
type Contact struct {
	A, B        *body3.RigidBody
	Point       lin3.V3
	Normal      lin3.V3 // from A to B
	Depth       float64
	Friction    float64 // combined coefficient, geometric mean of the two materials
	Restitution float64
}

// BallJoint requires AnchorA and AnchorB (recomputed in world space by the
// caller each step) to coincide.
type BallJoint struct {
	A, B             *body3.RigidBody // nil = world-anchored
	AnchorAWorld     lin3.V3
	AnchorBWorld     lin3.V3
	LocalA, LocalB   lin3.V3 // body-local anchor points, nil-body means world-space already
}

// FixedJoint requires two anchor frames to coincide in position and orientation.
type FixedJoint struct {
	A, B           *body3.RigidBody
	AnchorAWorld   lin3.V3
	AnchorBWorld   lin3.V3
	LocalA, LocalB lin3.V3
	FrameAWorld    lin3.Q
	FrameBWorld    lin3.Q
}

// Input is the flat constraint list handed to Solve for one step.
type Input struct {
	Contacts []Contact
	Balls    []BallJoint
	Fixed    []FixedJoint
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

func invMassOf(b *body3.RigidBody) float64 {
	if b == nil {
		return 0
	}
	return b.InvMass
}

func invWorldOf(b *body3.RigidBody) *lin3.M3 {
	if b == nil {
		return &lin3.M3{}
	}
	return &b.InvWorld
}

func velocityAt(b *body3.RigidBody, r *lin3.V3) lin3.V3 {
	if b == nil {
		return lin3.V3{}
	}
	wxr := lin3.V3{}
	wxr.Cross(&b.AngVel, r)
	v := lin3.V3{}
	v.Add(&b.LinVel, &wxr)
	return v
}

// effMassLinear returns the denominator of the impulse formula for a
// constraint axis at contact arms rA, rB.
func effMassLinear(a, b *body3.RigidBody, rA, rB *lin3.V3, axis *lin3.V3) float64 {
	raXn := lin3.V3{}
	raXn.Cross(rA, axis)
	rbXn := lin3.V3{}
	rbXn.Cross(rB, axis)

	ia := lin3.V3{}
	ia.MultMv(invWorldOf(a), &raXn)
	ib := lin3.V3{}
	ib.MultMv(invWorldOf(b), &rbXn)

	angA := lin3.V3{}
	angA.Cross(&ia, rA)
	angB := lin3.V3{}
	angB.Cross(&ib, rB)

	sum := angA.Dot(axis) + angB.Dot(axis)
	return invMassOf(a) + invMassOf(b) + sum
}

// effMassAngular is the pure-rotation effective mass along axis, used by
// Fixed joint orientation correction where there is no linear coupling.
func effMassAngular(a, b *body3.RigidBody, axis *lin3.V3) float64 {
	ia := lin3.V3{}
	ia.MultMv(invWorldOf(a), axis)
	ib := lin3.V3{}
	ib.MultMv(invWorldOf(b), axis)
	return ia.Dot(axis) + ib.Dot(axis)
}

func applyLinearImpulse(b *body3.RigidBody, impulse *lin3.V3, r *lin3.V3) {
	if b == nil || b.Mobility == body3.Static {
		return
	}
	dv := lin3.V3{}
	dv.Scale(impulse, b.InvMass)
	b.LinVel.Add(&b.LinVel, &dv)

	angImpulse := lin3.V3{}
	angImpulse.Cross(r, impulse)
	dw := lin3.V3{}
	dw.MultMv(&b.InvWorld, &angImpulse)
	b.AngVel.Add(&b.AngVel, &dw)
}

func applyAngularImpulse(b *body3.RigidBody, impulse *lin3.V3) {
	if b == nil || b.Mobility == body3.Static {
		return
	}
	dw := lin3.V3{}
	dw.MultMv(&b.InvWorld, impulse)
	b.AngVel.Add(&b.AngVel, &dw)
}

type workingContact struct {
	c                             *Contact
	rA, rB                        lin3.V3
	normal, t1, t2                lin3.V3
	massN, massT1, massT2         float64
	bias                          float64
	accumN, accumT1, accumT2      float64
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

	c.Normal.Plane(&w.t1)
	w.t2.Cross(&c.Normal, &w.t1)

	w.massN = safeInv(effMassLinear(c.A, c.B, &w.rA, &w.rB, &w.normal))
	w.massT1 = safeInv(effMassLinear(c.A, c.B, &w.rA, &w.rB, &w.t1))
	w.massT2 = safeInv(effMassLinear(c.A, c.B, &w.rA, &w.rB, &w.t2))

	relVel := lin3.V3{}
	vb := velocityAt(c.B, &w.rB)
	va := velocityAt(c.A, &w.rA)
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

func safeInv(m float64) float64 {
	if m <= lin3.Epsilon {
		return 0
	}
	return 1.0 / m
}

func solveContact(w *workingContact) {
	c := w.c
	vb := velocityAt(c.B, &w.rB)
	va := velocityAt(c.A, &w.rA)
	relVel := lin3.V3{}
	relVel.Sub(&vb, &va)

	vn := relVel.Dot(&w.normal)
	lambda := w.massN * (-vn + w.bias)
	newAccum := w.accumN + lambda
	if newAccum < 0 {
		newAccum = 0
	}
	lambda = newAccum - w.accumN
	w.accumN = newAccum

	impulse := lin3.V3{}
	impulse.Scale(&w.normal, lambda)
	applyLinearImpulse(c.A, negOf(&impulse), &w.rA)
	applyLinearImpulse(c.B, &impulse, &w.rB)

	// Friction, clamped to the (Coulomb) friction cone using the
	// accumulated normal impulse as the cone radius.
	for _, axis := range [2]*struct {
		dir    *lin3.V3
		mass   *float64
		accum  *float64
	}{
		{&w.t1, &w.massT1, &w.accumT1},
		{&w.t2, &w.massT2, &w.accumT2},
	} {
		vb := velocityAt(c.B, &w.rB)
		va := velocityAt(c.A, &w.rA)
		relVel.Sub(&vb, &va)
		vt := relVel.Dot(axis.dir)
		lam := *axis.mass * (-vt)
		limit := c.Friction * w.accumN
		newAcc := max(-limit, min(*axis.accum+lam, limit))
		lam = newAcc - *axis.accum
		*axis.accum = newAcc

		fImpulse := lin3.V3{}
		fImpulse.Scale(axis.dir, lam)
		applyLinearImpulse(c.A, negOf(&fImpulse), &w.rA)
		applyLinearImpulse(c.B, &fImpulse, &w.rB)
	}
}

func negOf(v *lin3.V3) *lin3.V3 {
	n := lin3.V3{}
	n.Neg(v)
	return &n
}


type workingBall struct {
	j      *BallJoint
	rA, rB lin3.V3
	bias   lin3.V3
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
	err := lin3.V3{}
	err.Sub(&j.AnchorBWorld, &j.AnchorAWorld)
	w.bias.Scale(&err, jointBeta/dt)
	return w
}

func solveBall(w *workingBall) {
	j := w.j
	axes := [3]lin3.V3{{X: 1}, {Y: 1}, {Z: 1}}
	for _, axis := range axes {
		mass := safeInv(effMassLinear(j.A, j.B, &w.rA, &w.rB, &axis))
		if mass == 0 {
			continue
		}
		vb := velocityAt(j.B, &w.rB)
		va := velocityAt(j.A, &w.rA)
		relVel := lin3.V3{}
		relVel.Sub(&vb, &va)
		target := w.bias.Dot(&axis)
		lambda := mass * (-relVel.Dot(&axis) - target)
		impulse := lin3.V3{}
		impulse.Scale(&axis, lambda)
		applyLinearImpulse(j.A, negOf(&impulse), &w.rA)
		applyLinearImpulse(j.B, &impulse, &w.rB)
	}
}

type workingFixed struct {
	j         *FixedJoint
	rA, rB    lin3.V3
	linBias   lin3.V3
	angBias   lin3.V3
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
	posErr := lin3.V3{}
	posErr.Sub(&j.AnchorBWorld, &j.AnchorAWorld)
	w.linBias.Scale(&posErr, jointBeta/dt)

	// Orientation error as an axis-angle vector: for small misalignments,
	// 2*(qB*qA^-1).xyz approximates the rotation vector needed to align A
	// onto B.
	invA := lin3.Q{X: -j.FrameAWorld.X, Y: -j.FrameAWorld.Y, Z: -j.FrameAWorld.Z, W: j.FrameAWorld.W}
	diff := lin3.Q{}
	diff.Mult(&j.FrameBWorld, &invA)
	angErr := lin3.V3{X: 2 * diff.X, Y: 2 * diff.Y, Z: 2 * diff.Z}
	w.angBias.Scale(&angErr, jointBeta/dt)
	return w
}

func solveFixed(w *workingFixed) {
	j := w.j
	axes := [3]lin3.V3{{X: 1}, {Y: 1}, {Z: 1}}
	for _, axis := range axes {
		mass := safeInv(effMassLinear(j.A, j.B, &w.rA, &w.rB, &axis))
		if mass != 0 {
			vb := velocityAt(j.B, &w.rB)
			va := velocityAt(j.A, &w.rA)
			relVel := lin3.V3{}
			relVel.Sub(&vb, &va)
			target := w.linBias.Dot(&axis)
			lambda := mass * (-relVel.Dot(&axis) - target)
			impulse := lin3.V3{}
			impulse.Scale(&axis, lambda)
			applyLinearImpulse(j.A, negOf(&impulse), &w.rA)
			applyLinearImpulse(j.B, &impulse, &w.rB)
		}
	}
	for _, axis := range axes {
		mass := safeInv(effMassAngular(j.A, j.B, &axis))
		if mass == 0 {
			continue
		}
		wa, wb := lin3.V3{}, lin3.V3{}
		if j.A != nil {
			wa = j.A.AngVel
		}
		if j.B != nil {
			wb = j.B.AngVel
		}
		relAng := lin3.V3{}
		relAng.Sub(&wb, &wa)
		target := w.angBias.Dot(&axis)
		lambda := mass * (-relAng.Dot(&axis) - target)
		impulse := lin3.V3{}
		impulse.Scale(&axis, lambda)
		applyAngularImpulse(j.A, negOf(&impulse))
		applyAngularImpulse(j.B, &impulse)
	}
}

// Solve runs iterations passes of sequential impulse resolution over in,
// mutating each referenced body's LinVel/AngVel in place. It is
// deterministic given identical inputs and iteration count, since
// constraints are visited in the fixed order they appear in Input.
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
