// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package body3 is the 3D rigid body model: mass/inertia bookkeeping,
// kinematic state, activation record, and the tagged Body variant the
// pipeline dispatches on.
package body3

import (
	"fmt"

	"github.com/gazed/nphys/geom3"
	"github.com/gazed/nphys/lin3"
)

// Handle is a generational index into the world's body arena. Index
// identifies the slot; Gen is bumped every time a slot is reused, so a
// handle captured before a remove cannot silently alias the body that took
// its slot afterward.
type Handle struct {
	Index uint32
	Gen   uint32
}

// Mobility is a body's movement class.
type Mobility int

const (
	// Dynamic bodies integrate under forces and participate fully in the solver.
	Dynamic Mobility = iota
	// Static bodies have conceptually infinite mass; they never integrate
	// and the solver treats their inverse mass and inverse inertia as zero.
	Static
)

// Activation is a body's sleeping-system bookkeeping.
type Activation struct {
	Active                bool
	Energy                float64 // kinetic-energy EMA
	DeactivationThreshold float64
	CanDeactivate         bool
}

// Kind tags which variant a Body holds.
type Kind int

const (
	KindRigid Kind = iota
	KindSoft       // reserved: accepted at the interface, unsupported at stage entry.
)

// UnsupportedBodyError is returned (or, per spec, panicked as a fatal by
// stages that have no business continuing) when a stage is asked to operate
// on a Body variant it does not implement.
type UnsupportedBodyError struct {
	Kind Kind
}

func (e UnsupportedBodyError) Error() string {
	return fmt.Sprintf("body3: unsupported body kind %d", e.Kind)
}

// Body is the tagged variant {RigidBody, SoftBody-reserved}. Only Rigid is
// populated; a Kind of KindSoft carries a nil Rigid and any stage that
// reaches it must fail with UnsupportedBodyError.
type Body struct {
	Kind  Kind
	Rigid *RigidBody
}

// RigidBody is the fully specified body variant.
type RigidBody struct {
	Handle Handle

	Geom geom3.Shape // immutable after attachment

	Mass    float64
	InvMass float64

	// LocalInertia is the local-frame diagonal inertia tensor; InvLocal its
	// per-axis inverse. InvWorld is recomputed from InvLocal and Xform.Rot
	// whenever orientation changes.
	LocalInertia lin3.V3
	InvLocal     lin3.V3
	InvWorld     lin3.M3

	Xform  lin3.T
	LinVel lin3.V3
	AngVel lin3.V3

	Restitution float64
	Friction    float64

	Mobility   Mobility
	Activation Activation

	// CCD parameters: when MotionThreshold > 0 and a step would move the
	// body's bounding sphere center further than MotionThreshold, the CCD
	// stage clamps the step via conservative advancement.
	CCDMotionThreshold float64
	CCDSweepRadius     float64

	aabb    geom3.Abox
	aabbSet bool
}

// NewRigidBody constructs a body at the identity transform with the given
// geometry, density (mass = density*volume; density<=0 means mass=0, as for
// a body that will immediately be marked Static), mobility, and material.
func NewRigidBody(geom geom3.Shape, density float64, mobility Mobility, restitution, friction float64) *RigidBody {
	b := &RigidBody{
		Geom:        geom,
		Xform:       lin3.T{Loc: lin3.NewV3(), Rot: lin3.NewQ()},
		Restitution: restitution,
		Friction:    friction,
		Mobility:    mobility,
		Activation: Activation{
			Active:                true,
			DeactivationThreshold: 0.01,
			CanDeactivate:         true,
		},
	}
	mass := density * geom.Volume()
	b.SetMass(mass)
	return b
}

// SetMass sets mass and derived inverse-mass/inertia. A Static body or one
// given mass<=0 gets zero inverse mass and inverse inertia regardless.
func (b *RigidBody) SetMass(mass float64) {
	b.Mass = mass
	if b.Mobility == Static || mass <= 0 {
		b.InvMass = 0
		b.LocalInertia = lin3.V3{}
		b.InvLocal = lin3.V3{}
		b.refreshWorldInertia()
		return
	}
	b.InvMass = 1.0 / mass
	b.LocalInertia = b.Geom.Inertia(mass)
	b.InvLocal = lin3.V3{
		X: invOrZero(b.LocalInertia.X),
		Y: invOrZero(b.LocalInertia.Y),
		Z: invOrZero(b.LocalInertia.Z),
	}
	b.refreshWorldInertia()
}

func invOrZero(v float64) float64 {
	if v <= lin3.Epsilon {
		return 0
	}
	return 1.0 / v
}

// RefreshWorldInertia recomputes InvWorld from InvLocal and the current
// orientation. Stages that change orientation (the position integrator,
// CCD) must call this before the next solver pass, per the invariant that
// world-space inverse inertia is always consistent with current orientation
// at solver entry.
func (b *RigidBody) RefreshWorldInertia() { b.refreshWorldInertia() }

func (b *RigidBody) refreshWorldInertia() {
	basis := lin3.NewM3().SetQ(b.Xform.Rot)
	scaled := basis.ScaleV(&b.InvLocal)
	transposed := lin3.NewM3().Transpose(basis)
	b.InvWorld.Mult(scaled, transposed)
}

// Translate moves the body by delta in world space.
func (b *RigidBody) Translate(delta *lin3.V3) {
	b.Xform.Loc.Add(b.Xform.Loc, delta)
	b.invalidateAabb()
}

// SetPosition sets the body's world position outright.
func (b *RigidBody) SetPosition(p *lin3.V3) {
	b.Xform.Loc.Set(p)
	b.invalidateAabb()
}

// SetOrientation sets the body's world orientation outright and refreshes
// world-space inverse inertia to match.
func (b *RigidBody) SetOrientation(q *lin3.Q) {
	b.Xform.Rot.Set(q)
	b.refreshWorldInertia()
	b.invalidateAabb()
}

// SetLinearVelocity sets linear velocity; ignored (forced to zero) for a
// Static body, matching the invariant that Static velocities are always zero.
func (b *RigidBody) SetLinearVelocity(v *lin3.V3) {
	if b.Mobility == Static {
		b.LinVel.SetS(0, 0, 0)
		return
	}
	b.LinVel.Set(v)
}

// SetAngularVelocity sets angular velocity; ignored for a Static body.
func (b *RigidBody) SetAngularVelocity(v *lin3.V3) {
	if b.Mobility == Static {
		b.AngVel.SetS(0, 0, 0)
		return
	}
	b.AngVel.Set(v)
}

// SetCCD sets the swept-sphere CCD parameters: motionThreshold is the
// per-step displacement above which conservative advancement kicks in;
// sweepRadius is the bounding-sphere radius used for the sweep.
func (b *RigidBody) SetCCD(motionThreshold, sweepRadius float64) {
	b.CCDMotionThreshold = motionThreshold
	b.CCDSweepRadius = sweepRadius
}

// SetCanDeactivate toggles whether the sleeping evaluator may deactivate
// this body.
func (b *RigidBody) SetCanDeactivate(can bool) { b.Activation.CanDeactivate = can }

// SetDeactivationThreshold sets the kinetic-energy EMA threshold below
// which the sleeping evaluator deactivates this body.
func (b *RigidBody) SetDeactivationThreshold(t float64) { b.Activation.DeactivationThreshold = t }

// KineticEnergy returns the body's current kinetic energy (translational
// plus rotational), used to feed the activation energy EMA.
func (b *RigidBody) KineticEnergy() float64 {
	if b.Mobility == Static {
		return 0
	}
	lin := 0.5 * b.Mass * b.LinVel.LenSqr()
	// Rotational energy uses the world-space inverse inertia's reciprocal
	// diagonal as an approximation of the (non-diagonal, in general) world
	// inertia tensor's diagonal — adequate for a sleep-threshold heuristic.
	iwx, iwy, iwz := invOrZero(b.InvWorld.Xx), invOrZero(b.InvWorld.Yy), invOrZero(b.InvWorld.Zz)
	ang := 0.5 * (iwx*b.AngVel.X*b.AngVel.X + iwy*b.AngVel.Y*b.AngVel.Y + iwz*b.AngVel.Z*b.AngVel.Z)
	return lin + ang
}

// Aabb returns the world-space bounding box, computed lazily from geometry
// and the current transform and cached until the transform changes.
func (b *RigidBody) Aabb() geom3.Abox {
	if b.aabbSet {
		return b.aabb
	}
	local := b.Geom.Aabb()
	corners := [8]lin3.V3{
		{X: local.Min.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Max.Z},
	}
	world := b.Xform.App(&corners[0])
	box := geom3.Abox{Min: *world, Max: *world}
	for i := 1; i < 8; i++ {
		w := b.Xform.App(&corners[i])
		box = geom3.Expand(box, geom3.Abox{Min: *w, Max: *w})
	}
	b.aabb = box
	b.aabbSet = true
	return b.aabb
}

func (b *RigidBody) invalidateAabb() { b.aabbSet = false }

// IntegrateTransform advances position and orientation by the body's
// current linear and angular velocity over dt seconds (the position
// integrator stage), refreshing world-space inverse inertia and the cached
// AABB to match.
func (b *RigidBody) IntegrateTransform(dt float64) {
	old := lin3.T{
		Loc: &lin3.V3{X: b.Xform.Loc.X, Y: b.Xform.Loc.Y, Z: b.Xform.Loc.Z},
		Rot: &lin3.Q{X: b.Xform.Rot.X, Y: b.Xform.Rot.Y, Z: b.Xform.Rot.Z, W: b.Xform.Rot.W},
	}
	b.Xform.Integrate(&old, &b.LinVel, &b.AngVel, dt)
	b.refreshWorldInertia()
	b.invalidateAabb()
}
