// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package body2 is the 2D counterpart of body3.
package body2

import (
	"fmt"

	"github.com/gazed/nphys/geom2"
	"github.com/gazed/nphys/lin2"
)

// Handle is a generational index into the world's body arena.
type Handle struct {
	Index uint32
	Gen   uint32
}

// Mobility is a body's movement class.
type Mobility int

const (
	Dynamic Mobility = iota
	Static
)

// Activation is a body's sleeping-system bookkeeping.
type Activation struct {
	Active                bool
	Energy                float64
	DeactivationThreshold float64
	CanDeactivate         bool
}

// Kind tags which variant a Body holds.
type Kind int

const (
	KindRigid Kind = iota
	KindSoft
)

// UnsupportedBodyError is returned by a stage asked to operate on a Body
// variant it does not implement.
type UnsupportedBodyError struct {
	Kind Kind
}

func (e UnsupportedBodyError) Error() string {
	return fmt.Sprintf("body2: unsupported body kind %d", e.Kind)
}

// Body is the tagged variant {RigidBody, SoftBody-reserved}.
type Body struct {
	Kind  Kind
	Rigid *RigidBody
}

// RigidBody is the fully specified 2D body variant. Orientation is a
// scalar angle, so there is one rotational inverse-inertia scalar rather
// than a 3x3 matrix.
type RigidBody struct {
	Handle Handle

	Geom geom2.Shape

	Mass    float64
	InvMass float64

	Inertia    float64
	InvInertia float64

	Xform  lin2.T2
	LinVel lin2.V2
	AngVel float64 // radians/sec

	Restitution float64
	Friction    float64

	Mobility   Mobility
	Activation Activation

	CCDMotionThreshold float64
	CCDSweepRadius     float64

	aabb    geom2.Abox
	aabbSet bool
}

// NewRigidBody constructs a body at the identity transform.
func NewRigidBody(geom geom2.Shape, density float64, mobility Mobility, restitution, friction float64) *RigidBody {
	b := &RigidBody{
		Geom:        geom,
		Xform:       lin2.T2{Loc: lin2.NewV2(), Ang: 0},
		Restitution: restitution,
		Friction:    friction,
		Mobility:    mobility,
		Activation: Activation{
			Active:                true,
			DeactivationThreshold: 0.01,
			CanDeactivate:         true,
		},
	}
	mass := density * geom.Area()
	b.SetMass(mass)
	return b
}

// SetMass sets mass and derived inverse-mass/inertia.
func (b *RigidBody) SetMass(mass float64) {
	b.Mass = mass
	if b.Mobility == Static || mass <= 0 {
		b.InvMass = 0
		b.Inertia = 0
		b.InvInertia = 0
		return
	}
	b.InvMass = 1.0 / mass
	b.Inertia = b.Geom.Inertia(mass)
	if b.Inertia <= lin2.Epsilon {
		b.InvInertia = 0
	} else {
		b.InvInertia = 1.0 / b.Inertia
	}
}

// Translate moves the body by delta in world space.
func (b *RigidBody) Translate(delta *lin2.V2) {
	b.Xform.Loc.Add(b.Xform.Loc, delta)
	b.invalidateAabb()
}

// SetPosition sets the body's world position outright.
func (b *RigidBody) SetPosition(p *lin2.V2) {
	b.Xform.Loc.Set(p)
	b.invalidateAabb()
}

// SetOrientation sets the body's world orientation angle outright.
func (b *RigidBody) SetOrientation(ang float64) {
	b.Xform.Ang = ang
	b.invalidateAabb()
}

// SetLinearVelocity sets linear velocity; forced zero for a Static body.
func (b *RigidBody) SetLinearVelocity(v *lin2.V2) {
	if b.Mobility == Static {
		b.LinVel.SetS(0, 0)
		return
	}
	b.LinVel.Set(v)
}

// SetAngularVelocity sets angular velocity; forced zero for a Static body.
func (b *RigidBody) SetAngularVelocity(v float64) {
	if b.Mobility == Static {
		b.AngVel = 0
		return
	}
	b.AngVel = v
}

// SetCCD sets the swept-circle CCD parameters.
func (b *RigidBody) SetCCD(motionThreshold, sweepRadius float64) {
	b.CCDMotionThreshold = motionThreshold
	b.CCDSweepRadius = sweepRadius
}

// SetCanDeactivate toggles whether the sleeping evaluator may deactivate this body.
func (b *RigidBody) SetCanDeactivate(can bool) { b.Activation.CanDeactivate = can }

// SetDeactivationThreshold sets the sleep energy threshold.
func (b *RigidBody) SetDeactivationThreshold(t float64) { b.Activation.DeactivationThreshold = t }

// KineticEnergy returns translational plus rotational kinetic energy.
func (b *RigidBody) KineticEnergy() float64 {
	if b.Mobility == Static {
		return 0
	}
	lin := 0.5 * b.Mass * b.LinVel.LenSqr()
	ang := 0.5 * b.Inertia * b.AngVel * b.AngVel
	return lin + ang
}

// Aabb returns the world-space bounding box, cached until the transform changes.
func (b *RigidBody) Aabb() geom2.Abox {
	if b.aabbSet {
		return b.aabb
	}
	local := b.Geom.Aabb()
	corners := [4]lin2.V2{
		{X: local.Min.X, Y: local.Min.Y},
		{X: local.Max.X, Y: local.Min.Y},
		{X: local.Min.X, Y: local.Max.Y},
		{X: local.Max.X, Y: local.Max.Y},
	}
	world := b.Xform.App(&corners[0])
	box := geom2.Abox{Min: *world, Max: *world}
	for i := 1; i < 4; i++ {
		w := b.Xform.App(&corners[i])
		box = geom2.Expand(box, geom2.Abox{Min: *w, Max: *w})
	}
	b.aabb = box
	b.aabbSet = true
	return b.aabb
}

func (b *RigidBody) invalidateAabb() { b.aabbSet = false }

// IntegrateTransform advances position and orientation by the body's
// current linear and angular velocity over dt seconds (the position
// integrator stage), invalidating the cached AABB to match.
func (b *RigidBody) IntegrateTransform(dt float64) {
	old := lin2.T2{Loc: &lin2.V2{X: b.Xform.Loc.X, Y: b.Xform.Loc.Y}, Ang: b.Xform.Ang}
	b.Xform.Integrate(&old, &b.LinVel, b.AngVel, dt)
	b.invalidateAabb()
}
