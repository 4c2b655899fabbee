// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world3

import (
	"github.com/gazed/nphys/body3"
	"github.com/gazed/nphys/lin3"
)

// ForceGenerator accumulates external forces (gravity plus any one-shot
// user forces applied via AddForce/AddTorque) into each tracked dynamic
// body's pending accumulator, consumed by VelocityIntegrator the same step.
type ForceGenerator struct {
	w          *World
	tracker    *bodyTracker
	userForce  map[body3.Handle]lin3.V3
	userTorque map[body3.Handle]lin3.V3
}

// NewForceGenerator returns a force generator subscribed to w's body
// lifecycle signals.
func NewForceGenerator(w *World) *ForceGenerator {
	fg := &ForceGenerator{
		w:          w,
		tracker:    newBodyTracker(),
		userForce:  map[body3.Handle]lin3.V3{},
		userTorque: map[body3.Handle]lin3.V3{},
	}
	subscribeLifecycle(w, "force-generator", fg.tracker)
	return fg
}

// AddForce applies a one-shot world-space force to the body at h, consumed
// by the next Update call. A nonzero force reactivates a sleeping body, per
// the sleeping-system's activation trigger.
func (fg *ForceGenerator) AddForce(h body3.Handle, f lin3.V3) {
	cur := fg.userForce[h]
	cur.Add(&cur, &f)
	fg.userForce[h] = cur
	fg.wakeIfSleeping(h, !f.AeqZ())
}

// AddTorque applies a one-shot world-space torque to the body at h.
func (fg *ForceGenerator) AddTorque(h body3.Handle, t lin3.V3) {
	cur := fg.userTorque[h]
	cur.Add(&cur, &t)
	fg.userTorque[h] = cur
	fg.wakeIfSleeping(h, !t.AeqZ())
}

func (fg *ForceGenerator) wakeIfSleeping(h body3.Handle, nonzero bool) {
	if !nonzero {
		return
	}
	b := fg.w.Body(h)
	if b == nil || b.Activation.Active {
		return
	}
	fg.w.activateBody(h, b)
	fg.tracker.add(h)
}

func (fg *ForceGenerator) Update(w *World, dt float64) {
	fg.tracker.each(w, func(h body3.Handle, b *body3.RigidBody) {
		if b.Mobility == body3.Static {
			return
		}
		gravityForce := lin3.V3{}
		gravityForce.Scale(&w.Gravity, b.Mass)
		force := fg.userForce[h]
		force.Add(&force, &gravityForce)
		w.bodyForce[h] = force
		w.bodyTorque[h] = fg.userTorque[h]
		delete(fg.userForce, h)
		delete(fg.userTorque, h)
	})
}

// DampingIntegrator scales each tracked body's linear and angular velocity
// by its per-body damping coefficients, run before velocity integration so
// damping acts on last step's velocity rather than this step's freshly
// integrated one.
type DampingIntegrator struct {
	w       *World
	tracker *bodyTracker
}

// NewDampingIntegrator returns a damping integrator subscribed to w.
func NewDampingIntegrator(w *World) *DampingIntegrator {
	d := &DampingIntegrator{w: w, tracker: newBodyTracker()}
	subscribeLifecycle(w, "damping-integrator", d.tracker)
	return d
}

// SetDamping sets the linear and angular damping coefficients for the body
// at h, as rates per second: each step scales the velocity by
// clamp(1 - coefficient*dt, 0, 1), so 0 means no damping.
func (w *World) SetDamping(h body3.Handle, linear, angular float64) {
	w.linDamping[h] = linear
	w.angDamping[h] = angular
}

func (d *DampingIntegrator) Update(w *World, dt float64) {
	d.tracker.each(w, func(h body3.Handle, b *body3.RigidBody) {
		if b.Mobility == body3.Static {
			return
		}
		lin, ok := w.linDamping[h]
		if ok {
			b.LinVel.Scale(&b.LinVel, max(0, min(1, 1-lin*dt)))
		}
		ang, ok := w.angDamping[h]
		if ok {
			b.AngVel.Scale(&b.AngVel, max(0, min(1, 1-ang*dt)))
		}
	})
}

// VelocityIntegrator applies the per-body accumulated force/torque to
// velocity: v += M^-1 f dt; omega += I^-1 tau dt (semi-implicit Euler: this
// runs before position integration uses the updated velocity).
type VelocityIntegrator struct {
	w       *World
	tracker *bodyTracker
}

// NewVelocityIntegrator returns a velocity integrator subscribed to w.
func NewVelocityIntegrator(w *World) *VelocityIntegrator {
	v := &VelocityIntegrator{w: w, tracker: newBodyTracker()}
	subscribeLifecycle(w, "velocity-integrator", v.tracker)
	return v
}

func (vi *VelocityIntegrator) Update(w *World, dt float64) {
	vi.tracker.each(w, func(h body3.Handle, b *body3.RigidBody) {
		if b.Mobility == body3.Static {
			return
		}
		force := w.bodyForce[h]
		dv := lin3.V3{}
		dv.Scale(&force, b.InvMass*dt)
		b.LinVel.Add(&b.LinVel, &dv)

		torque := w.bodyTorque[h]
		dwLocal := lin3.V3{}
		dwLocal.MultMv(&b.InvWorld, &torque)
		dw := lin3.V3{}
		dw.Scale(&dwLocal, dt)
		b.AngVel.Add(&b.AngVel, &dw)
	})
}
