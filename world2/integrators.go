// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world2

import (
	"github.com/gazed/nphys/body2"
	"github.com/gazed/nphys/lin2"
)

// ForceGenerator accumulates external forces into each tracked dynamic
// body's pending accumulator, consumed by VelocityIntegrator the same step.
type ForceGenerator struct {
	w          *World
	tracker    *bodyTracker
	userForce  map[body2.Handle]lin2.V2
	userTorque map[body2.Handle]float64
}

// NewForceGenerator returns a force generator subscribed to w's body
// lifecycle signals.
func NewForceGenerator(w *World) *ForceGenerator {
	fg := &ForceGenerator{
		w:          w,
		tracker:    newBodyTracker(),
		userForce:  map[body2.Handle]lin2.V2{},
		userTorque: map[body2.Handle]float64{},
	}
	subscribeLifecycle(w, "force-generator", fg.tracker)
	return fg
}

// AddForce applies a one-shot world-space force to the body at h. A nonzero
// force reactivates a sleeping body.
func (fg *ForceGenerator) AddForce(h body2.Handle, f lin2.V2) {
	cur := fg.userForce[h]
	cur.Add(&cur, &f)
	fg.userForce[h] = cur
	fg.wakeIfSleeping(h, !f.AeqZ())
}

// AddTorque applies a one-shot scalar torque to the body at h.
func (fg *ForceGenerator) AddTorque(h body2.Handle, t float64) {
	fg.userTorque[h] += t
	fg.wakeIfSleeping(h, t != 0)
}

func (fg *ForceGenerator) wakeIfSleeping(h body2.Handle, nonzero bool) {
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
	fg.tracker.each(w, func(h body2.Handle, b *body2.RigidBody) {
		if b.Mobility == body2.Static {
			return
		}
		gravityForce := lin2.V2{}
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
// by its per-body damping coefficients.
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

// SetDamping sets the per-step linear and angular damping coefficients.
func (w *World) SetDamping(h body2.Handle, linear, angular float64) {
	w.linDamping[h] = linear
	w.angDamping[h] = angular
}

func (d *DampingIntegrator) Update(w *World, dt float64) {
	d.tracker.each(w, func(h body2.Handle, b *body2.RigidBody) {
		if b.Mobility == body2.Static {
			return
		}
		if lin, ok := w.linDamping[h]; ok {
			b.LinVel.Scale(&b.LinVel, max(0, min(1, 1-lin*dt)))
		}
		if ang, ok := w.angDamping[h]; ok {
			b.AngVel *= max(0, min(1, 1-ang*dt))
		}
	})
}

// VelocityIntegrator applies the per-body accumulated force/torque to
// velocity (semi-implicit Euler).
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
	vi.tracker.each(w, func(h body2.Handle, b *body2.RigidBody) {
		if b.Mobility == body2.Static {
			return
		}
		force := w.bodyForce[h]
		dv := lin2.V2{}
		dv.Scale(&force, b.InvMass*dt)
		b.LinVel.Add(&b.LinVel, &dv)

		torque := w.bodyTorque[h]
		b.AngVel += b.InvInertia * torque * dt
	})
}
