// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world3

import "github.com/gazed/nphys/body3"

// sleepEnergyAlpha is the exponential-moving-average weight for the prior
// energy sample; smaller values track instantaneous kinetic energy more
// closely, larger values smooth out single-step spikes.
const sleepEnergyAlpha = 0.9

// evaluateSleep is the last pipeline stage: for every can_deactivate
// dynamic body whose kinetic-energy EMA falls below its deactivation
// threshold, emit body_deactivated. Reactivation on contact with an active
// body is handled inline by the narrow phase; reactivation on a nonzero
// external force is handled inline by ForceGenerator.AddForce/AddTorque.
func (w *World) evaluateSleep(dt float64) {
	w.Bodies(func(h body3.Handle, b *body3.RigidBody) {
		if b.Mobility == body3.Static || !b.Activation.Active {
			return
		}
		sample := b.KineticEnergy()
		b.Activation.Energy = sleepEnergyAlpha*b.Activation.Energy + (1-sleepEnergyAlpha)*sample
		if b.Activation.CanDeactivate && b.Activation.Energy < b.Activation.DeactivationThreshold {
			w.deactivateBody(h, b)
		}
	})
}
