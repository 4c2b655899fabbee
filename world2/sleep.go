// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world2

import "github.com/gazed/nphys/body2"

// sleepEnergyAlpha is the exponential-moving-average weight for the prior
// energy sample.
const sleepEnergyAlpha = 0.9

// evaluateSleep is the last pipeline stage: for every can_deactivate
// dynamic body whose kinetic-energy EMA falls below its deactivation
// threshold, emit body_deactivated.
func (w *World) evaluateSleep(dt float64) {
	w.Bodies(func(h body2.Handle, b *body2.RigidBody) {
		if b.Mobility == body2.Static || !b.Activation.Active {
			return
		}
		sample := b.KineticEnergy()
		b.Activation.Energy = sleepEnergyAlpha*b.Activation.Energy + (1-sleepEnergyAlpha)*sample
		if b.Activation.CanDeactivate && b.Activation.Energy < b.Activation.DeactivationThreshold {
			w.deactivateBody(h, b)
		}
	})
}
