// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world2

import (
	"github.com/gazed/nphys/body2"
	"github.com/gazed/nphys/solver2"
)

// Step advances the world by dt seconds: force/damping/velocity
// integration, narrow-phase and joint detection, constraint solving, CCD
// clamping, position integration, then sleep evaluation.
func (w *World) Step(dt float64) {
	for _, s := range w.integrators {
		s.stage.Update(w, dt)
	}
	for _, s := range w.detectors {
		s.stage.Update(w)
	}
	var in solver2.Input
	for _, s := range w.detectors {
		s.stage.Interferences(w, &in)
	}
	solver2.Solve(&in, dt, w.solverIterations)
	clear(w.ccdClamp)
	w.runCCD(dt)
	w.integratePositions(dt)
	w.evaluateSleep(dt)
}

func (w *World) integratePositions(dt float64) {
	w.Bodies(func(h body2.Handle, b *body2.RigidBody) {
		if b.Mobility == body2.Static || !b.Activation.Active {
			return
		}
		clamp := 1.0
		if c, ok := w.ccdClamp[h]; ok {
			clamp = c
		}
		b.IntegrateTransform(dt * clamp)
	})
}
