// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world3

import (
	"github.com/gazed/nphys/body3"
	"github.com/gazed/nphys/solver3"
)

// Step advances the simulation by dt seconds, executing the pipeline in the
// fixed order: integrators, detectors, constraint collection, solve, CCD,
// position integration, sleep evaluation.
func (w *World) Step(dt float64) {
	for _, s := range w.integrators {
		s.stage.Update(w, dt)
	}

	for _, s := range w.detectors {
		s.stage.Update(w)
	}

	var in solver3.Input
	for _, s := range w.detectors {
		s.stage.Interferences(w, &in)
	}

	solver3.Solve(&in, dt, w.solverIterations)

	clear(w.ccdClamp)
	w.runCCD(dt)

	w.integratePositions(dt)

	w.evaluateSleep(dt)
}

func (w *World) integratePositions(dt float64) {
	w.Bodies(func(h body3.Handle, b *body3.RigidBody) {
		if b.Mobility == body3.Static || !b.Activation.Active {
			return
		}
		clamp := 1.0
		if c, ok := w.ccdClamp[h]; ok {
			clamp = c
		}
		b.IntegrateTransform(dt * clamp)
	})
}
