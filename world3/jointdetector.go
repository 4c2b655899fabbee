// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world3

import (
	"github.com/gazed/nphys/joint3"
	"github.com/gazed/nphys/solver3"
)

// jointDetectorStage adapts a joint3.Detector to the world's Detector
// interface: it has no per-step bookkeeping of its own (joint3.Detector
// already tracks live instances), so Update is a no-op and Interferences
// materializes each joint's current world-space anchors into a solver
// constraint.
type jointDetectorStage struct {
	d *joint3.Detector
}

func (s *jointDetectorStage) Update(w *World) {}

func (s *jointDetectorStage) Interferences(w *World, out *solver3.Input) {
	var constraints []joint3.Constraint
	s.d.Interferences(&constraints)
	for _, c := range constraints {
		switch {
		case c.Ball != nil:
			j := c.Ball
			out.Balls = append(out.Balls, solver3.BallJoint{
				A: j.A.Body, B: j.B.Body,
				AnchorAWorld: j.A.World(), AnchorBWorld: j.B.World(),
				LocalA: j.A.Point, LocalB: j.B.Point,
			})
		case c.Fixed != nil:
			j := c.Fixed
			out.Fixed = append(out.Fixed, solver3.FixedJoint{
				A: j.A.Body, B: j.B.Body,
				AnchorAWorld: j.A.World(), AnchorBWorld: j.B.World(),
				LocalA: j.A.Point, LocalB: j.B.Point,
				FrameAWorld: j.A.WorldFrame(), FrameBWorld: j.B.WorldFrame(),
			})
		}
	}
}
