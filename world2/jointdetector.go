// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world2

import (
	"github.com/gazed/nphys/joint2"
	"github.com/gazed/nphys/solver2"
)

// jointDetectorStage adapts a joint2.Detector to the world's Detector
// interface.
type jointDetectorStage struct {
	d *joint2.Detector
}

func (s *jointDetectorStage) Update(w *World) {}

func (s *jointDetectorStage) Interferences(w *World, out *solver2.Input) {
	var constraints []joint2.Constraint
	s.d.Interferences(&constraints)
	for _, c := range constraints {
		switch {
		case c.Ball != nil:
			j := c.Ball
			out.Balls = append(out.Balls, solver2.BallJoint{
				A: j.A.Body, B: j.B.Body,
				AnchorAWorld: j.A.World(), AnchorBWorld: j.B.World(),
			})
		case c.Fixed != nil:
			j := c.Fixed
			out.Fixed = append(out.Fixed, solver2.FixedJoint{
				A: j.A.Body, B: j.B.Body,
				AnchorAWorld: j.A.World(), AnchorBWorld: j.B.World(),
				AngleAWorld: j.A.WorldAngle(), AngleBWorld: j.B.WorldAngle(),
			})
		}
	}
}
