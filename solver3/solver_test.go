// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package solver3

import (
	"testing"

	"github.com/gazed/nphys/body3"
	"github.com/gazed/nphys/geom3"
	"github.com/gazed/nphys/lin3"
)

func TestCombinedFrictionIsGeometricMean(t *testing.T) {
	got := CombinedFriction(0.4, 0.9)
	want := 0.6 // sqrt(0.36)
	if !lin3.Aeq(got, want) {
		t.Fatalf("combined friction = %v, want %v", got, want)
	}
}

func TestCombinedFrictionClampsNegativeInputs(t *testing.T) {
	if got := CombinedFriction(-1, 4); got != 0 {
		t.Fatalf("combined friction = %v, want 0 for a negative coefficient", got)
	}
}

func TestSolveZeroesClosingVelocityAtAContact(t *testing.T) {
	a := body3.NewRigidBody(geom3.Box{Half: lin3.V3{X: 100, Y: 1, Z: 100}}, 0, body3.Static, 0.3, 0.6)
	b := body3.NewRigidBody(geom3.Ball{Radius: 0.5}, 1, body3.Dynamic, 0, 0.6)
	b.SetPosition(&lin3.V3{Y: 1.5})
	b.LinVel = lin3.V3{Y: -5} // falling into the ground

	in := Input{Contacts: []Contact{{
		A: a, B: b,
		Point:       lin3.V3{Y: 1},
		Normal:      lin3.V3{Y: 1},
		Depth:       0,
		Friction:    CombinedFriction(a.Friction, b.Friction),
		Restitution: 0,
	}}}

	Solve(&in, 1.0/60.0, 8)

	if b.LinVel.Y < -0.01 {
		t.Fatalf("b.LinVel.Y = %v, want >= ~0 after a non-restitutive contact resolves the closing velocity", b.LinVel.Y)
	}
}

func TestSolveLeavesStaticBodyVelocityZero(t *testing.T) {
	a := body3.NewRigidBody(geom3.Box{Half: lin3.V3{X: 100, Y: 1, Z: 100}}, 0, body3.Static, 0, 0)
	b := body3.NewRigidBody(geom3.Ball{Radius: 0.5}, 1, body3.Dynamic, 0, 0)
	b.LinVel = lin3.V3{Y: -5}

	in := Input{Contacts: []Contact{{A: a, B: b, Normal: lin3.V3{Y: 1}}}}
	Solve(&in, 1.0/60.0, 4)

	if !a.LinVel.AeqZ() {
		t.Fatalf("static body velocity = %+v, want zero", a.LinVel)
	}
}

func TestSolveBallJointClosesSeparation(t *testing.T) {
	a := body3.NewRigidBody(geom3.Ball{Radius: 0.5}, 1, body3.Dynamic, 0, 0)
	b := body3.NewRigidBody(geom3.Ball{Radius: 0.5}, 1, body3.Dynamic, 0, 0)
	b.SetPosition(&lin3.V3{X: 2})

	in := Input{Balls: []BallJoint{{
		A: a, B: b,
		AnchorAWorld: lin3.V3{X: 1},
		AnchorBWorld: lin3.V3{X: 1.5},
	}}}

	for i := 0; i < 20; i++ {
		Solve(&in, 1.0/60.0, 8)
		// Re-derive anchors each step the way jointDetectorStage does, since
		// Solve only corrects velocities, not positions.
		a.IntegrateTransform(1.0 / 60.0)
		b.IntegrateTransform(1.0 / 60.0)
		in.Balls[0].AnchorAWorld = *a.Xform.Loc
		anchorB := lin3.V3{}
		anchorB.Add(b.Xform.Loc, &lin3.V3{X: -0.5})
		in.Balls[0].AnchorBWorld = anchorB
	}

	gap := lin3.V3{}
	gap.Sub(&in.Balls[0].AnchorBWorld, &in.Balls[0].AnchorAWorld)
	if gap.Len() > 0.5 {
		t.Fatalf("anchor gap = %v, want it to have shrunk well below the initial 0.5", gap.Len())
	}
}
