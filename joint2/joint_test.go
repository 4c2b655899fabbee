// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package joint2

import (
	"testing"

	"github.com/gazed/nphys/body2"
	"github.com/gazed/nphys/geom2"
	"github.com/gazed/nphys/lin2"
)

func TestAnchorWorldWithNilBodyIsWorldSpace(t *testing.T) {
	a := Anchor{Point: lin2.V2{X: 1, Y: 2}}
	got := a.World()
	if !got.Aeq(&a.Point) {
		t.Fatalf("world = %+v, want %+v (nil body = world space already)", got, a.Point)
	}
}

func TestAnchorWorldWithBodyAppliesTransform(t *testing.T) {
	rb := body2.NewRigidBody(geom2.Circle{Radius: 1}, 1, body2.Dynamic, 0, 0)
	rb.SetPosition(&lin2.V2{X: 10})
	a := Anchor{Body: rb, Point: lin2.V2{X: 1}}
	got := a.World()
	if !got.Aeq(&lin2.V2{X: 11}) {
		t.Fatalf("world = %+v, want {11 0}", got)
	}
}

func TestAnchorWorldAngleAddsBodyOrientation(t *testing.T) {
	rb := body2.NewRigidBody(geom2.Circle{Radius: 1}, 1, body2.Dynamic, 0, 0)
	rb.SetOrientation(lin2.HalfPi)
	a := Anchor{Body: rb, Ang: 0.1}
	if !lin2.Aeq(a.WorldAngle(), lin2.HalfPi+0.1) {
		t.Fatalf("worldAngle = %v, want %v", a.WorldAngle(), lin2.HalfPi+0.1)
	}
}

func TestRemoveBodyPurgesOnlyAffectedJoints(t *testing.T) {
	d := NewDetector()
	a := body2.NewRigidBody(geom2.Circle{Radius: 1}, 1, body2.Dynamic, 0, 0)
	b := body2.NewRigidBody(geom2.Circle{Radius: 1}, 1, body2.Dynamic, 0, 0)
	c := body2.NewRigidBody(geom2.Circle{Radius: 1}, 1, body2.Dynamic, 0, 0)

	j1 := &BallInSocket{ID: "a-b", A: Anchor{Body: a}, B: Anchor{Body: b}}
	j2 := &BallInSocket{ID: "b-c", A: Anchor{Body: b}, B: Anchor{Body: c}}
	d.AddBallInSocket(j1)
	d.AddBallInSocket(j2)

	d.RemoveBody(a)

	var out []Constraint
	d.Interferences(&out)
	if len(out) != 1 {
		t.Fatalf("remaining constraints = %d, want 1", len(out))
	}
	if out[0].Ball != j2 {
		t.Fatalf("remaining joint = %+v, want j2", out[0].Ball)
	}
}

func TestInterferencesEmitsOneConstraintPerInstance(t *testing.T) {
	d := NewDetector()
	a := body2.NewRigidBody(geom2.Circle{Radius: 1}, 1, body2.Dynamic, 0, 0)
	b := body2.NewRigidBody(geom2.Circle{Radius: 1}, 1, body2.Dynamic, 0, 0)
	d.AddBallInSocket(&BallInSocket{A: Anchor{Body: a}, B: Anchor{Body: b}})
	d.AddFixed(&Fixed{A: Anchor{Body: a}, B: Anchor{Body: b}})

	var out []Constraint
	d.Interferences(&out)
	if len(out) != 2 {
		t.Fatalf("constraints = %d, want 2", len(out))
	}
}
