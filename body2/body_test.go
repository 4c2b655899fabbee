// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package body2

import (
	"testing"

	"github.com/gazed/nphys/geom2"
	"github.com/gazed/nphys/lin2"
)

func TestNewRigidBodyMassFromDensity(t *testing.T) {
	b := NewRigidBody(geom2.Circle{Radius: 1}, 1.0, Dynamic, 0.3, 0.6)
	want := geom2.Circle{Radius: 1}.Area()
	if !lin2.Aeq(b.Mass, want) {
		t.Fatalf("mass = %v, want %v", b.Mass, want)
	}
	if b.InvMass <= 0 {
		t.Fatalf("invMass = %v, want > 0", b.InvMass)
	}
}

func TestStaticBodyHasZeroInverseMass(t *testing.T) {
	b := NewRigidBody(geom2.Plane{Normal: lin2.V2{Y: 1}}, 0, Static, 0.3, 0.6)
	if b.InvMass != 0 {
		t.Fatalf("invMass = %v, want 0 for a static body", b.InvMass)
	}
	if b.InvInertia != 0 {
		t.Fatalf("invInertia = %v, want 0 for a static body", b.InvInertia)
	}
}

func TestSetLinearVelocityIgnoredForStatic(t *testing.T) {
	b := NewRigidBody(geom2.Circle{Radius: 1}, 1, Static, 0, 0)
	b.SetLinearVelocity(&lin2.V2{X: 5})
	if !lin2.Aeq(b.LinVel.X, 0) || !lin2.Aeq(b.LinVel.Y, 0) {
		t.Fatalf("linVel = %+v, want zero for a static body", b.LinVel)
	}
}

func TestAabbCachesUntilInvalidated(t *testing.T) {
	b := NewRigidBody(geom2.Circle{Radius: 1}, 1, Dynamic, 0, 0)
	first := b.Aabb()
	b.Translate(&lin2.V2{X: 10})
	second := b.Aabb()
	if first.Max.X == second.Max.X {
		t.Fatalf("aabb did not move with the body: %+v == %+v", first, second)
	}
}

func TestKineticEnergyZeroAtRest(t *testing.T) {
	b := NewRigidBody(geom2.Circle{Radius: 1}, 1, Dynamic, 0, 0)
	if e := b.KineticEnergy(); e != 0 {
		t.Fatalf("energy = %v, want 0 at rest", e)
	}
}

func TestKineticEnergyStaticIsAlwaysZero(t *testing.T) {
	b := NewRigidBody(geom2.Circle{Radius: 1}, 1, Static, 0, 0)
	b.LinVel = lin2.V2{X: 100}
	if e := b.KineticEnergy(); e != 0 {
		t.Fatalf("energy = %v, want 0 for a static body regardless of velocity field", e)
	}
}

func TestIntegrateTransformDoesNotAliasSource(t *testing.T) {
	b := NewRigidBody(geom2.Circle{Radius: 1}, 1, Dynamic, 0, 0)
	b.LinVel = lin2.V2{X: 1}
	b.IntegrateTransform(1.0)
	if !lin2.Aeq(b.Xform.Loc.X, 1) || !lin2.Aeq(b.Xform.Loc.Y, 0) {
		t.Fatalf("loc = %+v, want {1 0}", b.Xform.Loc)
	}
}

func TestUnsupportedBodyErrorMessage(t *testing.T) {
	err := UnsupportedBodyError{Kind: KindSoft}
	if err.Error() == "" {
		t.Fatalf("expected a non-empty error message")
	}
}
