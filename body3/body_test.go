// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package body3

import (
	"testing"

	"github.com/gazed/nphys/geom3"
	"github.com/gazed/nphys/lin3"
)

func TestNewRigidBodyMassFromDensity(t *testing.T) {
	b := NewRigidBody(geom3.Ball{Radius: 1}, 1.0, Dynamic, 0.3, 0.6)
	want := geom3.Ball{Radius: 1}.Volume()
	if !lin3.Aeq(b.Mass, want) {
		t.Fatalf("mass = %v, want %v", b.Mass, want)
	}
	if b.InvMass <= 0 {
		t.Fatalf("invMass = %v, want > 0", b.InvMass)
	}
}

func TestStaticBodyHasZeroInverseMass(t *testing.T) {
	b := NewRigidBody(geom3.Plane{Normal: lin3.V3{Y: 1}}, 0, Static, 0.3, 0.6)
	if b.InvMass != 0 {
		t.Fatalf("invMass = %v, want 0 for a static body", b.InvMass)
	}
	if b.InvLocal.X != 0 || b.InvLocal.Y != 0 || b.InvLocal.Z != 0 {
		t.Fatalf("invLocal = %+v, want zero", b.InvLocal)
	}
}

func TestSetLinearVelocityIgnoredForStatic(t *testing.T) {
	b := NewRigidBody(geom3.Ball{Radius: 1}, 1, Static, 0, 0)
	b.SetLinearVelocity(&lin3.V3{X: 5})
	if !b.LinVel.AeqZ() {
		t.Fatalf("linVel = %+v, want zero for a static body", b.LinVel)
	}
}

func TestAabbCachesUntilInvalidated(t *testing.T) {
	b := NewRigidBody(geom3.Ball{Radius: 1}, 1, Dynamic, 0, 0)
	first := b.Aabb()
	b.Translate(&lin3.V3{X: 10})
	second := b.Aabb()
	if first.Max.X == second.Max.X {
		t.Fatalf("aabb did not move with the body: %+v == %+v", first, second)
	}
}

func TestKineticEnergyZeroAtRest(t *testing.T) {
	b := NewRigidBody(geom3.Ball{Radius: 1}, 1, Dynamic, 0, 0)
	if e := b.KineticEnergy(); e != 0 {
		t.Fatalf("energy = %v, want 0 at rest", e)
	}
}

func TestKineticEnergyStaticIsAlwaysZero(t *testing.T) {
	b := NewRigidBody(geom3.Ball{Radius: 1}, 1, Static, 0, 0)
	b.LinVel = lin3.V3{X: 100}
	if e := b.KineticEnergy(); e != 0 {
		t.Fatalf("energy = %v, want 0 for a static body regardless of velocity field", e)
	}
}

func TestIntegrateTransformDoesNotAliasSource(t *testing.T) {
	b := NewRigidBody(geom3.Ball{Radius: 1}, 1, Dynamic, 0, 0)
	b.LinVel = lin3.V3{X: 1}
	b.IntegrateTransform(1.0)
	if !b.Xform.Loc.Aeq(&lin3.V3{X: 1}) {
		t.Fatalf("loc = %+v, want {1 0 0}", b.Xform.Loc)
	}
}

func TestUnsupportedBodyErrorMessage(t *testing.T) {
	err := UnsupportedBodyError{Kind: KindSoft}
	if err.Error() == "" {
		t.Fatalf("expected a non-empty error message")
	}
}
