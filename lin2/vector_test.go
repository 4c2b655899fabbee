// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin2

import "testing"

func TestAddAliasesReceiverWithOperand(t *testing.T) {
	a := V2{X: 1, Y: 2}
	b := V2{X: 4, Y: 5}
	a.Add(&a, &b)
	if !a.Aeq(&V2{X: 5, Y: 7}) {
		t.Fatalf("a = %+v, want {5 7}", a)
	}
}

func TestCrossOfPerpendicularUnitVectors(t *testing.T) {
	x := V2{X: 1}
	y := V2{Y: 1}
	if got := x.Cross(&y); !Aeq(got, 1) {
		t.Fatalf("x cross y = %v, want 1", got)
	}
}

func TestPerpIsOrthogonal(t *testing.T) {
	a := V2{X: 1, Y: 2}
	p := V2{}
	p.Perp(&a)
	if !Aeq(p.Dot(&a), 0) {
		t.Fatalf("perp(a).dot(a) = %v, want 0", p.Dot(&a))
	}
}

func TestRotByHalfPiMapsXOntoY(t *testing.T) {
	x := V2{X: 1}
	got := V2{}
	got.Rot(&x, HalfPi)
	if !got.Aeq(&V2{Y: 1}) {
		t.Fatalf("rotated = %+v, want {0 1}", got)
	}
}

func TestIntegrateAtRestLeavesTransformUnchanged(t *testing.T) {
	old := T2{Loc: &V2{X: 1, Y: 2}, Ang: 0.3}
	out := T2{Loc: &V2{}, Ang: 0}
	lin := V2{}
	out.Integrate(&old, &lin, 0, 1.0/60.0)
	if !out.Loc.Aeq(old.Loc) {
		t.Fatalf("loc = %+v, want %+v", out.Loc, old.Loc)
	}
	if !Aeq(out.Ang, old.Ang) {
		t.Fatalf("ang = %v, want %v", out.Ang, old.Ang)
	}
}

func TestIntegrateAngularVelocityAdvancesAngle(t *testing.T) {
	old := T2{Loc: &V2{}, Ang: 0}
	out := T2{Loc: &V2{}, Ang: 0}
	lin := V2{}
	out.Integrate(&old, &lin, HalfPi, 1.0)
	if !Aeq(out.Ang, HalfPi) {
		t.Fatalf("ang = %v, want %v", out.Ang, HalfPi)
	}
}
