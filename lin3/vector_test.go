// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin3

import "testing"

func TestAddAliasesReceiverWithOperand(t *testing.T) {
	a := V3{X: 1, Y: 2, Z: 3}
	b := V3{X: 4, Y: 5, Z: 6}
	a.Add(&a, &b)
	if !a.Aeq(&V3{X: 5, Y: 7, Z: 9}) {
		t.Fatalf("a = %+v, want {5 7 9}", a)
	}
}

func TestSubAliasesReceiverWithOperand(t *testing.T) {
	a := V3{X: 5, Y: 7, Z: 9}
	b := V3{X: 4, Y: 5, Z: 6}
	a.Sub(&a, &b)
	if !a.Aeq(&V3{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("a = %+v, want {1 2 3}", a)
	}
}

func TestUnitNormalizesLength(t *testing.T) {
	v := V3{X: 3, Y: 4, Z: 0}
	v.Unit()
	if !Aeq(v.Len(), 1) {
		t.Fatalf("len = %v, want 1", v.Len())
	}
}

func TestUnitLeavesNearZeroVectorUntouched(t *testing.T) {
	v := V3{}
	v.Unit()
	if v.X != 0 || v.Y != 0 || v.Z != 0 {
		t.Fatalf("v = %+v, want zero vector", v)
	}
}

func TestCrossOrthogonalToOperands(t *testing.T) {
	a := V3{X: 1, Y: 0, Z: 0}
	b := V3{X: 0, Y: 1, Z: 0}
	c := V3{}
	c.Cross(&a, &b)
	if !c.Aeq(&V3{Z: 1}) {
		t.Fatalf("a x b = %+v, want {0 0 1}", c)
	}
}

func TestIntegrateAtRestLeavesTransformUnchanged(t *testing.T) {
	old := T{Loc: &V3{X: 1, Y: 2, Z: 3}, Rot: NewQ()}
	out := T{Loc: &V3{}, Rot: &Q{}}
	lin, ang := V3{}, V3{}
	out.Integrate(&old, &lin, &ang, 1.0/60.0)
	if !out.Loc.Aeq(old.Loc) {
		t.Fatalf("loc = %+v, want %+v", out.Loc, old.Loc)
	}
	if !out.Rot.Aeq(old.Rot) {
		t.Fatalf("rot = %+v, want identity", out.Rot)
	}
}

func TestIntegrateLinearDisplacement(t *testing.T) {
	old := T{Loc: &V3{}, Rot: NewQ()}
	out := T{Loc: &V3{}, Rot: &Q{}}
	lin := V3{X: 2}
	ang := V3{}
	out.Integrate(&old, &lin, &ang, 0.5)
	if !out.Loc.Aeq(&V3{X: 1}) {
		t.Fatalf("loc = %+v, want {1 0 0}", out.Loc)
	}
}

func TestIntegrateAngularMotionLimitClampsStep(t *testing.T) {
	old := T{Loc: &V3{}, Rot: NewQ()}
	out := T{Loc: &V3{}, Rot: &Q{}}
	lin := V3{}
	ang := V3{Z: 1000} // far beyond the per-step angular motion limit
	out.Integrate(&old, &lin, &ang, 1.0/60.0)
	if l := out.Rot.Len(); !Aeq(l, 1) {
		t.Fatalf("result quaternion not unit length: %v", l)
	}
}
