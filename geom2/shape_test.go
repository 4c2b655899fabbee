// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom2

import (
	"testing"

	"github.com/gazed/nphys/lin2"
)

func aeq(a, b float64) bool { return lin2.Aeq(a, b) }

func TestCircleAreaAndInertia(t *testing.T) {
	c := Circle{Radius: 2}
	if want := lin2.PI * 4; !aeq(c.Area(), want) {
		t.Fatalf("area = %v, want %v", c.Area(), want)
	}
	if want := 0.5 * 10 * 4; !aeq(c.Inertia(10), want) {
		t.Fatalf("inertia = %v, want %v", c.Inertia(10), want)
	}
}

func TestBoxAreaAndInertia(t *testing.T) {
	b := Box{Half: lin2.V2{X: 1, Y: 2}}
	if want := 4.0 * 1 * 2; !aeq(b.Area(), want) {
		t.Fatalf("area = %v, want %v", b.Area(), want)
	}
}

func TestPlaneHasNoAreaOrInertia(t *testing.T) {
	p := Plane{Normal: lin2.V2{Y: 1}}
	if p.Area() != 0 || p.Inertia(10) != 0 {
		t.Fatalf("plane area/inertia should be zero")
	}
}

func TestAboxGrowAndOverlap(t *testing.T) {
	a := Abox{Min: lin2.V2{X: -1, Y: -1}, Max: lin2.V2{X: 1, Y: 1}}
	b := Abox{Min: lin2.V2{X: 5, Y: 5}, Max: lin2.V2{X: 6, Y: 6}}
	if a.Overlaps(b) {
		t.Fatalf("expected no overlap before growing")
	}
	if !a.Grow(10).Overlaps(b) {
		t.Fatalf("expected overlap after growing a")
	}
}

func TestDispatchUnsupportedPlanePlane(t *testing.T) {
	if _, ok := Dispatch(Plane{}, Plane{}); ok {
		t.Fatalf("expected plane/plane to be unsupported")
	}
}

func TestDetectCircleCirclePenetrating(t *testing.T) {
	a := Circle{Radius: 1}
	b := Circle{Radius: 1}
	ta := lin2.T2{Loc: &lin2.V2{}, Ang: 0}
	tb := lin2.T2{Loc: &lin2.V2{X: 1.5}, Ang: 0}
	d, ok := Dispatch(a, b)
	if !ok {
		t.Fatalf("expected circle/circle support")
	}
	var m Manifold
	d(&ta, a, &tb, b, &m)
	if len(m.Contacts) != 1 {
		t.Fatalf("contacts = %d, want 1", len(m.Contacts))
	}
	if !aeq(m.Contacts[0].Depth, 0.5) {
		t.Fatalf("depth = %v, want 0.5", m.Contacts[0].Depth)
	}
}

func TestDetectPlaneCircleFlippedNegatesNormal(t *testing.T) {
	plane := Plane{Normal: lin2.V2{Y: 1}}
	circle := Circle{Radius: 1}
	tp := lin2.T2{Loc: &lin2.V2{}, Ang: 0}
	tc := lin2.T2{Loc: &lin2.V2{Y: 0.5}, Ang: 0}

	direct, _ := Dispatch(plane, circle)
	var mDirect Manifold
	direct(&tp, plane, &tc, circle, &mDirect)

	flipped, _ := Dispatch(circle, plane)
	var mFlipped Manifold
	flipped(&tc, circle, &tp, plane, &mFlipped)

	want := mDirect.Contacts[0].Normal
	want.Neg(&want)
	if !mFlipped.Contacts[0].Normal.Aeq(&want) {
		t.Fatalf("flipped normal = %+v, want %+v", mFlipped.Contacts[0].Normal, want)
	}
}
