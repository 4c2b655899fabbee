// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom2

import (
	"testing"

	"github.com/gazed/nphys/lin2"
)

func TestDetectPlaneBoxRestingProducesTwoPoints(t *testing.T) {
	plane := Plane{Normal: lin2.V2{Y: 1}}
	box := Box{Half: lin2.V2{X: 1, Y: 1}}
	tp := lin2.T2{Loc: &lin2.V2{}, Ang: 0}
	tb := lin2.T2{Loc: &lin2.V2{Y: 0.9}, Ang: 0}

	d, ok := Dispatch(plane, box)
	if !ok {
		t.Fatalf("expected plane/box support")
	}
	var m Manifold
	d(&tp, plane, &tb, box, &m)
	if len(m.Contacts) != 2 {
		t.Fatalf("contacts = %d, want 2", len(m.Contacts))
	}
	for _, c := range m.Contacts {
		if !aeq(c.Depth, 0.1) {
			t.Fatalf("depth = %v, want 0.1", c.Depth)
		}
	}
}

func TestDetectBoxBoxSeparatedIsEmpty(t *testing.T) {
	a := Box{Half: lin2.V2{X: 1, Y: 1}}
	b := Box{Half: lin2.V2{X: 1, Y: 1}}
	ta := lin2.T2{Loc: &lin2.V2{}, Ang: 0}
	tb := lin2.T2{Loc: &lin2.V2{X: 10}, Ang: 0}

	d, _ := Dispatch(a, b)
	var m Manifold
	d(&ta, a, &tb, b, &m)
	if len(m.Contacts) != 0 {
		t.Fatalf("contacts = %d, want 0 for separated boxes", len(m.Contacts))
	}
}

func TestDetectBoxBoxOverlappingProducesContacts(t *testing.T) {
	a := Box{Half: lin2.V2{X: 1, Y: 1}}
	b := Box{Half: lin2.V2{X: 1, Y: 1}}
	ta := lin2.T2{Loc: &lin2.V2{}, Ang: 0}
	tb := lin2.T2{Loc: &lin2.V2{X: 1.5}, Ang: 0}

	d, _ := Dispatch(a, b)
	var m Manifold
	d(&ta, a, &tb, b, &m)
	if len(m.Contacts) == 0 {
		t.Fatalf("expected at least one contact for overlapping boxes")
	}
	for _, c := range m.Contacts {
		if c.Depth <= 0 {
			t.Fatalf("depth = %v, want > 0", c.Depth)
		}
	}
}

func TestFlippedBoxPlaneNegatesNormal(t *testing.T) {
	plane := Plane{Normal: lin2.V2{Y: 1}}
	box := Box{Half: lin2.V2{X: 1, Y: 1}}
	tp := lin2.T2{Loc: &lin2.V2{}, Ang: 0}
	tb := lin2.T2{Loc: &lin2.V2{Y: 0.9}, Ang: 0}

	direct, _ := Dispatch(plane, box)
	var mDirect Manifold
	direct(&tp, plane, &tb, box, &mDirect)

	flipped, _ := Dispatch(box, plane)
	var mFlipped Manifold
	flipped(&tb, box, &tp, plane, &mFlipped)

	want := mDirect.Contacts[0].Normal
	want.Neg(&want)
	if !mFlipped.Contacts[0].Normal.Aeq(&want) {
		t.Fatalf("flipped normal = %+v, want %+v", mFlipped.Contacts[0].Normal, want)
	}
}
