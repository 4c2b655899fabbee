// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom3

import (
	"testing"

	"github.com/gazed/nphys/lin3"
)

func TestDispatchUnsupportedCompoundPair(t *testing.T) {
	_, ok := Dispatch(Compound{}, Ball{Radius: 1})
	if ok {
		t.Fatalf("expected Compound/Ball to be unsupported")
	}
}

func TestDetectPlaneBallPenetrating(t *testing.T) {
	plane := Plane{Normal: lin3.V3{Y: 1}, Offset: 0}
	ball := Ball{Radius: 1}
	tPlane := lin3.T{Loc: &lin3.V3{}, Rot: lin3.NewQ()}
	tBall := lin3.T{Loc: &lin3.V3{Y: 0.5}, Rot: lin3.NewQ()}

	d, ok := Dispatch(plane, ball)
	if !ok {
		t.Fatalf("expected plane/ball to be supported")
	}
	var m Manifold
	d(&tPlane, plane, &tBall, ball, &m)
	if len(m.Contacts) != 1 {
		t.Fatalf("contacts = %d, want 1", len(m.Contacts))
	}
	if !aeq(m.Contacts[0].Depth, 0.5) {
		t.Fatalf("depth = %v, want 0.5", m.Contacts[0].Depth)
	}
}

func TestFlippedPairNegatesNormal(t *testing.T) {
	plane := Plane{Normal: lin3.V3{Y: 1}, Offset: 0}
	ball := Ball{Radius: 1}
	tPlane := lin3.T{Loc: &lin3.V3{}, Rot: lin3.NewQ()}
	tBall := lin3.T{Loc: &lin3.V3{Y: 0.5}, Rot: lin3.NewQ()}

	direct, _ := Dispatch(plane, ball)
	var mDirect Manifold
	direct(&tPlane, plane, &tBall, ball, &mDirect)

	flipped, _ := Dispatch(ball, plane)
	var mFlipped Manifold
	flipped(&tBall, ball, &tPlane, plane, &mFlipped)

	if len(mFlipped.Contacts) != 1 {
		t.Fatalf("flipped contacts = %d, want 1", len(mFlipped.Contacts))
	}
	want := mDirect.Contacts[0].Normal
	want.Neg(&want)
	if !mFlipped.Contacts[0].Normal.Aeq(&want) {
		t.Fatalf("flipped normal = %+v, want %+v", mFlipped.Contacts[0].Normal, want)
	}
}

func TestDetectBallBallSeparated(t *testing.T) {
	a := Ball{Radius: 1}
	b := Ball{Radius: 1}
	ta := lin3.T{Loc: &lin3.V3{}, Rot: lin3.NewQ()}
	tb := lin3.T{Loc: &lin3.V3{X: 5}, Rot: lin3.NewQ()}
	d, _ := Dispatch(a, b)
	var m Manifold
	d(&ta, a, &tb, b, &m)
	if len(m.Contacts) != 0 {
		t.Fatalf("contacts = %d, want 0 for separated balls", len(m.Contacts))
	}
}

func TestDetectBoxBoxRestingProducesFourPoints(t *testing.T) {
	a := Box{Half: lin3.V3{X: 5, Y: 5, Z: 5}} // ground
	b := Box{Half: lin3.V3{X: 1, Y: 1, Z: 1}}
	ta := lin3.T{Loc: &lin3.V3{}, Rot: lin3.NewQ()}
	tb := lin3.T{Loc: &lin3.V3{Y: 5.9}, Rot: lin3.NewQ()} // overlapping by 0.1
	d, _ := Dispatch(a, b)
	var m Manifold
	d(&ta, a, &tb, b, &m)
	if len(m.Contacts) != 4 {
		t.Fatalf("contacts = %d, want 4", len(m.Contacts))
	}
	for _, c := range m.Contacts {
		if !aeq(c.Depth, 0.1) {
			t.Errorf("contact depth = %v, want ~0.1", c.Depth)
		}
	}
}
