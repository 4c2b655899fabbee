// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world2

import (
	"math"
	"testing"

	"github.com/gazed/nphys/body2"
	"github.com/gazed/nphys/geom2"
	"github.com/gazed/nphys/lin2"
)

func TestStaticBodyNeverMoves(t *testing.T) {
	w := NewWorld(lin2.V2{Y: 9.81}, nil)
	ground := body2.NewRigidBody(geom2.Box{Half: lin2.V2{X: 100, Y: 1}}, 0, body2.Static, 0.3, 0.6)
	h := w.AddBody(ground)

	for i := 0; i < 10; i++ {
		w.Step(1.0 / 60.0)
	}

	got := w.Body(h)
	if !got.Xform.Loc.Aeq(&lin2.V2{}) {
		t.Fatalf("static body moved to %+v, want origin", got.Xform.Loc)
	}
}

func TestPairValidityExcludesStaticStaticPairs(t *testing.T) {
	w := NewWorld(lin2.V2{}, nil)
	a := body2.NewRigidBody(geom2.Circle{Radius: 1}, 0, body2.Static, 0, 0)
	b := body2.NewRigidBody(geom2.Circle{Radius: 1}, 0, body2.Static, 0, 0)
	b.SetPosition(&lin2.V2{X: 1})
	w.AddBody(a)
	w.AddBody(b)

	w.narrow.Update(w)

	if len(w.narrow.pairs) != 0 {
		t.Fatalf("static/static pair should never reach the narrow phase, got %d pairs", len(w.narrow.pairs))
	}
}

// addFunnel builds the two-plane V-funnel from the original balls_vee
// scenario: static planes with inward-facing normals (-1,-1) and (1,-1),
// each offset so their surface passes through (0, 10).
func addFunnel(w *World) {
	left := body2.NewRigidBody(geom2.Plane{Normal: normalize(lin2.V2{X: -1, Y: -1})}, 0, body2.Static, 0.3, 0.6)
	left.SetPosition(&lin2.V2{Y: 10})
	w.AddBody(left)

	right := body2.NewRigidBody(geom2.Plane{Normal: normalize(lin2.V2{X: 1, Y: -1})}, 0, body2.Static, 0.3, 0.6)
	right.SetPosition(&lin2.V2{Y: 10})
	w.AddBody(right)
}

func normalize(v lin2.V2) lin2.V2 {
	v.Unit()
	return v
}

// addBallGrid mirrors the grid x grid grid of balls from the original
// balls_vee2d scenario, spaced 2.5*rad apart and centered above the funnel.
func addBallGrid(w *World, grid int, rad float64) []body2.Handle {
	spacing := 2.5 * rad
	offset := float64(grid-1) * spacing * 0.5
	handles := make([]body2.Handle, 0, grid*grid)
	for i := 0; i < grid; i++ {
		for j := 0; j < grid; j++ {
			b := body2.NewRigidBody(geom2.Circle{Radius: rad}, 1.0, body2.Dynamic, 0.3, 0.6)
			x := float64(i)*spacing - offset
			y := float64(j)*spacing - offset - 20
			b.SetPosition(&lin2.V2{X: x, Y: y})
			handles = append(handles, w.AddBody(b))
		}
	}
	return handles
}

// TestFunnelSettlesAllBallsAboveTheVee is a scaled-down version of the
// balls_vee scenario: every ball dropped into the V eventually comes to
// rest on or above the funnel's planes rather than falling through them.
func TestFunnelSettlesAllBallsAboveTheVee(t *testing.T) {
	w := NewWorld(lin2.V2{Y: 9.81}, nil)
	addFunnel(w)
	handles := addBallGrid(w, 6, 0.5)

	for i := 0; i < 600; i++ {
		w.Step(1.0 / 60.0)
	}

	for _, h := range handles {
		b := w.Body(h)
		// Inside the V means on the free side of both planes (the side their
		// normals point toward): y <= 10 - |x|.
		if b.Xform.Loc.Y > 10-math.Abs(b.Xform.Loc.X)+0.1 {
			t.Fatalf("ball at %+v fell outside the funnel", b.Xform.Loc)
		}
	}
}

func TestDeterministicStepping(t *testing.T) {
	build := func() *World {
		w := NewWorld(lin2.V2{Y: 9.81}, nil)
		ground := body2.NewRigidBody(geom2.Box{Half: lin2.V2{X: 100, Y: 1}}, 0, body2.Static, 0.3, 0.6)
		w.AddBody(ground)
		ball := body2.NewRigidBody(geom2.Circle{Radius: 0.5}, 1, body2.Dynamic, 0.3, 0.6)
		ball.SetPosition(&lin2.V2{Y: -5})
		w.AddBody(ball)
		return w
	}
	w1, w2 := build(), build()
	for i := 0; i < 120; i++ {
		w1.Step(1.0 / 60.0)
		w2.Step(1.0 / 60.0)
	}
	var h body2.Handle
	w1.Bodies(func(handle body2.Handle, b *body2.RigidBody) {
		if b.Mobility == body2.Dynamic {
			h = handle
		}
	})
	p1 := w1.Body(h).Xform.Loc
	p2 := w2.Body(h).Xform.Loc
	if !p1.Aeq(p2) {
		t.Fatalf("identical worlds diverged: %+v vs %+v", p1, p2)
	}
}
