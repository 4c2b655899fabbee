// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom2

import (
	"math"

	"github.com/gazed/nphys/lin2"
)

// Contact is a single point of a 2D contact manifold (at most 2 points for
// box-box/plane-box; boxes in 2D have one incident edge, not four faces).
type Contact struct {
	Point  lin2.V2
	Normal lin2.V2
	Depth  float64
}

type Manifold struct {
	Contacts []Contact
}

type Detector func(ta *lin2.T2, sa Shape, tb *lin2.T2, sb Shape, m *Manifold)

func flip(d Detector) Detector {
	return func(ta *lin2.T2, sa Shape, tb *lin2.T2, sb Shape, m *Manifold) {
		d(tb, sb, ta, sa, m)
		for i := range m.Contacts {
			m.Contacts[i].Normal.Neg(&m.Contacts[i].Normal)
		}
	}
}

// Dispatch returns the detector for the pair (sa, sb), and false if the pair
// is Unsupported.
func Dispatch(sa, sb Shape) (Detector, bool) {
	ta, tb := sa.Type(), sb.Type()
	switch {
	case ta == TypePlane && tb == TypeCircle:
		return detectPlaneCircle, true
	case ta == TypeCircle && tb == TypePlane:
		return flip(detectPlaneCircle), true
	case ta == TypePlane && tb == TypeBox:
		return detectPlaneBox, true
	case ta == TypeBox && tb == TypePlane:
		return flip(detectPlaneBox), true
	case ta == TypeCircle && tb == TypeCircle:
		return detectCircleCircle, true
	case ta == TypeBox && tb == TypeBox:
		return detectBoxBox, true
	}
	return nil, false
}

func detectPlaneCircle(ta *lin2.T2, sa Shape, tb *lin2.T2, sb Shape, m *Manifold) {
	plane := sa.(Plane)
	circle := sb.(Circle)
	n := lin2.V2{}
	n.Rot(&plane.Normal, ta.Ang)
	n.Unit()
	planePt := lin2.V2{}
	planePt.Scale(&n, plane.Offset)
	planePt.Add(&planePt, ta.Loc)

	toCenter := lin2.V2{}
	toCenter.Sub(tb.Loc, &planePt)
	dist := toCenter.Dot(&n)
	depth := circle.Radius - dist
	m.Contacts = m.Contacts[:0]
	if depth < 0 {
		return
	}
	point := lin2.V2{}
	point.Scale(&n, -circle.Radius)
	point.Add(&point, tb.Loc)
	m.Contacts = append(m.Contacts, Contact{Point: point, Normal: n, Depth: depth})
}

func detectPlaneBox(ta *lin2.T2, sa Shape, tb *lin2.T2, sb Shape, m *Manifold) {
	plane := sa.(Plane)
	box := sb.(Box)
	n := lin2.V2{}
	n.Rot(&plane.Normal, ta.Ang)
	n.Unit()
	planePt := lin2.V2{}
	planePt.Scale(&n, plane.Offset)
	planePt.Add(&planePt, ta.Loc)

	m.Contacts = m.Contacts[:0]
	for _, c := range boxCorners(tb, box) {
		rel := lin2.V2{}
		rel.Sub(&c, &planePt)
		depth := -rel.Dot(&n)
		if depth < 0 {
			continue
		}
		point := lin2.V2{}
		point.Scale(&n, -depth)
		point.Add(&point, &c)
		m.Contacts = append(m.Contacts, Contact{Point: point, Normal: n, Depth: depth})
		if len(m.Contacts) == 2 {
			break
		}
	}
}

func detectCircleCircle(ta *lin2.T2, sa Shape, tb *lin2.T2, sb Shape, m *Manifold) {
	a := sa.(Circle)
	b := sb.(Circle)
	m.Contacts = m.Contacts[:0]
	delta := lin2.V2{}
	delta.Sub(tb.Loc, ta.Loc)
	dist := delta.Len()
	depth := a.Radius + b.Radius - dist
	if depth < 0 {
		return
	}
	n := lin2.V2{X: 1}
	if dist > lin2.Epsilon {
		n.Scale(&delta, 1.0/dist)
	}
	point := lin2.V2{}
	point.Scale(&n, a.Radius-depth*0.5)
	point.Add(&point, ta.Loc)
	m.Contacts = append(m.Contacts, Contact{Point: point, Normal: n, Depth: depth})
}

// detectBoxBox tests the 4 face-normal axes (2 per box since opposing faces
// share an axis) and clips the incident edge against the reference box's
// extent, producing up to 2 contact points — the 2D analog of geom3's
// simplified box-box SAT.
func detectBoxBox(ta *lin2.T2, sa Shape, tb *lin2.T2, sb Shape, m *Manifold) {
	m.Contacts = m.Contacts[:0]
	a := sa.(Box)
	b := sb.(Box)

	axes := append(boxAxes(ta), boxAxes(tb)...)
	bestDepth := lin2.Large
	var bestAxis lin2.V2
	for _, axis := range axes {
		depth, ok := overlapOnAxis(ta, a, tb, b, axis)
		if !ok {
			return
		}
		if depth < bestDepth {
			bestDepth = depth
			bestAxis = axis
		}
	}

	delta := lin2.V2{}
	delta.Sub(tb.Loc, ta.Loc)
	if delta.Dot(&bestAxis) < 0 {
		bestAxis.Neg(&bestAxis)
	}

	refExtent := boxExtentOnAxis(ta, a, bestAxis)
	for _, c := range boxCorners(tb, b) {
		relA := lin2.V2{}
		relA.Sub(&c, ta.Loc)
		depth := refExtent - relA.Dot(&bestAxis)
		if depth < 0 {
			continue
		}
		point := lin2.V2{}
		point.Scale(&bestAxis, -depth)
		point.Add(&point, &c)
		m.Contacts = append(m.Contacts, Contact{Point: point, Normal: bestAxis, Depth: depth})
		if len(m.Contacts) == 2 {
			break
		}
	}
}

func boxAxes(t *lin2.T2) []lin2.V2 {
	x := lin2.V2{X: 1}
	y := lin2.V2{Y: 1}
	x.Rot(&x, t.Ang)
	y.Rot(&y, t.Ang)
	return []lin2.V2{x, y}
}

func boxExtentOnAxis(t *lin2.T2, b Box, axis lin2.V2) float64 {
	ax := boxAxes(t)
	return b.Half.X*math.Abs(ax[0].Dot(&axis)) + b.Half.Y*math.Abs(ax[1].Dot(&axis))
}

func overlapOnAxis(ta *lin2.T2, a Box, tb *lin2.T2, b Box, axis lin2.V2) (float64, bool) {
	delta := lin2.V2{}
	delta.Sub(tb.Loc, ta.Loc)
	dist := math.Abs(delta.Dot(&axis))
	ra := boxExtentOnAxis(ta, a, axis)
	rb := boxExtentOnAxis(tb, b, axis)
	overlap := ra + rb - dist
	if overlap < 0 {
		return 0, false
	}
	return overlap, true
}

func boxCorners(t *lin2.T2, b Box) []lin2.V2 {
	signs := [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	corners := make([]lin2.V2, 4)
	for i, s := range signs {
		local := lin2.V2{X: s[0] * b.Half.X, Y: s[1] * b.Half.Y}
		world := lin2.V2{}
		world.Rot(&local, t.Ang)
		world.Add(&world, t.Loc)
		corners[i] = world
	}
	return corners
}
