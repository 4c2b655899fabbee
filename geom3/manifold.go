// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom3

import (
	"math"

	"github.com/gazed/nphys/lin3"
)

// Contact is a single point of a contact manifold. Normal points from body A
// toward body B; Depth is the penetration distance along Normal (positive
// means overlapping).
type Contact struct {
	Point  lin3.V3
	Normal lin3.V3
	Depth  float64
}

// Manifold is the persistent contact set between one pair of bodies. The
// narrow phase keeps one Manifold per overlapping pair and calls Update
// every step; Contacts is replaced wholesale since the detectors below are
// all closed-form and cheap to recompute rather than incrementally patch.
type Manifold struct {
	Contacts []Contact
}

// Detector recomputes m.Contacts for the given pair of transformed shapes.
type Detector func(ta *lin3.T, sa Shape, tb *lin3.T, sb Shape, m *Manifold)

// flip wraps a detector written for (lo, hi) type order so it can serve the
// (hi, lo) call, negating the resulting normal since Contact.Normal always
// points from the first body passed to Update toward the second.
func flip(d Detector) Detector {
	return func(ta *lin3.T, sa Shape, tb *lin3.T, sb Shape, m *Manifold) {
		d(tb, sb, ta, sa, m)
		for i := range m.Contacts {
			m.Contacts[i].Normal.Neg(&m.Contacts[i].Normal)
		}
	}
}

// Dispatch returns the detector for the pair (sa, sb), and false if the pair
// is Unsupported. Compound shapes and any pair neither side of which is a
// plane/ball/box are Unsupported — the narrow phase skips such pairs.
func Dispatch(sa, sb Shape) (Detector, bool) {
	ta, tb := sa.Type(), sb.Type()
	switch {
	case ta == TypePlane && tb == TypeBall:
		return detectPlaneBall, true
	case ta == TypeBall && tb == TypePlane:
		return flip(detectPlaneBall), true
	case ta == TypePlane && tb == TypeBox:
		return detectPlaneBox, true
	case ta == TypeBox && tb == TypePlane:
		return flip(detectPlaneBox), true
	case ta == TypeBall && tb == TypeBall:
		return detectBallBall, true
	case ta == TypeBall && tb == TypeBox:
		return detectBallBox, true
	case ta == TypeBox && tb == TypeBall:
		return flip(detectBallBox), true
	case ta == TypeBox && tb == TypeBox:
		return detectBoxBox, true
	}
	return nil, false
}

func detectPlaneBall(ta *lin3.T, sa Shape, tb *lin3.T, sb Shape, m *Manifold) {
	plane := sa.(Plane)
	ball := sb.(Ball)
	n := lin3.V3{}
	n.MultQ(&plane.Normal, ta.Rot)
	n.Unit()
	planePt := lin3.V3{}
	planePt.Scale(&n, plane.Offset)
	planePt.Add(&planePt, ta.Loc)

	center := *tb.Loc
	toCenter := lin3.V3{}
	toCenter.Sub(&center, &planePt)
	dist := toCenter.Dot(&n)
	depth := ball.Radius - dist
	m.Contacts = m.Contacts[:0]
	if depth < 0 {
		return
	}
	point := lin3.V3{}
	point.Scale(&n, -ball.Radius)
	point.Add(&point, &center)
	m.Contacts = append(m.Contacts, Contact{Point: point, Normal: n, Depth: depth})
}

func detectPlaneBox(ta *lin3.T, sa Shape, tb *lin3.T, sb Shape, m *Manifold) {
	plane := sa.(Plane)
	box := sb.(Box)
	n := lin3.V3{}
	n.MultQ(&plane.Normal, ta.Rot)
	n.Unit()
	planePt := lin3.V3{}
	planePt.Scale(&n, plane.Offset)
	planePt.Add(&planePt, ta.Loc)

	m.Contacts = m.Contacts[:0]
	corners := boxCorners(tb, box)
	for _, c := range corners {
		rel := lin3.V3{}
		rel.Sub(&c, &planePt)
		dist := rel.Dot(&n)
		depth := -dist
		if depth < 0 {
			continue
		}
		point := lin3.V3{}
		point.Scale(&n, -depth)
		point.Add(&point, &c)
		m.Contacts = append(m.Contacts, Contact{Point: point, Normal: n, Depth: depth})
		if len(m.Contacts) == 4 {
			break
		}
	}
}

func detectBallBall(ta *lin3.T, sa Shape, tb *lin3.T, sb Shape, m *Manifold) {
	a := sa.(Ball)
	b := sb.(Ball)
	m.Contacts = m.Contacts[:0]
	delta := lin3.V3{}
	delta.Sub(tb.Loc, ta.Loc)
	dist := delta.Len()
	depth := a.Radius + b.Radius - dist
	if depth < 0 {
		return
	}
	n := lin3.V3{X: 1}
	if dist > lin3.Epsilon {
		n.Scale(&delta, 1.0/dist)
	}
	point := lin3.V3{}
	point.Scale(&n, a.Radius-depth*0.5)
	point.Add(&point, ta.Loc)
	m.Contacts = append(m.Contacts, Contact{Point: point, Normal: n, Depth: depth})
}

func detectBallBox(ta *lin3.T, sa Shape, tb *lin3.T, sb Shape, m *Manifold) {
	ball := sa.(Ball)
	box := sb.(Box)
	m.Contacts = m.Contacts[:0]

	local := *ta.Loc
	tb.Inv(&local)

	clamped := lin3.V3{
		X: lin3.Clamp(local.X, -box.Half.X, box.Half.X),
		Y: lin3.Clamp(local.Y, -box.Half.Y, box.Half.Y),
		Z: lin3.Clamp(local.Z, -box.Half.Z, box.Half.Z),
	}
	delta := lin3.V3{}
	delta.Sub(&local, &clamped)
	dist := delta.Len()
	depth := ball.Radius - dist
	if depth < 0 {
		return
	}
	var nLocal lin3.V3
	if dist > lin3.Epsilon {
		nLocal.Scale(&delta, 1.0/dist)
	} else {
		nLocal = lin3.V3{X: 1}
	}
	pointLocal := lin3.V3{}
	pointLocal.Scale(&nLocal, -depth * 0.5)
	pointLocal.Add(&pointLocal, &clamped)

	// nLocal points from the box toward the ball; negate so Normal points
	// from A (the ball) toward B (the box).
	n := lin3.V3{}
	n.MultQ(&nLocal, tb.Rot)
	n.Neg(&n)
	point := lin3.V3{}
	point.MultQ(&pointLocal, tb.Rot)
	point.Add(&point, tb.Loc)
	m.Contacts = append(m.Contacts, Contact{Point: point, Normal: n, Depth: depth})
}

// detectBoxBox is a simplified SAT: it tests only the six face-normal axes
// of the two boxes (no edge-edge cross-product axes), so it misses true
// edge-edge contact configurations but handles the face-face and
// face-vertex cases that dominate resting and stacking contact. Contact
// points are box b's corners that lie within box a's extent along the
// minimum-overlap axis, up to 4; no clipping against side planes is done.
func detectBoxBox(ta *lin3.T, sa Shape, tb *lin3.T, sb Shape, m *Manifold) {
	m.Contacts = m.Contacts[:0]
	a := sa.(Box)
	b := sb.(Box)

	axes := make([]lin3.V3, 0, 6)
	axes = append(axes, boxAxes(ta)...)
	axes = append(axes, boxAxes(tb)...)

	bestDepth := lin3.Large
	var bestAxis lin3.V3
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

	delta := lin3.V3{}
	delta.Sub(tb.Loc, ta.Loc)
	if delta.Dot(&bestAxis) < 0 {
		bestAxis.Neg(&bestAxis)
	}

	// Box a is always the reference box: test box b's corners against
	// a's extent along bestAxis to get the penetrating set.
	refExtent := boxExtentOnAxis(ta, a, bestAxis)
	for _, c := range boxCorners(tb, b) {
		relA := lin3.V3{}
		relA.Sub(&c, ta.Loc)
		depth := refExtent - relA.Dot(&bestAxis)
		if depth < 0 {
			continue
		}
		point := lin3.V3{}
		point.Scale(&bestAxis, -depth)
		point.Add(&point, &c)
		m.Contacts = append(m.Contacts, Contact{Point: point, Normal: bestAxis, Depth: depth})
		if len(m.Contacts) == 4 {
			break
		}
	}
}

func boxAxes(t *lin3.T) []lin3.V3 {
	x := lin3.V3{X: 1}
	y := lin3.V3{Y: 1}
	z := lin3.V3{Z: 1}
	x.MultQ(&x, t.Rot)
	y.MultQ(&y, t.Rot)
	z.MultQ(&z, t.Rot)
	return []lin3.V3{x, y, z}
}

func boxExtentOnAxis(t *lin3.T, b Box, axis lin3.V3) float64 {
	ax := boxAxes(t)
	return b.Half.X*math.Abs(ax[0].Dot(&axis)) + b.Half.Y*math.Abs(ax[1].Dot(&axis)) + b.Half.Z*math.Abs(ax[2].Dot(&axis))
}

func overlapOnAxis(ta *lin3.T, a Box, tb *lin3.T, b Box, axis lin3.V3) (float64, bool) {
	delta := lin3.V3{}
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

func boxCorners(t *lin3.T, b Box) []lin3.V3 {
	signs := [8][3]float64{
		{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {-1, 1, 1}, {1, 1, 1},
	}
	corners := make([]lin3.V3, 8)
	for i, s := range signs {
		local := lin3.V3{X: s[0] * b.Half.X, Y: s[1] * b.Half.Y, Z: s[2] * b.Half.Z}
		world := lin3.V3{}
		world.MultQ(&local, t.Rot)
		world.Add(&world, t.Loc)
		corners[i] = world
	}
	return corners
}
