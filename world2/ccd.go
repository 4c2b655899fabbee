// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world2

import (
	"math"

	"github.com/gazed/nphys/body2"
	"github.com/gazed/nphys/geom2"
	"github.com/gazed/nphys/lin2"
)

const ccdMaxIterations = 32
const ccdSlop = 1e-4

// runCCD is the 2D counterpart of world3's runCCD: swept-circle conservative
// advancement instead of swept-sphere.
func (w *World) runCCD(dt float64) {
	w.Bodies(func(h body2.Handle, b *body2.RigidBody) {
		if b.Mobility != body2.Dynamic || !b.Activation.Active || b.CCDMotionThreshold <= 0 {
			return
		}
		disp := lin2.V2{}
		disp.Scale(&b.LinVel, dt)
		if disp.Len() <= b.CCDMotionThreshold {
			return
		}
		start := *b.Xform.Loc
		end := lin2.V2{}
		end.Add(&start, &disp)
		sweepBox := geom2.Expand(geom2.Abox{Min: start, Max: start}, geom2.Abox{Min: end, Max: end}).Grow(b.CCDSweepRadius)

		bestT := 1.0
		var bestNormal lin2.V2
		foundHit := false
		failedToConverge := false

		w.Bodies(func(oh body2.Handle, other *body2.RigidBody) {
			if oh == h {
				return
			}
			if !sweepBox.Overlaps(other.Aabb().Grow(b.CCDSweepRadius)) {
				return
			}
			tFrac, normal, hit, converged := conservativeAdvance(start, end, b.CCDSweepRadius, &other.Xform, other.Geom)
			if !converged {
				failedToConverge = true
				return
			}
			if hit && tFrac < bestT {
				bestT = tFrac
				bestNormal = normal
				foundHit = true
			}
		})

		if failedToConverge {
			w.Log.Warn("ccd advancement failed to converge", "body", h)
		}

		if !foundHit {
			return
		}
		w.ccdClamp[h] = bestT

		vn := b.LinVel.Dot(&bestNormal)
		if vn < 0 {
			correction := lin2.V2{}
			correction.Scale(&bestNormal, -vn)
			b.LinVel.Add(&b.LinVel, &correction)
		}
	})
}

func conservativeAdvance(start, end lin2.V2, sweepRadius float64, shapeT *lin2.T2, shape geom2.Shape) (tFrac float64, normal lin2.V2, hit bool, converged bool) {
	path := lin2.V2{}
	path.Sub(&end, &start)
	dist := path.Len()
	if dist < lin2.Epsilon {
		return 0, lin2.V2{}, false, true
	}
	dir := lin2.V2{}
	dir.Scale(&path, 1.0/dist)

	traveled := 0.0
	pos := start
	for i := 0; i < ccdMaxIterations; i++ {
		d := distanceToShape(pos, shapeT, shape) - sweepRadius
		if d <= ccdSlop {
			n := shapeNormalAt(pos, shapeT, shape)
			return max(0, min(1, traveled/dist)), n, true, true
		}
		traveled += d
		if traveled >= dist {
			return 0, lin2.V2{}, false, true
		}
		step := lin2.V2{}
		step.Scale(&dir, traveled)
		pos.Add(&start, &step)
	}
	return 0, lin2.V2{}, false, false
}

// distanceToShape returns the (conservative) distance from world point p to
// shape's surface: exact for Plane and Circle, closest-point approximate
// for Box.
func distanceToShape(p lin2.V2, t *lin2.T2, shape geom2.Shape) float64 {
	switch s := shape.(type) {
	case geom2.Plane:
		n := lin2.V2{}
		n.Rot(&s.Normal, t.Ang)
		n.Unit()
		planePt := lin2.V2{}
		planePt.Scale(&n, s.Offset)
		planePt.Add(&planePt, t.Loc)
		rel := lin2.V2{}
		rel.Sub(&p, &planePt)
		return rel.Dot(&n)
	case geom2.Circle:
		rel := lin2.V2{}
		rel.Sub(&p, t.Loc)
		return rel.Len() - s.Radius
	case geom2.Box:
		local := p
		t.Inv(&local)
		clamped := lin2.V2{
			X: lin2.Clamp(local.X, -s.Half.X, s.Half.X),
			Y: lin2.Clamp(local.Y, -s.Half.Y, s.Half.Y),
		}
		rel := lin2.V2{}
		rel.Sub(&local, &clamped)
		if d := rel.Len(); d > lin2.Epsilon {
			return d
		}
		return -min(s.Half.X-math.Abs(local.X), s.Half.Y-math.Abs(local.Y))
	default:
		return lin2.Large
	}
}

func shapeNormalAt(p lin2.V2, t *lin2.T2, shape geom2.Shape) lin2.V2 {
	switch s := shape.(type) {
	case geom2.Plane:
		n := lin2.V2{}
		n.Rot(&s.Normal, t.Ang)
		n.Unit()
		return n
	case geom2.Circle:
		rel := lin2.V2{}
		rel.Sub(&p, t.Loc)
		if rel.Len() > lin2.Epsilon {
			rel.Unit()
			return rel
		}
		return lin2.V2{X: 1}
	case geom2.Box:
		local := p
		t.Inv(&local)
		clamped := lin2.V2{
			X: lin2.Clamp(local.X, -s.Half.X, s.Half.X),
			Y: lin2.Clamp(local.Y, -s.Half.Y, s.Half.Y),
		}
		rel := lin2.V2{}
		rel.Sub(&local, &clamped)
		if rel.Len() > lin2.Epsilon {
			rel.Unit()
		} else {
			rel = lin2.V2{X: 1}
		}
		n := lin2.V2{}
		n.Rot(&rel, t.Ang)
		return n
	default:
		return lin2.V2{X: 1}
	}
}

