// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package world3

import (
	"math"

	"github.com/gazed/nphys/body3"
	"github.com/gazed/nphys/geom3"
	"github.com/gazed/nphys/lin3"
)

// ccdMaxIterations bounds the conservative-advancement loop; exceeding it
// without resolving a hit or a clean miss is the "failed to converge"
// recoverable case (§7): fall back to no clamping for that pair and log once.
const ccdMaxIterations = 32

// ccdSlop is the advancement distance below which a swept sphere is
// considered touching the candidate surface.
const ccdSlop = 1e-4

// runCCD is the fifth pipeline stage: for every flagged dynamic body whose
// predicted displacement this step exceeds its motion threshold, sweep a
// bounding sphere from its pre-integration to post-integration center
// against every other body's geometry via conservative advancement, and
// clamp the body's position-integration fraction to the earliest
// time-of-impact found, zeroing the velocity's normal component at contact.
func (w *World) runCCD(dt float64) {
	w.Bodies(func(h body3.Handle, b *body3.RigidBody) {
		if b.Mobility != body3.Dynamic || !b.Activation.Active || b.CCDMotionThreshold <= 0 {
			return
		}
		disp := lin3.V3{}
		disp.Scale(&b.LinVel, dt)
		if disp.Len() <= b.CCDMotionThreshold {
			return
		}
		start := *b.Xform.Loc
		end := lin3.V3{}
		end.Add(&start, &disp)
		sweepBox := geom3.Expand(geom3.Abox{Min: start, Max: start}, geom3.Abox{Min: end, Max: end}).Grow(b.CCDSweepRadius)

		bestT := 1.0
		var bestNormal lin3.V3
		foundHit := false
		failedToConverge := false

		w.Bodies(func(oh body3.Handle, other *body3.RigidBody) {
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
			correction := lin3.V3{}
			correction.Scale(&bestNormal, -vn)
			b.LinVel.Add(&b.LinVel, &correction)
		}
	})
}

// conservativeAdvance walks a sweepRadius sphere from start to end along a
// straight line, using the candidate shape's (exact, for Plane/Ball; closest-
// point-approximate, for Box) distance-to-surface function as the per-step
// conservative advancement bound. Returns the impact fraction of the
// start-end segment, the contact normal, whether a hit occurred within the
// segment, and whether the iteration converged to a definite answer (hit or
// clean miss) within the iteration budget.
func conservativeAdvance(start, end lin3.V3, sweepRadius float64, shapeT *lin3.T, shape geom3.Shape) (tFrac float64, normal lin3.V3, hit bool, converged bool) {
	path := lin3.V3{}
	path.Sub(&end, &start)
	dist := path.Len()
	if dist < lin3.Epsilon {
		return 0, lin3.V3{}, false, true
	}
	dir := lin3.V3{}
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
			return 0, lin3.V3{}, false, true
		}
		step := lin3.V3{}
		step.Scale(&dir, traveled)
		pos.Add(&start, &step)
	}
	return 0, lin3.V3{}, false, false
}

// distanceToShape returns the (conservative) distance from world point p to
// shape's surface: exact for Plane and Ball, closest-point approximate for
// Box, and a large sentinel for anything else (Compound), which makes the
// advancement loop above report a converged miss on its first iteration, so
// that candidate never clamps.
func distanceToShape(p lin3.V3, t *lin3.T, shape geom3.Shape) float64 {
	switch s := shape.(type) {
	case geom3.Plane:
		n := lin3.V3{}
		n.MultQ(&s.Normal, t.Rot)
		n.Unit()
		planePt := lin3.V3{}
		planePt.Scale(&n, s.Offset)
		planePt.Add(&planePt, t.Loc)
		rel := lin3.V3{}
		rel.Sub(&p, &planePt)
		return rel.Dot(&n)
	case geom3.Ball:
		rel := lin3.V3{}
		rel.Sub(&p, t.Loc)
		return rel.Len() - s.Radius
	case geom3.Box:
		local := p
		t.Inv(&local)
		clamped := lin3.V3{
			X: lin3.Clamp(local.X, -s.Half.X, s.Half.X),
			Y: lin3.Clamp(local.Y, -s.Half.Y, s.Half.Y),
			Z: lin3.Clamp(local.Z, -s.Half.Z, s.Half.Z),
		}
		rel := lin3.V3{}
		rel.Sub(&local, &clamped)
		if d := rel.Len(); d > lin3.Epsilon {
			return d
		}
		return -min(s.Half.X-math.Abs(local.X), s.Half.Y-math.Abs(local.Y), s.Half.Z-math.Abs(local.Z))
	default:
		return lin3.Large
	}
}

func shapeNormalAt(p lin3.V3, t *lin3.T, shape geom3.Shape) lin3.V3 {
	switch s := shape.(type) {
	case geom3.Plane:
		n := lin3.V3{}
		n.MultQ(&s.Normal, t.Rot)
		n.Unit()
		return n
	case geom3.Ball:
		rel := lin3.V3{}
		rel.Sub(&p, t.Loc)
		if rel.Len() > lin3.Epsilon {
			rel.Unit()
			return rel
		}
		return lin3.V3{X: 1}
	case geom3.Box:
		local := p
		t.Inv(&local)
		clamped := lin3.V3{
			X: lin3.Clamp(local.X, -s.Half.X, s.Half.X),
			Y: lin3.Clamp(local.Y, -s.Half.Y, s.Half.Y),
			Z: lin3.Clamp(local.Z, -s.Half.Z, s.Half.Z),
		}
		rel := lin3.V3{}
		rel.Sub(&local, &clamped)
		if rel.Len() > lin3.Epsilon {
			rel.Unit()
		} else {
			rel = lin3.V3{X: 1}
		}
		n := lin3.V3{}
		n.MultQ(&rel, t.Rot)
		return n
	default:
		return lin3.V3{X: 1}
	}
}

