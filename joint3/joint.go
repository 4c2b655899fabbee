// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package joint3 implements the ball-in-socket and fixed joint detectors:
// anchor-based constraints re-materialized once per step from stored
// anchors, as spec'd for persistent joints.
package joint3

import (
	"github.com/gazed/nphys/body3"
	"github.com/gazed/nphys/lin3"
)

// Anchor attaches a local point, and for Fixed joints a local frame, to
// either a body or to the world. A nil Body means the inertial frame: the
// local point/frame is interpreted directly in world space.
type Anchor struct {
	Body  *body3.RigidBody // nil = world
	Point lin3.V3          // local to Body, or world if Body is nil
	Rot   lin3.Q           // local-to-Body orientation, used by Fixed only
}

// World returns the anchor point in world space.
func (a *Anchor) World() lin3.V3 {
	if a.Body == nil {
		return a.Point
	}
	p := a.Point
	a.Body.Xform.App(&p)
	return p
}

// WorldFrame returns the anchor's world orientation, used by Fixed.
func (a *Anchor) WorldFrame() lin3.Q {
	if a.Body == nil {
		return a.Rot
	}
	q := lin3.Q{}
	q.Mult(a.Body.Xform.Rot, &a.Rot)
	return q
}

// BallInSocket requires two anchor points to coincide.
type BallInSocket struct {
	ID     string
	A, B   Anchor
}

// Fixed requires two anchor frames to coincide in position and orientation.
type Fixed struct {
	ID   string
	A, B Anchor
}

// SetAnchorFrame updates the local frame of whichever side's Body matches
// body (used to drag a fixed joint's dynamic end with the mouse).
func (f *Fixed) SetAnchorFrame(body *body3.RigidBody, point lin3.V3, rot lin3.Q) {
	if f.A.Body == body {
		f.A.Point, f.A.Rot = point, rot
	}
	if f.B.Body == body {
		f.B.Point, f.B.Rot = point, rot
	}
}

// Detector owns the ball-in-socket and fixed joint instances and emits a
// Constraint per instance each step. world3 wraps it in its
// jointDetectorStage adapter to satisfy the world's Detector contract.
type Detector struct {
	balls  []*BallInSocket
	fixed  []*Fixed
}

// NewDetector returns an empty joint detector.
func NewDetector() *Detector { return &Detector{} }

// AddBallInSocket registers a ball-in-socket joint.
func (d *Detector) AddBallInSocket(j *BallInSocket) { d.balls = append(d.balls, j) }

// AddFixed registers a fixed joint.
func (d *Detector) AddFixed(j *Fixed) { d.fixed = append(d.fixed, j) }

// RemoveBody purges every joint instance referencing body, per the
// body-removed subscription every joint detector holds.
func (d *Detector) RemoveBody(body *body3.RigidBody) {
	balls := d.balls[:0]
	for _, j := range d.balls {
		if j.A.Body != body && j.B.Body != body {
			balls = append(balls, j)
		}
	}
	d.balls = balls

	fixed := d.fixed[:0]
	for _, j := range d.fixed {
		if j.A.Body != body && j.B.Body != body {
			fixed = append(fixed, j)
		}
	}
	d.fixed = fixed
}

// Constraint is a materialized joint constraint for this step.
type Constraint struct {
	Ball  *BallInSocket
	Fixed *Fixed
}

// Interferences appends one Constraint per live joint instance to out.
func (d *Detector) Interferences(out *[]Constraint) {
	for _, j := range d.balls {
		*out = append(*out, Constraint{Ball: j})
	}
	for _, j := range d.fixed {
		*out = append(*out, Constraint{Fixed: j})
	}
}
