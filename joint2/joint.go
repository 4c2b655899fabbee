// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package joint2 is the 2D counterpart of joint3. A Fixed joint couples
// position and a scalar orientation instead of a quaternion frame.
package joint2

import (
	"github.com/gazed/nphys/body2"
	"github.com/gazed/nphys/lin2"
)

// Anchor attaches a local point, and for Fixed joints a local angle, to
// either a body or to the world. A nil Body means the inertial frame.
type Anchor struct {
	Body  *body2.RigidBody
	Point lin2.V2
	Ang   float64
}

// World returns the anchor point in world space.
func (a *Anchor) World() lin2.V2 {
	if a.Body == nil {
		return a.Point
	}
	p := a.Point
	a.Body.Xform.App(&p)
	return p
}

// WorldAngle returns the anchor's world orientation, used by Fixed.
func (a *Anchor) WorldAngle() float64 {
	if a.Body == nil {
		return a.Ang
	}
	return a.Body.Xform.Ang + a.Ang
}

// BallInSocket requires two anchor points to coincide (a "pin" joint in 2D).
type BallInSocket struct {
	ID   string
	A, B Anchor
}

// Fixed requires two anchors to coincide in position and angle.
type Fixed struct {
	ID   string
	A, B Anchor
}

// SetAnchorFrame updates the local frame of whichever side's Body matches body.
func (f *Fixed) SetAnchorFrame(body *body2.RigidBody, point lin2.V2, ang float64) {
	if f.A.Body == body {
		f.A.Point, f.A.Ang = point, ang
	}
	if f.B.Body == body {
		f.B.Point, f.B.Ang = point, ang
	}
}

// Detector owns a set of joint instances and emits a Constraint per
// instance each step.
type Detector struct {
	balls []*BallInSocket
	fixed []*Fixed
}

// NewDetector returns an empty joint detector.
func NewDetector() *Detector { return &Detector{} }

// AddBallInSocket registers a ball-in-socket joint.
func (d *Detector) AddBallInSocket(j *BallInSocket) { d.balls = append(d.balls, j) }

// AddFixed registers a fixed joint.
func (d *Detector) AddFixed(j *Fixed) { d.fixed = append(d.fixed, j) }

// RemoveBody purges every joint instance referencing body.
func (d *Detector) RemoveBody(body *body2.RigidBody) {
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
