// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package geom3 provides the 3D collision shapes and closed-form pairwise
// detectors the narrow phase dispatches to. Shapes are plain value types;
// detectors are stateless functions keyed by the shape-type pair, mirroring
// the Dispatcher/PairwiseDetector split described for BodiesBodies.
package geom3

import "github.com/gazed/nphys/lin3"

// Type identifies a shape's concrete kind, used as half of the dispatcher key.
type Type int

const (
	TypePlane Type = iota
	TypeBall
	TypeBox
	TypeCompound
)

func (t Type) String() string {
	switch t {
	case TypePlane:
		return "plane"
	case TypeBall:
		return "ball"
	case TypeBox:
		return "box"
	case TypeCompound:
		return "compound"
	}
	return "unknown"
}

// Abox is an axis-aligned bounding box, used by the broad phase.
type Abox struct {
	Min, Max lin3.V3
}

// Expand returns the smallest Abox containing both a and b.
func Expand(a, b Abox) Abox {
	min := lin3.V3{X: min(a.Min.X, b.Min.X), Y: min(a.Min.Y, b.Min.Y), Z: min(a.Min.Z, b.Min.Z)}
	max := lin3.V3{X: max(a.Max.X, b.Max.X), Y: max(a.Max.Y, b.Max.Y), Z: max(a.Max.Z, b.Max.Z)}
	return Abox{min, max}
}

// Overlaps returns true if a and b intersect or touch.
func (a Abox) Overlaps(b Abox) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Grow returns a copy of a expanded by margin on every side, used by the
// broad phase to avoid re-inserting bodies that move only a little.
func (a Abox) Grow(margin float64) Abox {
	m := lin3.V3{X: margin, Y: margin, Z: margin}
	min := lin3.V3{}
	max := lin3.V3{}
	min.Sub(&a.Min, &m)
	max.Add(&a.Max, &m)
	return Abox{min, max}
}

// Shape is a collision geometry attached to a rigid body in its local frame.
type Shape interface {
	Type() Type
	// Volume returns the shape's volume, used to derive mass from density.
	Volume() float64
	// Inertia returns the local-frame diagonal inertia tensor for a shape of
	// the given mass, assuming uniform density.
	Inertia(mass float64) lin3.V3
	// Aabb returns the local-frame axis-aligned bounding box.
	Aabb() Abox
}

// Plane is an infinite half-space boundary: points with Normal.Dot(p) <
// Offset are inside solid. Always used on a static body.
type Plane struct {
	Normal lin3.V3 // unit
	Offset float64
}

func (Plane) Type() Type         { return TypePlane }
func (Plane) Volume() float64    { return 0 }
func (Plane) Inertia(float64) lin3.V3 { return lin3.V3{} }
func (p Plane) Aabb() Abox {
	return Abox{
		Min: lin3.V3{X: -lin3.Large, Y: -lin3.Large, Z: -lin3.Large},
		Max: lin3.V3{X: lin3.Large, Y: lin3.Large, Z: lin3.Large},
	}
}

// Ball is a sphere of the given radius centered at the body origin.
type Ball struct {
	Radius float64
}

func (Ball) Type() Type      { return TypeBall }
func (b Ball) Volume() float64 {
	return (4.0 / 3.0) * lin3.PI * b.Radius * b.Radius * b.Radius
}
func (b Ball) Inertia(mass float64) lin3.V3 {
	i := 0.4 * mass * b.Radius * b.Radius
	return lin3.V3{X: i, Y: i, Z: i}
}
func (b Ball) Aabb() Abox {
	r := lin3.V3{X: b.Radius, Y: b.Radius, Z: b.Radius}
	min, max := lin3.V3{}, lin3.V3{}
	min.Neg(&r)
	max.Set(&r)
	return Abox{min, max}
}

// Box is a rectangular box centered at the body origin, given by its
// half-extents along each local axis.
type Box struct {
	Half lin3.V3
}

func (Box) Type() Type      { return TypeBox }
func (b Box) Volume() float64 {
	return 8 * b.Half.X * b.Half.Y * b.Half.Z
}
func (b Box) Inertia(mass float64) lin3.V3 {
	x2, y2, z2 := 4*b.Half.X*b.Half.X, 4*b.Half.Y*b.Half.Y, 4*b.Half.Z*b.Half.Z
	c := mass / 12.0
	return lin3.V3{X: c * (y2 + z2), Y: c * (x2 + z2), Z: c * (x2 + y2)}
}
func (b Box) Aabb() Abox {
	min, max := lin3.V3{}, lin3.V3{}
	min.Neg(&b.Half)
	max.Set(&b.Half)
	return Abox{min, max}
}

// Compound is a fixed collection of sub-shapes, each with a local offset
// transform from the owning body's frame. Supported shapes report the
// union bounding box and summed inertia; compound-compound and
// compound-other narrow-phase pairs are Unsupported (see Dispatch).
type Compound struct {
	Parts []CompoundPart
}

// CompoundPart is one member of a Compound shape.
type CompoundPart struct {
	Local lin3.T
	Shape Shape
}

func (Compound) Type() Type { return TypeCompound }

func (c Compound) Volume() float64 {
	v := 0.0
	for _, p := range c.Parts {
		v += p.Shape.Volume()
	}
	return v
}

func (c Compound) Inertia(mass float64) lin3.V3 {
	vol := c.Volume()
	if vol <= 0 {
		return lin3.V3{}
	}
	sum := lin3.V3{}
	for _, p := range c.Parts {
		partMass := mass * (p.Shape.Volume() / vol)
		sum.Add(&sum, partMassInertia(p, partMass))
	}
	return sum
}

// partMassInertia parallel-axis-shifts a part's local inertia out to the
// compound's origin.
func partMassInertia(p CompoundPart, mass float64) *lin3.V3 {
	local := p.Shape.Inertia(mass)
	d := p.Local.Loc
	shift := lin3.V3{
		X: mass * (d.Y*d.Y + d.Z*d.Z),
		Y: mass * (d.X*d.X + d.Z*d.Z),
		Z: mass * (d.X*d.X + d.Y*d.Y),
	}
	local.Add(&local, &shift)
	return &local
}

func (c Compound) Aabb() Abox {
	if len(c.Parts) == 0 {
		return Abox{}
	}
	box := c.Parts[0].Shape.Aabb()
	box.Min.Add(&box.Min, c.Parts[0].Local.Loc)
	box.Max.Add(&box.Max, c.Parts[0].Local.Loc)
	for _, p := range c.Parts[1:] {
		pb := p.Shape.Aabb()
		pb.Min.Add(&pb.Min, p.Local.Loc)
		pb.Max.Add(&pb.Max, p.Local.Loc)
		box = Expand(box, pb)
	}
	return box
}
