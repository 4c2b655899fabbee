// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package geom2 is the 2D counterpart of geom3: shapes and closed-form
// pairwise detectors for the lighter nphys2 core.
package geom2

import "github.com/gazed/nphys/lin2"

// Type identifies a shape's concrete kind.
type Type int

const (
	TypePlane Type = iota
	TypeCircle
	TypeBox
)

// Abox is an axis-aligned bounding box in 2D.
type Abox struct {
	Min, Max lin2.V2
}

func Expand(a, b Abox) Abox {
	return Abox{
		Min: lin2.V2{X: min(a.Min.X, b.Min.X), Y: min(a.Min.Y, b.Min.Y)},
		Max: lin2.V2{X: max(a.Max.X, b.Max.X), Y: max(a.Max.Y, b.Max.Y)},
	}
}

func (a Abox) Overlaps(b Abox) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

func (a Abox) Grow(margin float64) Abox {
	return Abox{
		Min: lin2.V2{X: a.Min.X - margin, Y: a.Min.Y - margin},
		Max: lin2.V2{X: a.Max.X + margin, Y: a.Max.Y + margin},
	}
}

// Shape is a 2D collision geometry in its body's local frame.
type Shape interface {
	Type() Type
	Area() float64
	// Inertia returns the scalar local moment of inertia for a shape of the
	// given mass, assuming uniform density.
	Inertia(mass float64) float64
	Aabb() Abox
}

// Plane is an infinite line boundary: points with Normal.Dot(p) < Offset
// are inside solid.
type Plane struct {
	Normal lin2.V2 // unit
	Offset float64
}

func (Plane) Type() Type           { return TypePlane }
func (Plane) Area() float64        { return 0 }
func (Plane) Inertia(float64) float64 { return 0 }
func (Plane) Aabb() Abox {
	return Abox{
		Min: lin2.V2{X: -lin2.Large, Y: -lin2.Large},
		Max: lin2.V2{X: lin2.Large, Y: lin2.Large},
	}
}

// Circle is a disc of the given radius centered at the body origin.
type Circle struct {
	Radius float64
}

func (Circle) Type() Type      { return TypeCircle }
func (c Circle) Area() float64 { return lin2.PI * c.Radius * c.Radius }
func (c Circle) Inertia(mass float64) float64 {
	return 0.5 * mass * c.Radius * c.Radius
}
func (c Circle) Aabb() Abox {
	return Abox{
		Min: lin2.V2{X: -c.Radius, Y: -c.Radius},
		Max: lin2.V2{X: c.Radius, Y: c.Radius},
	}
}

// Box is a rectangle centered at the body origin, given by half-extents.
type Box struct {
	Half lin2.V2
}

func (Box) Type() Type      { return TypeBox }
func (b Box) Area() float64 { return 4 * b.Half.X * b.Half.Y }
func (b Box) Inertia(mass float64) float64 {
	w2, h2 := 4*b.Half.X*b.Half.X, 4*b.Half.Y*b.Half.Y
	return mass * (w2 + h2) / 12.0
}
func (b Box) Aabb() Abox {
	return Abox{
		Min: lin2.V2{X: -b.Half.X, Y: -b.Half.Y},
		Max: lin2.V2{X: b.Half.X, Y: b.Half.Y},
	}
}
