// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

package geom3

import (
	"testing"

	"github.com/gazed/nphys/lin3"
)

func aeq(a, b float64) bool { return lin3.Aeq(a, b) }

func TestBallVolumeAndInertia(t *testing.T) {
	b := Ball{Radius: 1}
	want := (4.0 / 3.0) * lin3.PI
	if !aeq(b.Volume(), want) {
		t.Fatalf("volume = %v, want %v", b.Volume(), want)
	}
	i := b.Inertia(5)
	wantI := 0.4 * 5
	if !aeq(i.X, wantI) || !aeq(i.Y, wantI) || !aeq(i.Z, wantI) {
		t.Fatalf("inertia = %+v, want uniform %v", i, wantI)
	}
}

func TestBoxVolumeAndInertia(t *testing.T) {
	b := Box{Half: lin3.V3{X: 1, Y: 2, Z: 3}}
	if want := 8.0 * 1 * 2 * 3; !aeq(b.Volume(), want) {
		t.Fatalf("volume = %v, want %v", b.Volume(), want)
	}
	i := b.Inertia(12)
	// Ix = m/12 * (y2+z2) with y2=4*Half.Y^2, z2=4*Half.Z^2
	wantX := (12.0 / 12.0) * (4*4 + 4*9)
	if !aeq(i.X, wantX) {
		t.Fatalf("Ix = %v, want %v", i.X, wantX)
	}
}

func TestPlaneHasNoVolumeOrInertia(t *testing.T) {
	p := Plane{Normal: lin3.V3{Y: 1}}
	if p.Volume() != 0 {
		t.Fatalf("plane volume = %v, want 0", p.Volume())
	}
	i := p.Inertia(10)
	if i.X != 0 || i.Y != 0 || i.Z != 0 {
		t.Fatalf("plane inertia = %+v, want zero", i)
	}
}

func TestAboxOverlapsAndGrow(t *testing.T) {
	a := Abox{Min: lin3.V3{X: -1, Y: -1, Z: -1}, Max: lin3.V3{X: 1, Y: 1, Z: 1}}
	b := Abox{Min: lin3.V3{X: 0.5}, Max: lin3.V3{X: 2, Y: 2, Z: 2}}
	if !a.Overlaps(b) {
		t.Fatalf("expected overlap")
	}
	c := Abox{Min: lin3.V3{X: 5}, Max: lin3.V3{X: 6}}
	if a.Overlaps(c) {
		t.Fatalf("expected no overlap")
	}
	grown := c.Grow(4)
	if !a.Overlaps(grown) {
		t.Fatalf("expected overlap after growing c")
	}
}

func TestCompoundInertiaIsParallelAxisShifted(t *testing.T) {
	c := Compound{Parts: []CompoundPart{
		{Local: lin3.T{Loc: &lin3.V3{X: 1}, Rot: lin3.NewQ()}, Shape: Ball{Radius: 1}},
	}}
	mass := 3.0
	i := c.Inertia(mass)
	ball := Ball{Radius: 1}
	localI := ball.Inertia(mass)
	// parallel-axis shift adds mass*d^2 to the Y and Z axes for an offset
	// along X only.
	if !aeq(i.X, localI.X) {
		t.Fatalf("Ix should be unshifted for an x-offset part: got %v want %v", i.X, localI.X)
	}
	if i.Y <= localI.Y {
		t.Fatalf("Iy should increase with the parallel-axis shift: got %v, local %v", i.Y, localI.Y)
	}
}
