// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package lin2 provides the 2D vector, rotation, and transform math used by
// the lighter nphys2 physics core. It mirrors lin3's conventions (mutate
// receiver, return receiver) but is sized for a scalar orientation rather
// than a quaternion, since a 2D rigid body has one rotational degree of
// freedom instead of three.
package lin2

import "math"

// Various linear math constants, kept identical to lin3's so values copied
// between dimensions (gravity magnitudes, thresholds) read the same.
const (
	PI     float64 = math.Pi
	PIx2   float64 = PI * 2
	HalfPi float64 = PIx2 * 0.25

	Epsilon float64 = 0.000001

	Large float64 = math.MaxFloat32
)

// AeqZ (~=) returns true if x is close enough to zero to not matter.
func AeqZ(x float64) bool { return math.Abs(x) < Epsilon }

// Aeq (~=) returns true if a and b are close enough to not matter.
func Aeq(a, b float64) bool { return math.Abs(a-b) < Epsilon }

// Clamp returns s clamped to the range [lb, ub].
func Clamp(s, lb, ub float64) float64 {
	switch {
	case s < lb:
		return lb
	case s > ub:
		return ub
	}
	return s
}
