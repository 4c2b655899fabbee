// Copyright © 2024 gazed/nphys contributors.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package lin3 provides the 3D vector, quaternion, matrix, and transform
// math used by the nphys physics core. It is the "linear-algebra types"
// capability the physics pipeline is written against — ported from, and
// kept close to, github.com/gazed/vu/math/lin so that the physics code
// that was ported alongside it needs no translation.
package lin3

import "math"

// Various linear math constants.
const (
	PI     float64 = math.Pi
	PIx2   float64 = PI * 2
	HalfPi float64 = PIx2 * 0.25

	// Epsilon is used to distinguish when a float is close enough to a number.
	Epsilon float64 = 0.000001

	Large float64 = math.MaxFloat32
)

// AeqZ (~=) almost-equals returns true if x is close enough to zero to not matter.
func AeqZ(x float64) bool { return math.Abs(x) < Epsilon }

// Aeq (~=) almost-equals returns true if a and b are close enough to not matter.
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

// AbsMax returns the index (0-3) of the largest absolute value of the 4 given values.
func AbsMax(a0, a1, a2, a3 float64) int {
	maxIndex, maxVal := 0, math.Abs(a0)
	if v := math.Abs(a1); v > maxVal {
		maxIndex, maxVal = 1, v
	}
	if v := math.Abs(a2); v > maxVal {
		maxIndex, maxVal = 2, v
	}
	if v := math.Abs(a3); v > maxVal {
		maxIndex = 3
	}
	return maxIndex
}
