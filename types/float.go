package types

import "github.com/chewxy/math32"

const floatCmpEpsilon = 1e-5

// Returns true if a and b differ by less than epsilon.
func ApproxEqual(a, b, epsilon float32) bool {
	return math32.Abs(a-b) < epsilon
}

// Returns true if all components of v1 and v2 differ by less than epsilon.
func ApproxEqualVec3(v1, v2 Vec3, epsilon float32) bool {
	return ApproxEqual(v1[0], v2[0], epsilon) &&
		ApproxEqual(v1[1], v2[1], epsilon) &&
		ApproxEqual(v1[2], v2[2], epsilon)
}
