// Package numeric holds small numeric helpers shared across packages.
package numeric

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	return math.Min(math.Max(value, min), max)
}

// NearlyEqual reports whether a and b are equal within eps,
// comparing absolutely for small magnitudes and relatively otherwise.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	scale := math.Max(math.Abs(a), math.Abs(b))

	return scale > 0 && diff <= eps*scale
}

// NextPow2 returns the smallest power of two >= n, and 1 for n <= 0.
func NextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
