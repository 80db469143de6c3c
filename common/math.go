package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// LaunchSpeed is the initial vertical speed that reaches height under gravity.
func LaunchSpeed(height, gravity float64) float64 {
	if height <= 0 || gravity >= 0 {
		return 0
	}
	return math.Sqrt(2 * height * -gravity)
}
