package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Sign returns -1 for negative values and 1 otherwise.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// ClampMagnitude limits the magnitude of v to limit, keeping its sign.
func ClampMagnitude(v, limit float64) float64 {
	return Sign(v) * math.Min(math.Abs(v), limit)
}
