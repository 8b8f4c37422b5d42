package services

import "math"

// floatClose reports whether two floats are equal within a small tolerance.
func floatClose(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}
