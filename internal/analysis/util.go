package analysis

import "math"

func ptr[T any](v T) *T { return &v }

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
