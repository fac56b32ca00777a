package utils

import "math"

// NormalizeL2 scales v in place to unit length. Query and corpus embeddings
// are compared by L2 distance, so normalizing both sides keeps distances in a
// bounded range and makes an exact text match come out at distance zero.
// A zero vector is left untouched.
func NormalizeL2(v []float32) {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sumSq))
	for i := range v {
		v[i] *= inv
	}
}
