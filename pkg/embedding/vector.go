package embedding

// Cosine returns the cosine similarity of two vectors. Stored vectors are
// unit-normalized, so this is a plain dot product. A zero vector or a
// dimension mismatch yields 0, never NaN.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot float64
	zeroA, zeroB := true, true
	for i := range a {
		if a[i] != 0 {
			zeroA = false
		}
		if b[i] != 0 {
			zeroB = false
		}
		dot += float64(a[i]) * float64(b[i])
	}

	if zeroA || zeroB {
		return 0
	}
	return dot
}

// IsZero reports whether every component of vec is zero.
func IsZero(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
