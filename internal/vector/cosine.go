package vector

import "math"

// CosineSimilarity computes dot(a,b) / (||a|| * ||b||), accumulating in
// float64. A zero-magnitude operand (degenerate embedding) yields 0.0 rather
// than a division error. Mismatched lengths also yield 0.0; length checks
// belong to the store's upsert path.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
