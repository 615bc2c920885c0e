package embeddings

import "math"

// CosineSimilarity returns the cosine of the angle between two vectors,
// clamped to [0, 1]. Empty vectors, mismatched dimensionality, and zero
// norms all score 0 rather than erroring: a job that cannot be compared
// is simply not a match.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Min(math.Max(similarity, 0), 1)
}

// MatchPercentage converts a similarity to the 0-100 integer scale the
// recommendation pipeline reports.
func MatchPercentage(similarity float64) int {
	return int(math.Round(math.Min(similarity*100, 100)))
}
