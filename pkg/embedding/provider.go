package embedding

import (
	"context"
	"math"
)

// Provider converts text into fixed-length vectors via an external embedding
// service. Embed is an order-preserving batch: one vector per input, in input
// order, so callers can zip results with chunk metadata downstream.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// normalizeVector scales a vector to unit length. Cosine distance in pgvector
// needs normalized vectors for accurate ranking.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
