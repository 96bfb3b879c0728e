package embedders

import (
	"context"
	"math"
)

// EmbedderProvider turns text into a fixed-dimension vector. The same
// provider (and model) must be used at ingestion time and at query time.
type EmbedderProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	GetDimension() int

	GetModelName() string

	Close() error
}

// Normalize scales the vector to unit length in place and returns it.
// Cosine similarity over unit vectors reduces to a dot product, which is
// what the vector store computes.
func Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
