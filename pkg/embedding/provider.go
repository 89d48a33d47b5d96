package embedding

import "context"

// EmbeddingProvider turns query text into a vector for similarity search.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
