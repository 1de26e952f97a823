package vector

import (
	"context"
)

// EmbeddingModel represents a generic embedding model interface
type EmbeddingModel interface {
	// GenerateEmbedding generates a vector embedding for the given text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// GetDimension returns the dimension of the embedding vectors
	GetDimension() int

	// GetModelName returns the name of the embedding model being used
	GetModelName() string
}
