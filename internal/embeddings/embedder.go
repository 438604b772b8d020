package embeddings

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when the embedding credential is absent
// or malformed. Callers treat it as "embeddings unavailable" and skip
// the item rather than failing the pipeline.
var ErrNotConfigured = errors.New("embedding credential not configured")

// Embedder defines the interface for generating text embeddings.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}
