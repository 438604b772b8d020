package embeddings

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// maxInputChars bounds the text sent per embedding request, matching
// the documented input limit of the small embedding models.
const maxInputChars = 8000

// OpenAIModel represents a supported OpenAI embedding model.
type OpenAIModel string

const (
	ModelTextEmbedding3Small OpenAIModel = "text-embedding-3-small"
	ModelTextEmbedding3Large OpenAIModel = "text-embedding-3-large"
)

func (m OpenAIModel) dimensions() int {
	switch m {
	case ModelTextEmbedding3Small:
		return 1536
	case ModelTextEmbedding3Large:
		return 3072
	default:
		return 1536
	}
}

// OpenAIEmbedder generates embeddings using OpenAI's API. A missing or
// malformed API key yields ErrNotConfigured from Embed instead of a
// construction failure, so the rest of the service keeps running with
// embeddings disabled.
type OpenAIEmbedder struct {
	client *openai.Client
	model  OpenAIModel
}

// NewOpenAIEmbedder creates a new OpenAI embedder with the given API key and model.
func NewOpenAIEmbedder(apiKey string, model OpenAIModel) *OpenAIEmbedder {
	e := &OpenAIEmbedder{model: model}
	if strings.HasPrefix(apiKey, "sk-") {
		e.client = openai.NewClient(apiKey)
	}
	return e
}

func (e *OpenAIEmbedder) Name() string {
	return string(e.model)
}

func (e *OpenAIEmbedder) Dimensions() int {
	return e.model.dimensions()
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.client == nil {
		return nil, ErrNotConfigured
	}

	if len(text) > maxInputChars {
		text = text[:maxInputChars]
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding request failed: %w", err)
	}

	if len(resp.Data) != 1 {
		return nil, fmt.Errorf("openai returned %d embeddings, expected 1", len(resp.Data))
	}

	return resp.Data[0].Embedding, nil
}
