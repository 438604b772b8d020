package embeddings

import (
	"context"
	"errors"
	"testing"
)

func TestMissingCredentialFailsSoft(t *testing.T) {
	for _, key := range []string{"", "not-a-key", "bearer xyz"} {
		e := NewOpenAIEmbedder(key, ModelTextEmbedding3Small)
		vec, err := e.Embed(context.Background(), "hello")
		if !errors.Is(err, ErrNotConfigured) {
			t.Errorf("key %q: expected ErrNotConfigured, got %v", key, err)
		}
		if vec != nil {
			t.Errorf("key %q: expected nil vector, got %d dims", key, len(vec))
		}
	}
}

func TestDimensions(t *testing.T) {
	if d := NewOpenAIEmbedder("", ModelTextEmbedding3Small).Dimensions(); d != 1536 {
		t.Errorf("expected 1536 dims, got %d", d)
	}
	if d := NewOpenAIEmbedder("", ModelTextEmbedding3Large).Dimensions(); d != 3072 {
		t.Errorf("expected 3072 dims, got %d", d)
	}
}
