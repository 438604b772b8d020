package rag

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/campushq/voicedesk/internal/embeddings"
)

// Service chunks, embeds and retrieves knowledge documents.
type Service struct {
	store    Store
	embedder embeddings.Embedder
}

// NewService creates a RAG service over the given store and embedder.
func NewService(store Store, embedder embeddings.Embedder) *Service {
	return &Service{store: store, embedder: embedder}
}

// IndexDocument chunks the document's content, embeds each chunk, and
// replaces the stored chunk list. Chunks whose embedding fails are
// skipped; the operation succeeds as long as at least one chunk embeds.
func (s *Service) IndexDocument(ctx context.Context, doc *Document) IndexResult {
	if doc == nil {
		return IndexResult{Success: false, Message: "Document not found"}
	}

	texts := ChunkText(doc.Content, DefaultChunkSize, DefaultChunkOverlap)
	if len(texts) == 0 {
		return IndexResult{Success: false, Message: emptyContentReason(doc.Content)}
	}

	var chunks []Chunk
	for i, text := range texts {
		emb, err := s.embedder.Embed(ctx, text)
		if err != nil {
			log.Printf("rag: embedding chunk %d of %q failed: %v", i, doc.Title, err)
			continue
		}
		chunks = append(chunks, Chunk{Text: text, Embedding: emb, Index: i})
	}

	if len(chunks) == 0 {
		return IndexResult{
			Success: false,
			Message: "Embeddings failed for every chunk. Check the OpenAI API key configuration and retry.",
		}
	}

	if err := s.store.ReplaceChunks(ctx, doc.ID, chunks); err != nil {
		return IndexResult{Success: false, Message: fmt.Sprintf("Storing chunks failed: %v", err)}
	}

	return IndexResult{Success: true, ChunksCount: len(chunks)}
}

// IndexByID loads the document and indexes it.
func (s *Service) IndexByID(ctx context.Context, id string) IndexResult {
	doc, err := s.store.Document(ctx, id)
	if err != nil {
		return IndexResult{Success: false, Message: fmt.Sprintf("Loading document failed: %v", err)}
	}
	return s.IndexDocument(ctx, doc)
}

// emptyContentReason explains why no chunks could be produced. The
// message is shown to the admin who entered the content.
func emptyContentReason(content string) string {
	trimmed := strings.TrimSpace(content)
	switch {
	case trimmed == "":
		return "Content is empty"
	case len([]rune(trimmed)) < minChunkableLength:
		return "Content too short (need at least 20 characters)"
	default:
		return "Could not create chunks"
	}
}
