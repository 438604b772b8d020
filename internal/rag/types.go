package rag

import "context"

// Chunk is a bounded slice of a document with its embedding vector.
// Index is the chunk's position within the source content at the time
// of indexing.
type Chunk struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// Document is the indexer's view of a knowledge document.
type Document struct {
	ID      string
	Title   string
	Content string
	Chunks  []Chunk
}

// IndexResult reports the outcome of indexing a document. Message is
// human-readable and surfaced to the admin UI on failure.
type IndexResult struct {
	Success     bool   `json:"success"`
	ChunksCount int    `json:"chunksCount"`
	Message     string `json:"message,omitempty"`
}

// Store is the persistence interface the RAG service depends on.
type Store interface {
	// Document returns the document with the given ID, or nil if absent.
	Document(ctx context.Context, id string) (*Document, error)

	// IndexedDocuments returns all documents that have at least one chunk.
	IndexedDocuments(ctx context.Context) ([]Document, error)

	// ReplaceChunks atomically replaces a document's chunk list and
	// bumps its updated-at timestamp.
	ReplaceChunks(ctx context.Context, docID string, chunks []Chunk) error
}
