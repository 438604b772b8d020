package knowledge

import "time"

// Document is a knowledge base entry maintained by admins. Chunks are
// derived from Content by the RAG indexer and are not edited directly.
type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Source     string    `json:"source"`
	ChunkCount int       `json:"chunkCount"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
