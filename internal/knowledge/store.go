package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/voicedesk/internal/db"
	"github.com/campushq/voicedesk/internal/rag"
)

// Store manages persistence of knowledge documents and their chunks.
// It implements rag.Store.
type Store struct {
	db *db.DB
}

// NewStore creates a knowledge document store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// List returns all documents, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.title, d.content, d.source, d.updated_at,
		        (SELECT COUNT(*) FROM knowledge_chunks c WHERE c.document_id = d.id)
		 FROM knowledge_documents d
		 ORDER BY d.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.Source, &d.UpdatedAt, &d.ChunkCount); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Get retrieves a document by ID, or nil if absent.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	var d Document
	err := s.db.QueryRowContext(ctx,
		`SELECT d.id, d.title, d.content, d.source, d.updated_at,
		        (SELECT COUNT(*) FROM knowledge_chunks c WHERE c.document_id = d.id)
		 FROM knowledge_documents d WHERE d.id = ?`, id,
	).Scan(&d.ID, &d.Title, &d.Content, &d.Source, &d.UpdatedAt, &d.ChunkCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return &d, nil
}

// Create inserts a new document without chunks.
func (s *Store) Create(ctx context.Context, title, content, source string) (*Document, error) {
	if source == "" {
		source = "manual"
	}
	d := Document{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		Source:    source,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO knowledge_documents (id, title, content, source, updated_at) VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Title, d.Content, d.Source, d.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting document: %w", err)
	}
	return &d, nil
}

// Update replaces a document's title and content. The chunk list is
// left untouched; callers reindex afterwards to restore consistency.
func (s *Store) Update(ctx context.Context, id, title, content string) (*Document, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE knowledge_documents SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		title, content, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.Get(ctx, id)
}

// Delete removes a document and, via the FK cascade, its chunks.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM knowledge_documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// Document implements rag.Store.
func (s *Store) Document(ctx context.Context, id string) (*rag.Document, error) {
	d, err := s.Get(ctx, id)
	if err != nil || d == nil {
		return nil, err
	}
	chunks, err := s.chunks(ctx, id)
	if err != nil {
		return nil, err
	}
	return &rag.Document{ID: d.ID, Title: d.Title, Content: d.Content, Chunks: chunks}, nil
}

// IndexedDocuments implements rag.Store: all documents with at least one chunk.
func (s *Store) IndexedDocuments(ctx context.Context) ([]rag.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT d.id, d.title, d.content
		 FROM knowledge_documents d
		 JOIN knowledge_chunks c ON c.document_id = d.id`)
	if err != nil {
		return nil, fmt.Errorf("listing indexed documents: %w", err)
	}
	defer rows.Close()

	var docs []rag.Document
	for rows.Next() {
		var d rag.Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Content); err != nil {
			return nil, fmt.Errorf("scanning indexed document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range docs {
		chunks, err := s.chunks(ctx, docs[i].ID)
		if err != nil {
			return nil, err
		}
		docs[i].Chunks = chunks
	}
	return docs, nil
}

// ReplaceChunks implements rag.Store: the chunk list is swapped in one
// transaction so readers never observe a half-indexed document.
func (s *Store) ReplaceChunks(ctx context.Context, docID string, chunks []rag.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning chunk replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM knowledge_chunks WHERE document_id = ?`, docID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	for _, ch := range chunks {
		emb, err := json.Marshal(ch.Embedding)
		if err != nil {
			return fmt.Errorf("encoding embedding: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO knowledge_chunks (document_id, idx, text, embedding) VALUES (?, ?, ?, ?)`,
			docID, ch.Index, ch.Text, string(emb),
		); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", ch.Index, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE knowledge_documents SET updated_at = ? WHERE id = ?`,
		time.Now().UTC(), docID,
	); err != nil {
		return fmt.Errorf("bumping updated_at: %w", err)
	}
	return tx.Commit()
}

func (s *Store) chunks(ctx context.Context, docID string) ([]rag.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, text, embedding FROM knowledge_chunks WHERE document_id = ? ORDER BY idx`, docID)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}
	defer rows.Close()

	var chunks []rag.Chunk
	for rows.Next() {
		var ch rag.Chunk
		var emb string
		if err := rows.Scan(&ch.Index, &ch.Text, &emb); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(emb), &ch.Embedding); err != nil {
			return nil, fmt.Errorf("decoding embedding: %w", err)
		}
		chunks = append(chunks, ch)
	}
	return chunks, rows.Err()
}
