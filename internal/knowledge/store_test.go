package knowledge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campushq/voicedesk/internal/db"
	"github.com/campushq/voicedesk/internal/embeddings"
	"github.com/campushq/voicedesk/internal/rag"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc, err := store.Create(ctx, "WiFi Access", "The campus WiFi password is eagle2026.", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("expected generated ID")
	}
	if doc.Source != "manual" {
		t.Errorf("default source = %q, want manual", doc.Source)
	}

	got, err := store.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Title != "WiFi Access" || got.ChunkCount != 0 {
		t.Errorf("got = %+v", got)
	}
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)
	got, err := store.Get(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing document, got %+v", got)
	}
}

func TestListOrdersByRecency(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older, _ := store.Create(ctx, "Exam Schedule", "Semester exams begin on 10 December.", "upload")
	time.Sleep(10 * time.Millisecond)
	newer, _ := store.Create(ctx, "Hostel Rules", "Gates close at 10pm.", "manual")

	docs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len = %d", len(docs))
	}
	if docs[0].ID != newer.ID || docs[1].ID != older.ID {
		t.Errorf("expected newest first, got %s then %s", docs[0].Title, docs[1].Title)
	}
}

func TestUpdateMissingReturnsNil(t *testing.T) {
	store := newTestStore(t)
	doc, err := store.Update(context.Background(), "no-such-id", "t", "c")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if doc != nil {
		t.Errorf("expected nil, got %+v", doc)
	}
}

func TestReplaceChunksRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc, _ := store.Create(ctx, "Fees", "Tuition fees are due each semester.", "")
	chunks := []rag.Chunk{
		{Index: 0, Text: "Tuition fees are due", Embedding: []float32{0.1, 0.2}},
		{Index: 1, Text: "each semester.", Embedding: []float32{0.3, 0.4}},
	}
	if err := store.ReplaceChunks(ctx, doc.ID, chunks); err != nil {
		t.Fatalf("ReplaceChunks: %v", err)
	}

	ragDoc, err := store.Document(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if len(ragDoc.Chunks) != 2 || ragDoc.Chunks[1].Text != "each semester." {
		t.Errorf("chunks = %+v", ragDoc.Chunks)
	}
	if ragDoc.Chunks[0].Embedding[1] != 0.2 {
		t.Errorf("embedding not preserved: %+v", ragDoc.Chunks[0].Embedding)
	}

	// Replacing again swaps rather than appends.
	if err := store.ReplaceChunks(ctx, doc.ID, chunks[:1]); err != nil {
		t.Fatalf("ReplaceChunks again: %v", err)
	}
	got, _ := store.Get(ctx, doc.ID)
	if got.ChunkCount != 1 {
		t.Errorf("chunk count = %d, want 1", got.ChunkCount)
	}
}

func TestIndexedDocumentsSkipsUnchunked(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	chunked, _ := store.Create(ctx, "Library", "Open 8am to 8pm on weekdays.", "")
	store.Create(ctx, "Draft", "Not yet indexed.", "")
	store.ReplaceChunks(ctx, chunked.ID, []rag.Chunk{{Index: 0, Text: "Open 8am to 8pm", Embedding: []float32{1}}})

	docs, err := store.IndexedDocuments(ctx)
	if err != nil {
		t.Fatalf("IndexedDocuments: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != chunked.ID {
		t.Errorf("docs = %+v", docs)
	}
}

func TestDeleteCascadesChunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc, _ := store.Create(ctx, "Events", "Tech fest in March.", "")
	store.ReplaceChunks(ctx, doc.ID, []rag.Chunk{{Index: 0, Text: "Tech fest", Embedding: []float32{1}}})

	if err := store.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ragDoc, err := store.Document(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if ragDoc != nil {
		t.Errorf("document survived delete: %+v", ragDoc)
	}
}

func newTestRouter(t *testing.T) (*chi.Mux, *Store) {
	t.Helper()
	store := newTestStore(t)
	svc := rag.NewService(store, embeddings.NewOpenAIEmbedder("", embeddings.ModelTextEmbedding3Small))
	r := chi.NewRouter()
	RegisterRoutes(r, store, svc)
	return r, store
}

func TestPreviewRendersMarkdown(t *testing.T) {
	router, store := newTestRouter(t)
	doc, _ := store.Create(context.Background(), "Hostel", "# Hostel Rules\n\nGates close at **10pm**.", "")

	req := httptest.NewRequest(http.MethodGet, "/api/knowledge/"+doc.ID+"/preview", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<h1") || !strings.Contains(body, "<strong>10pm</strong>") {
		t.Errorf("rendered html = %q", body)
	}
}

func TestPreviewMissingDocument(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/knowledge/no-such-id/preview", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCreateRouteValidation(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/knowledge/", strings.NewReader(`{"title":"","content":""}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
