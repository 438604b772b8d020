package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/campushq/voicedesk/internal/embeddings"
)

// stubEmbedder produces a deterministic vector from the text contents,
// or a fixed vector per text when overrides are set.
type stubEmbedder struct {
	overrides map[string][]float32
	fail      bool
	calls     int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.calls++
	if s.fail {
		return nil, embeddings.ErrNotConfigured
	}
	if v, ok := s.overrides[text]; ok {
		return v, nil
	}
	vec := make([]float32, 4)
	for i, r := range text {
		vec[i%4] += float32(r % 97)
	}
	return vec, nil
}

func (s *stubEmbedder) Dimensions() int { return 4 }
func (s *stubEmbedder) Name() string    { return "stub" }

// memStore is an in-memory Store implementation for tests.
type memStore struct {
	docs map[string]*Document
}

func newMemStore(docs ...*Document) *memStore {
	m := &memStore{docs: make(map[string]*Document)}
	for _, d := range docs {
		m.docs[d.ID] = d
	}
	return m
}

func (m *memStore) Document(_ context.Context, id string) (*Document, error) {
	return m.docs[id], nil
}

func (m *memStore) IndexedDocuments(_ context.Context) ([]Document, error) {
	var out []Document
	for _, d := range m.docs {
		if len(d.Chunks) > 0 {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memStore) ReplaceChunks(_ context.Context, id string, chunks []Chunk) error {
	if d, ok := m.docs[id]; ok {
		d.Chunks = chunks
	}
	return nil
}

func TestIndexDocumentShortContent(t *testing.T) {
	svc := NewService(newMemStore(), &stubEmbedder{})
	res := svc.IndexDocument(context.Background(), &Document{ID: "d1", Content: "hi"})
	if res.Success {
		t.Fatal("expected failure for short content")
	}
	if !strings.Contains(strings.ToLower(res.Message), "short") {
		t.Errorf("message should mention shortness, got %q", res.Message)
	}
}

func TestIndexDocumentEmptyContent(t *testing.T) {
	svc := NewService(newMemStore(), &stubEmbedder{})
	res := svc.IndexDocument(context.Background(), &Document{ID: "d1", Content: "   "})
	if res.Success {
		t.Fatal("expected failure for empty content")
	}
	if !strings.Contains(strings.ToLower(res.Message), "empty") {
		t.Errorf("message should mention emptiness, got %q", res.Message)
	}
}

func TestIndexDocumentIdempotent(t *testing.T) {
	doc := &Document{ID: "d1", Content: strings.Repeat("admissions open for b.tech programs in july ", 40)}
	store := newMemStore(doc)
	svc := NewService(store, &stubEmbedder{})

	first := svc.IndexDocument(context.Background(), doc)
	if !first.Success {
		t.Fatalf("first index failed: %s", first.Message)
	}
	firstTexts := make([]string, len(doc.Chunks))
	for i, ch := range doc.Chunks {
		firstTexts[i] = ch.Text
	}

	second := svc.IndexDocument(context.Background(), doc)
	if !second.Success {
		t.Fatalf("second index failed: %s", second.Message)
	}
	if first.ChunksCount != second.ChunksCount {
		t.Errorf("chunk counts differ: %d vs %d", first.ChunksCount, second.ChunksCount)
	}
	for i, ch := range doc.Chunks {
		if ch.Text != firstTexts[i] {
			t.Errorf("chunk %d text changed between runs", i)
		}
	}
}

func TestIndexDocumentNoCredential(t *testing.T) {
	doc := &Document{ID: "d1", Content: strings.Repeat("hostel fees and accommodation details ", 30)}
	svc := NewService(newMemStore(doc), &stubEmbedder{fail: true})

	res := svc.IndexDocument(context.Background(), doc)
	if res.Success {
		t.Fatal("expected failure when every embedding fails")
	}
	if res.ChunksCount != 0 {
		t.Errorf("expected zero chunks, got %d", res.ChunksCount)
	}
	if !strings.Contains(res.Message, "API key") {
		t.Errorf("message should point at the credential, got %q", res.Message)
	}
}

func TestRetrieveRanksByBestProbe(t *testing.T) {
	probeA := []float32{1, 0, 0, 0}
	probeB := []float32{0, 1, 0, 0}

	doc := &Document{ID: "d1", Chunks: []Chunk{
		{Text: "chunk about hostels and nothing else", Embedding: []float32{0.9, 0.1, 0, 0}, Index: 0},
		{Text: "chunk about placements only", Embedding: []float32{0, 1, 0, 0}, Index: 1},
		{Text: "chunk vaguely about everything", Embedding: []float32{0.4, 0.4, 0.4, 0.4}, Index: 2},
	}}
	emb := &stubEmbedder{overrides: map[string][]float32{
		"hostel": probeA,
		"placement": probeB,
	}}
	svc := NewService(newMemStore(doc), emb)

	got, err := svc.Retrieve(context.Background(), []string{"hostel", "placement"}, 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	// The exact-match chunk must outrank the vague one even though the
	// vague one has similar average similarity across probes.
	if got[0] != "chunk about placements only" {
		t.Errorf("expected best single-probe match first, got %q", got[0])
	}
	if got[len(got)-1] != "chunk vaguely about everything" {
		t.Errorf("expected diluted chunk last, got %q", got[len(got)-1])
	}
}

func TestRetrieveTopKAndDedup(t *testing.T) {
	shared := strings.Repeat("a", 80)
	doc := &Document{ID: "d1"}
	for i := 0; i < 30; i++ {
		text := shared + " tail"
		if i >= 15 {
			text = strings.Repeat("b", 80) + " other"
		}
		doc.Chunks = append(doc.Chunks, Chunk{
			Text:      text,
			Embedding: []float32{1, 0, 0, float32(i) / 100},
			Index:     i,
		})
	}
	svc := NewService(newMemStore(doc), &stubEmbedder{})

	got, err := svc.Retrieve(context.Background(), []string{"anything"}, 5)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) > 5 {
		t.Errorf("topK not honored: got %d results", len(got))
	}
	seen := make(map[string]bool)
	for _, text := range got {
		key := text
		if len(key) > 80 {
			key = key[:80]
		}
		if seen[key] {
			t.Errorf("duplicate 80-char prefix in results: %q", key)
		}
		seen[key] = true
	}
	if len(got) != 2 {
		t.Errorf("expected 2 deduped results, got %d", len(got))
	}
}

func TestRetrieveNoWorkingProbes(t *testing.T) {
	doc := &Document{ID: "d1", Chunks: []Chunk{{Text: "something", Embedding: []float32{1, 0, 0, 0}}}}
	svc := NewService(newMemStore(doc), &stubEmbedder{fail: true})

	got, err := svc.Retrieve(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result with no working probes, got %d", len(got))
	}
}

func TestRetrieveNoIndexedDocuments(t *testing.T) {
	svc := NewService(newMemStore(&Document{ID: "d1"}), &stubEmbedder{})
	got, err := svc.Retrieve(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result without indexed documents, got %d", len(got))
	}
}
