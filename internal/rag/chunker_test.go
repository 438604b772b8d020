package rag

import (
	"strings"
	"testing"
)

func TestChunkTextShortContent(t *testing.T) {
	for _, text := range []string{"", "hi", "   hello   ", "0123456789012345678"} {
		if got := ChunkText(text, DefaultChunkSize, DefaultChunkOverlap); len(got) != 0 {
			t.Errorf("ChunkText(%q) = %d chunks, want none", text, len(got))
		}
	}
}

func TestChunkTextMinimumLength(t *testing.T) {
	text := "01234567890123456789" // exactly 20 runes
	got := ChunkText(text, DefaultChunkSize, DefaultChunkOverlap)
	if len(got) != 1 || got[0] != text {
		t.Errorf("expected single chunk equal to input, got %v", got)
	}
}

func TestChunkTextWindows(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 60)
	chunks := ChunkText(text, DefaultChunkSize, DefaultChunkOverlap)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if !strings.Contains(text, ch) {
			t.Errorf("chunk %d is not a substring of the source", i)
		}
		if len([]rune(ch)) > DefaultChunkSize {
			t.Errorf("chunk %d exceeds window size: %d runes", i, len([]rune(ch)))
		}
	}
}

func TestChunkTextAvoidsMidWordCut(t *testing.T) {
	// Words of length 9 + space; every window boundary lands mid-word,
	// so each chunk should end at a space-trimmed word boundary.
	text := strings.Repeat("abcdefghi ", 200)
	chunks := ChunkText(text, 95, 10)
	for i, ch := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(ch, "abcdefghi") {
			t.Errorf("chunk %d ends mid-word: %q", i, ch[len(ch)-12:])
		}
	}
}

func TestChunkTextTerminatesWithBadOverlap(t *testing.T) {
	text := strings.Repeat("x y z w v u t s r q p o n m l k ", 100)
	// overlap >= size must not loop forever or produce negative starts.
	chunks := ChunkText(text, 50, 50)
	if len(chunks) == 0 {
		t.Fatal("expected chunks despite degenerate overlap")
	}
	chunks = ChunkText(text, 50, 500)
	if len(chunks) == 0 {
		t.Fatal("expected chunks despite overlap larger than size")
	}
}

func TestChunkTextOverlapCarriesContext(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon ", 80)
	chunks := ChunkText(text, 200, 40)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// The tail of one window reappears at the head of the next.
	first := []rune(chunks[0])
	tail := strings.TrimSpace(string(first[len(first)-20:]))
	if !strings.Contains(chunks[1], strings.Fields(tail)[0]) {
		t.Errorf("expected overlap between consecutive chunks")
	}
}
