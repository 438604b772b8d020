package rag

import "strings"

const (
	// DefaultChunkSize is the window length in runes.
	DefaultChunkSize = 600
	// DefaultChunkOverlap is carried from the end of one window into the next.
	DefaultChunkOverlap = 80

	// minChunkableLength rejects content too short to retrieve meaningfully.
	minChunkableLength = 20
)

// ChunkText splits text into overlapping windows of roughly size runes.
// A window that would end mid-word is cut back to the nearest preceding
// space, as long as that space is past the window's midpoint. Returns
// nil when the trimmed text is shorter than 20 runes.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) < minChunkableLength {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}

		slice := runes[start:end]
		if end < len(runes) {
			if cut := lastIndexSpace(slice); cut > size/2 {
				slice = slice[:cut+1]
			}
		}
		if s := strings.TrimSpace(string(slice)); s != "" {
			chunks = append(chunks, s)
		}

		if end >= len(runes) {
			break
		}
		next := end - overlap
		if next <= start {
			// overlap >= size would stall the window; give up the
			// overlap rather than loop forever.
			next = end
		}
		if next < 0 {
			next = 0
		}
		start = next
	}
	return chunks
}

func lastIndexSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
