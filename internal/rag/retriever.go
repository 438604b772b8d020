package rag

import (
	"context"
	"log"
	"sort"
)

// SeedQueries are the fixed topic probes used to pull generally
// relevant chunks for prompt enrichment without a concrete question.
var SeedQueries = []string{
	"courses fees eligibility duration",
	"admission process how to apply",
	"hostel accommodation fees",
	"founder chairman director leadership",
	"placement recruitment campus drive",
	"facilities library lab campus",
	"contact address phone email",
	"wifi password internet network guest campus",
	"exam schedule timetable dates",
	"events fest cultural sports",
}

// DefaultTopK is the number of chunks retrieved for enrichment.
const DefaultTopK = 18

// dedupePrefixLen keys near-duplicate chunks by their leading runes.
const dedupePrefixLen = 80

type scoredChunk struct {
	text  string
	score float64
}

// Retrieve embeds each probe query, scores every stored chunk by its
// best match against any probe, and returns up to topK deduplicated
// chunk texts in descending score order. A chunk that strongly matches
// one topic wins over a chunk that weakly matches all of them.
func (s *Service) Retrieve(ctx context.Context, queries []string, topK int) ([]string, error) {
	if len(queries) == 0 {
		queries = SeedQueries
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	docs, err := s.store.IndexedDocuments(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	var probes [][]float32
	for _, q := range queries {
		emb, err := s.embedder.Embed(ctx, q)
		if err != nil {
			log.Printf("rag: probe embedding failed for %q: %v", q, err)
			continue
		}
		probes = append(probes, emb)
	}
	if len(probes) == 0 {
		return nil, nil
	}

	var scored []scoredChunk
	for _, doc := range docs {
		for _, ch := range doc.Chunks {
			if len(ch.Embedding) == 0 {
				continue
			}
			var best float64
			for _, probe := range probes {
				if sim := CosineSimilarity(ch.Embedding, probe); sim > best {
					best = sim
				}
			}
			scored = append(scored, scoredChunk{text: ch.Text, score: best})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	seen := make(map[string]bool)
	var result []string
	for _, item := range scored {
		key := prefixKey(item.text)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, item.text)
		if len(result) >= topK {
			break
		}
	}
	return result, nil
}

func prefixKey(text string) string {
	runes := []rune(text)
	if len(runes) > dedupePrefixLen {
		runes = runes[:dedupePrefixLen]
	}
	return string(runes)
}
