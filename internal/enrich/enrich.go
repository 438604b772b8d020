package enrich

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/campushq/voicedesk/internal/livedata"
)

const (
	liveTimeout = 4 * time.Second
	ragTimeout  = 5 * time.Second
	maxNotices  = 12
)

// NoticeFetcher provides scraped website notices.
type NoticeFetcher interface {
	Fetch(ctx context.Context, url string) ([]livedata.Notice, error)
}

// ChunkRetriever provides relevant knowledge base chunks.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, queries []string, topK int) ([]string, error)
}

// Context holds the dynamic blocks appended to the system prompt.
// Either block may be empty; enrichment never fails the caller.
type Context struct {
	LiveNoticesText string
	RAGChunksText   string
}

// Enricher gathers live website notices and knowledge chunks ahead of
// an assistant sync or request.
type Enricher struct {
	notices NoticeFetcher
	chunks  ChunkRetriever
}

func New(notices NoticeFetcher, chunks ChunkRetriever) *Enricher {
	return &Enricher{notices: notices, chunks: chunks}
}

// Enrich fetches both blocks concurrently, each under its own
// deadline. A slow or failing source degrades to an empty block so
// prompt assembly is never blocked on the website or the embedder.
func (e *Enricher) Enrich(ctx context.Context, liveDataURL string, ragEnabled bool) Context {
	var out Context
	liveCh := make(chan string, 1)
	ragCh := make(chan string, 1)

	go func() {
		if liveDataURL == "" || e.notices == nil {
			liveCh <- ""
			return
		}
		fctx, cancel := context.WithTimeout(ctx, liveTimeout)
		defer cancel()
		notices, err := e.notices.Fetch(fctx, liveDataURL)
		if err != nil {
			log.Printf("prompt enrichment: live data fetch failed: %v", err)
			liveCh <- ""
			return
		}
		liveCh <- formatNotices(notices)
	}()

	go func() {
		if !ragEnabled || e.chunks == nil {
			ragCh <- ""
			return
		}
		rctx, cancel := context.WithTimeout(ctx, ragTimeout)
		defer cancel()
		chunks, err := e.chunks.Retrieve(rctx, nil, 0)
		if err != nil {
			log.Printf("prompt enrichment: retrieval failed: %v", err)
			ragCh <- ""
			return
		}
		ragCh <- formatChunks(chunks)
	}()

	out.LiveNoticesText = <-liveCh
	out.RAGChunksText = <-ragCh
	return out
}

func formatNotices(notices []livedata.Notice) string {
	if len(notices) == 0 {
		return ""
	}
	if len(notices) > maxNotices {
		notices = notices[:maxNotices]
	}
	var sb strings.Builder
	sb.WriteString("\n### Recent Notices & Events (from college website):\n")
	for _, n := range notices {
		if n.Date != "" {
			fmt.Fprintf(&sb, "• %s: %s\n", n.Date, n.Title)
		} else {
			fmt.Fprintf(&sb, "• %s\n", n.Title)
		}
	}
	return sb.String()
}

func formatChunks(chunks []string) string {
	if len(chunks) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n### Additional Knowledge (from documents - use this when caller asks about WiFi, password, exam dates, events, or any topic listed):\n")
	for _, c := range chunks {
		fmt.Fprintf(&sb, "• %s\n", c)
	}
	return sb.String()
}
