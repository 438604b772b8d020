package livedata

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Notice is a single scraped announcement from the college website.
type Notice struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Link  string `json:"link,omitempty"`
}

const (
	cacheTTL   = 30 * time.Minute
	maxNotices = 20
	userAgent  = "Mozilla/5.0 (compatible; VoiceDeskBot/1.0)"
)

// Fetcher scrapes the college notice board and caches the result so a
// burst of calls does not hammer the website. On fetch failure it
// serves the stale cache rather than nothing.
type Fetcher struct {
	client *http.Client

	mu        sync.Mutex
	cached    []Notice
	cachedURL string
	fetchedAt time.Time
}

// NewFetcher creates a Fetcher with a bounded request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: 10 * time.Second}}
}

// Fetch returns notices for url, served from cache when fresh.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Notice, error) {
	if url == "" {
		return nil, nil
	}

	f.mu.Lock()
	if f.cachedURL == url && time.Since(f.fetchedAt) < cacheTTL {
		notices := f.cached
		f.mu.Unlock()
		return notices, nil
	}
	f.mu.Unlock()

	notices, err := f.scrape(ctx, url)
	if err != nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.cachedURL == url && f.cached != nil {
			log.Printf("live data fetch failed, serving stale cache: %v", err)
			return f.cached, nil
		}
		return nil, err
	}

	f.mu.Lock()
	f.cached = notices
	f.cachedURL = url
	f.fetchedAt = time.Now()
	f.mu.Unlock()
	return notices, nil
}

// ClearCache drops the cached notices so the next Fetch hits the site.
func (f *Fetcher) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cached = nil
	f.cachedURL = ""
	f.fetchedAt = time.Time{}
}

func (f *Fetcher) scrape(ctx context.Context, url string) ([]Notice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return parseNotices(doc), nil
}

// parseNotices extracts notices from a notice-board table: first cell
// is the date, second cell holds the title (preferring its first
// anchor). If no table rows yield anything, it falls back to scanning
// for document links anywhere on the page.
func parseNotices(doc *goquery.Document) []Notice {
	var notices []Notice
	doc.Find("table tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}
		date := strings.TrimSpace(cells.Eq(0).Text())
		titleCell := cells.Eq(1)

		var title, link string
		if a := titleCell.Find("a").First(); a.Length() > 0 {
			title = strings.TrimSpace(a.Text())
			link, _ = a.Attr("href")
		}
		if title == "" {
			title = strings.TrimSpace(titleCell.Text())
		}
		if title == "" {
			return true
		}
		notices = append(notices, Notice{Date: date, Title: title, Link: link})
		return len(notices) < maxNotices
	})
	if len(notices) > 0 {
		return notices
	}

	doc.Find(`a[href*="drive.google.com"], a[href*=".pdf"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		title := strings.TrimSpace(a.Text())
		if len(title) < 5 || len(title) > 200 {
			return true
		}
		link, _ := a.Attr("href")
		notices = append(notices, Notice{Title: title, Link: link})
		return len(notices) < maxNotices
	})
	return notices
}
