package livedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const noticeTable = `<html><body><table>
<tr><th>Date</th><th>Notice</th></tr>
<tr><td>2025-06-01</td><td><a href="/n/exam.pdf">Semester exam schedule</a></td></tr>
<tr><td>2025-05-20</td><td>Hostel fee reminder</td></tr>
</table></body></html>`

const linkOnlyPage = `<html><body>
<p><a href="https://drive.google.com/file/d/abc">Admission brochure 2025</a></p>
<p><a href="/tiny.pdf">x</a></p>
<p><a href="/syllabus.pdf">B.Tech CSE syllabus</a></p>
</body></html>`

func TestFetchParsesNoticeTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(noticeTable))
	}))
	defer srv.Close()

	f := NewFetcher()
	notices, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(notices) != 2 {
		t.Fatalf("expected 2 notices, got %d: %+v", len(notices), notices)
	}
	if notices[0].Date != "2025-06-01" || notices[0].Title != "Semester exam schedule" || notices[0].Link != "/n/exam.pdf" {
		t.Errorf("first notice = %+v", notices[0])
	}
	if notices[1].Title != "Hostel fee reminder" || notices[1].Link != "" {
		t.Errorf("second notice = %+v", notices[1])
	}
}

func TestFetchFallsBackToDocumentLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(linkOnlyPage))
	}))
	defer srv.Close()

	notices, err := NewFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(notices) != 2 {
		t.Fatalf("expected 2 notices (short title skipped), got %d: %+v", len(notices), notices)
	}
	if notices[0].Title != "Admission brochure 2025" {
		t.Errorf("first notice = %+v", notices[0])
	}
}

func TestFetchUsesCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(noticeTable))
	}))
	defer srv.Close()

	f := NewFetcher()
	for i := 0; i < 3; i++ {
		if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 upstream hit, got %d", got)
	}

	f.ClearCache()
	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch after ClearCache: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("expected cache miss after clear, got %d hits", got)
	}
}

func TestFetchServesStaleCacheOnError(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(noticeTable))
	}))
	defer srv.Close()

	f := NewFetcher()
	if _, err := f.Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("priming fetch: %v", err)
	}

	fail.Store(true)
	f.mu.Lock()
	f.fetchedAt = f.fetchedAt.Add(-cacheTTL - 1)
	f.mu.Unlock()

	notices, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("expected stale cache, got error: %v", err)
	}
	if len(notices) != 2 {
		t.Errorf("expected stale notices, got %+v", notices)
	}
}

func TestFetchEmptyURL(t *testing.T) {
	notices, err := NewFetcher().Fetch(context.Background(), "")
	if err != nil || notices != nil {
		t.Errorf("empty URL should be a no-op, got %v, %v", notices, err)
	}
}
