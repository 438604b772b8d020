package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campushq/voicedesk/internal/agent"
	"github.com/campushq/voicedesk/internal/calls"
	"github.com/campushq/voicedesk/internal/college"
	"github.com/campushq/voicedesk/internal/db"
	"github.com/campushq/voicedesk/internal/embeddings"
	"github.com/campushq/voicedesk/internal/enrich"
	"github.com/campushq/voicedesk/internal/knowledge"
	"github.com/campushq/voicedesk/internal/leads"
	"github.com/campushq/voicedesk/internal/live"
	"github.com/campushq/voicedesk/internal/rag"
	"github.com/campushq/voicedesk/internal/templates"
	"github.com/campushq/voicedesk/internal/vapi"
	"github.com/campushq/voicedesk/internal/webhook"
)

func testServer(t *testing.T, adminToken string) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	collegeStore := college.NewStore(database)
	agentStore := agent.NewStore(database)
	knowledgeStore := knowledge.NewStore(database)
	leadStore := leads.NewStore(database)
	callStore := calls.NewStore(database)
	templateStore := templates.NewStore(database)
	embedder := embeddings.NewOpenAIEmbedder("", embeddings.ModelTextEmbedding3Small)
	ragService := rag.NewService(knowledgeStore, embedder)
	client := vapi.NewClient("")
	enricher := enrich.New(nil, ragService)
	hub := live.NewHub()

	return New(Config{Port: 0, AdminToken: adminToken}, Deps{
		College:   collegeStore,
		Agent:     agentStore,
		Knowledge: knowledgeStore,
		Leads:     leadStore,
		Calls:     callStore,
		Templates: templateStore,
		RAG:       ragService,
		Vapi:      client,
		VapiSync:  vapi.NewSyncer(client, "", collegeStore, agentStore, enricher),
		LeadSync:  leads.NewSyncer(leadStore, client),
		Webhook: webhook.NewHandler(collegeStore, agentStore, leadStore, callStore,
			enricher, nil, templateStore, hub, ""),
		Hub: hub,
	})
}

func TestHealthCheck(t *testing.T) {
	srv := testServer(t, "")

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestPublicRoutesOpen(t *testing.T) {
	srv := testServer(t, "tok")

	req := httptest.NewRequest("GET", "/api/college", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("public college read: status = %d", w.Code)
	}
}

func TestAdminRoutesGuarded(t *testing.T) {
	srv := testServer(t, "tok")

	req := httptest.NewRequest("GET", "/api/leads", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated admin read: status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authenticated admin read: status = %d, want 200", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := testServer(t, "")

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}
