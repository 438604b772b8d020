package knowledge

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/campushq/voicedesk/internal/rag"
)

// RegisterRoutes mounts the knowledge base admin API.
func RegisterRoutes(r chi.Router, store *Store, svc *rag.Service) {
	r.Route("/api/knowledge", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Post("/", handleCreate(store, svc))
		r.Get("/retrieval-preview", handleRetrievalPreview(svc))
		r.Put("/{id}", handleUpdate(store, svc))
		r.Delete("/{id}", handleDelete(store))
		r.Post("/{id}/reindex", handleReindex(svc))
		r.Get("/{id}/preview", handlePreview(store))
	})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := store.List(r.Context())
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if docs == nil {
			docs = []Document{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(docs)
	}
}

type documentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

func handleCreate(store *Store, svc *rag.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req documentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Title == "" || req.Content == "" {
			http.Error(w, `{"error":"title and content required"}`, http.StatusBadRequest)
			return
		}

		doc, err := store.Create(r.Context(), req.Title, req.Content, req.Source)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		res := svc.IndexByID(r.Context(), doc.ID)
		if !res.Success {
			http.Error(w, `{"error":"`+res.Message+`"}`, http.StatusBadRequest)
			return
		}

		updated, err := store.Get(r.Context(), doc.ID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func handleUpdate(store *Store, svc *rag.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req documentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		doc, err := store.Update(r.Context(), id, req.Title, req.Content)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if doc == nil {
			http.Error(w, `{"error":"document not found"}`, http.StatusNotFound)
			return
		}

		res := svc.IndexByID(r.Context(), id)
		if !res.Success {
			http.Error(w, `{"error":"`+res.Message+`"}`, http.StatusBadRequest)
			return
		}

		updated, err := store.Get(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}
}

func handleReindex(svc *rag.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := svc.IndexByID(r.Context(), chi.URLParam(r, "id"))
		w.Header().Set("Content-Type", "application/json")
		if !res.Success {
			w.WriteHeader(http.StatusBadRequest)
		}
		json.NewEncoder(w).Encode(res)
	}
}

func handleRetrievalPreview(svc *rag.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chunks, err := svc.Retrieve(r.Context(), nil, 0)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if chunks == nil {
			chunks = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"chunks": chunks, "count": len(chunks)})
	}
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// handlePreview renders the document content as HTML for the admin UI.
func handlePreview(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if doc == nil {
			http.Error(w, `{"error":"document not found"}`, http.StatusNotFound)
			return
		}

		var buf bytes.Buffer
		if err := markdown.Convert([]byte(doc.Content), &buf); err != nil {
			http.Error(w, `{"error":"rendering failed"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	}
}
