package leads

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the admin-only lead endpoints.
func RegisterRoutes(r chi.Router, store *Store, syncer *Syncer) {
	r.Get("/api/leads", handleList(store))
	r.Post("/api/leads", handleCreate(store))
	r.Post("/api/leads/sync-from-vapi", handleSync(syncer))
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		filter := ListFilter{
			From:   q.Get("from"),
			To:     q.Get("to"),
			Search: q.Get("search"),
			Limit:  limit,
		}
		list, total, err := store.List(r.Context(), filter)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []Lead{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"leads": list, "total": total})
	}
}

// handleCreate accepts leads from the public enquiry form.
func handleCreate(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var lead Lead
		if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if lead.FullName == "" {
			http.Error(w, `{"error":"fullName is required"}`, http.StatusBadRequest)
			return
		}
		lead.ID = ""
		lead.Source = "web"
		if err := store.Insert(r.Context(), &lead); err != nil {
			status := http.StatusInternalServerError
			if err == ErrDuplicateCall {
				status = http.StatusConflict
			}
			http.Error(w, `{"error":"`+err.Error()+`"}`, status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(lead)
	}
}

func handleSync(syncer *Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := syncer.Sync(r.Context())
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}
