package college

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterPublicRoutes mounts the unauthenticated college profile read.
func RegisterPublicRoutes(r chi.Router, store *Store) {
	r.Get("/api/college", handleGet(store))
}

// RegisterAdminRoutes mounts the profile write behind the admin guard.
func RegisterAdminRoutes(r chi.Router, store *Store) {
	r.Put("/api/college", handleUpdate(store))
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := store.Get(r.Context())
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if info == nil {
			w.Write([]byte("null"))
			return
		}
		json.NewEncoder(w).Encode(info)
	}
}

func handleUpdate(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var info Info
		if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if err := store.Upsert(r.Context(), &info); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(info)
	}
}
