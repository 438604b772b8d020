package vapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the admin-only voice-platform endpoints.
func RegisterRoutes(r chi.Router, client *Client, assistantID string, syncer *Syncer) {
	r.Route("/api/vapi", func(r chi.Router) {
		r.Post("/sync", handleSync(syncer))
		r.Get("/assistant", handleAssistant(client, assistantID))
		r.Get("/calls", handleCalls(client))
		r.Get("/phone-numbers", handlePhoneNumbers(client))
	})
}

func handleSync(syncer *Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := syncer.Sync(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if !res.Success {
			w.WriteHeader(http.StatusBadRequest)
		}
		json.NewEncoder(w).Encode(res)
	}
}

func handleAssistant(client *Client, assistantID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !client.Configured() || assistantID == "" {
			http.Error(w, `{"error":"Vapi credentials not configured"}`, http.StatusBadRequest)
			return
		}
		assistant, err := client.GetAssistant(r.Context(), assistantID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(assistant)
	}
}

func handleCalls(client *Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !client.Configured() {
			http.Error(w, `{"error":"Vapi credentials not configured"}`, http.StatusBadRequest)
			return
		}
		calls, err := client.ListCalls(r.Context(), 50)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadGateway)
			return
		}
		if calls == nil {
			calls = []Call{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(calls)
	}
}

func handlePhoneNumbers(client *Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !client.Configured() {
			http.Error(w, `{"error":"Vapi credentials not configured"}`, http.StatusBadRequest)
			return
		}
		numbers, err := client.ListPhoneNumbers(r.Context())
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadGateway)
			return
		}
		if numbers == nil {
			numbers = []PhoneNumber{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(numbers)
	}
}
