// Package ai answers text queries from the college profile with plain
// keyword matching. It backs the browser widget's offline mode; no
// model call is involved.
package ai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campushq/voicedesk/internal/college"
)

const fallbackResponse = "I'm not sure about that. Please contact our admissions desk or visit our campus for more details."

// RegisterRoutes mounts the public query endpoint.
func RegisterRoutes(r chi.Router, store *college.Store) {
	r.Post("/api/ai/query", handleQuery(store))
}

type queryRequest struct {
	Text string `json:"text"`
}

func handleQuery(store *college.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
			http.Error(w, `{"error":"Missing text query"}`, http.StatusBadRequest)
			return
		}

		info, err := store.Get(r.Context())
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		var response string
		if info == nil {
			response = "I don't have enough information about the college yet."
		} else {
			response = Answer(strings.ToLower(req.Text), info)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"response": response})
	}
}

// Answer matches the lowercased query against profile topics in
// priority order: courses, fees, facilities, admission, about,
// greeting, then the fallback.
func Answer(query string, info *college.Info) string {
	switch {
	case containsAny(query, "course", "program", "degree", "study"):
		var names []string
		for _, c := range info.Courses {
			if c.Duration != "" {
				names = append(names, fmt.Sprintf("%s (%s)", c.Name, c.Duration))
			} else {
				names = append(names, c.Name)
			}
		}
		if len(names) == 0 {
			return fallbackResponse
		}
		return fmt.Sprintf("We offer several programs including: %s. Which one would you like to know more about?", strings.Join(names, ", "))

	case containsAny(query, "fee", "cost", "price", "payment"):
		var fees []string
		for _, c := range info.Courses {
			if c.Fees != "" {
				fees = append(fees, c.Name+": "+c.Fees)
			}
		}
		if len(fees) == 0 {
			return fallbackResponse
		}
		return fmt.Sprintf("Our current fee structure is: %s. Financial aid is also available for meritorious students.", strings.Join(fees, ". "))

	case containsAny(query, "hostel", "room", "facility", "campus", "lab", "library"):
		var names []string
		for _, f := range info.Facilities {
			if f.Name != "" {
				names = append(names, f.Name)
			}
		}
		facilities := strings.Join(names, ", ")
		if facilities == "" {
			facilities = "digital labs, library, sports complex"
		}
		hostel := strings.TrimSpace(info.HostelDetails.Description)
		if info.HostelDetails.Fees != "" {
			hostel = strings.TrimSpace(hostel + " Fees: " + info.HostelDetails.Fees + ".")
		}
		answer := fmt.Sprintf("Our campus features: %s.", facilities)
		if hostel != "" {
			answer += " Hostel: " + hostel
		}
		return answer

	case containsAny(query, "admission", "apply", "join", "process", "contact"):
		email := info.Contact.Email
		if email == "" {
			email = "our admissions office"
		}
		phone := info.Contact.Phone
		if phone == "" {
			phone = "the number on our website"
		}
		answer := fmt.Sprintf("Admissions are open! You can reach us at %s or call %s.", email, phone)
		if info.Contact.Address != "" {
			answer += " Our address is: " + info.Contact.Address + "."
		}
		return answer

	case containsAny(query, "tell me about", "who are you", "college", "institute"):
		return strings.TrimSpace(info.About + " " + info.Tagline)

	case containsAny(query, "hi", "hello", "hey"):
		return fmt.Sprintf("Hello! I am your AI assistant for %s. How can I help you today with information about courses, fees, or admissions?", info.Name)

	default:
		return fallbackResponse
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
