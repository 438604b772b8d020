package calls

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campushq/voicedesk/internal/college"
	"github.com/campushq/voicedesk/internal/transcript"
	"github.com/campushq/voicedesk/internal/vapi"
)

const historyCap = 200

// historyEntry is a call in the merged admin history. Source is "db"
// for locally logged calls and "vapi" for platform-only records.
type historyEntry struct {
	Log
	Source string `json:"source"`
}

// RegisterPublicRoutes mounts the call logging endpoint used by the
// browser widget.
func RegisterPublicRoutes(r chi.Router, store *Store) {
	r.Post("/api/calls/log", handleLog(store))
}

// RegisterAdminRoutes mounts the call history and analytics endpoints.
func RegisterAdminRoutes(r chi.Router, store *Store, collegeStore *college.Store, client *vapi.Client) {
	r.Get("/api/calls/history", handleHistory(store, collegeStore, client))
	r.Get("/api/calls/analytics", handleAnalytics(store))
	r.Get("/api/calls/{id}/detail", handleDetail(store, client))
}

type logRequest struct {
	CallerNumber string               `json:"callerNumber"`
	Duration     int                  `json:"duration"`
	Transcript   []transcript.Message `json:"transcript"`
	Summary      string               `json:"summary"`
}

func handleLog(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req logRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.CallerNumber == "" {
			req.CallerNumber = "Web"
		}
		if req.Summary == "" && len(req.Transcript) > 0 {
			req.Summary = "Local AI session"
		}

		end := time.Now().UTC()
		l := &Log{
			CallID:       fmt.Sprintf("local-%d-%06d", end.UnixMilli(), rand.Intn(1000000)),
			CallerNumber: req.CallerNumber,
			CallType:     "Web",
			StartTime:    end.Add(-time.Duration(req.Duration) * time.Second),
			EndTime:      end,
			Duration:     req.Duration,
			Transcript:   req.Transcript,
			Summary:      req.Summary,
		}
		if err := store.Insert(r.Context(), l); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		log.Printf("call logged (web): %s %ds", l.CallID, l.Duration)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(l)
	}
}

func handleHistory(store *Store, collegeStore *college.Store, client *vapi.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := ListFilter{CallType: q.Get("callType"), From: q.Get("from"), To: q.Get("to")}

		logs, err := store.List(r.Context(), filter)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		history := make([]historyEntry, 0, len(logs))
		seen := make(map[string]bool, len(logs))
		for _, l := range logs {
			history = append(history, historyEntry{Log: l, Source: "db"})
			seen[l.CallID] = true
		}

		if q.Get("includeVapi") != "false" && client.Configured() {
			platformCalls, err := client.ListCalls(r.Context(), 100)
			if err != nil {
				log.Printf("call history: platform fetch failed: %v", err)
			}
			for _, v := range platformCalls {
				if v.ID == "" || seen[v.ID] {
					continue
				}
				history = append(history, normalizePlatformCall(v))
			}
		}

		sort.SliceStable(history, func(i, j int) bool {
			return history[i].StartTime.After(history[j].StartTime)
		})
		if len(history) > historyCap {
			history = history[:historyCap]
		}

		var transferred, successful, failed int
		for _, h := range history {
			switch h.Outcome {
			case "escalated":
				transferred++
			case "abandoned":
				failed++
			default:
				successful++
			}
		}

		var assistantPhone string
		if info, err := collegeStore.Get(r.Context()); err == nil && info != nil {
			assistantPhone = info.Contact.Phone
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"history": history,
			"stats": map[string]int{
				"all":         len(history),
				"transferred": transferred,
				"successful":  successful,
				"failed":      failed,
			},
			"assistantPhone": assistantPhone,
		})
	}
}

func normalizePlatformCall(v vapi.Call) historyEntry {
	started := v.StartedAt
	if started.IsZero() {
		started = v.CreatedAt
	}
	ended := v.EndedAt
	if ended.IsZero() {
		ended = time.Now().UTC()
	}
	duration := 0
	if !v.StartedAt.IsZero() && !v.EndedAt.IsZero() {
		duration = int(v.EndedAt.Sub(v.StartedAt).Round(time.Second).Seconds())
	}

	callType := "Web"
	caller := v.Customer.Number
	if strings.Contains(strings.ToLower(v.Type), "phone") ||
		strings.Contains(strings.ToLower(v.Type), "inbound") ||
		strings.Contains(strings.ToLower(v.Type), "outbound") {
		callType = "Inbound"
	}
	if caller == "" {
		caller = "Web"
	}

	outcome := "answered"
	if strings.Contains(v.EndedReason, "error") || strings.Contains(v.EndedReason, "failed") {
		outcome = "abandoned"
	}

	summary := ""
	if v.Analysis != nil {
		summary = v.Analysis.Summary
	}

	return historyEntry{
		Source: "vapi",
		Log: Log{
			ID:           "vapi-" + v.ID,
			CallID:       v.ID,
			CallerNumber: caller,
			CallType:     callType,
			EndedReason:  TitleReason(v.EndedReason),
			StartTime:    started,
			EndTime:      ended,
			Duration:     duration,
			Transcript:   []transcript.Message{},
			Summary:      summary,
			Outcome:      outcome,
		},
	}
}

// TitleReason turns a platform reason like "customer-ended-call" into
// display form. Empty reasons default to "Customer Ended Call".
func TitleReason(reason string) string {
	if reason == "" {
		return "Customer Ended Call"
	}
	words := strings.Split(strings.ReplaceAll(reason, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func handleAnalytics(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.Analytics(r.Context())
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if stats == nil {
			stats = []DailyStat{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats)
	}
}

func handleDetail(store *Store, client *vapi.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		l, err := store.GetByCallID(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		var entry *historyEntry
		var messages []transcript.Message
		if l != nil {
			entry = &historyEntry{Log: *l, Source: "db"}
			messages = l.Transcript
		}

		// The local log may lack a transcript; fill it from the platform.
		if len(messages) == 0 && client.Configured() {
			full, err := client.GetCall(r.Context(), id)
			if err != nil {
				log.Printf("call detail: platform fetch for %s failed: %v", id, err)
			} else {
				var n transcript.Normalized
				if full.Artifact != nil {
					n = transcript.Normalize("", full.Transcript, full.Artifact.Transcript, full.Artifact.Messages)
				} else {
					n = transcript.Normalize("", full.Transcript)
				}
				messages = n.Messages
				if entry == nil {
					e := normalizePlatformCall(*full)
					entry = &e
				}
			}
		}

		if entry == nil {
			http.Error(w, `{"error":"Call not found"}`, http.StatusNotFound)
			return
		}
		if messages == nil {
			messages = []transcript.Message{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"callId":       entry.CallID,
			"callerNumber": entry.CallerNumber,
			"callType":     entry.CallType,
			"endedReason":  entry.EndedReason,
			"startTime":    entry.StartTime,
			"endTime":      entry.EndTime,
			"duration":     entry.Duration,
			"summary":      entry.Summary,
			"source":       entry.Source,
			"messages":     messages,
		})
	}
}
